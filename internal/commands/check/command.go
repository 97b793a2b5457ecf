package check

import (
	"errors"
	"fmt"
	"os"

	"github.com/artuross/sexpc/internal/commandinit"
	"github.com/artuross/sexpc/internal/compiler"
	"github.com/artuross/sexpc/internal/log/semconv"
	"github.com/artuross/sexpc/internal/ui"
	"github.com/spf13/afero"
	cli "github.com/urfave/cli/v2"
)

var ErrCommandFailed = errors.New("command failed")

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Compiles a source file and compares the result with an expected output file.",
		ArgsUsage: "<source> <expected>",
		Flags:     commandinit.Flags(),
		Action:    run,
	}
}

func run(cliCtx *cli.Context) error {
	ctx := cliCtx.Context

	if cliCtx.NArg() != 2 {
		return fmt.Errorf("invalid config: expected 2 arguments, got %d", cliCtx.NArg())
	}

	sourcePath := cliCtx.Args().Get(0)
	expectedPath := cliCtx.Args().Get(1)

	logger, err := commandinit.NewLogger(os.Stderr, "check", cliCtx.String(commandinit.FlagLogLevel))
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	tracerProvider, tpShutdown, err := commandinit.NewTracerProvider(ctx, cliCtx.Bool(commandinit.FlagOTEL))
	if err != nil {
		logger.Error().Err(err).Msg("init OTEL provider")
		return ErrCommandFailed
	}
	defer tpShutdown(ctx)

	ctx = logger.WithContext(ctx)

	checker := NewChecker(afero.NewOsFs(), compiler.New(compiler.WithTracerProvider(tracerProvider)))

	result, err := checker.Check(ctx, sourcePath, expectedPath)
	switch {
	case errors.Is(err, ErrMismatch):
		fmt.Fprintf(os.Stderr, "%s differs from %s:\n", sourcePath, expectedPath)
		fmt.Fprint(os.Stderr, result.Diff)
		return ErrCommandFailed

	case err != nil && result != nil:
		ui.PrintError(os.Stderr, sourcePath, result.Source, err)
		return ErrCommandFailed

	case err != nil:
		logger.Error().Err(err).Str(semconv.SourcePath, sourcePath).Msg("check")
		return ErrCommandFailed
	}

	ui.PrintSuccess(os.Stdout, "%s matches %s", sourcePath, expectedPath)

	return nil
}
