package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/artuross/sexpc/internal/commandinit"
	"github.com/artuross/sexpc/internal/commands/watch/watcher"
	"github.com/artuross/sexpc/internal/compiler"
	"github.com/artuross/sexpc/internal/log/semconv"
	"github.com/artuross/sexpc/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	cli "github.com/urfave/cli/v2"
)

var ErrCommandFailed = errors.New("command failed")

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Recompiles a source file every time it changes.",
		ArgsUsage: "<source>",
		Flags: append(
			commandinit.Flags(),
			&cli.StringFlag{
				Name:  "out",
				Usage: "Write generated code to this file instead of stdout.",
			},
		),
		Action: run,
	}
}

func run(cliCtx *cli.Context) error {
	ctx := cliCtx.Context

	if cliCtx.NArg() != 1 {
		return fmt.Errorf("invalid config: expected 1 argument, got %d", cliCtx.NArg())
	}

	sourcePath := cliCtx.Args().First()
	outPath := cliCtx.String("out")

	logger, err := commandinit.NewLogger(os.Stderr, "watch", cliCtx.String(commandinit.FlagLogLevel))
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	tracerProvider, tpShutdown, err := commandinit.NewTracerProvider(ctx, cliCtx.Bool(commandinit.FlagOTEL))
	if err != nil {
		logger.Error().Err(err).Msg("init OTEL provider")
		return ErrCommandFailed
	}
	defer tpShutdown(ctx)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logger.WithContext(ctx)

	rebuild := Rebuilder{
		FS:         afero.NewOsFs(),
		Compiler:   compiler.New(compiler.WithTracerProvider(tracerProvider)),
		SourcePath: sourcePath,
		OutPath:    outPath,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}

	logger.Info().Str(semconv.SourcePath, sourcePath).Msg("watching")

	if err := watcher.New(sourcePath, rebuild.Run).Run(ctx); err != nil {
		logger.Error().Err(err).Msg("run watcher")
		return ErrCommandFailed
	}

	logger.Info().Msg("received cancel signal")

	return nil
}

type Compiler interface {
	Compile(ctx context.Context, source string) (string, error)
}

// Rebuilder compiles one file and writes the result. Compile errors are reported, not returned,
// so the watcher keeps going until the source is fixed.
type Rebuilder struct {
	FS         afero.Fs
	Compiler   Compiler
	SourcePath string
	OutPath    string
	Stdout     io.Writer
	Stderr     io.Writer
}

func (r *Rebuilder) Run(ctx context.Context) error {
	source, err := afero.ReadFile(r.FS, r.SourcePath)
	if err != nil {
		return fmt.Errorf("read source file: %w", err)
	}

	output, err := r.Compiler.Compile(ctx, string(source))
	if err != nil {
		ui.PrintError(r.Stderr, r.SourcePath, string(source), err)
		return nil
	}

	if r.OutPath == "" {
		if _, err := fmt.Fprintln(r.Stdout, output); err != nil {
			return fmt.Errorf("write output: %w", err)
		}

		return nil
	}

	if err := afero.WriteFile(r.FS, r.OutPath, []byte(output+"\n"), 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str(semconv.OutputPath, r.OutPath).Msg("rebuilt")

	return nil
}
