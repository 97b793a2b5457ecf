package compile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/artuross/sexpc/internal/commandinit"
	"github.com/artuross/sexpc/internal/commands/compile/config"
	"github.com/artuross/sexpc/internal/commands/compile/exec"
	"github.com/artuross/sexpc/internal/compiler"
	"github.com/artuross/sexpc/internal/ui"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	cli "github.com/urfave/cli/v2"
)

var ErrCommandFailed = errors.New("command failed")

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "Compiles s-expression sources to C-like code.",
		ArgsUsage: "[files...]",
		Flags:     Flags(),
		Action:    run,
	}
}

// Flags are the source and output flags, shared with commands that compile elsewhere.
func Flags() []cli.Flag {
	return append(
		commandinit.Flags(),
		&cli.StringFlag{
			Name:    "expr",
			Aliases: []string{"e"},
			Usage:   "Compile this source instead of files or stdin.",
		},
		&cli.StringFlag{
			Name:  "out-dir",
			Usage: "Write one output file per source into this directory instead of stdout.",
		},
		&cli.StringFlag{
			Name:  "ext",
			Usage: "Extension of files written to --out-dir.",
			Value: ".c",
		},
		&cli.IntFlag{
			Name:  "jobs",
			Usage: "Number of files compiled in parallel.",
			Value: runtime.NumCPU(),
		},
		&cli.StringFlag{
			Name:  "emit",
			Usage: "Stage to print: tokens, ast, target or code.",
			Value: string(compiler.StageCode),
		},
	)
}

func run(cliCtx *cli.Context) error {
	ctx := cliCtx.Context

	cfg, err := config.Read(cliCtx, cliCtx.Args().Slice())
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := commandinit.NewLogger(os.Stderr, "compile", cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	config.Print(logger, cfg)

	tracerProvider, tpShutdown, err := commandinit.NewTracerProvider(ctx, cfg.OTEL)
	if err != nil {
		logger.Error().Err(err).Msg("init OTEL provider")
		return ErrCommandFailed
	}
	defer tpShutdown(ctx)

	ctx = logger.WithContext(ctx)

	executor := exec.NewExecutor(
		afero.NewOsFs(),
		compiler.New(compiler.WithTracerProvider(tracerProvider)),
		os.Stdin,
		os.Stdout,
	)

	return Execute(ctx, executor, cfg)
}

// Execute runs executor with cfg and reports the outcome on stderr and the context logger.
func Execute(ctx context.Context, executor *exec.Executor, cfg *config.Config) error {
	logger := zerolog.Ctx(ctx)

	execConfig := exec.Config{
		Emit:   cfg.Emit,
		Expr:   cfg.Expr,
		Ext:    cfg.Ext,
		Jobs:   cfg.Jobs,
		OutDir: cfg.OutDir,
		Paths:  cfg.Paths,
	}

	summary, err := executor.Run(ctx, execConfig)

	var unitErr *exec.Error
	if errors.As(err, &unitErr) {
		ui.PrintError(os.Stderr, unitErr.Name, unitErr.Source, unitErr.Err)
		return ErrCommandFailed
	}
	if err != nil {
		logger.Error().Err(err).Msg("run command")
		return ErrCommandFailed
	}

	logger.Info().
		Int("units", len(summary.Units)).
		Str("input", humanize.Bytes(uint64(summary.InputBytes))).
		Str("output", humanize.Bytes(uint64(summary.OutputBytes))).
		Msg("compiled")

	return nil
}
