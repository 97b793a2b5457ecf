package remote

import (
	"errors"
	"fmt"
	"os"

	"github.com/artuross/sexpc/internal/commandinit"
	"github.com/artuross/sexpc/internal/commands/compile"
	"github.com/artuross/sexpc/internal/commands/compile/config"
	"github.com/artuross/sexpc/internal/commands/compile/exec"
	"github.com/artuross/sexpc/internal/commands/remote/client"
	"github.com/spf13/afero"
	cli "github.com/urfave/cli/v2"
)

var ErrCommandFailed = errors.New("command failed")

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "remote",
		Usage:     "Compiles sources on a running sexpc server.",
		ArgsUsage: "[files...]",
		Flags: append(
			compile.Flags(),
			&cli.StringFlag{
				Name:     "url",
				Usage:    "Websocket URL of the server, for example ws://localhost:8080.",
				EnvVars:  []string{"SEXPC_URL"},
				Required: true,
			},
		),
		Action: run,
	}
}

func run(cliCtx *cli.Context) error {
	ctx := cliCtx.Context

	cfg, err := config.Read(cliCtx, cliCtx.Args().Slice())
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := commandinit.NewLogger(os.Stderr, "remote", cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	config.Print(logger, cfg)

	ctx = logger.WithContext(ctx)

	conn, err := client.NewConnection(ctx, cliCtx.String("url"))
	if err != nil {
		logger.Error().Err(err).Msg("connect")
		return ErrCommandFailed
	}

	defer func() {
		if err := conn.Close(); err != nil {
			logger.Warn().Err(err).Msg("close connection")
		}
	}()

	executor := exec.NewExecutor(afero.NewOsFs(), conn, os.Stdin, os.Stdout)

	return compile.Execute(ctx, executor, cfg)
}
