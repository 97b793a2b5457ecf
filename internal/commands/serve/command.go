package serve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/artuross/sexpc/internal/commandinit"
	"github.com/artuross/sexpc/internal/commands/serve/server"
	"github.com/artuross/sexpc/internal/compiler"
	cli "github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var ErrCommandFailed = errors.New("command failed")

const shutdownTimeout = 5 * time.Second

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serves the compiler over websockets. Every text message is compiled as one program.",
		Flags: append(
			commandinit.Flags(),
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "Address to listen on.",
				Value:   ":8080",
				EnvVars: []string{"SEXPC_ADDR"},
			},
		),
		Action: run,
	}
}

func run(cliCtx *cli.Context) error {
	ctx := cliCtx.Context
	addr := cliCtx.String("addr")

	logger, err := commandinit.NewLogger(os.Stderr, "serve", cliCtx.String(commandinit.FlagLogLevel))
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

	handler := server.New(
		compiler.New(compiler.WithTracerProvider(tracerProvider)),
		server.WithLogger(logger),
		server.WithTracerProvider(tracerProvider),
	)

	httpServer := http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info().Str("addr", addr).Msg("listening")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}

		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Error().Err(err).Msg("run server")
		return ErrCommandFailed
	}

	logger.Info().Msg("received cancel signal")

	return nil
}
