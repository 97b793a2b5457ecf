package commandinit

import (
	cli "github.com/urfave/cli/v2"
)

const (
	FlagLogLevel = "log-level"
	FlagOTEL     = "otel"
)

// Flags are shared by all commands.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    FlagLogLevel,
			Usage:   "Log level: trace, debug, info, warn, error.",
			Value:   "info",
			EnvVars: []string{"SEXPC_LOG_LEVEL"},
		},
		&cli.BoolFlag{
			Name:    FlagOTEL,
			Usage:   "Export traces over OTLP gRPC (configured with the standard OTEL_EXPORTER_OTLP_* variables).",
			EnvVars: []string{"SEXPC_OTEL"},
		},
	}
}
