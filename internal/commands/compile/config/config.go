package config

import (
	"fmt"
	"strings"

	"github.com/artuross/sexpc/internal/commandinit"
	"github.com/artuross/sexpc/internal/compiler"
	"github.com/rs/zerolog"
)

type Flagger interface {
	String(name string) string
	Int(name string) int
	Bool(name string) bool
}

type Config struct {
	Emit     compiler.Stage
	Expr     string
	Ext      string
	Jobs     int
	LogLevel string
	OTEL     bool
	OutDir   string
	Paths    []string
}

func Read(flags Flagger, args []string) (*Config, error) {
	expr := flags.String("expr")
	if expr != "" && len(args) > 0 {
		return nil, fmt.Errorf("flag --expr cannot be combined with file arguments")
	}

	emit, err := compiler.ParseStage(flags.String("emit"))
	if err != nil {
		return nil, fmt.Errorf("flag --emit: %w", err)
	}

	jobs := flags.Int("jobs")
	if jobs < 1 {
		return nil, fmt.Errorf("flag --jobs must be at least 1")
	}

	outDir := flags.String("out-dir")
	if outDir != "" && len(args) == 0 {
		return nil, fmt.Errorf("flag --out-dir requires file arguments")
	}

	ext := flags.String("ext")
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	cfg := Config{
		Emit:     emit,
		Expr:     expr,
		Ext:      ext,
		Jobs:     jobs,
		LogLevel: flags.String(commandinit.FlagLogLevel),
		OTEL:     flags.Bool(commandinit.FlagOTEL),
		OutDir:   outDir,
		Paths:    args,
	}

	return &cfg, nil
}

func Print(logger zerolog.Logger, cfg *Config) {
	logger.Debug().
		Str("emit", string(cfg.Emit)).
		Str("ext", cfg.Ext).
		Int("jobs", cfg.Jobs).
		Str("out_dir", cfg.OutDir).
		Strs("paths", cfg.Paths).
		Bool("inline", cfg.Expr != "").
		Msg("running with config")
}
