package exec

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/artuross/sexpc/internal/compiler"
	"github.com/artuross/sexpc/internal/log/semconv"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

const (
	nameExpr  = "<expr>"
	nameStdin = "<stdin>"
)

type Config struct {
	Emit   compiler.Stage
	Expr   string
	Ext    string
	Jobs   int
	OutDir string
	Paths  []string
}

type Compiler interface {
	Dump(ctx context.Context, source string, stage compiler.Stage) (string, error)
}

// Unit is one compiled source.
type Unit struct {
	Name       string
	Source     string
	Output     string
	OutputPath string
}

type Summary struct {
	Units       []Unit
	InputBytes  int
	OutputBytes int
}

// Error is a failed unit. Source is kept so the caller can point at the offending character.
type Error struct {
	Name   string
	Source string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("compile %s: %v", e.Name, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Executor struct {
	fs       afero.Fs
	compiler Compiler
	stdin    io.Reader
	stdout   io.Writer
}

func NewExecutor(fs afero.Fs, compiler Compiler, stdin io.Reader, stdout io.Writer) *Executor {
	return &Executor{
		fs:       fs,
		compiler: compiler,
		stdin:    stdin,
		stdout:   stdout,
	}
}

func (e *Executor) Run(ctx context.Context, cfg Config) (*Summary, error) {
	units, err := e.readSources(cfg)
	if err != nil {
		return nil, err
	}

	jobs := cfg.Jobs
	if jobs < 1 {
		jobs = 1
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for index := range units {
		unit := &units[index]

		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			return e.compileUnit(ctx, unit, cfg)
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	summary := Summary{
		Units: units,
	}

	for _, unit := range units {
		summary.InputBytes += len(unit.Source)
		summary.OutputBytes += len(unit.Output)

		if unit.OutputPath != "" {
			continue
		}

		if _, err := fmt.Fprintln(e.stdout, unit.Output); err != nil {
			return nil, fmt.Errorf("write output: %w", err)
		}
	}

	return &summary, nil
}

func (e *Executor) compileUnit(ctx context.Context, unit *Unit, cfg Config) error {
	logger := zerolog.Ctx(ctx).With().Str(semconv.SourcePath, unit.Name).Logger()
	ctx = logger.WithContext(ctx)

	output, err := e.compiler.Dump(ctx, unit.Source, cfg.Emit)
	if err != nil {
		return &Error{
			Name:   unit.Name,
			Source: unit.Source,
			Err:    err,
		}
	}

	unit.Output = output

	if cfg.OutDir == "" {
		return nil
	}

	outputPath := OutputPath(cfg.OutDir, unit.Name, cfg.Ext)

	if err := e.fs.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if err := afero.WriteFile(e.fs, outputPath, []byte(output+"\n"), 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}

	unit.OutputPath = outputPath

	logger.Debug().Str(semconv.OutputPath, outputPath).Msg("output written")

	return nil
}

func (e *Executor) readSources(cfg Config) ([]Unit, error) {
	if cfg.Expr != "" {
		return []Unit{{Name: nameExpr, Source: cfg.Expr}}, nil
	}

	if len(cfg.Paths) == 0 {
		data, err := io.ReadAll(e.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}

		return []Unit{{Name: nameStdin, Source: string(data)}}, nil
	}

	units := make([]Unit, 0, len(cfg.Paths))
	for _, path := range cfg.Paths {
		data, err := afero.ReadFile(e.fs, path)
		if err != nil {
			return nil, fmt.Errorf("read source file: %w", err)
		}

		units = append(units, Unit{Name: path, Source: string(data)})
	}

	return units, nil
}

// OutputPath places the output for source in dir, replacing its extension with ext.
func OutputPath(dir, source, ext string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	return filepath.Join(dir, base+ext)
}
