// Package compiler runs the full pipeline: lexer, parser, transform and codegen.
package compiler

import (
	"context"
	"errors"
	"fmt"

	"github.com/artuross/sexpc/internal/compiler/ast"
	"github.com/artuross/sexpc/internal/compiler/codegen"
	"github.com/artuross/sexpc/internal/compiler/compileerr"
	"github.com/artuross/sexpc/internal/compiler/lexer"
	"github.com/artuross/sexpc/internal/compiler/parser"
	"github.com/artuross/sexpc/internal/compiler/target"
	"github.com/artuross/sexpc/internal/compiler/transform"
	"github.com/artuross/sexpc/internal/defaults"
	"github.com/artuross/sexpc/internal/log/semconv"
	"github.com/kr/pretty"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/artuross/sexpc/internal/compiler"
)

type Stage string

const (
	StageTokens Stage = "tokens"
	StageAST    Stage = "ast"
	StageTarget Stage = "target"
	StageCode   Stage = "code"
)

var ErrUnknownStage = errors.New("unknown stage")

// ParseStage validates a stage name.
func ParseStage(value string) (Stage, error) {
	switch stage := Stage(value); stage {
	case StageTokens, StageAST, StageTarget, StageCode:
		return stage, nil

	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownStage, value)
	}
}

// Compile translates source into C-like code. It is safe to call concurrently.
func Compile(source string) (string, error) {
	return New().Compile(context.Background(), source)
}

type Compiler struct {
	tracer trace.Tracer
}

func New(options ...func(*Compiler)) *Compiler {
	compiler := Compiler{
		tracer: defaults.TracerProvider.Tracer(tracerName),
	}

	for _, apply := range options {
		apply(&compiler)
	}

	return &compiler
}

func (c *Compiler) Compile(ctx context.Context, source string) (string, error) {
	output, err := c.Dump(ctx, source, StageCode)
	if err != nil {
		return "", err
	}

	return output, nil
}

// Dump runs the pipeline up to stage and renders that stage. StageCode renders generated code,
// earlier stages are pretty printed.
func (c *Compiler) Dump(ctx context.Context, source string, stage Stage) (string, error) {
	ctx, span := c.tracer.Start(ctx, "compile")
	defer span.End()

	if _, err := ParseStage(string(stage)); err != nil {
		return "", err
	}

	output, err := c.run(ctx, source, stage)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		zerolog.Ctx(ctx).Debug().
			Err(err).
			Str(semconv.ErrorKind, string(compileerr.KindOf(err))).
			Msg("compile failed")

		return "", err
	}

	return output, nil
}

func (c *Compiler) run(ctx context.Context, source string, stage Stage) (string, error) {
	tokens, err := c.tokenize(ctx, source)
	if err != nil {
		return "", err
	}

	if stage == StageTokens {
		return pretty.Sprint(tokens), nil
	}

	program, err := c.parse(ctx, tokens)
	if err != nil {
		return "", err
	}

	if stage == StageAST {
		return pretty.Sprint(program), nil
	}

	targetProgram, err := c.transform(ctx, program)
	if err != nil {
		return "", err
	}

	if stage == StageTarget {
		return pretty.Sprint(targetProgram), nil
	}

	return c.generate(ctx, targetProgram)
}

func (c *Compiler) tokenize(ctx context.Context, source string) ([]lexer.Token, error) {
	_, span := c.tracer.Start(ctx, "tokenize")
	defer span.End()

	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}

	span.SetAttributes(attribute.Int(semconv.TokenCount, len(tokens)))

	zerolog.Ctx(ctx).Debug().
		Str(semconv.Stage, "tokenize").
		Int(semconv.TokenCount, len(tokens)).
		Msg("stage done")

	return tokens, nil
}

func (c *Compiler) parse(ctx context.Context, tokens []lexer.Token) (*ast.Program, error) {
	_, span := c.tracer.Start(ctx, "parse")
	defer span.End()

	program, err := parser.ParseTokens(tokens)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	span.SetAttributes(attribute.Int(semconv.StatementCount, len(program.Body)))

	zerolog.Ctx(ctx).Debug().
		Str(semconv.Stage, "parse").
		Int(semconv.StatementCount, len(program.Body)).
		Msg("stage done")

	return program, nil
}

func (c *Compiler) transform(ctx context.Context, program *ast.Program) (*target.Program, error) {
	_, span := c.tracer.Start(ctx, "transform")
	defer span.End()

	targetProgram, err := transform.Transform(program)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str(semconv.Stage, "transform").
		Msg("stage done")

	return targetProgram, nil
}

func (c *Compiler) generate(ctx context.Context, program *target.Program) (string, error) {
	_, span := c.tracer.Start(ctx, "generate")
	defer span.End()

	output, err := codegen.Generate(program)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str(semconv.Stage, "generate").
		Int("bytes", len(output)).
		Msg("stage done")

	return output, nil
}

func WithTracerProvider(tp trace.TracerProvider) func(*Compiler) {
	return func(c *Compiler) {
		c.tracer = tp.Tracer(tracerName)
	}
}
