package compiler_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/artuross/sexpc/internal/compiler"
	"github.com/artuross/sexpc/internal/compiler/compileerr"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"golang.org/x/sync/errgroup"
)

func TestCompile(t *testing.T) {
	type testCase struct {
		input  string
		output string
	}

	testCases := []testCase{
		{input: "(add 2 (subtract 3 7))", output: "add(2,subtract(3,7));"},
		{input: "(count 9 (add 2 6))", output: "count(9,add(2,6));"},
		{input: "(sub 3 (mul 8 1))", output: "sub(3,mul(8,1));"},
		{input: `(greet "hi")`, output: `greet("hi");`},
		{input: "(add 1 2)(sub 3 4)", output: "add(1,2);\nsub(3,4);"},
		{input: "", output: ""},
		{input: "(now)", output: "now();"},
		{input: "\n  (a\n\t(b (c 1)) \"x y\"  )\n", output: `a(b(c(1)),"x y");`},
		{input: "(pad 007)", output: "pad(007);"},
	}

	for index, tc := range testCases {
		t.Run(fmt.Sprintf("test %02d", index), func(t *testing.T) {
			t.Logf("expression: %v", tc.input)

			output, err := compiler.Compile(tc.input)
			require.NoError(t, err)

			assert.Equal(t, tc.output, output)
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	type testCase struct {
		input string
		kind  compileerr.Kind
		err   error
	}

	testCases := []testCase{
		{input: "(add 1 $)", kind: compileerr.KindLex, err: compileerr.ErrLex},
		{input: `(greet "hi)`, kind: compileerr.KindLex, err: compileerr.ErrLex},
		{input: "(add 1", kind: compileerr.KindParse, err: compileerr.ErrParse},
		{input: "()", kind: compileerr.KindParse, err: compileerr.ErrParse},
		{input: ")", kind: compileerr.KindParse, err: compileerr.ErrParse},
		{input: "(1 2)", kind: compileerr.KindParse, err: compileerr.ErrParse},
		{input: "add", kind: compileerr.KindParse, err: compileerr.ErrParse},
		{input: "(add 1))", kind: compileerr.KindParse, err: compileerr.ErrParse},
	}

	for index, tc := range testCases {
		t.Run(fmt.Sprintf("test %02d", index), func(t *testing.T) {
			t.Logf("expression: %v", tc.input)

			output, err := compiler.Compile(tc.input)
			require.Error(t, err)
			assert.Empty(t, output)

			assert.ErrorIs(t, err, tc.err)
			assert.Equal(t, tc.kind, compileerr.KindOf(err))
		})
	}

	t.Run("lex error carries character and offset", func(t *testing.T) {
		_, err := compiler.Compile("(add 1 $)")

		var lexErr *compileerr.LexError
		require.True(t, errors.As(err, &lexErr))

		assert.Equal(t, '$', lexErr.Char)
		assert.Equal(t, 7, lexErr.Offset)
	})
}

func TestCompile_Properties(t *testing.T) {
	type testCase struct {
		input      string
		statements []string
	}

	testCases := []testCase{
		{
			input:      "(a 1 (b 2 (c 3 (d 4))))",
			statements: []string{"a"},
		},
		{
			input:      `(x "1" 2) (y) (z (w "q"))`,
			statements: []string{"x", "y", "z"},
		},
		{
			input:      "(f (g) (h) (i (j)))(k)",
			statements: []string{"f", "k"},
		},
	}

	for _, tc := range testCases {
		output, err := compiler.Compile(tc.input)
		require.NoError(t, err)

		assert.Equal(t, strings.Count(output, "("), strings.Count(output, ")"), "balanced parens: %s", output)

		lines := strings.Split(output, "\n")
		require.Equal(t, len(tc.statements), len(lines), "one statement per top level expression: %s", output)

		for index, line := range lines {
			assert.True(t, strings.HasPrefix(line, tc.statements[index]+"("), "statement order: %s", line)
			assert.True(t, strings.HasSuffix(line, ");"), "statement terminated: %s", line)
			assert.Equal(t, 1, strings.Count(line, ";"), "nested calls have no semicolon: %s", line)
		}
	}
}

func TestCompiler_Dump(t *testing.T) {
	c := compiler.New()
	ctx := context.Background()

	tokens, err := c.Dump(ctx, "(add 1)", compiler.StageTokens)
	require.NoError(t, err)
	assert.Contains(t, tokens, "LEFT_PAREN")
	assert.Contains(t, tokens, `"add"`)

	program, err := c.Dump(ctx, "(add 1)", compiler.StageAST)
	require.NoError(t, err)
	assert.Contains(t, program, "ast.CallExpression")

	targetProgram, err := c.Dump(ctx, "(add 1)", compiler.StageTarget)
	require.NoError(t, err)
	assert.Contains(t, targetProgram, "target.ExpressionStatement")

	code, err := c.Dump(ctx, "(add 1)", compiler.StageCode)
	require.NoError(t, err)
	assert.Equal(t, "add(1);", code)

	_, err = c.Dump(ctx, "(add 1)", compiler.Stage("bytecode"))
	assert.ErrorIs(t, err, compiler.ErrUnknownStage)
}

func TestParseStage(t *testing.T) {
	stage, err := compiler.ParseStage("ast")
	require.NoError(t, err)
	assert.Equal(t, compiler.StageAST, stage)

	_, err = compiler.ParseStage("")
	assert.ErrorIs(t, err, compiler.ErrUnknownStage)
}

func TestCompiler_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	c := compiler.New(compiler.WithTracerProvider(tp))

	_, err := c.Compile(context.Background(), "(add 1 2)")
	require.NoError(t, err)

	names := make([]string, 0)
	for _, span := range recorder.Ended() {
		names = append(names, span.Name())
	}

	assert.ElementsMatch(t, []string{"tokenize", "parse", "transform", "generate", "compile"}, names)
}

func TestCompiler_LogsFailure(t *testing.T) {
	buf := bytes.Buffer{}
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	ctx := logger.WithContext(context.Background())

	_, err := compiler.New().Compile(ctx, "(add 1")
	require.Error(t, err)

	assert.Contains(t, buf.String(), `"error_kind":"parse"`)
	assert.Contains(t, buf.String(), `"stage":"tokenize"`)
}

func TestCompile_Concurrent(t *testing.T) {
	group := errgroup.Group{}

	for i := 0; i < 32; i++ {
		group.Go(func() error {
			input := fmt.Sprintf("(add %d (mul %d %d))", i, i, i+1)
			expected := fmt.Sprintf("add(%d,mul(%d,%d));", i, i, i+1)

			output, err := compiler.Compile(input)
			if err != nil {
				return err
			}

			if output != expected {
				return fmt.Errorf("got %q, want %q", output, expected)
			}

			return nil
		})
	}

	require.NoError(t, group.Wait())
}
