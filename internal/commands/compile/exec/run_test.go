package exec_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/artuross/sexpc/internal/commands/compile/exec"
	"github.com/artuross/sexpc/internal/compiler"
	"github.com/artuross/sexpc/internal/compiler/compileerr"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}

	return fs
}

func TestExecutor_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("inline expression", func(t *testing.T) {
		stdout := bytes.Buffer{}
		executor := exec.NewExecutor(afero.NewMemMapFs(), compiler.New(), strings.NewReader(""), &stdout)

		summary, err := executor.Run(ctx, exec.Config{Emit: compiler.StageCode, Expr: "(add 2 (subtract 3 7))", Jobs: 1})
		require.NoError(t, err)

		assert.Equal(t, "add(2,subtract(3,7));\n", stdout.String())
		assert.Equal(t, 22, summary.InputBytes)
		assert.Equal(t, 21, summary.OutputBytes)
	})

	t.Run("stdin", func(t *testing.T) {
		stdout := bytes.Buffer{}
		executor := exec.NewExecutor(afero.NewMemMapFs(), compiler.New(), strings.NewReader("(add 1 2)\n(sub 3 4)\n"), &stdout)

		summary, err := executor.Run(ctx, exec.Config{Emit: compiler.StageCode, Jobs: 1})
		require.NoError(t, err)

		assert.Equal(t, "add(1,2);\nsub(3,4);\n", stdout.String())
		require.Len(t, summary.Units, 1)
		assert.Equal(t, "<stdin>", summary.Units[0].Name)
	})

	t.Run("files to stdout keep argument order", func(t *testing.T) {
		fs := newFs(t, map[string]string{
			"src/a.lisp": "(a 1)",
			"src/b.lisp": "(b 2)",
			"src/c.lisp": "(c 3)",
		})

		stdout := bytes.Buffer{}
		executor := exec.NewExecutor(fs, compiler.New(), nil, &stdout)

		_, err := executor.Run(ctx, exec.Config{
			Emit:  compiler.StageCode,
			Jobs:  3,
			Paths: []string{"src/c.lisp", "src/a.lisp", "src/b.lisp"},
		})
		require.NoError(t, err)

		assert.Equal(t, "c(3);\na(1);\nb(2);\n", stdout.String())
	})

	t.Run("files to out dir", func(t *testing.T) {
		fs := newFs(t, map[string]string{
			"src/math.lisp": `(add 1 (mul 2 3))`,
			"src/hello.sx":  `(greet "hi")`,
		})

		stdout := bytes.Buffer{}
		executor := exec.NewExecutor(fs, compiler.New(), nil, &stdout)

		summary, err := executor.Run(ctx, exec.Config{
			Emit:   compiler.StageCode,
			Ext:    ".c",
			Jobs:   2,
			OutDir: "build",
			Paths:  []string{"src/math.lisp", "src/hello.sx"},
		})
		require.NoError(t, err)

		assert.Empty(t, stdout.String())

		math, err := afero.ReadFile(fs, "build/math.c")
		require.NoError(t, err)
		assert.Equal(t, "add(1,mul(2,3));\n", string(math))

		hello, err := afero.ReadFile(fs, "build/hello.c")
		require.NoError(t, err)
		assert.Equal(t, "greet(\"hi\");\n", string(hello))

		assert.Equal(t, "build/math.c", summary.Units[0].OutputPath)
	})

	t.Run("emit tokens", func(t *testing.T) {
		stdout := bytes.Buffer{}
		executor := exec.NewExecutor(afero.NewMemMapFs(), compiler.New(), nil, &stdout)

		_, err := executor.Run(ctx, exec.Config{Emit: compiler.StageTokens, Expr: "(a)", Jobs: 1})
		require.NoError(t, err)

		assert.Contains(t, stdout.String(), "RIGHT_PAREN")
	})

	t.Run("compile error fails the run", func(t *testing.T) {
		fs := newFs(t, map[string]string{
			"ok.lisp":  "(a 1)",
			"bad.lisp": "(a $)",
		})

		stdout := bytes.Buffer{}
		executor := exec.NewExecutor(fs, compiler.New(), nil, &stdout)

		summary, err := executor.Run(ctx, exec.Config{
			Emit:  compiler.StageCode,
			Jobs:  1,
			Paths: []string{"ok.lisp", "bad.lisp"},
		})
		require.Error(t, err)
		assert.Nil(t, summary)
		assert.Empty(t, stdout.String(), "no partial output")

		var unitErr *exec.Error
		require.True(t, errors.As(err, &unitErr))
		assert.Equal(t, "bad.lisp", unitErr.Name)
		assert.Equal(t, "(a $)", unitErr.Source)
		assert.ErrorIs(t, err, compileerr.ErrLex)
	})

	t.Run("missing file", func(t *testing.T) {
		executor := exec.NewExecutor(afero.NewMemMapFs(), compiler.New(), nil, &bytes.Buffer{})

		_, err := executor.Run(ctx, exec.Config{Emit: compiler.StageCode, Jobs: 1, Paths: []string{"nope.lisp"}})
		assert.Error(t, err)
	})
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "out/main.c", exec.OutputPath("out", "src/main.lisp", ".c"))
	assert.Equal(t, "out/noext.c", exec.OutputPath("out", "noext", ".c"))
	assert.Equal(t, "out/a.b.h", exec.OutputPath("out", "x/a.b.lisp", ".h"))
}
