package check

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/artuross/sexpc/internal/ui"
	"github.com/spf13/afero"
)

var ErrMismatch = errors.New("generated code does not match expected output")

type Compiler interface {
	Compile(ctx context.Context, source string) (string, error)
}

type Result struct {
	Source string
	Output string
	Diff   string
}

type Checker struct {
	fs       afero.Fs
	compiler Compiler
}

func NewChecker(fs afero.Fs, compiler Compiler) *Checker {
	return &Checker{
		fs:       fs,
		compiler: compiler,
	}
}

// Check compiles sourcePath and compares the result with the contents of expectedPath.
// Trailing newlines are ignored. A mismatch returns ErrMismatch along with the diff.
func (c *Checker) Check(ctx context.Context, sourcePath, expectedPath string) (*Result, error) {
	source, err := afero.ReadFile(c.fs, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("read source file: %w", err)
	}

	expected, err := afero.ReadFile(c.fs, expectedPath)
	if err != nil {
		return nil, fmt.Errorf("read expected file: %w", err)
	}

	result := Result{
		Source: string(source),
	}

	output, err := c.compiler.Compile(ctx, result.Source)
	if err != nil {
		return &result, err
	}

	result.Output = output

	diff, changed := ui.Diff(trimNewlines(string(expected)), trimNewlines(output))
	if changed {
		result.Diff = diff

		return &result, ErrMismatch
	}

	return &result, nil
}

func trimNewlines(value string) string {
	return strings.TrimRight(value, "\r\n")
}
