// Package ui renders diagnostics for the terminal.
package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/artuross/sexpc/internal/compiler/compileerr"
	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	errorLabel   = color.New(color.FgRed, color.Bold)
	successLabel = color.New(color.FgGreen, color.Bold)
	sourceStyle  = color.New(color.Faint)
	markerStyle  = color.New(color.FgRed)
	insertStyle  = color.New(color.FgGreen)
	deleteStyle  = color.New(color.FgRed, color.CrossedOut)
)

// PrintError writes err to w. When source is known and err points at an offset in it,
// the offending line is shown with a marker under the column.
func PrintError(w io.Writer, name string, source string, err error) {
	label := "error"
	if kind := compileerr.KindOf(err); kind != "" {
		label = string(kind) + " error"
	}

	if name != "" {
		fmt.Fprintf(w, "%s %s: %v\n", errorLabel.Sprint(label+":"), name, err)
	} else {
		fmt.Fprintf(w, "%s %v\n", errorLabel.Sprint(label+":"), err)
	}

	offset, ok := errorOffset(err)
	if !ok || offset > len(source) {
		return
	}

	lineStart := strings.LastIndexByte(source[:offset], '\n') + 1

	lineEnd := strings.IndexByte(source[offset:], '\n')
	if lineEnd < 0 {
		lineEnd = len(source)
	} else {
		lineEnd += offset
	}

	fmt.Fprintf(w, "  %s\n", sourceStyle.Sprint(source[lineStart:lineEnd]))
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", offset-lineStart), markerStyle.Sprint("^"))
}

func PrintSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", successLabel.Sprint("ok:"), fmt.Sprintf(format, args...))
}

// Diff returns a line oriented, colored diff turning expected into actual and reports whether
// they differ.
func Diff(expected, actual string) (string, bool) {
	if expected == actual {
		return "", false
	}

	dmp := diffmatchpatch.New()

	expectedChars, actualChars, lines := dmp.DiffLinesToChars(expected, actual)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(expectedChars, actualChars, false), lines)

	builder := strings.Builder{}
	for _, diff := range diffs {
		for _, line := range splitLines(diff.Text) {
			switch diff.Type {
			case diffmatchpatch.DiffInsert:
				builder.WriteString(insertStyle.Sprint("+ " + line))
			case diffmatchpatch.DiffDelete:
				builder.WriteString(deleteStyle.Sprint("- " + line))
			case diffmatchpatch.DiffEqual:
				builder.WriteString("  " + line)
			}

			builder.WriteString("\n")
		}
	}

	return builder.String(), true
}

func splitLines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

func errorOffset(err error) (int, bool) {
	var lexErr *compileerr.LexError
	if errors.As(err, &lexErr) {
		return lexErr.Offset, true
	}

	var parseErr *compileerr.ParseError
	if errors.As(err, &parseErr) && !parseErr.AtEOF() {
		return parseErr.Offset, true
	}

	return 0, false
}
