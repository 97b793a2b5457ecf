// Package compileerr holds the errors returned by the compiler stages.
//
// Every stage fails fast with one of three typed errors. Callers can switch on the
// concrete type with errors.As, or test the stage with errors.Is against ErrLex,
// ErrParse and ErrGen.
package compileerr

import (
	"errors"
	"fmt"
	"strconv"
)

type Kind string

const (
	KindLex   Kind = "lex"
	KindParse Kind = "parse"
	KindGen   Kind = "gen"
)

var (
	ErrLex   = errors.New("lex error")
	ErrParse = errors.New("parse error")
	ErrGen   = errors.New("gen error")
)

var (
	_ error = (*LexError)(nil)
	_ error = (*ParseError)(nil)
	_ error = (*GenError)(nil)
)

// LexError is returned when a character matches none of the token classes.
type LexError struct {
	Char   rune
	Offset int
	Reason string
}

func (e *LexError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "unexpected character"
	}

	return fmt.Sprintf("%s: %s %s at offset %d", ErrLex, reason, strconv.QuoteRune(e.Char), e.Offset)
}

func (e *LexError) Kind() Kind { return KindLex }

func (e *LexError) Is(target error) bool { return target == ErrLex }

// ParseError is returned when a token is not valid at the current grammar position.
// Offset is -1 when the token stream ended early.
type ParseError struct {
	Token    string
	Offset   int
	Expected string
}

func (e *ParseError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("%s: expected %s, got end of input", ErrParse, e.Expected)
	}

	return fmt.Sprintf("%s: expected %s, got %s at offset %d", ErrParse, e.Expected, e.Token, e.Offset)
}

func (e *ParseError) Kind() Kind { return KindParse }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// AtEOF reports whether the parser ran out of tokens.
func (e *ParseError) AtEOF() bool {
	return e.Offset < 0
}

// GenError is returned when a tree walk meets a node kind it does not know.
type GenError struct {
	Node string
}

func NewGenError(node any) *GenError {
	return &GenError{
		Node: fmt.Sprintf("%T", node),
	}
}

func (e *GenError) Error() string {
	return fmt.Sprintf("%s: unsupported node type: %s", ErrGen, e.Node)
}

func (e *GenError) Kind() Kind { return KindGen }

func (e *GenError) Is(target error) bool { return target == ErrGen }

// KindOf returns the stage that produced err, or an empty Kind.
func KindOf(err error) Kind {
	var kinded interface{ Kind() Kind }
	if errors.As(err, &kinded) {
		return kinded.Kind()
	}

	return ""
}
