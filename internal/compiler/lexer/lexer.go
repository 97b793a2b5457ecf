package lexer

import (
	"errors"
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/artuross/sexpc/internal/compiler/compileerr"
)

type TokenType string

const (
	TokenTypeLeftParen  TokenType = "LEFT_PAREN"
	TokenTypeRightParen TokenType = "RIGHT_PAREN"
	TokenTypeNumber     TokenType = "NUMBER"
	TokenTypeString     TokenType = "STRING"
	TokenTypeName       TokenType = "NAME"
)

var errRuneInvalid = errors.New("decode rune: invalid rune")

type Token struct {
	Type  TokenType
	Value string

	// Offset is the byte offset of the first character of the token.
	Offset int
}

type Lexer struct {
	input    []byte
	position int
}

func NewLexer(input string) *Lexer {
	return &Lexer{
		input:    []byte(input),
		position: 0,
	}
}

// Tokenize reads all tokens from input.
func Tokenize(input string) ([]Token, error) {
	lex := NewLexer(input)

	tokens := make([]Token, 0)
	for {
		token, err := lex.ReadToken()
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, token)
	}
}

// ReadToken returns the next token, or io.EOF once the input is consumed.
func (l *Lexer) ReadToken() (Token, error) {
	for {
		r, _, err := l.peek()
		if err == io.EOF {
			return Token{}, io.EOF
		}
		if err != nil {
			return Token{}, err
		}

		switch {
		case r == '(':
			return l.readParen(TokenTypeLeftParen), nil

		case r == ')':
			return l.readParen(TokenTypeRightParen), nil

		case unicode.IsSpace(r):
			_, err := l.read()
			invariant(err != nil, "ReadToken: unexpected read() error when skipping whitespace")

		case isDigit(r):
			return l.readRun(TokenTypeNumber, isDigit), nil

		case r == '"':
			return l.readString()

		case isLetter(r):
			return l.readRun(TokenTypeName, isLetter), nil

		default:
			return Token{}, &compileerr.LexError{
				Char:   r,
				Offset: l.position,
			}
		}
	}
}

func (l *Lexer) readParen(tokenType TokenType) Token {
	startPos := l.position

	r, err := l.read()
	invariant(err != nil, "readParen: unexpected read() error when consuming first character")

	return Token{
		Type:   tokenType,
		Value:  string(r),
		Offset: startPos,
	}
}

// readRun consumes the maximal run of characters accepted by match.
func (l *Lexer) readRun(tokenType TokenType, match func(rune) bool) Token {
	startPos := l.position

	for {
		r, _, err := l.peek()
		if err != nil || !match(r) {
			break
		}

		_, err = l.read()
		invariant(err != nil, "readRun: unexpected read() error after peek()")
	}

	return Token{
		Type:   tokenType,
		Value:  string(l.input[startPos:l.position]),
		Offset: startPos,
	}
}

// readString consumes everything up to the next double quote. There are no escape sequences.
func (l *Lexer) readString() (Token, error) {
	startPos := l.position

	// discard the opening quote
	_, err := l.read()
	invariant(err != nil, "readString: unexpected read() error when consuming first character")

	valueStart := l.position

	for {
		r, _, err := l.peek()
		if err == io.EOF {
			return Token{}, &compileerr.LexError{
				Char:   '"',
				Offset: startPos,
				Reason: "unterminated string",
			}
		}
		if err != nil {
			return Token{}, err
		}

		if r == '"' {
			break
		}

		_, err = l.read()
		invariant(err != nil, "readString: unexpected read() error after peek()")
	}

	value := string(l.input[valueStart:l.position])

	// discard the closing quote
	_, err = l.read()
	invariant(err != nil, "readString: unexpected read() error when consuming closing quote")

	token := Token{
		Type:   TokenTypeString,
		Value:  value,
		Offset: startPos,
	}

	return token, nil
}

func (l *Lexer) peek() (rune, int, error) {
	if l.position >= len(l.input) {
		return 0, 0, io.EOF
	}

	r, size := utf8.DecodeRune(l.input[l.position:])
	if r == utf8.RuneError && size <= 1 {
		return 0, 0, &compileerr.LexError{
			Char:   utf8.RuneError,
			Offset: l.position,
			Reason: errRuneInvalid.Error(),
		}
	}

	return r, size, nil
}

func (l *Lexer) read() (rune, error) {
	r, size, err := l.peek()
	if err != nil {
		return 0, err
	}

	l.position += size

	return r, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func invariant(assertion bool, message string) {
	if assertion {
		panic(message)
	}
}
