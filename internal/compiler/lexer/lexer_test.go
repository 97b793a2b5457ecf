package lexer_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/artuross/sexpc/internal/compiler/compileerr"
	"github.com/artuross/sexpc/internal/compiler/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer(t *testing.T) {
	t.Run("single tokens", func(t *testing.T) {
		type testCase struct {
			name  string
			input string
			token lexer.Token
		}

		testCases := []testCase{
			{
				name:  "left paren",
				input: "(",
				token: lexer.Token{Type: lexer.TokenTypeLeftParen, Value: "(", Offset: 0},
			},
			{
				name:  "right paren",
				input: ")",
				token: lexer.Token{Type: lexer.TokenTypeRightParen, Value: ")", Offset: 0},
			},
			{
				name:  "number",
				input: "1234",
				token: lexer.Token{Type: lexer.TokenTypeNumber, Value: "1234", Offset: 0},
			},
			{
				name:  "number / leading zeros kept",
				input: "007",
				token: lexer.Token{Type: lexer.TokenTypeNumber, Value: "007", Offset: 0},
			},
			{
				name:  "string",
				input: `"hello world"`,
				token: lexer.Token{Type: lexer.TokenTypeString, Value: "hello world", Offset: 0},
			},
			{
				name:  "string / empty",
				input: `""`,
				token: lexer.Token{Type: lexer.TokenTypeString, Value: "", Offset: 0},
			},
			{
				name:  "string / body verbatim",
				input: `"a\n(b) $"`,
				token: lexer.Token{Type: lexer.TokenTypeString, Value: `a\n(b) $`, Offset: 0},
			},
			{
				name:  "name",
				input: "subtract",
				token: lexer.Token{Type: lexer.TokenTypeName, Value: "subtract", Offset: 0},
			},
			{
				name:  "name / surrounded by whitespace",
				input: " \t\nadd\r\n",
				token: lexer.Token{Type: lexer.TokenTypeName, Value: "add", Offset: 3},
			},
		}

		for index, tc := range testCases {
			t.Run(fmt.Sprintf("%d - %s", index, tc.name), func(t *testing.T) {
				tokens, err := lexer.Tokenize(tc.input)
				require.NoError(t, err)

				require.Equal(t, 1, len(tokens), "incorrect number of tokens")

				assert.Equal(t, tc.token, tokens[0])
			})
		}
	})

	t.Run("sequences", func(t *testing.T) {
		type testCase struct {
			name   string
			input  string
			tokens []lexer.Token
		}

		testCases := []testCase{
			{
				name:   "empty",
				input:  "",
				tokens: []lexer.Token{},
			},
			{
				name:   "whitespace only",
				input:  " \t \n ",
				tokens: []lexer.Token{},
			},
			{
				name:  "nested call",
				input: "(add 2 (subtract 3 7))",
				tokens: []lexer.Token{
					{Type: lexer.TokenTypeLeftParen, Value: "(", Offset: 0},
					{Type: lexer.TokenTypeName, Value: "add", Offset: 1},
					{Type: lexer.TokenTypeNumber, Value: "2", Offset: 5},
					{Type: lexer.TokenTypeLeftParen, Value: "(", Offset: 7},
					{Type: lexer.TokenTypeName, Value: "subtract", Offset: 8},
					{Type: lexer.TokenTypeNumber, Value: "3", Offset: 17},
					{Type: lexer.TokenTypeNumber, Value: "7", Offset: 19},
					{Type: lexer.TokenTypeRightParen, Value: ")", Offset: 20},
					{Type: lexer.TokenTypeRightParen, Value: ")", Offset: 21},
				},
			},
			{
				name:  "digits then letters split",
				input: "12ab",
				tokens: []lexer.Token{
					{Type: lexer.TokenTypeNumber, Value: "12", Offset: 0},
					{Type: lexer.TokenTypeName, Value: "ab", Offset: 2},
				},
			},
			{
				name:  "letters then digits split",
				input: "ab12",
				tokens: []lexer.Token{
					{Type: lexer.TokenTypeName, Value: "ab", Offset: 0},
					{Type: lexer.TokenTypeNumber, Value: "12", Offset: 2},
				},
			},
			{
				name:  "string",
				input: `(greet "hi")`,
				tokens: []lexer.Token{
					{Type: lexer.TokenTypeLeftParen, Value: "(", Offset: 0},
					{Type: lexer.TokenTypeName, Value: "greet", Offset: 1},
					{Type: lexer.TokenTypeString, Value: "hi", Offset: 7},
					{Type: lexer.TokenTypeRightParen, Value: ")", Offset: 11},
				},
			},
			{
				name:  "unicode whitespace",
				input: "(a\u00a0 \u20031)",
				tokens: []lexer.Token{
					{Type: lexer.TokenTypeLeftParen, Value: "(", Offset: 0},
					{Type: lexer.TokenTypeName, Value: "a", Offset: 1},
					{Type: lexer.TokenTypeNumber, Value: "1", Offset: 8},
					{Type: lexer.TokenTypeRightParen, Value: ")", Offset: 9},
				},
			},
		}

		for index, tc := range testCases {
			t.Run(fmt.Sprintf("%d - %s", index, tc.name), func(t *testing.T) {
				t.Logf("expression: %v", tc.input)

				tokens, err := lexer.Tokenize(tc.input)
				require.NoError(t, err)

				assert.Equal(t, tc.tokens, tokens)
			})
		}
	})

	t.Run("errors", func(t *testing.T) {
		type testCase struct {
			name  string
			input string
			err   *compileerr.LexError
		}

		testCases := []testCase{
			{
				name:  "dollar",
				input: "(add 1 $)",
				err:   &compileerr.LexError{Char: '$', Offset: 7},
			},
			{
				name:  "underscore",
				input: "foo_bar",
				err:   &compileerr.LexError{Char: '_', Offset: 3},
			},
			{
				name:  "non ascii letter",
				input: "(é)",
				err:   &compileerr.LexError{Char: 'é', Offset: 1},
			},
			{
				name:  "unterminated string",
				input: `(greet "hi)`,
				err:   &compileerr.LexError{Char: '"', Offset: 7, Reason: "unterminated string"},
			},
		}

		for index, tc := range testCases {
			t.Run(fmt.Sprintf("%d - %s", index, tc.name), func(t *testing.T) {
				tokens, err := lexer.Tokenize(tc.input)
				require.Error(t, err)
				assert.Nil(t, tokens)

				var lexErr *compileerr.LexError
				require.True(t, errors.As(err, &lexErr))

				assert.Equal(t, tc.err, lexErr)
				assert.ErrorIs(t, err, compileerr.ErrLex)
			})
		}
	})

	t.Run("invalid utf8", func(t *testing.T) {
		_, err := lexer.Tokenize("(a \xff)")

		var lexErr *compileerr.LexError
		require.True(t, errors.As(err, &lexErr))

		assert.Equal(t, 3, lexErr.Offset)
	})

	t.Run("read token returns EOF", func(t *testing.T) {
		lex := lexer.NewLexer("(")

		token, err := lex.ReadToken()
		require.NoError(t, err)
		assert.Equal(t, lexer.TokenTypeLeftParen, token.Type)

		_, err = lex.ReadToken()
		assert.ErrorIs(t, err, io.EOF)

		_, err = lex.ReadToken()
		assert.ErrorIs(t, err, io.EOF)
	})
}
