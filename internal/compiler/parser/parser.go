package parser

import (
	"fmt"
	"io"

	"github.com/artuross/sexpc/internal/compiler/ast"
	"github.com/artuross/sexpc/internal/compiler/compileerr"
	"github.com/artuross/sexpc/internal/compiler/lexer"
)

const (
	expectedExpression = "number, string or '('"
	expectedName       = "call name"
	expectedClose      = "')'"
)

type Lexer interface {
	ReadToken() (lexer.Token, error)
}

type Parser struct {
	lexer  Lexer
	tokens []lexer.Token
	pos    int
}

func NewParser(lexer Lexer) *Parser {
	return &Parser{
		lexer: lexer,
	}
}

// ParseTokens parses an already tokenized program.
func ParseTokens(tokens []lexer.Token) (*ast.Program, error) {
	return NewParser(&sliceLexer{tokens: tokens}).Parse()
}

// Parse reads expressions until the lexer is exhausted.
func (p *Parser) Parse() (*ast.Program, error) {
	program := &ast.Program{
		Body: make([]ast.Node, 0),
	}

	for {
		_, err := p.peekToken()
		if err == io.EOF {
			return program, nil
		}
		if err != nil {
			return nil, err
		}

		node, err := p.walk()
		if err != nil {
			return nil, err
		}

		program.Body = append(program.Body, node)
	}
}

func (p *Parser) walk() (ast.Node, error) {
	token, err := p.readToken()
	if err == io.EOF {
		return nil, unexpectedEOF(expectedExpression)
	}
	if err != nil {
		return nil, err
	}

	switch token.Type {
	case lexer.TokenTypeNumber:
		return &ast.NumberLiteral{Value: token.Value}, nil

	case lexer.TokenTypeString:
		return &ast.StringLiteral{Value: token.Value}, nil

	case lexer.TokenTypeLeftParen:
		return p.parseCallExpression()

	default:
		return nil, unexpectedToken(token, expectedExpression)
	}
}

// parseCallExpression is called with the opening paren already consumed.
func (p *Parser) parseCallExpression() (ast.Node, error) {
	token, err := p.readToken()
	if err == io.EOF {
		return nil, unexpectedEOF(expectedName)
	}
	if err != nil {
		return nil, err
	}

	if token.Type != lexer.TokenTypeName {
		return nil, unexpectedToken(token, expectedName)
	}

	expr := &ast.CallExpression{
		Name:   token.Value,
		Params: make([]ast.Node, 0),
	}

	for {
		token, err := p.peekToken()
		if err == io.EOF {
			return nil, unexpectedEOF(expectedClose)
		}
		if err != nil {
			return nil, err
		}

		if token.Type == lexer.TokenTypeRightParen {
			// read and ignore the closing paren
			_, _ = p.readToken()

			return expr, nil
		}

		param, err := p.walk()
		if err != nil {
			return nil, err
		}

		expr.Params = append(expr.Params, param)
	}
}

func (p *Parser) peekToken() (lexer.Token, error) {
	if p.pos >= len(p.tokens) {
		token, err := p.lexer.ReadToken()
		if err != nil {
			return lexer.Token{}, err
		}

		p.tokens = append(p.tokens, token)

		return token, nil
	}

	return p.tokens[p.pos], nil
}

func (p *Parser) readToken() (lexer.Token, error) {
	token, err := p.peekToken()
	if err != nil {
		return lexer.Token{}, err
	}

	p.pos++

	return token, nil
}

func unexpectedToken(token lexer.Token, expected string) *compileerr.ParseError {
	return &compileerr.ParseError{
		Token:    fmt.Sprintf("%s %q", token.Type, token.Value),
		Offset:   token.Offset,
		Expected: expected,
	}
}

func unexpectedEOF(expected string) *compileerr.ParseError {
	return &compileerr.ParseError{
		Offset:   -1,
		Expected: expected,
	}
}

type sliceLexer struct {
	tokens []lexer.Token
	pos    int
}

func (l *sliceLexer) ReadToken() (lexer.Token, error) {
	if l.pos >= len(l.tokens) {
		return lexer.Token{}, io.EOF
	}

	token := l.tokens[l.pos]
	l.pos++

	return token, nil
}
