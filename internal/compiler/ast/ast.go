// Package ast defines the tree built by the parser from s-expression source.
package ast

var (
	_ Node = (*Program)(nil)
	_ Node = (*NumberLiteral)(nil)
	_ Node = (*StringLiteral)(nil)
	_ Node = (*CallExpression)(nil)
)

type Kind string

const (
	KindProgram        Kind = "Program"
	KindNumberLiteral  Kind = "NumberLiteral"
	KindStringLiteral  Kind = "StringLiteral"
	KindCallExpression Kind = "CallExpression"
)

type Node interface {
	Kind() Kind
	isNode()
}

type (
	Program struct {
		Body []Node
	}

	NumberLiteral struct {
		Value string
	}

	StringLiteral struct {
		Value string
	}

	// CallExpression is a parenthesized call. Name is never empty.
	CallExpression struct {
		Name   string
		Params []Node
	}
)

func (n *Program) Kind() Kind        { return KindProgram }
func (n *NumberLiteral) Kind() Kind  { return KindNumberLiteral }
func (n *StringLiteral) Kind() Kind  { return KindStringLiteral }
func (n *CallExpression) Kind() Kind { return KindCallExpression }

func (n *Program) isNode()        {}
func (n *NumberLiteral) isNode()  {}
func (n *StringLiteral) isNode()  {}
func (n *CallExpression) isNode() {}
