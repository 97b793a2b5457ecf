// Package target defines the C-like tree produced by the transformer and consumed by codegen.
package target

var (
	_ Node = (*Program)(nil)
	_ Node = (*ExpressionStatement)(nil)
	_ Node = (*CallExpression)(nil)
	_ Node = (*Identifier)(nil)
	_ Node = (*NumberLiteral)(nil)
	_ Node = (*StringLiteral)(nil)
)

type Kind string

const (
	KindProgram             Kind = "Program"
	KindExpressionStatement Kind = "ExpressionStatement"
	KindCallExpression      Kind = "CallExpression"
	KindIdentifier          Kind = "Identifier"
	KindNumberLiteral       Kind = "NumberLiteral"
	KindStringLiteral       Kind = "StringLiteral"
)

type Node interface {
	Kind() Kind
	isNode()
}

type (
	Program struct {
		Body []Node
	}

	// ExpressionStatement wraps a top level call.
	ExpressionStatement struct {
		Expression Node
	}

	CallExpression struct {
		Callee    *Identifier
		Arguments []Node
	}

	Identifier struct {
		Name string
	}

	NumberLiteral struct {
		Value string
	}

	StringLiteral struct {
		Value string
	}
)

func (n *Program) Kind() Kind             { return KindProgram }
func (n *ExpressionStatement) Kind() Kind { return KindExpressionStatement }
func (n *CallExpression) Kind() Kind      { return KindCallExpression }
func (n *Identifier) Kind() Kind          { return KindIdentifier }
func (n *NumberLiteral) Kind() Kind       { return KindNumberLiteral }
func (n *StringLiteral) Kind() Kind       { return KindStringLiteral }

func (n *Program) isNode()             {}
func (n *ExpressionStatement) isNode() {}
func (n *CallExpression) isNode()      {}
func (n *Identifier) isNode()          {}
func (n *NumberLiteral) isNode()       {}
func (n *StringLiteral) isNode()       {}
