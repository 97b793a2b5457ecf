// Package transform turns the source tree into the target tree.
//
// The work is done by a single traversal. Entering a node builds its target
// counterpart and appends it to the list opened by the source parent; entering a call
// also opens the call's own argument list for its children. Open lists are kept in a
// builder that lives for one Transform call only.
package transform

import (
	"github.com/artuross/sexpc/internal/compiler/ast"
	"github.com/artuross/sexpc/internal/compiler/compileerr"
	"github.com/artuross/sexpc/internal/compiler/target"
	"github.com/artuross/sexpc/internal/compiler/traverse"
)

func Transform(program *ast.Program) (*target.Program, error) {
	result := &target.Program{
		Body: make([]target.Node, 0),
	}

	b := builder{
		open: map[ast.Node]*[]target.Node{
			program: &result.Body,
		},
	}

	if err := traverse.Traverse(program, b.visitor()); err != nil {
		return nil, err
	}

	return result, nil
}

type builder struct {
	// open holds, per source node, the target list its children are appended to.
	open map[ast.Node]*[]target.Node
}

func (b *builder) visitor() traverse.Visitor {
	return traverse.Visitor{
		ast.KindNumberLiteral: {
			Enter: func(node, parent ast.Node) error {
				literal := &target.NumberLiteral{
					Value: node.(*ast.NumberLiteral).Value,
				}

				return b.append(parent, literal)
			},
		},
		ast.KindStringLiteral: {
			Enter: func(node, parent ast.Node) error {
				literal := &target.StringLiteral{
					Value: node.(*ast.StringLiteral).Value,
				}

				return b.append(parent, literal)
			},
		},
		ast.KindCallExpression: {
			Enter: func(node, parent ast.Node) error {
				call := &target.CallExpression{
					Callee: &target.Identifier{
						Name: node.(*ast.CallExpression).Name,
					},
					Arguments: make([]target.Node, 0),
				}

				var expr target.Node = call

				// only nested calls are arguments, everything else is a statement
				if _, nested := parent.(*ast.CallExpression); !nested {
					expr = &target.ExpressionStatement{
						Expression: call,
					}
				}

				if err := b.append(parent, expr); err != nil {
					return err
				}

				b.open[node] = &call.Arguments

				return nil
			},
			Exit: func(node, parent ast.Node) error {
				delete(b.open, node)

				return nil
			},
		},
	}
}

func (b *builder) append(parent ast.Node, node target.Node) error {
	list, ok := b.open[parent]
	if !ok {
		return compileerr.NewGenError(parent)
	}

	*list = append(*list, node)

	return nil
}
