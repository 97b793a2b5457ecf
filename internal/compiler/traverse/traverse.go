// Package traverse walks a source tree depth first and calls visitor callbacks per node kind.
//
// The walker knows which children each kind has and nothing else. What happens on
// enter and exit is decided entirely by the Visitor passed to Traverse.
package traverse

import (
	"github.com/artuross/sexpc/internal/compiler/ast"
	"github.com/artuross/sexpc/internal/compiler/compileerr"
)

// Func is called with the current node and its parent. parent is nil for the root.
type Func func(node, parent ast.Node) error

type Methods struct {
	Enter Func
	Exit  Func
}

// Visitor maps node kinds to callbacks. Kinds missing from the map are walked silently.
type Visitor map[ast.Kind]Methods

// Traverse walks root, calling Enter before the children of a node and Exit after them.
// The first error returned by a callback stops the walk.
func Traverse(root ast.Node, visitor Visitor) error {
	return traverseNode(root, nil, visitor)
}

func traverseNode(node, parent ast.Node, visitor Visitor) error {
	children, err := childrenOf(node)
	if err != nil {
		return err
	}

	methods := visitor[node.Kind()]

	if methods.Enter != nil {
		if err := methods.Enter(node, parent); err != nil {
			return err
		}
	}

	for _, child := range children {
		if err := traverseNode(child, node, visitor); err != nil {
			return err
		}
	}

	if methods.Exit != nil {
		if err := methods.Exit(node, parent); err != nil {
			return err
		}
	}

	return nil
}

func childrenOf(node ast.Node) ([]ast.Node, error) {
	switch node := node.(type) {
	case *ast.Program:
		if node != nil {
			return node.Body, nil
		}

	case *ast.CallExpression:
		if node != nil {
			return node.Params, nil
		}

	case *ast.NumberLiteral:
		if node != nil {
			return nil, nil
		}

	case *ast.StringLiteral:
		if node != nil {
			return nil, nil
		}
	}

	return nil, compileerr.NewGenError(node)
}
