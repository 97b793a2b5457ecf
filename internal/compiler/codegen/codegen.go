package codegen

import (
	"strings"

	"github.com/artuross/sexpc/internal/compiler/compileerr"
	"github.com/artuross/sexpc/internal/compiler/target"
)

// Generate renders node as C-like source. Values are emitted verbatim, strings are not escaped.
func Generate(node target.Node) (string, error) {
	switch node := node.(type) {
	case *target.Program:
		if node != nil {
			return generateList(node.Body, "\n")
		}

	case *target.ExpressionStatement:
		if node != nil {
			expr, err := Generate(node.Expression)
			if err != nil {
				return "", err
			}

			return expr + ";", nil
		}

	case *target.CallExpression:
		if node != nil {
			return generateCallExpression(node)
		}

	case *target.Identifier:
		if node != nil {
			return node.Name, nil
		}

	case *target.NumberLiteral:
		if node != nil {
			return node.Value, nil
		}

	case *target.StringLiteral:
		if node != nil {
			return `"` + node.Value + `"`, nil
		}
	}

	return "", compileerr.NewGenError(node)
}

func generateCallExpression(expr *target.CallExpression) (string, error) {
	callee, err := Generate(expr.Callee)
	if err != nil {
		return "", err
	}

	args, err := generateList(expr.Arguments, ",")
	if err != nil {
		return "", err
	}

	return callee + "(" + args + ")", nil
}

func generateList(nodes []target.Node, separator string) (string, error) {
	parts := make([]string, 0, len(nodes))

	for _, node := range nodes {
		part, err := Generate(node)
		if err != nil {
			return "", err
		}

		parts = append(parts, part)
	}

	return strings.Join(parts, separator), nil
}
