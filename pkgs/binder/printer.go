package binder

import (
	"fmt"
	"io"
)

// WriteTo renders an indentation-tracking dump of a bound tree rooted at
// node, in the same tree-drawing style as pkgs/syntax.WriteTo, for the
// REPL's #showBoundTree meta-command.
func WriteTo(w io.Writer, node Node) {
	writeNode(w, node, "", true)
}

func writeNode(w io.Writer, node Node, indent string, isLast bool) {
	marker := "├── "
	if isLast {
		marker = "└── "
	}
	fmt.Fprintf(w, "%s%s%s\n", indent, marker, describe(node))

	childIndent := indent + "│   "
	if isLast {
		childIndent = indent + "    "
	}
	children := node.Children()
	for i, child := range children {
		writeNode(w, child, childIndent, i == len(children)-1)
	}
}

func describe(node Node) string {
	switch n := node.(type) {
	case *BlockStatement:
		return "BlockStatement"
	case *VariableDeclaration:
		return fmt.Sprintf("VariableDeclaration %s", n.Variable.Name)
	case *ExpressionStatement:
		return "ExpressionStatement"
	case *IfStatement:
		return "IfStatement"
	case *WhileStatement:
		return "WhileStatement"
	case *ForStatement:
		return fmt.Sprintf("ForStatement %s", n.Variable.Name)
	case *GotoStatement:
		return fmt.Sprintf("GotoStatement %s", n.Label.Name)
	case *LabelStatement:
		return fmt.Sprintf("LabelStatement %s", n.Label.Name)
	case *ConditionalGotoStatement:
		return fmt.Sprintf("ConditionalGotoStatement %s (jumpIfTrue=%v)", n.Label.Name, n.JumpIfTrue)
	case *ReturnStatement:
		return "ReturnStatement"
	case *LiteralExpression:
		return fmt.Sprintf("LiteralExpression %v", n.Value)
	case *VariableExpression:
		return fmt.Sprintf("VariableExpression %s", n.Variable.Name)
	case *AssignmentExpression:
		return fmt.Sprintf("AssignmentExpression %s", n.Variable.Name)
	case *UnaryExpression:
		return fmt.Sprintf("UnaryExpression kind=%d", n.Op.Kind)
	case *BinaryExpression:
		return fmt.Sprintf("BinaryExpression kind=%d", n.Op.Kind)
	case *CallExpression:
		return fmt.Sprintf("CallExpression %s", n.Function.Name)
	case *ConversionExpression:
		return fmt.Sprintf("ConversionExpression -> %s", n.Typ.Name())
	case *ArrayInitializerExpression:
		return "ArrayInitializerExpression"
	case *ArrayAccessExpression:
		return "ArrayAccessExpression"
	case *ArrayAssignmentExpression:
		return "ArrayAssignmentExpression"
	case *ErrorExpression:
		return "ErrorExpression"
	default:
		return fmt.Sprintf("%T", node)
	}
}
