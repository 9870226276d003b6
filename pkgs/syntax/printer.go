package syntax

import (
	"fmt"
	"io"
)

// WriteTo renders an indentation-tracking dump of a syntax tree rooted at
// node, in the style of a classic syntax-tree pretty printer: one line per
// node, child lines prefixed with tree-drawing connectors.
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
	case *CompilationUnit:
		return "CompilationUnit"
	case *FunctionDeclaration:
		return fmt.Sprintf("FunctionDeclaration %s", n.Identifier.Lexeme)
	case *GlobalStatement:
		return "GlobalStatement"
	case *BlockStatement:
		return "BlockStatement"
	case *VariableDeclaration:
		return fmt.Sprintf("VariableDeclaration %s", n.Identifier.Lexeme)
	case *IfStatement:
		return "IfStatement"
	case *WhileStatement:
		return "WhileStatement"
	case *ForStatement:
		return fmt.Sprintf("ForStatement %s", n.Identifier.Lexeme)
	case *BreakStatement:
		return "BreakStatement"
	case *ContinueStatement:
		return "ContinueStatement"
	case *ReturnStatement:
		return "ReturnStatement"
	case *ExpressionStatement:
		return "ExpressionStatement"
	case *LiteralExpression:
		return fmt.Sprintf("LiteralExpression %v", n.Value)
	case *NameExpression:
		return fmt.Sprintf("NameExpression %s", n.IdentifierToken.Lexeme)
	case *UnaryExpression:
		return fmt.Sprintf("UnaryExpression %s", n.OperatorToken.Kind)
	case *BinaryExpression:
		return fmt.Sprintf("BinaryExpression %s", n.OperatorToken.Kind)
	case *ParenthesizedExpression:
		return "ParenthesizedExpression"
	case *AssignmentExpression:
		return fmt.Sprintf("AssignmentExpression %s", n.IdentifierToken.Lexeme)
	case *CallExpression:
		return fmt.Sprintf("CallExpression %s", n.Identifier.Lexeme)
	case *ArrayAccessExpression:
		return "ArrayAccessExpression"
	case *ArrayAssignmentExpression:
		return "ArrayAssignmentExpression"
	case *ArrayInitializerExpression:
		return "ArrayInitializerExpression"
	default:
		return fmt.Sprintf("%T", node)
	}
}
