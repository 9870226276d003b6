// Package syntax defines the concrete syntax tree produced by the parser:
// a compilation unit of members, statements, and expressions, each node
// carrying its source span. Trees are immutable once parsed.
package syntax

import (
	"github.com/aledsdavies/minlang/pkgs/lexer"
	"github.com/aledsdavies/minlang/pkgs/source"
)

// Node is implemented by every syntax tree node.
type Node interface {
	Span() source.TextSpan
	Children() []Node
}

// Separated holds a separated list of items together with the separator
// (comma) tokens between them, so diagnostics can blame a specific comma
// (e.g. the first one past an expected argument count).
type Separated[T Node] struct {
	Items      []T
	Separators []lexer.Token
}

func (s Separated[T]) Span() source.TextSpan {
	if len(s.Items) == 0 {
		return source.TextSpan{}
	}
	return source.FromBounds(s.Items[0].Span().Start, s.Items[len(s.Items)-1].Span().End())
}

// CompilationUnit is the root of every parsed program: a sequence of
// members followed by end of file.
type CompilationUnit struct {
	Members []Member
	EOF     lexer.Token
}

func (c *CompilationUnit) Span() source.TextSpan {
	if len(c.Members) == 0 {
		return source.TextSpan{Start: c.EOF.Span.Start, Length: 0}
	}
	return source.FromBounds(c.Members[0].Span().Start, c.EOF.Span.Start)
}

func (c *CompilationUnit) Children() []Node {
	nodes := make([]Node, len(c.Members))
	for i, m := range c.Members {
		nodes[i] = m
	}
	return nodes
}

// Member is a top-level declaration: a function or a global statement.
type Member interface {
	Node
	memberNode()
}

// TypeClause is an optional ": type" or ": type[]" / ": type[N]" annotation.
type TypeClause struct {
	Colon        lexer.Token
	Identifier   lexer.Token
	OpenBracket  *lexer.Token
	Size         *lexer.Token // literal array size, nil when brackets are empty
	CloseBracket *lexer.Token
}

func (t *TypeClause) Span() source.TextSpan {
	end := t.Identifier.Span.End()
	if t.CloseBracket != nil {
		end = t.CloseBracket.Span.End()
	}
	return source.FromBounds(t.Colon.Span.Start, end)
}

func (t *TypeClause) Children() []Node { return nil }

// IsArray reports whether this type clause has a trailing "[...]".
func (t *TypeClause) IsArray() bool { return t.OpenBracket != nil }

// Parameter is one "name: type" entry in a function parameter list.
type Parameter struct {
	Identifier lexer.Token
	Type       *TypeClause
}

func (p Parameter) Span() source.TextSpan {
	if p.Type != nil {
		return source.FromBounds(p.Identifier.Span.Start, p.Type.Span().End())
	}
	return p.Identifier.Span
}

func (p Parameter) Children() []Node { return nil }

// FunctionDeclaration is "function name(params) : type { body }".
type FunctionDeclaration struct {
	FunctionKeyword lexer.Token
	Identifier      lexer.Token
	OpenParen       lexer.Token
	Parameters      Separated[Parameter]
	CloseParen      lexer.Token
	ReturnType      *TypeClause
	Body            *BlockStatement
}

func (f *FunctionDeclaration) Span() source.TextSpan {
	return source.FromBounds(f.FunctionKeyword.Span.Start, f.Body.Span().End())
}

func (f *FunctionDeclaration) Children() []Node { return []Node{f.Body} }
func (f *FunctionDeclaration) memberNode()      {}

// GlobalStatement wraps a statement appearing outside any function.
type GlobalStatement struct {
	Statement Statement
}

func (g *GlobalStatement) Span() source.TextSpan { return g.Statement.Span() }
func (g *GlobalStatement) Children() []Node      { return []Node{g.Statement} }
func (g *GlobalStatement) memberNode()           {}

// Statement is implemented by every statement node.
type Statement interface {
	Node
	statementNode()
}

// BlockStatement is "{ statements... }".
type BlockStatement struct {
	OpenBrace  lexer.Token
	Statements []Statement
	CloseBrace lexer.Token
}

func (b *BlockStatement) Span() source.TextSpan {
	return source.FromBounds(b.OpenBrace.Span.Start, b.CloseBrace.Span.End())
}

func (b *BlockStatement) Children() []Node {
	nodes := make([]Node, len(b.Statements))
	for i, s := range b.Statements {
		nodes[i] = s
	}
	return nodes
}
func (b *BlockStatement) statementNode() {}

// VariableDeclaration is "var|let|const name (: type)? (= expr)?".
type VariableDeclaration struct {
	Keyword     lexer.Token // VarKeyword, LetKeyword, or ConstKeyword
	Identifier  lexer.Token
	TypeClause  *TypeClause
	EqualsToken *lexer.Token
	Initializer Expression // nil when absent
}

func (v *VariableDeclaration) Span() source.TextSpan {
	end := v.Identifier.Span.End()
	if v.TypeClause != nil {
		end = v.TypeClause.Span().End()
	}
	if v.Initializer != nil {
		end = v.Initializer.Span().End()
	}
	return source.FromBounds(v.Keyword.Span.Start, end)
}

func (v *VariableDeclaration) Children() []Node {
	if v.Initializer != nil {
		return []Node{v.Initializer}
	}
	return nil
}
func (v *VariableDeclaration) statementNode() {}

// IsReadOnly reports whether the declared variable is immutable
// ("let"/"const", as opposed to "var").
func (v *VariableDeclaration) IsReadOnly() bool {
	return v.Keyword.Kind == lexer.LetKeyword || v.Keyword.Kind == lexer.ConstKeyword
}

// ElseClause is "else statement".
type ElseClause struct {
	ElseKeyword lexer.Token
	Body        Statement
}

// IfStatement is "if cond then [else ...]".
type IfStatement struct {
	IfKeyword lexer.Token
	Condition Expression
	Then      Statement
	Else      *ElseClause
}

func (s *IfStatement) Span() source.TextSpan {
	end := s.Then.Span().End()
	if s.Else != nil {
		end = s.Else.Body.Span().End()
	}
	return source.FromBounds(s.IfKeyword.Span.Start, end)
}

func (s *IfStatement) Children() []Node {
	nodes := []Node{s.Condition, s.Then}
	if s.Else != nil {
		nodes = append(nodes, s.Else.Body)
	}
	return nodes
}
func (s *IfStatement) statementNode() {}

// WhileStatement is "while cond body".
type WhileStatement struct {
	WhileKeyword lexer.Token
	Condition    Expression
	Body         Statement
}

func (s *WhileStatement) Span() source.TextSpan {
	return source.FromBounds(s.WhileKeyword.Span.Start, s.Body.Span().End())
}
func (s *WhileStatement) Children() []Node { return []Node{s.Condition, s.Body} }
func (s *WhileStatement) statementNode()   {}

// ForStatement is "for ident = lower to upper body".
type ForStatement struct {
	ForKeyword  lexer.Token
	Identifier  lexer.Token
	EqualsToken lexer.Token
	LowerBound  Expression
	ToKeyword   lexer.Token
	UpperBound  Expression
	Body        Statement
}

func (s *ForStatement) Span() source.TextSpan {
	return source.FromBounds(s.ForKeyword.Span.Start, s.Body.Span().End())
}
func (s *ForStatement) Children() []Node {
	return []Node{s.LowerBound, s.UpperBound, s.Body}
}
func (s *ForStatement) statementNode() {}

// BreakStatement is "break".
type BreakStatement struct{ BreakKeyword lexer.Token }

func (s *BreakStatement) Span() source.TextSpan { return s.BreakKeyword.Span }
func (s *BreakStatement) Children() []Node      { return nil }
func (s *BreakStatement) statementNode()        {}

// ContinueStatement is "continue".
type ContinueStatement struct{ ContinueKeyword lexer.Token }

func (s *ContinueStatement) Span() source.TextSpan { return s.ContinueKeyword.Span }
func (s *ContinueStatement) Children() []Node      { return nil }
func (s *ContinueStatement) statementNode()        {}

// ReturnStatement is "return expr?".
type ReturnStatement struct {
	ReturnKeyword lexer.Token
	Expression    Expression // nil for bare "return"
}

func (s *ReturnStatement) Span() source.TextSpan {
	end := s.ReturnKeyword.Span.End()
	if s.Expression != nil {
		end = s.Expression.Span().End()
	}
	return source.FromBounds(s.ReturnKeyword.Span.Start, end)
}

func (s *ReturnStatement) Children() []Node {
	if s.Expression != nil {
		return []Node{s.Expression}
	}
	return nil
}
func (s *ReturnStatement) statementNode() {}

// ExpressionStatement wraps an expression used as a statement.
type ExpressionStatement struct{ Expression Expression }

func (s *ExpressionStatement) Span() source.TextSpan { return s.Expression.Span() }
func (s *ExpressionStatement) Children() []Node      { return []Node{s.Expression} }
func (s *ExpressionStatement) statementNode()        {}

// Expression is implemented by every expression node.
type Expression interface {
	Node
	expressionNode()
}

// LiteralExpression is a number, string, true, or false literal.
type LiteralExpression struct {
	LiteralToken lexer.Token
	Value        any // int64, float64, bool, or string
}

func (e *LiteralExpression) Span() source.TextSpan { return e.LiteralToken.Span }
func (e *LiteralExpression) Children() []Node       { return nil }
func (e *LiteralExpression) expressionNode()        {}

// NameExpression is a bare identifier reference.
type NameExpression struct{ IdentifierToken lexer.Token }

func (e *NameExpression) Span() source.TextSpan { return e.IdentifierToken.Span }
func (e *NameExpression) Children() []Node       { return nil }
func (e *NameExpression) expressionNode()        {}

// UnaryExpression is "op operand".
type UnaryExpression struct {
	OperatorToken lexer.Token
	Operand       Expression
}

func (e *UnaryExpression) Span() source.TextSpan {
	return source.FromBounds(e.OperatorToken.Span.Start, e.Operand.Span().End())
}
func (e *UnaryExpression) Children() []Node { return []Node{e.Operand} }
func (e *UnaryExpression) expressionNode()  {}

// BinaryExpression is "left op right".
type BinaryExpression struct {
	Left          Expression
	OperatorToken lexer.Token
	Right         Expression
}

func (e *BinaryExpression) Span() source.TextSpan {
	return source.FromBounds(e.Left.Span().Start, e.Right.Span().End())
}
func (e *BinaryExpression) Children() []Node { return []Node{e.Left, e.Right} }
func (e *BinaryExpression) expressionNode()  {}

// ParenthesizedExpression is "(expr)".
type ParenthesizedExpression struct {
	OpenParen  lexer.Token
	Expression Expression
	CloseParen lexer.Token
}

func (e *ParenthesizedExpression) Span() source.TextSpan {
	return source.FromBounds(e.OpenParen.Span.Start, e.CloseParen.Span.End())
}
func (e *ParenthesizedExpression) Children() []Node { return []Node{e.Expression} }
func (e *ParenthesizedExpression) expressionNode()  {}

// AssignmentExpression is "identifier = expr".
type AssignmentExpression struct {
	IdentifierToken lexer.Token
	EqualsToken     lexer.Token
	Expression      Expression
}

func (e *AssignmentExpression) Span() source.TextSpan {
	return source.FromBounds(e.IdentifierToken.Span.Start, e.Expression.Span().End())
}
func (e *AssignmentExpression) Children() []Node { return []Node{e.Expression} }
func (e *AssignmentExpression) expressionNode()  {}

// CallExpression is "identifier(args...)".
type CallExpression struct {
	Identifier lexer.Token
	OpenParen  lexer.Token
	Arguments  Separated[Expression]
	CloseParen lexer.Token
}

func (e *CallExpression) Span() source.TextSpan {
	return source.FromBounds(e.Identifier.Span.Start, e.CloseParen.Span.End())
}
func (e *CallExpression) Children() []Node {
	nodes := make([]Node, len(e.Arguments.Items))
	for i, a := range e.Arguments.Items {
		nodes[i] = a
	}
	return nodes
}
func (e *CallExpression) expressionNode() {}

// ArrayAccessExpression is "receiver[index]".
type ArrayAccessExpression struct {
	Receiver     Expression
	OpenBracket  lexer.Token
	Index        Expression
	CloseBracket lexer.Token
}

func (e *ArrayAccessExpression) Span() source.TextSpan {
	return source.FromBounds(e.Receiver.Span().Start, e.CloseBracket.Span.End())
}
func (e *ArrayAccessExpression) Children() []Node { return []Node{e.Receiver, e.Index} }
func (e *ArrayAccessExpression) expressionNode()  {}

// ArrayAssignmentExpression is "receiver[index] = value".
type ArrayAssignmentExpression struct {
	Receiver     Expression
	OpenBracket  lexer.Token
	Index        Expression
	CloseBracket lexer.Token
	EqualsToken  lexer.Token
	Value        Expression
}

func (e *ArrayAssignmentExpression) Span() source.TextSpan {
	return source.FromBounds(e.Receiver.Span().Start, e.Value.Span().End())
}
func (e *ArrayAssignmentExpression) Children() []Node {
	return []Node{e.Receiver, e.Index, e.Value}
}
func (e *ArrayAssignmentExpression) expressionNode() {}

// ArrayInitializerExpression is "[elem, elem, ...]".
type ArrayInitializerExpression struct {
	OpenBracket  lexer.Token
	Elements     Separated[Expression]
	CloseBracket lexer.Token
}

func (e *ArrayInitializerExpression) Span() source.TextSpan {
	return source.FromBounds(e.OpenBracket.Span.Start, e.CloseBracket.Span.End())
}
func (e *ArrayInitializerExpression) Children() []Node {
	nodes := make([]Node, len(e.Elements.Items))
	for i, el := range e.Elements.Items {
		nodes[i] = el
	}
	return nodes
}
func (e *ArrayInitializerExpression) expressionNode() {}
