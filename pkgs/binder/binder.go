// Package binder type-checks a parsed syntax tree into a bound tree:
// every name resolved to a symbol, every expression carrying its
// resolved Type, and implicit conversions made explicit.
package binder

import (
	"strconv"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/aledsdavies/minlang/pkgs/diagnostics"
	"github.com/aledsdavies/minlang/pkgs/lexer"
	"github.com/aledsdavies/minlang/pkgs/source"
	"github.com/aledsdavies/minlang/pkgs/symbols"
	"github.com/aledsdavies/minlang/pkgs/syntax"
)

type loopLabels struct {
	breakLabel    Label
	continueLabel Label
}

// labelSeq generates unique break/continue label names across every
// function body bound within one BindProgram call.
type labelSeq struct{ n int }

func (s *labelSeq) next(prefix string) Label {
	s.n++
	return Label{Name: prefix + strconv.Itoa(s.n)}
}

// Binder binds one function body or the global statement list against a
// fixed parent scope chain.
type Binder struct {
	text     *source.Text
	diag     *diagnostics.Bag
	scope    *Scope
	function *symbols.Function // nil when binding global statements
	labels   *labelSeq
	loops    []loopLabels
}

func newBinder(text *source.Text, diag *diagnostics.Bag, parent *Scope, fn *symbols.Function, labels *labelSeq) *Binder {
	return &Binder{text: text, diag: diag, scope: newScope(parent), function: fn, labels: labels}
}

func (b *Binder) loc(span source.TextSpan) source.Location {
	return source.Location{Text: b.text, Span: span}
}

func (b *Binder) pushScope()  { b.scope = newScope(b.scope) }
func (b *Binder) popScope()   { b.scope = b.scope.Parent }

// reportUndefinedName suggests the closest visible name via fuzzy
// matching, when one is close enough to be useful.
func (b *Binder) reportUndefinedName(loc source.Location, name string) {
	candidates := b.scope.AllNames()
	if best := closestMatch(name, candidates); best != "" {
		b.diag.ReportBinding(loc, "undefined name '%s' (did you mean '%s'?)", name, best)
		return
	}
	b.diag.ReportBinding(loc, "undefined name '%s'", name)
}

func (b *Binder) reportUndefinedFunction(loc source.Location, name string, candidates []string) {
	if best := closestMatch(name, candidates); best != "" {
		b.diag.ReportBinding(loc, "undefined function '%s' (did you mean '%s'?)", name, best)
		return
	}
	b.diag.ReportBinding(loc, "undefined function '%s'", name)
}

// closestMatch returns the candidate with the smallest edit distance to
// name, provided it is a plausible typo (distance <= 2 and no worse than
// half the candidate's length). Ties go to the alphabetically first name.
func closestMatch(name string, candidates []string) string {
	best, bestDistance := "", 0
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(name, c)
		if d == 0 || d > 2 || d > len(c)/2 {
			continue
		}
		if best == "" || d < bestDistance || (d == bestDistance && c < best) {
			best, bestDistance = c, d
		}
	}
	return best
}

// --- statements ---

func (b *Binder) bindStatement(node syntax.Statement) Statement {
	switch n := node.(type) {
	case *syntax.BlockStatement:
		return b.bindBlockStatement(n)
	case *syntax.VariableDeclaration:
		return b.bindVariableDeclaration(n)
	case *syntax.ExpressionStatement:
		return b.bindExpressionStatement(n)
	case *syntax.IfStatement:
		return b.bindIfStatement(n)
	case *syntax.WhileStatement:
		return b.bindWhileStatement(n)
	case *syntax.ForStatement:
		return b.bindForStatement(n)
	case *syntax.BreakStatement:
		return b.bindBreakStatement(n)
	case *syntax.ContinueStatement:
		return b.bindContinueStatement(n)
	case *syntax.ReturnStatement:
		return b.bindReturnStatement(n)
	default:
		return &ExpressionStatement{Expression: &ErrorExpression{}}
	}
}

func (b *Binder) bindBlockStatement(node *syntax.BlockStatement) Statement {
	b.pushScope()
	defer b.popScope()
	statements := make([]Statement, len(node.Statements))
	for i, s := range node.Statements {
		statements[i] = b.bindStatement(s)
	}
	return &BlockStatement{Statements: statements}
}

func (b *Binder) bindVariableDeclaration(node *syntax.VariableDeclaration) Statement {
	if node.TypeClause != nil && node.TypeClause.IsArray() {
		return b.bindArrayDeclaration(node)
	}
	declaredType := b.bindTypeClause(node.TypeClause)

	var initializer Expression
	if node.Initializer == nil {
		elementType := declaredType
		if elementType == symbols.Null {
			elementType = symbols.Any
		}
		initializer = defaultValue(elementType)
	} else {
		initializer = b.bindExpression(node.Initializer)
	}

	variableType := declaredType
	if variableType == symbols.Null {
		variableType = initializer.Type()
	}

	variable := b.declareVariable(node.Identifier, node.IsReadOnly(), variableType, 0)
	converted := b.convert(node.Initializer, node.Identifier.Span, initializer, variableType, false)
	return &VariableDeclaration{Variable: variable, Initializer: converted}
}

func (b *Binder) bindArrayDeclaration(node *syntax.VariableDeclaration) Statement {
	elementType := b.bindTypeClause(&syntax.TypeClause{Colon: node.TypeClause.Colon, Identifier: node.TypeClause.Identifier})
	arrayType := symbols.ArrayOf(elementType)

	var size int
	if node.TypeClause.Size != nil {
		n, err := strconv.Atoi(node.TypeClause.Size.Lexeme)
		if err != nil {
			b.diag.ReportBinding(b.loc(node.TypeClause.Span()), "array size must be an integer literal")
		} else {
			size = n
		}
	}

	var initializer Expression
	switch {
	case node.Initializer != nil:
		if arrayLit, ok := node.Initializer.(*syntax.ArrayInitializerExpression); ok {
			initializer = b.bindArrayInitializerExpression(arrayLit, elementType)
			if node.TypeClause.Size != nil && len(initializer.(*ArrayInitializerExpression).Elements) != size {
				b.diag.ReportBinding(b.loc(node.Span()), "array has %d elements, but size %d was declared",
					len(initializer.(*ArrayInitializerExpression).Elements), size)
			}
		} else {
			initializer = b.bindExpression(node.Initializer)
		}
	case node.TypeClause.Size != nil:
		initializer = defaultArrayValue(elementType, size)
	default:
		b.diag.ReportBinding(b.loc(node.Identifier.Span), "array declaration needs either a size or an initializer")
		initializer = &ErrorExpression{}
	}

	variable := b.declareVariable(node.Identifier, node.IsReadOnly(), arrayType, size)
	converted := b.convert(node.Initializer, node.Identifier.Span, initializer, arrayType, false)
	return &VariableDeclaration{Variable: variable, Initializer: converted}
}

func (b *Binder) declareVariable(identifier lexer.Token, isReadOnly bool, typ *symbols.Type, size int) *symbols.Variable {
	kind := symbols.GlobalVariable
	switch {
	case b.function != nil:
		kind = symbols.LocalVariable
	}
	variable := &symbols.Variable{Name: identifier.Lexeme, Kind: kind, Type: typ, IsReadOnly: isReadOnly, Size: size}
	if !b.scope.DeclareVariable(variable) {
		b.diag.ReportBinding(b.loc(identifier.Span), "'%s' is already declared in this scope", identifier.Lexeme)
	}
	return variable
}

func (b *Binder) bindExpressionStatement(node *syntax.ExpressionStatement) Statement {
	return &ExpressionStatement{Expression: b.bindExpressionAllowVoid(node.Expression)}
}

func (b *Binder) bindIfStatement(node *syntax.IfStatement) Statement {
	condition := b.bindExpressionOfType(node.Condition, symbols.Bool)
	then := b.bindStatement(node.Then)
	var elseStmt Statement
	if node.Else != nil {
		elseStmt = b.bindStatement(node.Else.Body)
	}
	return &IfStatement{Condition: condition, Then: then, Else: elseStmt}
}

func (b *Binder) bindWhileStatement(node *syntax.WhileStatement) Statement {
	condition := b.bindExpressionOfType(node.Condition, symbols.Bool)
	breakLabel := b.labels.next("break")
	continueLabel := b.labels.next("continue")
	b.loops = append(b.loops, loopLabels{breakLabel, continueLabel})
	body := b.bindStatement(node.Body)
	b.loops = b.loops[:len(b.loops)-1]
	return &WhileStatement{Condition: condition, Body: body, BreakLabel: breakLabel, ContinueLabel: continueLabel}
}

func (b *Binder) bindForStatement(node *syntax.ForStatement) Statement {
	lower := b.bindExpressionOfType(node.LowerBound, symbols.Int)
	upper := b.bindExpressionOfType(node.UpperBound, symbols.Int)

	b.pushScope()
	variable := b.declareVariable(node.Identifier, true, symbols.Int, 0)

	breakLabel := b.labels.next("break")
	continueLabel := b.labels.next("continue")
	b.loops = append(b.loops, loopLabels{breakLabel, continueLabel})
	body := b.bindStatement(node.Body)
	b.loops = b.loops[:len(b.loops)-1]
	b.popScope()

	return &ForStatement{Variable: variable, LowerBound: lower, UpperBound: upper, Body: body, BreakLabel: breakLabel, ContinueLabel: continueLabel}
}

func (b *Binder) bindBreakStatement(node *syntax.BreakStatement) Statement {
	if len(b.loops) == 0 {
		b.diag.ReportBinding(b.loc(node.BreakKeyword.Span), "'break' is only valid inside a loop")
		return &ExpressionStatement{Expression: &ErrorExpression{}}
	}
	return &GotoStatement{Label: b.loops[len(b.loops)-1].breakLabel}
}

func (b *Binder) bindContinueStatement(node *syntax.ContinueStatement) Statement {
	if len(b.loops) == 0 {
		b.diag.ReportBinding(b.loc(node.ContinueKeyword.Span), "'continue' is only valid inside a loop")
		return &ExpressionStatement{Expression: &ErrorExpression{}}
	}
	return &GotoStatement{Label: b.loops[len(b.loops)-1].continueLabel}
}

func (b *Binder) bindReturnStatement(node *syntax.ReturnStatement) Statement {
	var expr Expression
	if node.Expression != nil {
		expr = b.bindExpression(node.Expression)
	}

	switch {
	case b.function == nil:
		b.diag.ReportBinding(b.loc(node.ReturnKeyword.Span), "'return' is only valid inside a function")
	case b.function.ReturnType == symbols.Void:
		if expr != nil {
			b.diag.ReportBinding(b.loc(node.Expression.Span()), "function '%s' returns void; 'return' cannot carry a value", b.function.Name)
		}
	case expr == nil:
		b.diag.ReportBinding(b.loc(node.ReturnKeyword.Span), "function '%s' must return a value of type %s", b.function.Name, b.function.ReturnType)
	default:
		expr = b.convert(node.Expression, node.Expression.Span(), expr, b.function.ReturnType, false)
	}

	return &ReturnStatement{Expression: expr}
}

// --- expressions ---

// bindExpressionAllowVoid binds an expression that may legally be void
// (a top-level expression statement, e.g. a bare print(...) call).
func (b *Binder) bindExpressionAllowVoid(node syntax.Expression) Expression {
	return b.bindExpressionInternal(node)
}

// bindExpression binds an expression that must produce a value.
func (b *Binder) bindExpression(node syntax.Expression) Expression {
	result := b.bindExpressionInternal(node)
	if result.Type() == symbols.Void {
		b.diag.ReportBinding(b.loc(node.Span()), "expression must have a value")
		return &ErrorExpression{}
	}
	return result
}

func (b *Binder) bindExpressionOfType(node syntax.Expression, typ *symbols.Type) Expression {
	expr := b.bindExpression(node)
	return b.convert(node, node.Span(), expr, typ, false)
}

func (b *Binder) bindExpressionInternal(node syntax.Expression) Expression {
	switch n := node.(type) {
	case *syntax.LiteralExpression:
		return b.bindLiteralExpression(n)
	case *syntax.NameExpression:
		return b.bindNameExpression(n)
	case *syntax.AssignmentExpression:
		return b.bindAssignmentExpression(n)
	case *syntax.UnaryExpression:
		return b.bindUnaryExpression(n)
	case *syntax.BinaryExpression:
		return b.bindBinaryExpression(n)
	case *syntax.ParenthesizedExpression:
		return b.bindExpressionInternal(n.Expression)
	case *syntax.CallExpression:
		return b.bindCallExpression(n)
	case *syntax.ArrayAccessExpression:
		return b.bindArrayAccessExpression(n)
	case *syntax.ArrayAssignmentExpression:
		return b.bindArrayAssignmentExpression(n)
	case *syntax.ArrayInitializerExpression:
		if len(n.Elements.Items) == 0 {
			b.diag.ReportBinding(b.loc(n.Span()), "array literal requires a declared array type")
			return &ErrorExpression{}
		}
		// Without a declared type, the first element fixes the element type.
		first := b.bindExpression(n.Elements.Items[0])
		if first.Type() == symbols.Error {
			return &ErrorExpression{}
		}
		elements := []Expression{first}
		for _, el := range n.Elements.Items[1:] {
			elements = append(elements, b.bindExpressionOfType(el, first.Type()))
		}
		return &ArrayInitializerExpression{Elements: elements, Typ: symbols.ArrayOf(first.Type())}
	default:
		return &ErrorExpression{}
	}
}

func (b *Binder) bindLiteralExpression(node *syntax.LiteralExpression) Expression {
	switch v := node.Value.(type) {
	case bool:
		return &LiteralExpression{Value: v, Typ: symbols.Bool}
	case int64:
		return &LiteralExpression{Value: v, Typ: symbols.Int}
	case float64:
		return &LiteralExpression{Value: v, Typ: symbols.Float}
	case string:
		return &LiteralExpression{Value: v, Typ: symbols.String}
	default:
		return &ErrorExpression{}
	}
}

func (b *Binder) bindNameExpression(node *syntax.NameExpression) Expression {
	name := node.IdentifierToken.Lexeme
	if node.IdentifierToken.IsMissing() {
		return &ErrorExpression{}
	}
	variable, ok := b.scope.LookupVariable(name)
	if !ok {
		b.reportUndefinedName(b.loc(node.IdentifierToken.Span), name)
		return &ErrorExpression{}
	}
	return &VariableExpression{Variable: variable}
}

func (b *Binder) bindAssignmentExpression(node *syntax.AssignmentExpression) Expression {
	name := node.IdentifierToken.Lexeme
	boundExpr := b.bindExpression(node.Expression)

	variable, ok := b.scope.LookupVariable(name)
	if !ok {
		b.reportUndefinedName(b.loc(node.IdentifierToken.Span), name)
		return boundExpr
	}
	if variable.IsReadOnly {
		b.diag.ReportBinding(b.loc(node.IdentifierToken.Span), "'%s' is read-only and cannot be assigned to", name)
	}
	converted := b.convert(node.Expression, node.Expression.Span(), boundExpr, variable.Type, false)
	return &AssignmentExpression{Variable: variable, Expression: converted}
}

func (b *Binder) elementTypeOf(receiverType *symbols.Type, loc source.Location) *symbols.Type {
	switch {
	case receiverType == symbols.String:
		return symbols.String
	case receiverType.IsArray():
		return receiverType.ElementType()
	default:
		b.diag.ReportBinding(loc, "type %s is not indexable", receiverType)
		return symbols.Error
	}
}

func (b *Binder) bindArrayAccessExpression(node *syntax.ArrayAccessExpression) Expression {
	receiver := b.bindExpression(node.Receiver)
	elementType := b.elementTypeOf(receiver.Type(), b.loc(node.Span()))
	index := b.bindExpressionOfType(node.Index, symbols.Int)
	return &ArrayAccessExpression{Array: receiver, Index: index, Typ: elementType}
}

func (b *Binder) bindArrayAssignmentExpression(node *syntax.ArrayAssignmentExpression) Expression {
	receiver := b.bindExpression(node.Receiver)
	elementType := b.elementTypeOf(receiver.Type(), b.loc(node.Span()))
	index := b.bindExpressionOfType(node.Index, symbols.Int)
	value := b.bindExpressionOfType(node.Value, elementType)
	return &ArrayAssignmentExpression{Array: receiver, Index: index, Value: value, Typ: elementType}
}

func (b *Binder) bindArrayInitializerExpression(node *syntax.ArrayInitializerExpression, elementType *symbols.Type) Expression {
	elements := make([]Expression, len(node.Elements.Items))
	for i, el := range node.Elements.Items {
		elements[i] = b.bindExpressionOfType(el, elementType)
	}
	return &ArrayInitializerExpression{Elements: elements, Typ: symbols.ArrayOf(elementType)}
}

func (b *Binder) bindUnaryExpression(node *syntax.UnaryExpression) Expression {
	operand := b.bindExpression(node.Operand)
	if operand.Type() == symbols.Error {
		return &ErrorExpression{}
	}
	op := bindUnaryOperator(node.OperatorToken.Kind, operand.Type())
	if op == nil {
		b.diag.ReportBinding(b.loc(node.OperatorToken.Span), "unary operator '%s' is not defined for type %s",
			node.OperatorToken.Lexeme, operand.Type())
		return &ErrorExpression{}
	}
	return &UnaryExpression{Op: op, Operand: operand}
}

func (b *Binder) bindBinaryExpression(node *syntax.BinaryExpression) Expression {
	left := b.bindExpression(node.Left)
	right := b.bindExpression(node.Right)
	if left.Type() == symbols.Error || right.Type() == symbols.Error {
		return &ErrorExpression{}
	}
	left, right = b.widenMixedNumeric(node, left, right)
	op := bindBinaryOperator(node.OperatorToken.Kind, left.Type(), right.Type())
	if op == nil {
		b.diag.ReportBinding(b.loc(node.OperatorToken.Span), "binary operator '%s' is not defined for types %s and %s",
			node.OperatorToken.Lexeme, left.Type(), right.Type())
		return &ErrorExpression{}
	}
	return &BinaryExpression{Left: left, Op: op, Right: right}
}

// widenMixedNumeric implicitly promotes an int operand to float when the
// other operand is a float, so the binary-operator table (whose numeric
// rows only pair matching types) sees a uniform pair. This is what makes mixed
// int/float arithmetic and comparisons promote to float rather than fail
// to bind.
func (b *Binder) widenMixedNumeric(node *syntax.BinaryExpression, left, right Expression) (Expression, Expression) {
	if left.Type() == symbols.Int && right.Type() == symbols.Float {
		left = b.convert(node.Left, node.Left.Span(), left, symbols.Float, false)
	} else if left.Type() == symbols.Float && right.Type() == symbols.Int {
		right = b.convert(node.Right, node.Right.Span(), right, symbols.Float, false)
	}
	return left, right
}

func (b *Binder) bindCallExpression(node *syntax.CallExpression) Expression {
	// A single-argument call whose name names a type is an explicit
	// conversion, e.g. string(42) or int("7").
	if len(node.Arguments.Items) == 1 {
		if typ, ok := symbols.Lookup(node.Identifier.Lexeme); ok {
			return b.convertNode(node.Arguments.Items[0], typ, true)
		}
	}

	arguments := make([]Expression, len(node.Arguments.Items))
	for i, a := range node.Arguments.Items {
		arguments[i] = b.bindExpression(a)
	}

	fn, ok := b.scope.LookupFunction(node.Identifier.Lexeme)
	if !ok {
		b.reportUndefinedFunction(b.loc(node.Identifier.Span), node.Identifier.Lexeme, b.scope.AllNames())
		return &ErrorExpression{}
	}

	if len(arguments) != len(fn.Parameters) {
		// Too few arguments blames the closing paren; too many blames the
		// first surplus comma (or argument) through the last argument.
		span := node.CloseParen.Span
		if len(arguments) > len(fn.Parameters) {
			start := node.Arguments.Items[0].Span().Start
			if len(fn.Parameters) > 0 {
				start = node.Arguments.Separators[len(fn.Parameters)-1].Span.Start
			}
			span = source.FromBounds(start, node.Arguments.Items[len(arguments)-1].Span().End())
		}
		b.diag.ReportBinding(b.loc(span), "function '%s' expects %d argument(s), got %d",
			fn.Name, len(fn.Parameters), len(arguments))
		return &ErrorExpression{}
	}

	for i, arg := range node.Arguments.Items {
		arguments[i] = b.convert(arg, arg.Span(), arguments[i], fn.Parameters[i].Type, false)
	}

	return &CallExpression{Function: fn, Arguments: arguments}
}

// convertNode binds node fresh and converts it to typ; used where the
// pre-bound expression for the conversion is unavailable (explicit
// type-name calls such as string(42)).
func (b *Binder) convertNode(node syntax.Expression, typ *symbols.Type, allowExplicit bool) Expression {
	expr := b.bindExpression(node)
	return b.convert(node, node.Span(), expr, typ, allowExplicit)
}

// convert wraps expr in a BoundConversionExpression if needed, or
// reports a diagnostic if no conversion to typ exists.
func (b *Binder) convert(node syntax.Node, span source.TextSpan, expr Expression, typ *symbols.Type, allowExplicit bool) Expression {
	conv := ClassifyConversion(expr.Type(), typ)
	if !conv.Exists {
		if expr.Type() != symbols.Error && typ != symbols.Error {
			b.diag.ReportBinding(b.loc(span), "cannot convert %s to %s", expr.Type(), typ)
		}
		return &ErrorExpression{}
	}
	if !allowExplicit && !conv.IsImplicit {
		b.diag.ReportBinding(b.loc(span), "cannot implicitly convert %s to %s; an explicit conversion exists", expr.Type(), typ)
	}
	if conv.IsIdentity {
		return expr
	}
	return &ConversionExpression{Typ: typ, Expression: expr}
}

func (b *Binder) bindTypeClause(node *syntax.TypeClause) *symbols.Type {
	if node == nil {
		return symbols.Null
	}
	typ, ok := symbols.Lookup(node.Identifier.Lexeme)
	if !ok {
		b.diag.ReportBinding(b.loc(node.Identifier.Span), "undefined type '%s'", node.Identifier.Lexeme)
		return symbols.Error
	}
	return typ
}

func defaultValue(typ *symbols.Type) Expression {
	switch typ {
	case symbols.Int:
		return &LiteralExpression{Value: int64(0), Typ: symbols.Int}
	case symbols.Float:
		return &LiteralExpression{Value: float64(0), Typ: symbols.Float}
	case symbols.String:
		return &LiteralExpression{Value: "", Typ: symbols.String}
	case symbols.Bool:
		return &LiteralExpression{Value: false, Typ: symbols.Bool}
	case symbols.Any:
		return &LiteralExpression{Value: int64(0), Typ: symbols.Any}
	default:
		if typ.IsArray() {
			return &ArrayInitializerExpression{Typ: typ}
		}
		return &ErrorExpression{}
	}
}

func defaultArrayValue(elementType *symbols.Type, size int) Expression {
	elements := make([]Expression, size)
	for i := range elements {
		elements[i] = defaultValue(elementType)
	}
	return &ArrayInitializerExpression{Elements: elements, Typ: symbols.ArrayOf(elementType)}
}
