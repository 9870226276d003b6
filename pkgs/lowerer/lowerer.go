// Package lowerer rewrites a bound tree's structured control flow
// (if/while/for, break/continue) into labels and gotos, then flattens
// nested blocks into a single linear statement list the evaluator can
// step through with a program counter.
package lowerer

import (
	"strconv"

	"github.com/aledsdavies/minlang/pkgs/binder"
	"github.com/aledsdavies/minlang/pkgs/symbols"
)

type lowerer struct {
	labelCount      int
	upperBoundCount int
}

// Lower rewrites node's control flow to gotos and flattens the result
// into a single block statement.
func Lower(node binder.Statement) *binder.BlockStatement {
	l := &lowerer{}
	rewritten := l.rewriteStatement(node)
	return flatten(rewritten)
}

func (l *lowerer) generateLabel() binder.Label {
	l.labelCount++
	return binder.Label{Name: "label" + strconv.Itoa(l.labelCount)}
}

func (l *lowerer) rewriteStatement(node binder.Statement) binder.Statement {
	switch n := node.(type) {
	case *binder.BlockStatement:
		statements := make([]binder.Statement, len(n.Statements))
		for i, s := range n.Statements {
			statements[i] = l.rewriteStatement(s)
		}
		return &binder.BlockStatement{Statements: statements}
	case *binder.IfStatement:
		return l.rewriteIfStatement(n)
	case *binder.WhileStatement:
		return l.rewriteWhileStatement(n)
	case *binder.ForStatement:
		return l.rewriteForStatement(n)
	default:
		// Variable declarations, expression statements, return, goto,
		// label, and conditional-goto statements carry no nested
		// control-flow structure of their own; they pass through as-is.
		return node
	}
}

func (l *lowerer) rewriteIfStatement(node *binder.IfStatement) binder.Statement {
	if node.Else == nil {
		endLabel := l.generateLabel()
		gotoFalse := &binder.ConditionalGotoStatement{Label: endLabel, Condition: node.Condition, JumpIfTrue: false}
		endLabelStatement := &binder.LabelStatement{Label: endLabel}
		result := &binder.BlockStatement{Statements: []binder.Statement{gotoFalse, node.Then, endLabelStatement}}
		return l.rewriteStatement(result)
	}

	elseLabel := l.generateLabel()
	endLabel := l.generateLabel()
	gotoFalse := &binder.ConditionalGotoStatement{Label: elseLabel, Condition: node.Condition, JumpIfTrue: false}
	gotoEnd := &binder.GotoStatement{Label: endLabel}
	elseLabelStatement := &binder.LabelStatement{Label: elseLabel}
	endLabelStatement := &binder.LabelStatement{Label: endLabel}
	result := &binder.BlockStatement{Statements: []binder.Statement{
		gotoFalse, node.Then, gotoEnd, elseLabelStatement, node.Else, endLabelStatement,
	}}
	return l.rewriteStatement(result)
}

func (l *lowerer) rewriteWhileStatement(node *binder.WhileStatement) binder.Statement {
	bodyLabel := l.generateLabel()

	gotoContinue := &binder.GotoStatement{Label: node.ContinueLabel}
	bodyLabelStatement := &binder.LabelStatement{Label: bodyLabel}
	continueLabelStatement := &binder.LabelStatement{Label: node.ContinueLabel}
	gotoTrue := &binder.ConditionalGotoStatement{Label: bodyLabel, Condition: node.Condition, JumpIfTrue: true}
	breakLabelStatement := &binder.LabelStatement{Label: node.BreakLabel}

	result := &binder.BlockStatement{Statements: []binder.Statement{
		gotoContinue, bodyLabelStatement, node.Body, continueLabelStatement, gotoTrue, breakLabelStatement,
	}}
	return l.rewriteStatement(result)
}

func (l *lowerer) rewriteForStatement(node *binder.ForStatement) binder.Statement {
	l.upperBoundCount++
	upperBoundVar := &symbols.Variable{
		Name:       "upperBound" + strconv.Itoa(l.upperBoundCount),
		Kind:       symbols.LocalVariable,
		Type:       symbols.Int,
		IsReadOnly: true,
	}

	variableDeclaration := &binder.VariableDeclaration{Variable: node.Variable, Initializer: node.LowerBound}
	upperBoundDeclaration := &binder.VariableDeclaration{Variable: upperBoundVar, Initializer: node.UpperBound}

	variableExpr := &binder.VariableExpression{Variable: node.Variable}
	condition := &binder.BinaryExpression{
		Left:  variableExpr,
		Op:    &binder.BinaryOperator{Kind: binder.LessOrEquals, LeftType: symbols.Int, RightType: symbols.Int, ResultType: symbols.Bool},
		Right: &binder.VariableExpression{Variable: upperBoundVar},
	}

	continueLabelStatement := &binder.LabelStatement{Label: node.ContinueLabel}
	increment := &binder.ExpressionStatement{Expression: &binder.AssignmentExpression{
		Variable: node.Variable,
		Expression: &binder.BinaryExpression{
			Left:  variableExpr,
			Op:    &binder.BinaryOperator{Kind: binder.Addition, LeftType: symbols.Int, RightType: symbols.Int, ResultType: symbols.Int},
			Right: &binder.LiteralExpression{Value: int64(1), Typ: symbols.Int},
		},
	}}

	whileBody := &binder.BlockStatement{Statements: []binder.Statement{node.Body, continueLabelStatement, increment}}
	whileStatement := &binder.WhileStatement{
		Condition:     condition,
		Body:          whileBody,
		BreakLabel:    node.BreakLabel,
		ContinueLabel: l.generateLabel(),
	}

	result := &binder.BlockStatement{Statements: []binder.Statement{variableDeclaration, upperBoundDeclaration, whileStatement}}
	return l.rewriteStatement(result)
}

// flatten walks nested block statements in pre-order, via an explicit
// stack, producing a single linear statement list.
func flatten(node binder.Statement) *binder.BlockStatement {
	var statements []binder.Statement
	stack := []binder.Statement{node}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if block, ok := current.(*binder.BlockStatement); ok {
			for i := len(block.Statements) - 1; i >= 0; i-- {
				stack = append(stack, block.Statements[i])
			}
			continue
		}
		statements = append(statements, current)
	}

	return &binder.BlockStatement{Statements: statements}
}
