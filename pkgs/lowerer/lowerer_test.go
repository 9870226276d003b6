package lowerer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/minlang/pkgs/binder"
	"github.com/aledsdavies/minlang/pkgs/diagnostics"
	"github.com/aledsdavies/minlang/pkgs/lowerer"
	"github.com/aledsdavies/minlang/pkgs/parser"
	"github.com/aledsdavies/minlang/pkgs/source"
)

func bindStatement(t *testing.T, text string) binder.Statement {
	t.Helper()
	src := source.New("test", text)
	diag := diagnostics.NewBag()
	unit := parser.Parse(src, diag)
	global := binder.BindGlobalScope(nil, src, diag, unit)
	require.False(t, diag.HasErrors())
	program := binder.BindProgram(global, src, diag)
	require.False(t, diag.HasErrors())
	return program.Statement
}

func TestLowerFlattensIfStatementToConditionalGoto(t *testing.T) {
	stmt := bindStatement(t, "{ var x = 0  if x == 0 { x = 1 } }")
	lowered := lowerer.Lower(stmt)

	var sawConditionalGoto, sawLabel bool
	for _, s := range lowered.Statements {
		switch s.(type) {
		case *binder.ConditionalGotoStatement:
			sawConditionalGoto = true
		case *binder.LabelStatement:
			sawLabel = true
		}
	}
	require.True(t, sawConditionalGoto)
	require.True(t, sawLabel)
}

func TestLowerWhileProducesLoopBackToCondition(t *testing.T) {
	stmt := bindStatement(t, "{ var i = 0  while i < 3 { i = i + 1 } }")
	lowered := lowerer.Lower(stmt)

	var sawGoto, sawConditionalGoto int
	for _, s := range lowered.Statements {
		switch s.(type) {
		case *binder.GotoStatement:
			sawGoto++
		case *binder.ConditionalGotoStatement:
			sawConditionalGoto++
		}
	}
	require.Equal(t, 1, sawGoto)
	require.Equal(t, 1, sawConditionalGoto)
}

func TestLowerForIntroducesUpperBoundVariable(t *testing.T) {
	stmt := bindStatement(t, "{ for i = 1 to 10 { } }")
	lowered := lowerer.Lower(stmt)

	var sawUpperBoundDecl bool
	for _, s := range lowered.Statements {
		if decl, ok := s.(*binder.VariableDeclaration); ok && decl.Variable.Name == "upperBound1" {
			sawUpperBoundDecl = true
		}
	}
	require.True(t, sawUpperBoundDecl)
}

func TestLowerResultHasNoNestedBlocks(t *testing.T) {
	stmt := bindStatement(t, "{ var x = 0  if x == 0 { var y = 1  if y == 1 { x = 2 } } }")
	lowered := lowerer.Lower(stmt)

	for _, s := range lowered.Statements {
		_, isBlock := s.(*binder.BlockStatement)
		require.False(t, isBlock, "flattened result must not contain nested block statements")
	}
}

func TestLowerEmptyBlockProducesNoStatements(t *testing.T) {
	stmt := bindStatement(t, "{ }")
	lowered := lowerer.Lower(stmt)
	require.Empty(t, lowered.Statements)
}
