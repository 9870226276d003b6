package binder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/minlang/pkgs/binder"
	"github.com/aledsdavies/minlang/pkgs/diagnostics"
	"github.com/aledsdavies/minlang/pkgs/parser"
	"github.com/aledsdavies/minlang/pkgs/source"
	"github.com/aledsdavies/minlang/pkgs/symbols"
)

func bindGlobal(t *testing.T, text string) (*binder.GlobalScope, *diagnostics.Bag) {
	t.Helper()
	src := source.New("test", text)
	diag := diagnostics.NewBag()
	unit := parser.Parse(src, diag)
	scope := binder.BindGlobalScope(nil, src, diag, unit)
	return scope, diag
}

func TestBindsGlobalVariableWithInferredType(t *testing.T) {
	scope, diag := bindGlobal(t, "var x = 10")
	require.False(t, diag.HasErrors())
	require.Len(t, scope.Variables, 1)
	require.Equal(t, symbols.Int, scope.Variables[0].Type)
	require.Equal(t, symbols.GlobalVariable, scope.Variables[0].Kind)
}

func TestRedeclaringInSameScopeReportsDiagnostic(t *testing.T) {
	_, diag := bindGlobal(t, "{ var x = 1  var x = 2 }")
	require.True(t, diag.HasErrors())
	require.Contains(t, diag.Error(), "already declared")
}

func TestAssigningReadOnlyVariableReportsDiagnostic(t *testing.T) {
	_, diag := bindGlobal(t, "{ let x = 1  x = 2 }")
	require.True(t, diag.HasErrors())
	require.Contains(t, diag.Error(), "read-only")
}

func TestIntToFloatConversionIsImplicitAndFloatToIntDoesNotExist(t *testing.T) {
	require.True(t, binder.ClassifyConversion(symbols.Int, symbols.Float).Exists)
	require.True(t, binder.ClassifyConversion(symbols.Int, symbols.Float).IsImplicit)
	require.False(t, binder.ClassifyConversion(symbols.Float, symbols.Int).Exists)
}

func TestMixedIntFloatBinaryExpressionWidensTheIntOperand(t *testing.T) {
	scope, diag := bindGlobal(t, "2 + 3.5")
	require.False(t, diag.HasErrors())
	require.Len(t, scope.Statements, 1)

	stmt, ok := scope.Statements[0].(*binder.ExpressionStatement)
	require.True(t, ok)
	bin, ok := stmt.Expression.(*binder.BinaryExpression)
	require.True(t, ok)
	require.Equal(t, symbols.Float, bin.Type())

	conv, ok := bin.Left.(*binder.ConversionExpression)
	require.True(t, ok)
	require.Equal(t, symbols.Float, conv.Typ)
	require.Equal(t, symbols.Int, conv.Expression.Type())
}

func TestMixedFloatIntComparisonWidensTheIntOperand(t *testing.T) {
	scope, diag := bindGlobal(t, "1 < 1.5")
	require.False(t, diag.HasErrors())
	require.Len(t, scope.Statements, 1)

	stmt, ok := scope.Statements[0].(*binder.ExpressionStatement)
	require.True(t, ok)
	bin, ok := stmt.Expression.(*binder.BinaryExpression)
	require.True(t, ok)
	require.Equal(t, symbols.Bool, bin.Type())

	conv, ok := bin.Left.(*binder.ConversionExpression)
	require.True(t, ok)
	require.Equal(t, symbols.Float, conv.Typ)
}

func TestStringToIntRequiresExplicitConversion(t *testing.T) {
	conv := binder.ClassifyConversion(symbols.String, symbols.Int)
	require.True(t, conv.Exists)
	require.False(t, conv.IsImplicit)
}

func TestAnyAcceptsEveryNonVoidType(t *testing.T) {
	require.True(t, binder.ClassifyConversion(symbols.Int, symbols.Any).IsImplicit)
	require.True(t, binder.ClassifyConversion(symbols.String, symbols.Any).IsImplicit)
	require.False(t, binder.ClassifyConversion(symbols.Void, symbols.Any).Exists)
}

func TestBreakOutsideLoopReportsDiagnostic(t *testing.T) {
	_, diag := bindGlobal(t, "break")
	require.True(t, diag.HasErrors())
	require.Contains(t, diag.Error(), "only valid inside a loop")
}

func TestFunctionParametersAreVisibleInBody(t *testing.T) {
	src := source.New("test", "function add(a: int, b: int): int { return a + b } add(1, 2)")
	diag := diagnostics.NewBag()
	unit := parser.Parse(src, diag)
	global := binder.BindGlobalScope(nil, src, diag, unit)
	require.False(t, diag.HasErrors())
	program := binder.BindProgram(global, src, diag)
	require.False(t, diag.HasErrors())
	require.Len(t, program.Functions, 1)
}

func TestDuplicateParameterNameReportsDiagnostic(t *testing.T) {
	_, diag := bindGlobal(t, "function f(a: int, a: int): void { }")
	require.True(t, diag.HasErrors())
	require.Contains(t, diag.Error(), "already declared")
}
