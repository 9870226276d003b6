package syntax_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/minlang/pkgs/diagnostics"
	"github.com/aledsdavies/minlang/pkgs/parser"
	"github.com/aledsdavies/minlang/pkgs/source"
	"github.com/aledsdavies/minlang/pkgs/syntax"
)

func TestWriteToDrawsNestedBlockStatement(t *testing.T) {
	diag := diagnostics.NewBag()
	unit := parser.Parse(source.New("test", "{ var a = 10  a * a }"), diag)
	require.False(t, diag.HasErrors())

	var buf strings.Builder
	syntax.WriteTo(&buf, unit)
	out := buf.String()

	require.Contains(t, out, "CompilationUnit")
	require.Contains(t, out, "GlobalStatement")
	require.Contains(t, out, "BlockStatement")
	require.Contains(t, out, "VariableDeclaration a")
	require.Contains(t, out, "BinaryExpression")
}

func TestWriteToLastChildUsesCornerConnector(t *testing.T) {
	diag := diagnostics.NewBag()
	unit := parser.Parse(source.New("test", "1 + 2"), diag)
	require.False(t, diag.HasErrors())

	var buf strings.Builder
	syntax.WriteTo(&buf, unit)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	require.True(t, strings.HasPrefix(lines[len(lines)-1], "    └── ") ||
		strings.Contains(lines[len(lines)-1], "└── "))
}

func TestWriteToFunctionDeclarationNamesTheFunction(t *testing.T) {
	diag := diagnostics.NewBag()
	unit := parser.Parse(source.New("test", "function fac(n: int): int { return n }"), diag)
	require.False(t, diag.HasErrors())

	var buf strings.Builder
	syntax.WriteTo(&buf, unit)

	require.Contains(t, buf.String(), "FunctionDeclaration fac")
	require.Contains(t, buf.String(), "ReturnStatement")
}
