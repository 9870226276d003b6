package evaluator_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/minlang/pkgs/binder"
	"github.com/aledsdavies/minlang/pkgs/cfg"
	"github.com/aledsdavies/minlang/pkgs/diagnostics"
	"github.com/aledsdavies/minlang/pkgs/evaluator"
	"github.com/aledsdavies/minlang/pkgs/lowerer"
	"github.com/aledsdavies/minlang/pkgs/parser"
	"github.com/aledsdavies/minlang/pkgs/source"
	"github.com/aledsdavies/minlang/pkgs/symbols"
)

func run(t *testing.T, text string) (any, string) {
	t.Helper()
	src := source.New("test", text)
	diag := diagnostics.NewBag()
	unit := parser.Parse(src, diag)
	global := binder.BindGlobalScope(nil, src, diag, unit)
	require.False(t, diag.HasErrors())
	boundProgram := binder.BindProgram(global, src, diag)
	require.False(t, diag.HasErrors())

	functions := map[*symbols.Function]binder.Statement{}
	for fn, body := range boundProgram.Functions {
		lowered := lowerer.Lower(body)
		require.True(t, fn.ReturnType == symbols.Void || cfg.AllPathsReturn(lowered))
		functions[fn] = lowered
	}
	program := &binder.Program{Functions: functions, Statement: lowerer.Lower(boundProgram.Statement)}

	var out bytes.Buffer
	ev := evaluator.New(program, map[*symbols.Variable]any{}, strings.NewReader(""), &out)
	value, err := ev.Run()
	require.NoError(t, err)
	return value, out.String()
}

func TestArithmeticPrecedence(t *testing.T) {
	value, _ := run(t, "2 + 3 * 4")
	require.Equal(t, int64(14), value)
}

func TestStringConcatenationWithInt(t *testing.T) {
	value, _ := run(t, `"n=" + 5`)
	require.Equal(t, "n=5", value)
}

func TestArrayIndexingReadsElement(t *testing.T) {
	value, _ := run(t, "{ var a = [10, 20, 30]  a[2] }")
	require.Equal(t, int64(30), value)
}

func TestStringIndexingReturnsSingleCharacter(t *testing.T) {
	value, _ := run(t, `{ var s = "hello"  s[1] }`)
	require.Equal(t, "e", value)
}

func TestArrayOutOfBoundsIsRuntimeError(t *testing.T) {
	src := source.New("test", "{ var a = [1, 2]  a[5] }")
	diag := diagnostics.NewBag()
	unit := parser.Parse(src, diag)
	global := binder.BindGlobalScope(nil, src, diag, unit)
	require.False(t, diag.HasErrors())
	boundProgram := binder.BindProgram(global, src, diag)
	require.False(t, diag.HasErrors())
	program := &binder.Program{Functions: map[*symbols.Function]binder.Statement{}, Statement: lowerer.Lower(boundProgram.Statement)}

	var out bytes.Buffer
	ev := evaluator.New(program, map[*symbols.Variable]any{}, strings.NewReader(""), &out)
	_, err := ev.Run()
	require.Error(t, err)
	require.Contains(t, err.Error(), "out of bounds")
}

func TestRecursiveFactorial(t *testing.T) {
	value, _ := run(t, `
		function fac(n: int): int {
			if n <= 1 {
				return 1
			}
			return n * fac(n - 1)
		}
		fac(6)
	`)
	require.Equal(t, int64(720), value)
}

func TestPrintWritesToOutAndReturnsItsArgument(t *testing.T) {
	value, out := run(t, `print("hello")`)
	require.Equal(t, "hello", value)
	require.Equal(t, "hello", out)
}

func TestSizeAndLenBuiltins(t *testing.T) {
	value, _ := run(t, `{ var a = [1, 2, 3]  size(a) + len("ab") }`)
	require.Equal(t, int64(5), value)
}
