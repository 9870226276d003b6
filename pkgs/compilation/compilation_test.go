package compilation_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/minlang/pkgs/compilation"
)

func evaluate(t *testing.T, text string) (any, string, error) {
	t.Helper()
	c := compilation.New("test", text, nil)
	var out bytes.Buffer
	value, err := c.Evaluate(strings.NewReader(""), &out)
	return value, out.String(), err
}

func TestEvaluatesArithmeticExpression(t *testing.T) {
	value, _, err := evaluate(t, "1 + 2 * 3")
	require.NoError(t, err)
	require.Equal(t, int64(7), value)
}

func TestEvaluatesRecursiveFunction(t *testing.T) {
	value, _, err := evaluate(t, `
		function fac(n: int): int {
			if n <= 1 {
				return 1
			}
			return n * fac(n - 1)
		}
		fac(5)
	`)
	require.NoError(t, err)
	require.Equal(t, int64(120), value)
}

func TestEvaluatesWhileLoop(t *testing.T) {
	value, _, err := evaluate(t, `
		{
			var result = 0
			var i = 0
			while i < 5 {
				result = result + i
				i = i + 1
			}
			result
		}
	`)
	require.NoError(t, err)
	require.Equal(t, int64(10), value)
}

func TestEvaluatesForLoopInclusiveBounds(t *testing.T) {
	value, _, err := evaluate(t, `
		{
			var total = 0
			for i = 1 to 5 {
				total = total + i
			}
			total
		}
	`)
	require.NoError(t, err)
	require.Equal(t, int64(15), value)
}

func TestPrintReturnsStringButDeclaresVoid(t *testing.T) {
	value, out, err := evaluate(t, `print("hi")`)
	require.NoError(t, err)
	require.Equal(t, "hi", out)
	require.Equal(t, "hi", value)
}

func TestPrintCannotBeUsedAsAValue(t *testing.T) {
	_, _, err := evaluate(t, `var x = print("hi") + "!"`)
	require.Error(t, err)
}

func TestArrayMutationIsVisibleAfterAssignment(t *testing.T) {
	value, _, err := evaluate(t, `
		{
			var a = [1, 2, 3]
			a[1] = 9
			a[1]
		}
	`)
	require.NoError(t, err)
	require.Equal(t, int64(9), value)
}

func TestBreakExitsLoopEarly(t *testing.T) {
	value, _, err := evaluate(t, `
		{
			var i = 0
			while true {
				if i == 3 {
					break
				}
				i = i + 1
			}
			i
		}
	`)
	require.NoError(t, err)
	require.Equal(t, int64(3), value)
}

func TestFunctionMissingReturnOnSomePathReportsDiagnostic(t *testing.T) {
	c := compilation.New("test", `
		function f(n: int): int {
			if n > 0 {
				return 1
			}
		}
		f(1)
	`, nil)
	_, diag := c.Program()
	require.True(t, diag.HasErrors())
	require.Contains(t, diag.Error(), "not all code paths")
}

func TestUndefinedNameSuggestsClosestMatch(t *testing.T) {
	c := compilation.New("test", `
		{
			var count = 1
			coutn
		}
	`, nil)
	_, diag := c.Program()
	require.True(t, diag.HasErrors())
	require.Contains(t, diag.Error(), "did you mean 'count'")
}

func TestReplSubmissionSeesEarlierVariables(t *testing.T) {
	first := compilation.New("line1", "var x = 10", nil)
	var out bytes.Buffer
	_, err := first.Evaluate(strings.NewReader(""), &out)
	require.NoError(t, err)

	second := first.ContinueWith("line2", "x + 5")
	value, _, err := second.Evaluate(strings.NewReader(""), &out)
	require.NoError(t, err)
	require.Equal(t, int64(15), value)
}

func TestExplicitConversionBetweenStringAndInt(t *testing.T) {
	value, _, err := evaluate(t, `int("42") + 1`)
	require.NoError(t, err)
	require.Equal(t, int64(43), value)
}

func TestImplicitIntToFloatWidening(t *testing.T) {
	value, _, err := evaluate(t, `var x: float = 3  x + 0.5`)
	require.NoError(t, err)
	require.InDelta(t, 3.5, value.(float64), 0.0001)
}

func TestMixedIntFloatLiteralAdditionPromotesToFloat(t *testing.T) {
	value, _, err := evaluate(t, `2 + 3.5`)
	require.NoError(t, err)
	require.InDelta(t, 5.5, value.(float64), 0.0001)
}

func TestMixedFloatIntLiteralAdditionPromotesToFloat(t *testing.T) {
	value, _, err := evaluate(t, `3.5 + 2`)
	require.NoError(t, err)
	require.InDelta(t, 5.5, value.(float64), 0.0001)
}

func TestMixedIntFloatComparisonComparesNumerically(t *testing.T) {
	value, _, err := evaluate(t, `1 < 1.5`)
	require.NoError(t, err)
	require.Equal(t, true, value)
}
