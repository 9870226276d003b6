package symbols_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/minlang/pkgs/symbols"
)

func TestArrayOfInternsByElementType(t *testing.T) {
	a := symbols.ArrayOf(symbols.Int)
	b := symbols.ArrayOf(symbols.Int)
	require.Same(t, a, b)
	require.True(t, a.IsArray())
	require.Equal(t, "int[]", a.Name())
}

func TestArrayOfDistinctForDifferentElementTypes(t *testing.T) {
	ints := symbols.ArrayOf(symbols.Int)
	floats := symbols.ArrayOf(symbols.Float)
	require.NotSame(t, ints, floats)
}

func TestElementTypeReturnsUnderlyingType(t *testing.T) {
	arr := symbols.ArrayOf(symbols.String)
	require.Equal(t, symbols.String, arr.ElementType())
}

func TestElementTypePanicsOnScalar(t *testing.T) {
	require.Panics(t, func() { symbols.Int.ElementType() })
}

func TestLookupResolvesScalarNames(t *testing.T) {
	typ, ok := symbols.Lookup("int")
	require.True(t, ok)
	require.Equal(t, symbols.Int, typ)

	_, ok = symbols.Lookup("int[]")
	require.False(t, ok)
}
