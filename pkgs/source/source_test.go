package source_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/minlang/pkgs/source"
)

func TestLineColumnForMultilineText(t *testing.T) {
	text := source.New("test", "var x = 1\nvar y = 2\n")
	line, col := text.LineColumn(10)
	require.Equal(t, 2, line)
	require.Equal(t, 1, col)
}

func TestLineTextExcludesLineBreak(t *testing.T) {
	text := source.New("test", "one\r\ntwo\n")
	require.Equal(t, "one", text.LineText(0))
	require.Equal(t, "two", text.LineText(1))
}

func TestHashIsStableForIdenticalContent(t *testing.T) {
	a := source.New("a", "var x = 1")
	b := source.New("b", "var x = 1")
	require.Equal(t, a.Hash(), b.Hash())
}

func TestHashDiffersForDifferentContent(t *testing.T) {
	a := source.New("a", "var x = 1")
	b := source.New("a", "var x = 2")
	require.NotEqual(t, a.Hash(), b.Hash())
}

func TestValueIsNFCNormalized(t *testing.T) {
	// "e" + combining acute accent (NFD) should normalize to the single
	// precomposed code point (NFC), keeping byte offsets stable for
	// identifiers built from combining-mark sequences.
	decomposed := "e\u0301"
	text := source.New("test", decomposed)
	require.Equal(t, "\u00e9", text.Value())
}
