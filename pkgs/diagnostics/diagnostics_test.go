package diagnostics_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/minlang/pkgs/diagnostics"
	"github.com/aledsdavies/minlang/pkgs/source"
)

func TestReportBindingAppendsADiagnostic(t *testing.T) {
	bag := diagnostics.NewBag()
	text := source.New("test", "var x = y")
	loc := source.Location{Text: text, Span: source.TextSpan{Start: 8, Length: 1}}

	bag.ReportBinding(loc, "undefined name '%s'", "y")

	require.True(t, bag.HasErrors())
	require.Equal(t, 1, bag.Len())
	require.Equal(t, diagnostics.Binding, bag.Items()[0].Kind)
	require.Contains(t, bag.Error(), "undefined name 'y'")
}

func TestErrorRendersSourceSnippetWithCaret(t *testing.T) {
	bag := diagnostics.NewBag()
	text := source.New("test.mn", "var x = y")
	loc := source.Location{Text: text, Span: source.TextSpan{Start: 8, Length: 1}}

	bag.ReportBinding(loc, "undefined name 'y'")

	rendered := bag.Items()[0].Error()
	require.Contains(t, rendered, "test.mn:1:9")
	require.Contains(t, rendered, "var x = y")
}

func TestAddRangeMergesTwoBagsInOrder(t *testing.T) {
	first := diagnostics.NewBag()
	first.ReportSyntax(source.Location{}, "first")
	second := diagnostics.NewBag()
	second.ReportSyntax(source.Location{}, "second")

	first.AddRange(second)

	require.Equal(t, 2, first.Len())
	require.Equal(t, "first", first.Items()[0].Message)
	require.Equal(t, "second", first.Items()[1].Message)
}

func TestEmptyBagHasNoErrors(t *testing.T) {
	bag := diagnostics.NewBag()
	require.False(t, bag.HasErrors())
	require.Equal(t, 0, bag.Len())
}
