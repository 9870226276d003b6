package binder_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aledsdavies/minlang/pkgs/binder"
	"github.com/aledsdavies/minlang/pkgs/diagnostics"
	"github.com/aledsdavies/minlang/pkgs/parser"
	"github.com/aledsdavies/minlang/pkgs/source"
)

// diagnosticSummary projects a diagnostics.Diagnostic down to the fields
// that matter for an equality check, leaving out Location.Text (a *Text
// pointer cmp.Diff can't walk into) while keeping the span it points at.
type diagnosticSummary struct {
	Kind    diagnostics.Kind
	Message string
	Start   int
	Length  int
}

func summarize(bag *diagnostics.Bag) []diagnosticSummary {
	items := bag.Items()
	out := make([]diagnosticSummary, len(items))
	for i, d := range items {
		out[i] = diagnosticSummary{
			Kind:    d.Kind,
			Message: d.Message,
			Start:   d.Location.Span.Start,
			Length:  d.Location.Span.Length,
		}
	}
	return out
}

// bindErroring binds text from scratch and returns its diagnostic summary.
func bindErroring(t *testing.T, text string) []diagnosticSummary {
	t.Helper()
	src := source.New("test", text)
	diag := diagnostics.NewBag()
	unit := parser.Parse(src, diag)
	binder.BindGlobalScope(nil, src, diag, unit)
	return summarize(diag)
}

// TestBindingTheSameErroringProgramTwiceProducesTheSameDiagnostics checks
// spec §8's idempotence property: binding a program that fails to bind
// is a pure function of its text, so re-binding it (the way a REPL
// re-submits a failed line, or a watch loop re-reads an unchanged file)
// must not accumulate, drop, or reorder diagnostics between runs.
func TestBindingTheSameErroringProgramTwiceProducesTheSameDiagnostics(t *testing.T) {
	const text = "{ var x = 1  var x = 2  y + 1 }"

	first := bindErroring(t, text)
	second := bindErroring(t, text)

	if len(first) == 0 {
		t.Fatalf("expected the program to fail binding, got no diagnostics")
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("binding the same erroring program twice diverged (-first +second):\n%s", diff)
	}
}

// TestBindingTheSameUndefinedNameErrorTwiceProducesTheSameSuggestion
// covers the fuzzy "did you mean" suggestion path specifically, since it
// depends on scope contents rather than a fixed message template.
func TestBindingTheSameUndefinedNameErrorTwiceProducesTheSameSuggestion(t *testing.T) {
	const text = "{ var count = 1  coutn + 1 }"

	first := bindErroring(t, text)
	second := bindErroring(t, text)

	if len(first) == 0 {
		t.Fatalf("expected the program to fail binding, got no diagnostics")
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("binding the same erroring program twice diverged (-first +second):\n%s", diff)
	}
}
