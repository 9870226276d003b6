// Package diagnostics is an append-only collection of (location, message)
// pairs reported by the lexer, parser, and binder.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/minlang/pkgs/source"
)

// Kind discriminates the pipeline stage that raised a Diagnostic.
type Kind int

const (
	Lexical Kind = iota
	Syntax
	Binding
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical error"
	case Syntax:
		return "syntax error"
	case Binding:
		return "binding error"
	default:
		return "error"
	}
}

// Diagnostic is a single reported problem with a source location.
type Diagnostic struct {
	Kind     Kind
	Message  string
	Location source.Location
}

// Error implements the error interface with a Rust/Clang-style snippet:
// a "--> name:line:col" pointer, a gutter, the source line, and a caret.
func (d Diagnostic) Error() string {
	line, col := d.Location.LineColumn()
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", d.Kind, d.Message)
	if d.Location.Text == nil || line == 0 {
		return b.String()
	}
	name := d.Location.Text.Name()
	if name == "" {
		name = "<input>"
	}
	fmt.Fprintf(&b, "  --> %s:%d:%d\n", name, line, col)
	b.WriteString("   |\n")
	content := d.Location.Text.LineText(line - 1)
	fmt.Fprintf(&b, "%2d | %s\n", line, content)
	b.WriteString("   | ")
	if col > 0 && col <= len(content)+1 {
		b.WriteString(strings.Repeat(" ", col-1))
		width := d.Location.Span.Length
		if width < 1 {
			width = 1
		}
		b.WriteString(strings.Repeat("^", width))
	}
	return b.String()
}

// Bag is an append-only collection of diagnostics, shared across lexing,
// parsing, and binding a single compilation.
type Bag struct {
	items []Diagnostic
}

// NewBag returns an empty diagnostic bag.
func NewBag() *Bag { return &Bag{} }

// report appends a diagnostic of the given kind and location.
func (b *Bag) report(kind Kind, loc source.Location, format string, args ...interface{}) {
	b.items = append(b.items, Diagnostic{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	})
}

// ReportLexical records a lexer-stage diagnostic.
func (b *Bag) ReportLexical(loc source.Location, format string, args ...interface{}) {
	b.report(Lexical, loc, format, args...)
}

// ReportSyntax records a parser-stage diagnostic.
func (b *Bag) ReportSyntax(loc source.Location, format string, args ...interface{}) {
	b.report(Syntax, loc, format, args...)
}

// ReportBinding records a binder-stage diagnostic.
func (b *Bag) ReportBinding(loc source.Location, format string, args ...interface{}) {
	b.report(Binding, loc, format, args...)
}

// Items returns the diagnostics reported so far, in report order.
func (b *Bag) Items() []Diagnostic { return b.items }

// Len reports how many diagnostics have been collected.
func (b *Bag) Len() int { return len(b.items) }

// HasErrors reports whether any diagnostic has been collected.
func (b *Bag) HasErrors() bool { return len(b.items) > 0 }

// AddRange appends every diagnostic in other to b, in order.
func (b *Bag) AddRange(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

// Error concatenates every diagnostic's rendering, one per line, so a Bag
// can itself be used as a Go error when non-empty.
func (b *Bag) Error() string {
	var parts []string
	for _, d := range b.items {
		parts = append(parts, d.Error())
	}
	return strings.Join(parts, "\n")
}
