// Package compilation is the façade over the pipeline: parsing, binding,
// lowering, control-flow validation, and evaluation, chained across
// REPL submissions the way the underlying stages already chain their
// own Previous/parent links.
package compilation

import (
	"fmt"
	"io"
	"strings"

	"github.com/aledsdavies/minlang/pkgs/binder"
	"github.com/aledsdavies/minlang/pkgs/cfg"
	"github.com/aledsdavies/minlang/pkgs/diagnostics"
	"github.com/aledsdavies/minlang/pkgs/evaluator"
	"github.com/aledsdavies/minlang/pkgs/lowerer"
	"github.com/aledsdavies/minlang/pkgs/parser"
	"github.com/aledsdavies/minlang/pkgs/source"
	"github.com/aledsdavies/minlang/pkgs/symbols"
	"github.com/aledsdavies/minlang/pkgs/syntax"
)

// Compilation binds one submission's syntax tree against a scope chain
// that includes every prior submission (Previous), the way a REPL
// session accumulates variables and functions across lines.
type Compilation struct {
	Previous *Compilation
	Text     *source.Text
	Unit     *syntax.CompilationUnit
	Diag     *diagnostics.Bag

	// Variables is the runtime variable store, shared across an entire
	// ContinueWith chain so a REPL session's declared globals stay set
	// across submissions, the way the original passed one variables
	// map by reference through every call to Compilation::Evaluate.
	Variables map[*symbols.Variable]any

	globalScope *binder.GlobalScope
	cache       *Cache
}

// New parses source text into a fresh, unbound Compilation. previous may
// be nil for a standalone program, or the prior REPL submission.
func New(name, text string, previous *Compilation) *Compilation {
	src := source.New(name, text)
	diag := diagnostics.NewBag()
	unit := parser.Parse(src, diag)
	variables := map[*symbols.Variable]any{}
	if previous != nil {
		variables = previous.Variables
	}
	return &Compilation{Previous: previous, Text: src, Unit: unit, Diag: diag, Variables: variables}
}

// WithCache attaches an on-disk binding-result cache to the compilation
// chain.
func (c *Compilation) WithCache(cache *Cache) *Compilation {
	c.cache = cache
	return c
}

// GlobalScope binds (once, lazily) this submission's top-level members
// against the accumulated scope of every earlier submission.
func (c *Compilation) GlobalScope() *binder.GlobalScope {
	if c.globalScope == nil {
		var previousScope *binder.GlobalScope
		if c.Previous != nil {
			previousScope = c.Previous.GlobalScope()
		}
		c.globalScope = binder.BindGlobalScope(previousScope, c.Text, c.Diag, c.Unit)
	}
	return c.globalScope
}

// Program binds every function body in the scope chain and the
// top-level statements, lowers each to a flat goto-based block, and
// reports a diagnostic for any non-void function with a path that
// doesn't return.
func (c *Compilation) Program() (*binder.Program, *diagnostics.Bag) {
	globalScope := c.GlobalScope()
	program := binder.BindProgram(globalScope, c.Text, c.Diag)

	loweredFunctions := map[*symbols.Function]binder.Statement{}
	for fn, body := range program.Functions {
		lowered := lowerer.Lower(body)
		loweredFunctions[fn] = lowered
		if fn.ReturnType != symbols.Void && !cfg.AllPathsReturn(lowered) {
			c.Diag.ReportBinding(source.Location{Text: c.Text}, "not all code paths in function '%s' return a value", fn.Name)
		}
	}

	loweredStatement := lowerer.Lower(program.Statement)

	return &binder.Program{Functions: loweredFunctions, Statement: loweredStatement}, c.Diag
}

// Evaluate binds and lowers the program, then runs it, writing print
// output to out and reading input calls from in. It refuses to run a
// program with diagnostics: evaluation assumes a clean bind. When a
// cache is attached, a hash that previously bound with errors fails
// fast from the cached diagnostics instead of re-binding, the common
// case for a REPL or watch loop re-submitting source it has already
// seen fail.
func (c *Compilation) Evaluate(in io.Reader, out io.Writer) (any, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Get(c.CacheKey()); ok && len(cached) > 0 {
			return nil, cachedDiagnosticsError(cached)
		}
	}

	program, diag := c.Program()
	if c.cache != nil {
		c.cache.Put(c.CacheKey(), diag)
	}
	if diag.HasErrors() {
		return nil, diag
	}

	ev := evaluator.New(program, c.Variables, in, out)
	return ev.Run()
}

func cachedDiagnosticsError(cached []CachedDiagnostic) error {
	lines := make([]string, len(cached))
	for i, d := range cached {
		lines[i] = d.String()
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

// Diagnostics returns every diagnostic accumulated across this
// submission and its ancestors, in submission order.
func (c *Compilation) Diagnostics() *diagnostics.Bag {
	all := diagnostics.NewBag()
	if c.Previous != nil {
		all.AddRange(c.Previous.Diagnostics())
	}
	all.AddRange(c.Diag)
	return all
}

// ContinueWith starts a new Compilation that sees every name this one
// (and its ancestors) declared, the way a REPL accepts one line at a
// time while remembering everything typed before it.
func (c *Compilation) ContinueWith(name, text string) *Compilation {
	return New(name, text, c)
}

// CacheKey returns the content hash used to look up or store this
// submission's bind result.
func (c *Compilation) CacheKey() string { return c.Text.Hash() }

// EmitTree writes the parsed syntax tree, for the REPL's #showTree.
func (c *Compilation) EmitTree(w io.Writer) {
	syntax.WriteTo(w, c.Unit)
}

// EmitProgram writes the lowered, flattened statement list for every
// function and the top-level program, for the REPL's #showProgram.
func (c *Compilation) EmitProgram(w io.Writer) {
	program, _ := c.Program()
	for fn, body := range program.Functions {
		fmt.Fprintf(w, "function %s:\n", fn.Name)
		writeBoundStatements(w, body)
	}
	fmt.Fprintln(w, "<global>:")
	writeBoundStatements(w, program.Statement)
}

func writeBoundStatements(w io.Writer, stmt binder.Statement) {
	block, ok := stmt.(*binder.BlockStatement)
	if !ok {
		fmt.Fprintf(w, "  %T\n", stmt)
		return
	}
	for i, s := range block.Statements {
		switch n := s.(type) {
		case *binder.LabelStatement:
			fmt.Fprintf(w, "%s:\n", n.Label.Name)
		case *binder.GotoStatement:
			fmt.Fprintf(w, "    goto %s\n", n.Label.Name)
		case *binder.ConditionalGotoStatement:
			fmt.Fprintf(w, "    goto %s if%s <cond>\n", n.Label.Name, ifNot(n.JumpIfTrue))
		default:
			fmt.Fprintf(w, "    [%d] %T\n", i, s)
		}
	}
}

func ifNot(jumpIfTrue bool) string {
	if jumpIfTrue {
		return ""
	}
	return " not"
}

// EmitBoundTree writes an indentation-tree dump of the bound (pre-lowering)
// program, the way EmitTree dumps the parsed syntax tree, for the REPL's
// #showBoundTree.
func (c *Compilation) EmitBoundTree(w io.Writer) {
	globalScope := c.GlobalScope()
	program := binder.BindProgram(globalScope, c.Text, c.Diag)
	for fn, body := range program.Functions {
		fmt.Fprintf(w, "function %s:\n", fn.Name)
		binder.WriteTo(w, body)
	}
	fmt.Fprintln(w, "<global>:")
	binder.WriteTo(w, program.Statement)
}
