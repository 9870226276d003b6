package binder

import (
	"github.com/aledsdavies/minlang/pkgs/diagnostics"
	"github.com/aledsdavies/minlang/pkgs/source"
	"github.com/aledsdavies/minlang/pkgs/symbols"
	"github.com/aledsdavies/minlang/pkgs/syntax"
)

// GlobalScope is the result of binding one compilation unit's top-level
// members: every global variable, every declared function, and the
// bound top-level statements (unlowered). Previous chains to the
// GlobalScope of an earlier REPL submission, letting later submissions
// see names the earlier ones declared.
type GlobalScope struct {
	Previous   *GlobalScope
	Variables  []*symbols.Variable
	Functions  []*symbols.Function
	Statements []Statement
}

// Program is the result of binding every function body against the
// final global scope. Bodies here are unlowered bound trees; lowering
// to gotos/labels and control-flow validation are a separate pass
// (pkgs/lowerer, pkgs/cfg) orchestrated by pkgs/compilation.
type Program struct {
	Functions map[*symbols.Function]Statement
	Statement Statement
}

// BindGlobalScope binds a compilation unit's function declarations and
// top-level statements against the scope chain built from previous.
func BindGlobalScope(previous *GlobalScope, text *source.Text, diag *diagnostics.Bag, unit *syntax.CompilationUnit) *GlobalScope {
	parentScope := createParentScope(previous)
	b := newBinder(text, diag, parentScope, nil, &labelSeq{})

	var functionDecls []*syntax.FunctionDeclaration
	var globalStatements []*syntax.GlobalStatement
	for _, member := range unit.Members {
		switch m := member.(type) {
		case *syntax.FunctionDeclaration:
			functionDecls = append(functionDecls, m)
		case *syntax.GlobalStatement:
			globalStatements = append(globalStatements, m)
		}
	}

	for _, decl := range functionDecls {
		b.bindFunctionDeclaration(decl)
	}

	statements := make([]Statement, len(globalStatements))
	for i, gs := range globalStatements {
		statements[i] = b.bindStatement(gs.Statement)
	}

	return &GlobalScope{
		Previous:   previous,
		Variables:  b.scope.DeclaredVariables(),
		Functions:  b.scope.DeclaredFunctions(),
		Statements: statements,
	}
}

func (b *Binder) bindFunctionDeclaration(node *syntax.FunctionDeclaration) {
	seen := map[string]bool{}
	parameters := make([]*symbols.Variable, 0, len(node.Parameters.Items))
	for _, p := range node.Parameters.Items {
		name := p.Identifier.Lexeme
		typ := b.bindTypeClause(p.Type)
		if p.Type != nil && p.Type.IsArray() {
			typ = symbols.ArrayOf(typ)
		}
		if typ == symbols.Null {
			typ = symbols.Void
		}
		if seen[name] {
			b.diag.ReportBinding(b.loc(p.Identifier.Span), "parameter '%s' is already declared", name)
			continue
		}
		seen[name] = true
		parameters = append(parameters, &symbols.Variable{Name: name, Kind: symbols.ParameterVariable, Type: typ})
	}

	returnType := b.bindTypeClause(node.ReturnType)
	if returnType == symbols.Null {
		returnType = symbols.Void
	}

	fn := &symbols.Function{Name: node.Identifier.Lexeme, Parameters: parameters, ReturnType: returnType, Declaration: node}
	if !b.scope.DeclareFunction(fn) {
		b.diag.ReportBinding(b.loc(node.Identifier.Span), "'%s' is already declared", fn.Name)
	}
}

// createRootScope is the scope that holds every built-in function; it
// is the ultimate ancestor of every other scope.
func createRootScope() *Scope {
	root := newScope(nil)
	for _, fn := range symbols.Builtins {
		root.DeclareFunction(fn)
	}
	return root
}

// createParentScope replays every GlobalScope in the Previous chain (in
// submission order) onto fresh scopes layered over the root, so a REPL
// session accumulates visible names across submissions.
func createParentScope(previous *GlobalScope) *Scope {
	var chain []*GlobalScope
	for g := previous; g != nil; g = g.Previous {
		chain = append(chain, g)
	}

	parent := createRootScope()
	for i := len(chain) - 1; i >= 0; i-- {
		scope := newScope(parent)
		for _, fn := range chain[i].Functions {
			scope.DeclareFunction(fn)
		}
		for _, v := range chain[i].Variables {
			scope.DeclareVariable(v)
		}
		parent = scope
	}
	return parent
}

// BindProgram binds every declared function's body (across the whole
// Previous chain, as later REPL submissions may call earlier ones)
// against the final global scope, plus the top-level statement list.
func BindProgram(global *GlobalScope, text *source.Text, diag *diagnostics.Bag) *Program {
	parentScope := createParentScope(global)
	functions := map[*symbols.Function]Statement{}
	labels := &labelSeq{}

	for g := global; g != nil; g = g.Previous {
		for _, fn := range g.Functions {
			if fn.Declaration == nil {
				continue // built-in
			}
			fb := newBinder(text, diag, parentScope, fn, labels)
			for _, p := range fn.Parameters {
				fb.scope.DeclareVariable(p)
			}
			body := fb.bindStatement(fn.Declaration.Body)
			functions[fn] = body
		}
	}

	return &Program{
		Functions: functions,
		Statement: &BlockStatement{Statements: global.Statements},
	}
}
