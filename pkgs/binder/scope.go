package binder

import "github.com/aledsdavies/minlang/pkgs/symbols"

// Scope is one level of a lexical scope chain: function bodies, block
// statements, and for-loop headers each push a child scope; the root
// scope (Parent == nil) holds the built-in functions.
type Scope struct {
	Parent    *Scope
	variables map[string]*symbols.Variable
	functions map[string]*symbols.Function
}

func newScope(parent *Scope) *Scope {
	return &Scope{Parent: parent}
}

// DeclareVariable adds variable to this scope, reporting false if the
// name is already declared here (shadowing an outer scope is fine).
func (s *Scope) DeclareVariable(v *symbols.Variable) bool {
	if s.variables == nil {
		s.variables = map[string]*symbols.Variable{}
	}
	if _, exists := s.variables[v.Name]; exists {
		return false
	}
	s.variables[v.Name] = v
	return true
}

// LookupVariable searches this scope and its ancestors.
func (s *Scope) LookupVariable(name string) (*symbols.Variable, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if v, ok := sc.variables[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// DeclareFunction adds fn to this scope, reporting false if the name is
// already taken.
func (s *Scope) DeclareFunction(fn *symbols.Function) bool {
	if s.functions == nil {
		s.functions = map[string]*symbols.Function{}
	}
	if _, exists := s.functions[fn.Name]; exists {
		return false
	}
	s.functions[fn.Name] = fn
	return true
}

// LookupFunction searches this scope and its ancestors.
func (s *Scope) LookupFunction(name string) (*symbols.Function, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if fn, ok := sc.functions[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

// DeclaredVariables returns this scope's own variables (not ancestors),
// in declaration order is not guaranteed — callers that need order track
// it themselves.
func (s *Scope) DeclaredVariables() []*symbols.Variable {
	out := make([]*symbols.Variable, 0, len(s.variables))
	for _, v := range s.variables {
		out = append(out, v)
	}
	return out
}

// DeclaredFunctions returns this scope's own functions.
func (s *Scope) DeclaredFunctions() []*symbols.Function {
	out := make([]*symbols.Function, 0, len(s.functions))
	for _, fn := range s.functions {
		out = append(out, fn)
	}
	return out
}

// AllNames returns every variable and function name visible from this
// scope, used to build "did you mean" suggestions on an undefined name.
func (s *Scope) AllNames() []string {
	var names []string
	seen := map[string]bool{}
	for sc := s; sc != nil; sc = sc.Parent {
		for name := range sc.variables {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		for name := range sc.functions {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
