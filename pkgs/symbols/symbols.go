package symbols

import "github.com/aledsdavies/minlang/pkgs/syntax"

// VariableKind distinguishes where a variable lives at runtime.
type VariableKind int

const (
	GlobalVariable VariableKind = iota
	LocalVariable
	ParameterVariable
)

// Variable is a declared name with a storage kind, a type, read-only
// flag, and (for fixed-size arrays) a declared element count. Identity is
// name-equality within the declaring scope.
type Variable struct {
	Name       string
	Kind       VariableKind
	Type       *Type
	IsReadOnly bool
	Size       int // declared array size; 0 when not a fixed-size array
}

// Function is a callable symbol: its name, ordered parameters, return
// type, and (for user-defined functions) the declaring syntax node.
// Built-in functions have a nil Declaration.
type Function struct {
	Name        string
	Parameters  []*Variable
	ReturnType  *Type
	Declaration *syntax.FunctionDeclaration
}
