// Package symbols defines the closed type set, variable/function symbols,
// and the built-in function registry shared by the binder and evaluator.
package symbols

import "fmt"

// Type is one member of the closed set of minlang types. Array element
// types are tracked alongside the base kind rather than as a separate
// struct, since the set of array element types is itself closed.
type Type struct {
	name    string
	element *Type // non-nil iff this is an array type
}

var (
	Int    = &Type{name: "int"}
	Float  = &Type{name: "float"}
	Bool   = &Type{name: "bool"}
	String = &Type{name: "string"}
	Void   = &Type{name: "void"}
	Any    = &Type{name: "any"}
	Error  = &Type{name: "error"} // sentinel: suppresses cascading diagnostics
	Null   = &Type{name: "null"} // sentinel: "no type clause present"
)

var arrayCache = map[*Type]*Type{}

// ArrayOf returns (and interns) the array type whose elements are elem.
func ArrayOf(elem *Type) *Type {
	if t, ok := arrayCache[elem]; ok {
		return t
	}
	t := &Type{name: elem.name + "[]", element: elem}
	arrayCache[elem] = t
	return t
}

// scalars is the lookup table used to resolve a type name written in
// source (e.g. a TypeClause's identifier) to an interned Type.
var scalars = map[string]*Type{
	"int":    Int,
	"float":  Float,
	"bool":   Bool,
	"string": String,
	"void":   Void,
	"any":    Any,
}

// Lookup resolves a scalar type name, or reports ok=false if it names no
// known type.
func Lookup(name string) (*Type, bool) {
	t, ok := scalars[name]
	return t, ok
}

// Name returns the type's display name, e.g. "int" or "int[]".
func (t *Type) Name() string { return t.name }

// IsArray reports whether t is an array type.
func (t *Type) IsArray() bool { return t.element != nil }

// ElementType returns the element type of an array type. It panics if t
// is not an array type — callers must check IsArray first.
func (t *Type) ElementType() *Type {
	if t.element == nil {
		panic(fmt.Sprintf("ElementType called on non-array type %s", t.name))
	}
	return t.element
}

func (t *Type) String() string { return t.name }
