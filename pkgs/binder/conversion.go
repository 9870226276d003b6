package binder

import "github.com/aledsdavies/minlang/pkgs/symbols"

// Conversion describes how (if at all) a value of one type can become
// another: identity (no-op), implicit (allowed wherever a value is
// used), or explicit (only allowed as the sole argument to a type-name
// call, e.g. `string(x)`).
type Conversion struct {
	Exists     bool
	IsIdentity bool
	IsImplicit bool
}

var (
	noConversion       = Conversion{}
	identityConversion = Conversion{Exists: true, IsIdentity: true, IsImplicit: true}
	implicitConversion = Conversion{Exists: true, IsImplicit: true}
	explicitConversion = Conversion{Exists: true}
)

// ClassifyConversion decides what kind of conversion (if any) exists
// from type "from" to type "to".
func ClassifyConversion(from, to *symbols.Type) Conversion {
	if from == to {
		return identityConversion
	}
	if from != symbols.Void && to == symbols.Any {
		return implicitConversion
	}
	if from.IsArray() && to.IsArray() && to.ElementType() == symbols.Any {
		return implicitConversion
	}
	if from == symbols.Any && to != symbols.Void {
		return implicitConversion
	}
	if from == symbols.String && (to == symbols.Int || to == symbols.Float || to == symbols.Bool) {
		return explicitConversion
	}
	if (from == symbols.Int || from == symbols.Float || from == symbols.Bool) && to == symbols.String {
		return explicitConversion
	}
	if from == symbols.Int && to == symbols.Float {
		return implicitConversion
	}
	if from == symbols.Error || to == symbols.Error {
		return noConversion
	}
	return noConversion
}
