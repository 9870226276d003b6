package symbols

// Built-in function symbols, visible from the root scope (the parent of
// every global scope). None carries a Declaration — the evaluator
// special-cases their names instead of executing a lowered body.
//
// print's declared return type is Void: a call to print cannot be used
// where a value is expected. The evaluator's call implementation
// nonetheless yields the printed string as its dynamic result (which is
// what the REPL echoes after a bare print submission) — the declared type governs what the
// binder permits, not what the interpreter happens to produce.
var (
	Print = &Function{
		Name:       "print",
		Parameters: []*Variable{{Name: "text", Kind: ParameterVariable, Type: String}},
		ReturnType: Void,
	}
	Input = &Function{
		Name:       "input",
		Parameters: nil,
		ReturnType: String,
	}
	Random = &Function{
		Name:       "random",
		Parameters: []*Variable{{Name: "max", Kind: ParameterVariable, Type: Int}},
		ReturnType: Int,
	}
	Size = &Function{
		Name:       "size",
		Parameters: []*Variable{{Name: "array", Kind: ParameterVariable, Type: ArrayOf(Any)}},
		ReturnType: Int,
	}
	Len = &Function{
		Name:       "len",
		Parameters: []*Variable{{Name: "text", Kind: ParameterVariable, Type: String}},
		ReturnType: Int,
	}
)

// Builtins lists every built-in function, in the order they should be
// declared into the root scope.
var Builtins = []*Function{Print, Input, Random, Size, Len}
