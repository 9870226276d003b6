// Package evaluator tree-walks a lowered, flattened bound program: a
// program counter steps through each function's flat statement list,
// jumping on goto/conditional-goto the way a small bytecode VM would,
// without actually compiling to bytecode.
package evaluator

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/aledsdavies/minlang/pkgs/binder"
	"github.com/aledsdavies/minlang/pkgs/symbols"
)

// RuntimeError is a failure raised while evaluating an already-bound,
// already-typechecked program: an out-of-bounds array access, a failed
// string-to-number conversion, or similar.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

func runtimeErrorf(format string, args ...any) error {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}

// Evaluator holds the mutable state of one program run: global
// variables, a stack of local-variable frames (one per active function
// call), and the value most recently produced (what a REPL echoes back
// after each submission).
type Evaluator struct {
	program *binder.Program

	globals map[*symbols.Variable]any
	locals  []map[*symbols.Variable]any

	lastValue any

	in  *bufio.Reader
	out io.Writer
}

// New returns an Evaluator ready to run program, reading input builtin
// calls from in and writing print builtin calls to out. globals is
// owned by the caller: a REPL driver passes the same map across
// successive submissions so variables declared in one line stay set
// when a later line reads them. Pass a fresh map for a one-shot run.
func New(program *binder.Program, globals map[*symbols.Variable]any, in io.Reader, out io.Writer) *Evaluator {
	return &Evaluator{
		program: program,
		globals: globals,
		in:      bufio.NewReader(in),
		out:     out,
	}
}

// LastValue returns the value most recently produced by Run, for a REPL
// to echo back after each submission.
func (e *Evaluator) LastValue() any { return e.lastValue }

// Run evaluates the program's top-level statement list and returns the
// last value produced, the way a REPL reports the result of a line.
func (e *Evaluator) Run() (any, error) {
	body, ok := e.program.Statement.(*binder.BlockStatement)
	if !ok {
		return nil, runtimeErrorf("top-level program is not a flattened block")
	}
	value, _, err := e.evaluateStatements(body)
	if err != nil {
		return nil, err
	}
	if value != nil {
		e.lastValue = value
	}
	return e.lastValue, nil
}

// evaluateStatements runs body's flat statement list with a program
// counter, following goto/conditional-goto jumps via a label index
// built up front. It returns (returnValue, returned, err): returned is
// true only when a ReturnStatement was reached.
func (e *Evaluator) evaluateStatements(body *binder.BlockStatement) (any, bool, error) {
	labelToIndex := map[binder.Label]int{}
	for i, stmt := range body.Statements {
		if label, ok := stmt.(*binder.LabelStatement); ok {
			labelToIndex[label.Label] = i + 1
		}
	}

	index := 0
	for index < len(body.Statements) {
		switch s := body.Statements[index].(type) {
		case *binder.VariableDeclaration:
			value, err := e.evaluateExpression(s.Initializer)
			if err != nil {
				return nil, false, err
			}
			e.lastValue = value
			e.assign(s.Variable, value)
			index++

		case *binder.ExpressionStatement:
			value, err := e.evaluateExpression(s.Expression)
			if err != nil {
				return nil, false, err
			}
			e.lastValue = value
			index++

		case *binder.GotoStatement:
			index = labelToIndex[s.Label]

		case *binder.ConditionalGotoStatement:
			condValue, err := e.evaluateExpression(s.Condition)
			if err != nil {
				return nil, false, err
			}
			condition, ok := condValue.(bool)
			if !ok {
				return nil, false, runtimeErrorf("conditional goto on non-boolean condition")
			}
			if condition == s.JumpIfTrue {
				index = labelToIndex[s.Label]
			} else {
				index++
			}

		case *binder.LabelStatement:
			index++

		case *binder.ReturnStatement:
			if s.Expression == nil {
				return nil, true, nil
			}
			value, err := e.evaluateExpression(s.Expression)
			if err != nil {
				return nil, false, err
			}
			e.lastValue = value
			return value, true, nil

		case *binder.BlockStatement:
			value, returned, err := e.evaluateStatements(s)
			if err != nil {
				return nil, false, err
			}
			if returned {
				return value, true, nil
			}
			index++

		default:
			return nil, false, runtimeErrorf("unexpected statement kind %T", s)
		}
	}

	return e.lastValue, false, nil
}

func (e *Evaluator) evaluateExpression(expr binder.Expression) (any, error) {
	switch n := expr.(type) {
	case *binder.LiteralExpression:
		return n.Value, nil
	case *binder.VariableExpression:
		return e.lookup(n.Variable), nil
	case *binder.AssignmentExpression:
		return e.evaluateAssignmentExpression(n)
	case *binder.UnaryExpression:
		return e.evaluateUnaryExpression(n)
	case *binder.BinaryExpression:
		return e.evaluateBinaryExpression(n)
	case *binder.CallExpression:
		return e.evaluateCallExpression(n)
	case *binder.ConversionExpression:
		return e.evaluateConversionExpression(n)
	case *binder.ArrayInitializerExpression:
		return e.evaluateArrayInitializerExpression(n)
	case *binder.ArrayAccessExpression:
		return e.evaluateArrayAccessExpression(n)
	case *binder.ArrayAssignmentExpression:
		return e.evaluateArrayAssignmentExpression(n)
	case *binder.ErrorExpression:
		return nil, runtimeErrorf("attempted to evaluate an error expression")
	default:
		return nil, runtimeErrorf("unexpected expression kind %T", n)
	}
}

func (e *Evaluator) evaluateAssignmentExpression(n *binder.AssignmentExpression) (any, error) {
	value, err := e.evaluateExpression(n.Expression)
	if err != nil {
		return nil, err
	}
	e.assign(n.Variable, value)
	return value, nil
}

func (e *Evaluator) evaluateUnaryExpression(n *binder.UnaryExpression) (any, error) {
	operand, err := e.evaluateExpression(n.Operand)
	if err != nil {
		return nil, err
	}

	switch n.Op.Kind {
	case binder.Identity:
		return operand, nil
	case binder.Negation:
		switch v := operand.(type) {
		case int64:
			return -v, nil
		case float64:
			return -v, nil
		default:
			return nil, runtimeErrorf("unexpected operand for unary '-'")
		}
	case binder.LogicalNegation:
		v, ok := operand.(bool)
		if !ok {
			return nil, runtimeErrorf("unexpected operand for unary '!'")
		}
		return !v, nil
	case binder.OnesComplement:
		v, ok := operand.(int64)
		if !ok {
			return nil, runtimeErrorf("unexpected operand for unary '~'")
		}
		return ^v, nil
	default:
		return nil, runtimeErrorf("unexpected unary operator")
	}
}

func (e *Evaluator) evaluateBinaryExpression(n *binder.BinaryExpression) (any, error) {
	left, err := e.evaluateExpression(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.evaluateExpression(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Op.Kind {
	case binder.Addition:
		return evaluateAddition(left, right)
	case binder.Subtraction:
		return arith(left, right, func(a, b int64) any { return a - b }, func(a, b float64) any { return a - b })
	case binder.Multiplication:
		return arith(left, right, func(a, b int64) any { return a * b }, func(a, b float64) any { return a * b })
	case binder.Division:
		return divide(left, right)
	case binder.BitwiseAnd:
		if a, b, ok := bothBool(left, right); ok {
			return a && b, nil
		}
		return toInt(left) & toInt(right), nil
	case binder.BitwiseOr:
		if a, b, ok := bothBool(left, right); ok {
			return a || b, nil
		}
		return toInt(left) | toInt(right), nil
	case binder.BitwiseXor:
		if a, b, ok := bothBool(left, right); ok {
			return a != b, nil
		}
		return toInt(left) ^ toInt(right), nil
	case binder.LogicalAnd:
		return left.(bool) && right.(bool), nil
	case binder.LogicalOr:
		return left.(bool) || right.(bool), nil
	case binder.Less:
		return compare(left, right) < 0, nil
	case binder.LessOrEquals:
		return compare(left, right) <= 0, nil
	case binder.Greater:
		return compare(left, right) > 0, nil
	case binder.GreaterOrEquals:
		return compare(left, right) >= 0, nil
	case binder.Equals:
		return valuesEqual(left, right), nil
	case binder.NotEquals:
		return !valuesEqual(left, right), nil
	default:
		return nil, runtimeErrorf("unexpected binary operator")
	}
}

func evaluateAddition(left, right any) (any, error) {
	ls, lIsString := left.(string)
	rs, rIsString := right.(string)
	if lIsString || rIsString {
		if !lIsString {
			ls = toDisplayString(left)
		}
		if !rIsString {
			rs = toDisplayString(right)
		}
		return ls + rs, nil
	}
	return arith(left, right, func(a, b int64) any { return a + b }, func(a, b float64) any { return a + b })
}

// arith applies intOp when both operands are int64, floatOp (after
// widening either side) otherwise.
func arith(left, right any, intOp func(int64, int64) any, floatOp func(float64, float64) any) (any, error) {
	li, lIsInt := left.(int64)
	ri, rIsInt := right.(int64)
	if lIsInt && rIsInt {
		return intOp(li, ri), nil
	}
	lf, ok := toFloat(left)
	if !ok {
		return nil, runtimeErrorf("unexpected operand type %T", left)
	}
	rf, ok := toFloat(right)
	if !ok {
		return nil, runtimeErrorf("unexpected operand type %T", right)
	}
	return floatOp(lf, rf), nil
}

func divide(left, right any) (any, error) {
	li, lIsInt := left.(int64)
	ri, rIsInt := right.(int64)
	if lIsInt && rIsInt {
		if ri == 0 {
			return nil, runtimeErrorf("division by zero")
		}
		return li / ri, nil
	}
	lf, _ := toFloat(left)
	rf, _ := toFloat(right)
	return lf / rf, nil
}

func compare(left, right any) int {
	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if lok && rok {
		switch {
		case lf < rf:
			return -1
		case lf > rf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(left.(string), right.(string))
}

func valuesEqual(left, right any) bool {
	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if lok && rok {
		return lf == rf
	}
	if lb, ok := left.(bool); ok {
		rb, ok := right.(bool)
		return ok && lb == rb
	}
	if ls, ok := left.(string); ok {
		rs, ok := right.(string)
		return ok && ls == rs
	}
	return false
}

func bothBool(left, right any) (bool, bool, bool) {
	lb, lok := left.(bool)
	rb, rok := right.(bool)
	return lb, rb, lok && rok
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func toInt(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func (e *Evaluator) evaluateCallExpression(n *binder.CallExpression) (any, error) {
	switch n.Function {
	case symbols.Print:
		text, err := e.evaluateExpression(n.Arguments[0])
		if err != nil {
			return nil, err
		}
		output := text.(string)
		fmt.Fprint(e.out, output)
		return output, nil

	case symbols.Input:
		line, err := e.in.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if err != nil && line == "" {
			return "", nil
		}
		return line, nil

	case symbols.Random:
		maxValue, err := e.evaluateExpression(n.Arguments[0])
		if err != nil {
			return nil, err
		}
		max := maxValue.(int64)
		if max <= 0 {
			return nil, runtimeErrorf("random: max must be positive, got %d", max)
		}
		return rand.Int64N(max), nil

	case symbols.Size:
		arrValue, err := e.evaluateExpression(n.Arguments[0])
		if err != nil {
			return nil, err
		}
		array := arrValue.([]any)
		return int64(len(array)), nil

	case symbols.Len:
		textValue, err := e.evaluateExpression(n.Arguments[0])
		if err != nil {
			return nil, err
		}
		text := textValue.(string)
		return int64(len(text)), nil

	default:
		return e.evaluateUserCall(n)
	}
}

func (e *Evaluator) evaluateUserCall(n *binder.CallExpression) (any, error) {
	frame := map[*symbols.Variable]any{}
	for i, argExpr := range n.Arguments {
		value, err := e.evaluateExpression(argExpr)
		if err != nil {
			return nil, err
		}
		frame[n.Function.Parameters[i]] = value
	}

	body, ok := e.program.Functions[n.Function]
	if !ok {
		return nil, runtimeErrorf("call to undefined function '%s'", n.Function.Name)
	}
	block, ok := body.(*binder.BlockStatement)
	if !ok {
		return nil, runtimeErrorf("function '%s' was not lowered to a flat block", n.Function.Name)
	}

	e.locals = append(e.locals, frame)
	value, _, err := e.evaluateStatements(block)
	e.locals = e.locals[:len(e.locals)-1]
	return value, err
}

func (e *Evaluator) evaluateConversionExpression(n *binder.ConversionExpression) (any, error) {
	value, err := e.evaluateExpression(n.Expression)
	if err != nil {
		return nil, err
	}
	from := n.Expression.Type()

	switch n.Typ {
	case symbols.Bool:
		switch from {
		case symbols.Bool:
			return value.(bool), nil
		case symbols.Int:
			return value.(int64) != 0, nil
		case symbols.Float:
			return value.(float64) != 0.0, nil
		case symbols.String:
			return value.(string) != "", nil
		default:
			return value != nil, nil
		}

	case symbols.String:
		if from == symbols.String {
			return value.(string), nil
		}
		return toDisplayString(value), nil

	case symbols.Int:
		switch from {
		case symbols.String:
			parsed, err := strconv.ParseInt(value.(string), 10, 64)
			if err != nil {
				return nil, runtimeErrorf("cannot convert %q to int", value)
			}
			return parsed, nil
		case symbols.Float:
			return int64(value.(float64)), nil
		default:
			return toInt(value), nil
		}

	case symbols.Float:
		switch from {
		case symbols.String:
			parsed, err := strconv.ParseFloat(value.(string), 64)
			if err != nil {
				return nil, runtimeErrorf("cannot convert %q to float", value)
			}
			return parsed, nil
		case symbols.Int:
			return float64(value.(int64)), nil
		default:
			f, _ := toFloat(value)
			return f, nil
		}

	case symbols.Any:
		return value, nil

	default:
		if n.Typ.IsArray() {
			return value, nil
		}
		return nil, runtimeErrorf("unexpected conversion target %s", n.Typ.Name())
	}
}

// toDisplayString renders a runtime value the way string(x) should, for
// both explicit string() conversions and '+'-with-string concatenation.
func toDisplayString(v any) string {
	switch n := v.(type) {
	case bool:
		return strconv.FormatBool(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case string:
		return n
	case nil:
		return ""
	default:
		return fmt.Sprint(n)
	}
}

func (e *Evaluator) evaluateArrayInitializerExpression(n *binder.ArrayInitializerExpression) (any, error) {
	values := make([]any, len(n.Elements))
	for i, elem := range n.Elements {
		value, err := e.evaluateExpression(elem)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

func (e *Evaluator) evaluateArrayAccessExpression(n *binder.ArrayAccessExpression) (any, error) {
	receiver, err := e.evaluateExpression(n.Array)
	if err != nil {
		return nil, err
	}
	indexValue, err := e.evaluateExpression(n.Index)
	if err != nil {
		return nil, err
	}
	index := indexValue.(int64)

	if s, ok := receiver.(string); ok {
		if index < 0 || int(index) >= len(s) {
			return nil, runtimeErrorf("index %d out of bounds for string of length %d", index, len(s))
		}
		return string(s[index]), nil
	}

	array := receiver.([]any)
	if index < 0 || int(index) >= len(array) {
		return nil, runtimeErrorf("index %d out of bounds for array of length %d", index, len(array))
	}
	return array[index], nil
}

func (e *Evaluator) evaluateArrayAssignmentExpression(n *binder.ArrayAssignmentExpression) (any, error) {
	receiver, err := e.evaluateExpression(n.Array)
	if err != nil {
		return nil, err
	}
	indexValue, err := e.evaluateExpression(n.Index)
	if err != nil {
		return nil, err
	}
	index := indexValue.(int64)
	value, err := e.evaluateExpression(n.Value)
	if err != nil {
		return nil, err
	}

	variableExpr, ok := n.Array.(*binder.VariableExpression)
	if !ok {
		return nil, runtimeErrorf("array assignment target is not a variable")
	}

	if s, ok := receiver.(string); ok {
		replacement := value.(string)
		if index < 0 || int(index) >= len(s) {
			return nil, runtimeErrorf("index %d out of bounds for string of length %d", index, len(s))
		}
		if len(replacement) != 1 {
			return nil, runtimeErrorf("expected a single character, got %q", replacement)
		}
		bytes := []byte(s)
		bytes[index] = replacement[0]
		newString := string(bytes)
		e.assign(variableExpr.Variable, newString)
		return value, nil
	}

	array := receiver.([]any)
	if index < 0 || int(index) >= len(array) {
		return nil, runtimeErrorf("index %d out of bounds for array of length %d", index, len(array))
	}
	updated := make([]any, len(array))
	copy(updated, array)
	updated[index] = value
	e.assign(variableExpr.Variable, updated)
	return value, nil
}

func (e *Evaluator) lookup(variable *symbols.Variable) any {
	if variable.Kind == symbols.GlobalVariable {
		return e.globals[variable]
	}
	if len(e.locals) == 0 {
		return e.globals[variable]
	}
	return e.locals[len(e.locals)-1][variable]
}

func (e *Evaluator) assign(variable *symbols.Variable, value any) {
	if variable.Kind == symbols.GlobalVariable || len(e.locals) == 0 {
		e.globals[variable] = value
		return
	}
	e.locals[len(e.locals)-1][variable] = value
}
