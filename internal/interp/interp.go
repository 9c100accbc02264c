package interp

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"vireo/internal/errors"
	"vireo/internal/parser"
	"vireo/internal/token"
)

// Interp is the tree-walking interpreter. It runs a parsed program to
// completion and reports the final observed value: the argument of the
// Return that ended the program, or failing that the value of the most
// recently evaluated top-level expression statement. A Return or trailing
// expression inside a called function only yields that call's value. This
// mirrors original_source/src/evaluator/interpreter.rs's last_value bookkeeping.
type Interp struct {
	global    *Environment
	functions map[string]*parser.FuncDeclStmt
	out       io.Writer
	lastValue Value
}

func New(out io.Writer) *Interp {
	return &Interp{
		global:    NewEnvironment(nil),
		functions: make(map[string]*parser.FuncDeclStmt),
		out:       out,
	}
}

// execResult threads a Return up through nested statements without
// resorting to panic/recover for ordinary control flow; panic/recover in
// this package is reserved for fatal *errors.VireoError conditions.
type execResult struct {
	returned bool
	value    Value
}

// Run executes stmts in order against the global environment and returns
// the final observed value. A *errors.VireoError raised anywhere during
// evaluation is recovered here and returned as err.
func (i *Interp) Run(stmts []parser.Stmt) (val Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ve, ok := r.(*errors.VireoError); ok {
				err = ve
				return
			}
			panic(r)
		}
	}()

	i.prescan(stmts)
	for _, s := range stmts {
		r := i.exec(s, i.global)
		if r.returned {
			i.lastValue = r.value
			break
		}
	}
	return i.lastValue, nil
}

// prescan registers every function declaration reachable in the program
// before execution starts, so a function may be called ahead of its
// textual declaration point.
func (i *Interp) prescan(stmts []parser.Stmt) {
	for _, s := range stmts {
		i.prescanStmt(s)
	}
}

func (i *Interp) prescanStmt(stmt parser.Stmt) {
	switch s := stmt.(type) {
	case *parser.FuncDeclStmt:
		i.functions[s.Name] = s
		i.prescanStmt(s.Body)
	case *parser.BlockStmt:
		for _, inner := range s.Stmts {
			i.prescanStmt(inner)
		}
	case *parser.IfStmt:
		i.prescanStmt(s.Then)
		if s.Else != nil {
			i.prescanStmt(s.Else)
		}
	case *parser.WhileStmt:
		i.prescanStmt(s.Body)
	case *parser.ForStmt:
		i.prescanStmt(s.Body)
	}
}

func (i *Interp) exec(stmt parser.Stmt, env *Environment) execResult {
	switch s := stmt.(type) {
	case *parser.LetStmt:
		env.Define(s.Name, i.eval(s.Init, env))
		return execResult{}

	case *parser.IfStmt:
		cond := i.eval(s.Cond, env)
		i.requireNumber(cond, "if condition")
		if cond.Number != 0 {
			return i.exec(s.Then, env)
		}
		if s.Else != nil {
			return i.exec(s.Else, env)
		}
		return execResult{}

	case *parser.BlockStmt:
		for _, inner := range s.Stmts {
			r := i.exec(inner, env)
			if r.returned {
				return r
			}
		}
		return execResult{}

	case *parser.WhileStmt:
		for {
			cond := i.eval(s.Cond, env)
			i.requireNumber(cond, "while condition")
			if cond.Number == 0 {
				break
			}
			r := i.exec(s.Body, env)
			if r.returned {
				return r
			}
		}
		return execResult{}

	case *parser.ForStmt:
		iterable := i.eval(s.Iterable, env)
		if iterable.Kind != KindArray {
			panic(errors.NewInterpreterError(errors.TypeMismatch, "for loop iterable is not an array"))
		}
		for _, el := range iterable.Elements {
			env.Define(s.Ident, el)
			r := i.exec(s.Body, env)
			if r.returned {
				return r
			}
		}
		return execResult{}

	case *parser.FuncDeclStmt:
		i.functions[s.Name] = s
		return execResult{}

	case *parser.ReturnStmt:
		var v Value
		if s.Value != nil {
			v = i.eval(s.Value, env)
		}
		i.lastValue = v
		return execResult{returned: true, value: v}

	case *parser.ExpressionStmt:
		v := i.eval(s.Expr, env)
		i.lastValue = v
		return execResult{}
	}

	panic(errors.NewInterpreterError(errors.UnsupportedStatement, fmt.Sprintf("%T", stmt)))
}

func (i *Interp) eval(expr parser.Expr, env *Environment) Value {
	switch e := expr.(type) {
	case *parser.Number:
		n, convErr := strconv.ParseInt(e.Lexeme, 10, 64)
		if convErr != nil {
			panic(errors.NewInterpreterError(errors.TypeMismatch, "malformed number literal "+e.Lexeme))
		}
		return NumberValue(n)

	case *parser.String:
		return StringValue(e.Lexeme)

	case *parser.Boolean:
		if e.Value {
			return NumberValue(1)
		}
		return NumberValue(0)

	case *parser.Variable:
		v, ok := env.Get(e.Name)
		if !ok {
			panic(errors.NewInterpreterError(errors.UndefinedVariable, e.Name))
		}
		return v

	case *parser.Unary:
		operand := i.eval(e.Operand, env)
		i.requireNumber(operand, "unary operand")
		switch e.Op {
		case token.Subtraction:
			return NumberValue(-operand.Number)
		case token.BwNot:
			return NumberValue(^operand.Number)
		default:
			panic(errors.NewInterpreterError(errors.UnsupportedStatement, "unary operator "+e.Lexeme))
		}

	case *parser.Binary:
		return i.evalBinary(e, env)

	case *parser.Parenthesized:
		return i.eval(e.Inner, env)

	case *parser.Assignment:
		v := i.eval(e.Value, env)
		env.Assign(e.Target, v)
		return v

	case *parser.ArrayAssignment:
		return i.evalArrayAssignment(e, env)

	case *parser.Call:
		return i.evalCall(e, env)

	case *parser.StdCall:
		return i.evalStdCall(e, env)

	case *parser.Range:
		start := i.eval(e.StartExpr, env)
		end := i.eval(e.EndExpr, env)
		i.requireNumber(start, "range start")
		i.requireNumber(end, "range end")
		var elems []Value
		for n := start.Number; n < end.Number; n++ {
			elems = append(elems, NumberValue(n))
		}
		return ArrayValue(elems)

	case *parser.Array:
		elems := make([]Value, len(e.Elements))
		for idx, el := range e.Elements {
			elems[idx] = i.eval(el, env)
		}
		return ArrayValue(elems)

	case *parser.ArrayIndex:
		arr := i.eval(e.ArrayExpr, env)
		if arr.Kind != KindArray {
			panic(errors.NewInterpreterError(errors.TypeMismatch, "index target is not an array"))
		}
		idx := i.eval(e.Index, env)
		i.requireNumber(idx, "array index")
		if idx.Number < 0 || idx.Number >= int64(len(arr.Elements)) {
			panic(errors.NewInterpreterError(errors.IndexOutOfRange, fmt.Sprintf("index %d out of range for length %d", idx.Number, len(arr.Elements))))
		}
		return arr.Elements[idx.Number]
	}

	panic(errors.NewInterpreterError(errors.UnsupportedStatement, fmt.Sprintf("%T", expr)))
}

func (i *Interp) evalBinary(e *parser.Binary, env *Environment) Value {
	left := i.eval(e.Left, env)
	right := i.eval(e.Right, env)
	i.requireNumber(left, "binary left operand")
	i.requireNumber(right, "binary right operand")
	a, b := left.Number, right.Number

	boolVal := func(cond bool) Value {
		if cond {
			return NumberValue(1)
		}
		return NumberValue(0)
	}

	switch e.Op {
	case token.Addition:
		return NumberValue(a + b)
	case token.Subtraction:
		return NumberValue(a - b)
	case token.Star:
		return NumberValue(a * b)
	case token.Division:
		if b == 0 {
			panic(errors.NewInterpreterError(errors.DivisionByZero, "division by zero"))
		}
		return NumberValue(a / b)
	case token.BwAnd:
		return NumberValue(a & b)
	case token.BwOr:
		return NumberValue(a | b)
	case token.BwXor:
		return NumberValue(a ^ b)
	case token.LowerThan:
		return boolVal(a < b)
	case token.GreaterThan:
		return boolVal(a > b)
	case token.Equals:
		return boolVal(a == b)
	case token.Inequal:
		return boolVal(a != b)
	default:
		panic(errors.NewInterpreterError(errors.UnsupportedStatement, "binary operator "+e.Lexeme))
	}
}

func (i *Interp) evalArrayAssignment(e *parser.ArrayAssignment, env *Environment) Value {
	arrVar, ok := e.Index.ArrayExpr.(*parser.Variable)
	if !ok {
		panic(errors.NewInterpreterError(errors.TypeMismatch, "array assignment target must be a variable"))
	}
	arr, ok := env.Get(arrVar.Name)
	if !ok {
		panic(errors.NewInterpreterError(errors.UndefinedVariable, arrVar.Name))
	}
	if arr.Kind != KindArray {
		panic(errors.NewInterpreterError(errors.TypeMismatch, arrVar.Name+" is not an array"))
	}
	idx := i.eval(e.Index.Index, env)
	i.requireNumber(idx, "array assignment index")
	if idx.Number < 0 || idx.Number >= int64(len(arr.Elements)) {
		panic(errors.NewInterpreterError(errors.IndexOutOfRange, fmt.Sprintf("index %d out of range for length %d", idx.Number, len(arr.Elements))))
	}
	val := i.eval(e.Value, env)
	arr.Elements[idx.Number] = val
	env.Assign(arrVar.Name, arr)
	return val
}

func (i *Interp) evalCall(e *parser.Call, env *Environment) Value {
	fn, ok := i.functions[e.Name]
	if !ok {
		panic(errors.NewInterpreterError(errors.UndefinedVariable, "function "+e.Name))
	}
	if len(e.Args) != len(fn.Params) {
		panic(errors.NewInterpreterError(errors.TypeMismatch,
			fmt.Sprintf("%s expects %d argument(s), got %d", e.Name, len(fn.Params), len(e.Args))))
	}

	frame := NewEnvironment(i.global)
	for idx, p := range fn.Params {
		frame.Define(p.Identifier, i.eval(e.Args[idx], env))
	}

	prevLast := i.lastValue
	r := i.exec(fn.Body, frame)
	result := r.value
	if !r.returned {
		result = i.lastValue
	}
	i.lastValue = prevLast
	return result
}

func (i *Interp) evalStdCall(e *parser.StdCall, env *Environment) Value {
	if e.Name != "println" {
		panic(errors.NewInterpreterError(errors.UnsupportedStdCall, "std::"+e.Name))
	}
	parts := make([]string, len(e.Args))
	for idx, a := range e.Args {
		parts[idx] = Render(i.eval(a, env))
	}
	fmt.Fprintln(i.out, strings.Join(parts, " "))
	return NumberValue(0)
}

func (i *Interp) requireNumber(v Value, context string) {
	if v.Kind != KindNumber {
		panic(errors.NewInterpreterError(errors.TypeMismatch, fmt.Sprintf("expected Number for %s, found %s", context, v.Kind)))
	}
}
