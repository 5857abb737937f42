package interp

import (
	"math"
	"regexp"

	"github.com/corvidae/patl/internal/ast"
)

// evalExpr type-switches over every ast.Expr concrete type (§4.3).
func (ip *Interp) evalExpr(e ast.Expr) (ast.Value, error) {
	switch n := e.(type) {
	case *ast.StringLit:
		return ast.Str(n.Value), nil
	case *ast.NumberLit:
		return ast.Number(n.Value), nil
	case *ast.RegexLit:
		// A regex literal carries meaning only as a match operand or an
		// item pattern; evaluated as a plain value it is Uninitialized.
		return ast.Uninitialized, nil
	case *ast.Variable:
		return ip.vars.Get(n.Name), nil
	case *ast.FieldRef:
		return ip.evalFieldRef(n)
	case *ast.BinaryMath:
		return ip.evalBinaryMath(n)
	case *ast.BinaryCompare:
		return ip.evalBinaryCompare(n)
	case *ast.BinaryBool:
		return ip.evalBinaryBool(n)
	case *ast.Not:
		return ip.evalNot(n)
	case *ast.RegexMatch:
		return ip.evalRegexMatch(n)
	case *ast.Increment:
		return ip.evalIncrement(n)
	case *ast.Call:
		return ip.evalCall(n)
	case *ast.Paren:
		return ip.evalExpr(n.Expr)
	default:
		return ast.Value{}, newError("unhandled expression node %T", e)
	}
}

func (ip *Interp) evalFieldRef(n *ast.FieldRef) (ast.Value, error) {
	idx, err := ip.evalFieldIndex(n)
	if err != nil {
		return ast.Value{}, err
	}
	return ip.getField(idx), nil
}

func (ip *Interp) evalFieldIndex(n *ast.FieldRef) (int, error) {
	v, err := ip.evalExpr(n.Index)
	if err != nil {
		return 0, err
	}
	idx := floorToInt(v.ToNumber().AsFloat())
	if idx < 0 {
		return 0, newError("field index %d is negative", idx)
	}
	return idx, nil
}

func (ip *Interp) evalBinaryMath(n *ast.BinaryMath) (ast.Value, error) {
	lv, err := ip.evalExpr(n.Left)
	if err != nil {
		return ast.Value{}, err
	}
	rv, err := ip.evalExpr(n.Right)
	if err != nil {
		return ast.Value{}, err
	}
	l, r := lv.ToNumber(), rv.ToNumber()

	switch n.Op {
	case ast.Add, ast.Sub, ast.Mul:
		if l.IsInt() && r.IsInt() {
			return ast.Number(ast.Int(intMathOp(n.Op, l.Int, r.Int))), nil
		}
		return ast.Number(ast.Flt(floatMathOp(n.Op, l.AsFloat(), r.AsFloat()))), nil
	case ast.Mod:
		if l.IsInt() && r.IsInt() {
			if r.Int == 0 {
				return ast.Value{}, newError("modulo by zero")
			}
			return ast.Number(ast.Int(l.Int % r.Int)), nil
		}
		rf := r.AsFloat()
		if rf == 0 {
			return ast.Value{}, newError("modulo by zero")
		}
		return ast.Number(ast.Flt(math.Mod(l.AsFloat(), rf))), nil
	case ast.Div:
		if l.IsInt() && r.IsInt() {
			if r.Int == 0 {
				return ast.Value{}, newError("division by zero")
			}
			if l.Int%r.Int == 0 {
				return ast.Number(ast.Int(l.Int / r.Int)), nil
			}
			return ast.Number(ast.Flt(float64(l.Int) / float64(r.Int))), nil
		}
		rf := r.AsFloat()
		if rf == 0 {
			return ast.Value{}, newError("division by zero")
		}
		return ast.Number(ast.Flt(l.AsFloat() / rf)), nil
	default:
		return ast.Value{}, newError("unhandled math operator %v", n.Op)
	}
}

func intMathOp(op ast.MathOp, l, r int64) int64 {
	switch op {
	case ast.Add:
		return l + r
	case ast.Sub:
		return l - r
	default:
		return l * r
	}
}

func floatMathOp(op ast.MathOp, l, r float64) float64 {
	switch op {
	case ast.Add:
		return l + r
	case ast.Sub:
		return l - r
	default:
		return l * r
	}
}

func (ip *Interp) evalBinaryCompare(n *ast.BinaryCompare) (ast.Value, error) {
	lv, err := ip.evalExpr(n.Left)
	if err != nil {
		return ast.Value{}, err
	}
	rv, err := ip.evalExpr(n.Right)
	if err != nil {
		return ast.Value{}, err
	}

	var cmp int
	if lv.IsNumber() && rv.IsNumber() {
		cmp = compareNum(lv.Num(), rv.Num())
	} else {
		ls, rs := lv.ToString(), rv.ToString()
		switch {
		case ls < rs:
			cmp = -1
		case ls > rs:
			cmp = 1
		default:
			cmp = 0
		}
	}

	var result bool
	switch n.Op {
	case ast.Lt:
		result = cmp < 0
	case ast.Le:
		result = cmp <= 0
	case ast.Gt:
		result = cmp > 0
	case ast.Ge:
		result = cmp >= 0
	case ast.Eq:
		result = cmp == 0
	case ast.Ne:
		result = cmp != 0
	}
	return ast.BoolValue(result), nil
}

func compareNum(l, r ast.Num) int {
	if l.IsInt() && r.IsInt() {
		switch {
		case l.Int < r.Int:
			return -1
		case l.Int > r.Int:
			return 1
		default:
			return 0
		}
	}
	lf, rf := l.AsFloat(), r.AsFloat()
	switch {
	case lf < rf:
		return -1
	case lf > rf:
		return 1
	default:
		return 0
	}
}

// evalBinaryBool implements §9's resolved open question: && and ||
// short-circuit, so the right operand (and any output it produces) is
// only evaluated when it can affect the result.
func (ip *Interp) evalBinaryBool(n *ast.BinaryBool) (ast.Value, error) {
	lv, err := ip.evalExpr(n.Left)
	if err != nil {
		return ast.Value{}, err
	}
	lb := lv.ToBool()

	if n.Op == ast.And && !lb {
		return ast.BoolValue(false), nil
	}
	if n.Op == ast.Or && lb {
		return ast.BoolValue(true), nil
	}

	rv, err := ip.evalExpr(n.Right)
	if err != nil {
		return ast.Value{}, err
	}
	return ast.BoolValue(rv.ToBool()), nil
}

func (ip *Interp) evalNot(n *ast.Not) (ast.Value, error) {
	v, err := ip.evalExpr(n.Expr)
	if err != nil {
		return ast.Value{}, err
	}
	return ast.BoolValue(!v.ToBool()), nil
}

func (ip *Interp) evalRegexMatch(n *ast.RegexMatch) (ast.Value, error) {
	lv, err := ip.evalExpr(n.Left)
	if err != nil {
		return ast.Value{}, err
	}
	re, err := ip.regexOperand(n.Right)
	if err != nil {
		return ast.Value{}, err
	}
	matches := re.MatchString(lv.ToString())
	return ast.BoolValue(matches != n.Negated), nil
}

// regexOperand resolves the right-hand side of ~/!~: a regex literal
// uses its pre-compiled matcher; anything else is coerced to a string
// and compiled (and cached) on the fly.
func (ip *Interp) regexOperand(e ast.Expr) (*regexp.Regexp, error) {
	if lit, ok := e.(*ast.RegexLit); ok {
		return lit.Re, nil
	}
	v, err := ip.evalExpr(e)
	if err != nil {
		return nil, err
	}
	return ip.compileDynamicRegex(v.ToString())
}

func (ip *Interp) evalIncrement(n *ast.Increment) (ast.Value, error) {
	old, err := ip.getAssignable(n.Target)
	if err != nil {
		return ast.Value{}, err
	}
	oldNum := old.ToNumber()

	delta := int64(1)
	if !n.Incr {
		delta = -1
	}
	var newNum ast.Num
	if oldNum.IsInt() {
		newNum = ast.Int(oldNum.Int + delta)
	} else {
		newNum = ast.Flt(oldNum.AsFloat() + float64(delta))
	}
	newVal := ast.Number(newNum)

	if err := ip.setAssignable(n.Target, newVal); err != nil {
		return ast.Value{}, err
	}

	if n.Prefix {
		return newVal, nil
	}
	return ast.Number(oldNum), nil
}

func (ip *Interp) getAssignable(a ast.Assignable) (ast.Value, error) {
	switch t := a.(type) {
	case *ast.Variable:
		return ip.vars.Get(t.Name), nil
	case *ast.FieldRef:
		return ip.evalFieldRef(t)
	default:
		return ast.Value{}, newError("unhandled assignable node %T", a)
	}
}

func (ip *Interp) setAssignable(a ast.Assignable, v ast.Value) error {
	switch t := a.(type) {
	case *ast.Variable:
		return ip.setVariable(t.Name, v)
	case *ast.FieldRef:
		idx, err := ip.evalFieldIndex(t)
		if err != nil {
			return err
		}
		return ip.setField(idx, v)
	default:
		return newError("unhandled assignable node %T", a)
	}
}

// evalCall implements §4.3's FunctionCall: look up the function and
// validate arity (before any argument is evaluated), evaluate args left
// to right, push a fresh frame binding declared
// parameters (trailing ones default to Uninitialized), run the body,
// pop the frame on every path including failure, and always yield
// Uninitialized (no `return` — Non-goal, §9 open question 3).
func (ip *Interp) evalCall(n *ast.Call) (ast.Value, error) {
	fn, ok := ip.lookupFunction(n.Name)
	if !ok {
		return ast.Value{}, newError("call to undefined function %q", n.Name)
	}
	if len(n.Args) > len(fn.Params) {
		return ast.Value{}, newError("function %q called with %d args, wants at most %d", n.Name, len(n.Args), len(fn.Params))
	}

	argVals := make([]ast.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := ip.evalExpr(a)
		if err != nil {
			return ast.Value{}, err
		}
		argVals[i] = v
	}

	frame := make(map[string]ast.Value, len(fn.Params))
	for i, name := range fn.Params {
		if i < len(argVals) {
			frame[name] = argVals[i]
		} else {
			frame[name] = ast.Uninitialized
		}
	}

	ip.vars.PushFrame(frame)
	err := ip.execAction(fn.Body)
	ip.vars.PopFrame()
	if err != nil {
		return ast.Value{}, err
	}
	return ast.Uninitialized, nil
}
