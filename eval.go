// eval.go — tree-walking evaluator over S-expression nodes.
//
// Arithmetic acts elementwise over series with scalar broadcast, the way
// the columns behave in expressions like "(c-b)/100". Mixing a real and a
// complex operand promotes to complex. Two series must agree in length;
// anything else is a shape error.
//
// Failures inside evaluation signal via panic(evalErr{...}) and are
// converted to *ExpressionError at the Resolve boundary, so helper code
// here can stay free of error plumbing.

package plotdata

import (
	"fmt"
	"math"
	"math/cmplx"
)

// evalErr is the internal panic payload for runtime failures. name is set
// for unresolved identifiers so the resolver can offer suggestions.
type evalErr struct {
	msg  string
	name string
}

func fail(format string, args ...any) {
	panic(evalErr{msg: fmt.Sprintf(format, args...)})
}

func failUnknown(name string) {
	panic(evalErr{msg: fmt.Sprintf("unknown name %q", name), name: name})
}

// Eval evaluates a parsed expression against an environment, converting
// runtime panics into an error.
func Eval(n S, env *Env) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(evalErr)
			if !ok {
				panic(r)
			}
			ee := &ExpressionError{Msg: sig.msg, Col: -1}
			if sig.name != "" {
				err = &unresolvedError{ExpressionError: ee, Name: sig.name}
			} else {
				err = ee
			}
			v = Value{}
		}
	}()
	return eval(n, env), nil
}

// unresolvedError marks an ExpressionError caused by an unknown bare
// identifier; Resolve uses Name to compute "did you mean" candidates.
type unresolvedError struct {
	*ExpressionError
	Name string
}

func eval(n S, env *Env) Value {
	switch n.Tag() {
	case "num":
		return Num(n[1].(float64))

	case "id":
		name := n[1].(string)
		v, ok := env.Get(name)
		if !ok {
			failUnknown(name)
		}
		return v

	case "get":
		recv := eval(n[1].(S), env)
		name := n[2].(string)
		if recv.Tag != VTNS {
			fail("cannot access %q on a %s", name, recv.Kind())
		}
		ns := recv.Data.(*Namespace)
		v, ok := ns.Get(name)
		if !ok {
			fail("namespace %s has no member %q", ns.Name, name)
		}
		return v

	case "unop":
		op := n[1].(string)
		x := eval(n[2].(S), env)
		return applyUnary(op, x)

	case "binop":
		op := n[1].(string)
		l := eval(n[2].(S), env)
		r := eval(n[3].(S), env)
		return applyBinary(op, l, r)

	case "call":
		callee := eval(n[1].(S), env)
		if callee.Tag != VTFunc {
			fail("%s is not callable", callee.Kind())
		}
		fn := callee.Data.(*Builtin)
		args := make([]Value, 0, len(n)-2)
		for _, part := range n[2:] {
			args = append(args, eval(part.(S), env))
		}
		if len(args) < fn.MinArgs || (fn.MaxArgs >= 0 && len(args) > fn.MaxArgs) {
			fail("%s: wrong number of arguments (got %d)", fn.Name, len(args))
		}
		return fn.Impl(args)
	}
	fail("internal: unknown node tag %q", n.Tag())
	return Value{}
}

// ───────────────────────────── operators ────────────────────────────────

func applyUnary(op string, x Value) Value {
	requireNumeric(op, x)
	if op == "+" {
		return x
	}
	switch x.Tag {
	case VTNum:
		return Num(-x.Data.(float64))
	case VTComplex:
		return Cmplx(-x.Data.(complex128))
	case VTSeries:
		xs := x.Data.([]float64)
		out := make([]float64, len(xs))
		for i, v := range xs {
			out[i] = -v
		}
		return Series(out)
	case VTCSeries:
		xs := x.Data.([]complex128)
		out := make([]complex128, len(xs))
		for i, v := range xs {
			out[i] = -v
		}
		return CSeries(out)
	}
	return Value{} // unreachable
}

func applyBinary(op string, a, b Value) Value {
	requireNumeric(op, a)
	requireNumeric(op, b)

	if isComplexVal(a) || isComplexVal(b) {
		switch op {
		case "+":
			return lift2c(op, a, b, func(x, y complex128) complex128 { return x + y })
		case "-":
			return lift2c(op, a, b, func(x, y complex128) complex128 { return x - y })
		case "*":
			return lift2c(op, a, b, func(x, y complex128) complex128 { return x * y })
		case "/":
			return lift2c(op, a, b, func(x, y complex128) complex128 { return x / y })
		case "**":
			return lift2c(op, a, b, cmplx.Pow)
		case "==":
			return lift2c(op, a, b, func(x, y complex128) complex128 { return b2c(x == y) })
		case "!=":
			return lift2c(op, a, b, func(x, y complex128) complex128 { return b2c(x != y) })
		default:
			fail("operator %q is not defined for complex values", op)
		}
	}

	switch op {
	case "+":
		return lift2(op, a, b, func(x, y float64) float64 { return x + y })
	case "-":
		return lift2(op, a, b, func(x, y float64) float64 { return x - y })
	case "*":
		return lift2(op, a, b, func(x, y float64) float64 { return x * y })
	case "/":
		return lift2(op, a, b, func(x, y float64) float64 { return x / y })
	case "%":
		return lift2(op, a, b, math.Mod)
	case "**":
		return lift2(op, a, b, math.Pow)
	case "<":
		return lift2(op, a, b, func(x, y float64) float64 { return b2f(x < y) })
	case "<=":
		return lift2(op, a, b, func(x, y float64) float64 { return b2f(x <= y) })
	case ">":
		return lift2(op, a, b, func(x, y float64) float64 { return b2f(x > y) })
	case ">=":
		return lift2(op, a, b, func(x, y float64) float64 { return b2f(x >= y) })
	case "==":
		return lift2(op, a, b, func(x, y float64) float64 { return b2f(x == y) })
	case "!=":
		return lift2(op, a, b, func(x, y float64) float64 { return b2f(x != y) })
	}
	fail("internal: unknown operator %q", op)
	return Value{}
}

func requireNumeric(op string, v Value) {
	switch v.Tag {
	case VTNum, VTSeries, VTComplex, VTCSeries:
	default:
		fail("operator %q is not defined for a %s", op, v.Kind())
	}
}

func isComplexVal(v Value) bool { return v.Tag == VTComplex || v.Tag == VTCSeries }

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func b2c(b bool) complex128 { return complex(b2f(b), 0) }

// lift2 applies f elementwise over real operands with scalar broadcast.
func lift2(op string, a, b Value, f func(x, y float64) float64) Value {
	switch {
	case a.Tag == VTNum && b.Tag == VTNum:
		return Num(f(a.Data.(float64), b.Data.(float64)))
	case a.Tag == VTNum && b.Tag == VTSeries:
		x := a.Data.(float64)
		ys := b.Data.([]float64)
		out := make([]float64, len(ys))
		for i, y := range ys {
			out[i] = f(x, y)
		}
		return Series(out)
	case a.Tag == VTSeries && b.Tag == VTNum:
		xs := a.Data.([]float64)
		y := b.Data.(float64)
		out := make([]float64, len(xs))
		for i, x := range xs {
			out[i] = f(x, y)
		}
		return Series(out)
	default:
		xs := a.Data.([]float64)
		ys := b.Data.([]float64)
		if len(xs) != len(ys) {
			fail("shape mismatch for %q: series of length %d and %d", op, len(xs), len(ys))
		}
		out := make([]float64, len(xs))
		for i := range xs {
			out[i] = f(xs[i], ys[i])
		}
		return Series(out)
	}
}

// lift2c is lift2 for the complex path; real operands are promoted.
func lift2c(op string, a, b Value, f func(x, y complex128) complex128) Value {
	as, aScalar := toComplexOperand(a)
	bs, bScalar := toComplexOperand(b)
	switch {
	case aScalar && bScalar:
		return Cmplx(f(as[0], bs[0]))
	case aScalar:
		out := make([]complex128, len(bs))
		for i, y := range bs {
			out[i] = f(as[0], y)
		}
		return CSeries(out)
	case bScalar:
		out := make([]complex128, len(as))
		for i, x := range as {
			out[i] = f(x, bs[0])
		}
		return CSeries(out)
	default:
		if len(as) != len(bs) {
			fail("shape mismatch for %q: series of length %d and %d", op, len(as), len(bs))
		}
		out := make([]complex128, len(as))
		for i := range as {
			out[i] = f(as[i], bs[i])
		}
		return CSeries(out)
	}
}

// toComplexOperand views any numeric value as complex data. Scalars come
// back as a one-element slice with scalar=true.
func toComplexOperand(v Value) (xs []complex128, scalar bool) {
	switch v.Tag {
	case VTNum:
		return []complex128{complex(v.Data.(float64), 0)}, true
	case VTComplex:
		return []complex128{v.Data.(complex128)}, true
	case VTSeries:
		rs := v.Data.([]float64)
		out := make([]complex128, len(rs))
		for i, r := range rs {
			out[i] = complex(r, 0)
		}
		return out, false
	case VTCSeries:
		return v.Data.([]complex128), false
	}
	fail("internal: non-numeric operand")
	return nil, false
}
