// builtin_numeric.go — the general numeric namespace.
//
// Every function here is registered twice: bare (abs, median, len, ...)
// and under the "np" namespace, so both "abs(b)" and "np.median(b)" work
// in expressions. Elementwise helpers accept a scalar or a series and
// return the same shape; reductions accept a series (a scalar is treated
// as a one-element series).

package plotdata

import (
	"math"
	"math/cmplx"
	"sort"
	"sync"
)

// BaseEnv returns a fresh environment holding the builtin functions,
// constants and the np/fft namespaces. Callers bind table columns into a
// child of this environment.
func BaseEnv() *Env {
	env := NewEnv(nil)
	registerNumericBuiltins(env)
	registerSpectralBuiltins(env)
	return env
}

var (
	reservedOnce  sync.Once
	reservedNames map[string]bool
)

// IsReservedName reports whether name collides with a builtin function,
// constant or namespace and is therefore not bindable as a column label.
func IsReservedName(name string) bool {
	reservedOnce.Do(func() {
		reservedNames = make(map[string]bool)
		for _, n := range BaseEnv().Names() {
			reservedNames[n] = true
		}
	})
	return reservedNames[name]
}

func registerNumericBuiltins(env *Env) {
	np := NewNamespace("np")

	def := func(name string, min, max int, impl NativeImpl) {
		v := FuncVal(&Builtin{Name: name, MinArgs: min, MaxArgs: max, Impl: impl})
		env.Define(name, v)
		np.Define(name, v)
	}

	// Constants
	env.Define("pi", Num(math.Pi))
	env.Define("e", Num(math.E))
	np.Define("pi", Num(math.Pi))
	np.Define("e", Num(math.E))

	// Elementwise real functions.
	un1 := func(name string, f func(float64) float64) {
		def(name, 1, 1, func(args []Value) Value { return mapReal(name, args[0], f) })
	}
	un1("sqrt", math.Sqrt)
	un1("log", math.Log)
	un1("log2", math.Log2)
	un1("log10", math.Log10)
	un1("exp", math.Exp)
	un1("sin", math.Sin)
	un1("cos", math.Cos)
	un1("tan", math.Tan)
	un1("floor", math.Floor)
	un1("ceil", math.Ceil)
	un1("round", math.Round)

	// abs is complex-aware: the magnitude of a spectrum is a real series.
	def("abs", 1, 1, func(args []Value) Value {
		switch v := args[0]; v.Tag {
		case VTComplex:
			return Num(cmplx.Abs(v.Data.(complex128)))
		case VTCSeries:
			xs := v.Data.([]complex128)
			out := make([]float64, len(xs))
			for i, x := range xs {
				out[i] = cmplx.Abs(x)
			}
			return Series(out)
		default:
			return mapReal("abs", v, math.Abs)
		}
	})
	def("real", 1, 1, func(args []Value) Value {
		return complexPart("real", args[0], func(c complex128) float64 { return real(c) })
	})
	def("imag", 1, 1, func(args []Value) Value {
		return complexPart("imag", args[0], func(c complex128) float64 { return imag(c) })
	})
	def("conj", 1, 1, func(args []Value) Value {
		switch v := args[0]; v.Tag {
		case VTComplex:
			return Cmplx(cmplx.Conj(v.Data.(complex128)))
		case VTCSeries:
			xs := v.Data.([]complex128)
			out := make([]complex128, len(xs))
			for i, x := range xs {
				out[i] = cmplx.Conj(x)
			}
			return CSeries(out)
		case VTNum, VTSeries:
			return v
		default:
			fail("conj: expected a numeric value, got %s", v.Kind())
			return Value{}
		}
	})

	def("len", 1, 1, func(args []Value) Value {
		switch v := args[0]; v.Tag {
		case VTSeries, VTCSeries:
			return Num(float64(v.Len()))
		default:
			fail("len: expected a series, got %s", v.Kind())
			return Value{}
		}
	})

	// Reductions.
	def("sum", 1, 1, func(args []Value) Value {
		if args[0].Tag == VTCSeries {
			var acc complex128
			for _, x := range args[0].Data.([]complex128) {
				acc += x
			}
			return Cmplx(acc)
		}
		xs := needSeries("sum", args[0])
		var acc float64
		for _, x := range xs {
			acc += x
		}
		return Num(acc)
	})
	def("mean", 1, 1, func(args []Value) Value {
		xs := needSeries("mean", args[0])
		if len(xs) == 0 {
			fail("mean of an empty series")
		}
		var acc float64
		for _, x := range xs {
			acc += x
		}
		return Num(acc / float64(len(xs)))
	})
	def("median", 1, 1, func(args []Value) Value {
		xs := needSeries("median", args[0])
		if len(xs) == 0 {
			fail("median of an empty series")
		}
		tmp := make([]float64, len(xs))
		copy(tmp, xs)
		sort.Float64s(tmp)
		mid := len(tmp) / 2
		if len(tmp)%2 == 1 {
			return Num(tmp[mid])
		}
		return Num((tmp[mid-1] + tmp[mid]) / 2)
	})
	def("std", 1, 1, func(args []Value) Value {
		xs := needSeries("std", args[0])
		if len(xs) == 0 {
			fail("std of an empty series")
		}
		var sum float64
		for _, x := range xs {
			sum += x
		}
		m := sum / float64(len(xs))
		var ss float64
		for _, x := range xs {
			d := x - m
			ss += d * d
		}
		return Num(math.Sqrt(ss / float64(len(xs))))
	})
	def("min", 1, 1, func(args []Value) Value { return reduceExtreme("min", args[0], math.Min) })
	def("max", 1, 1, func(args []Value) Value { return reduceExtreme("max", args[0], math.Max) })
	def("ptp", 1, 1, func(args []Value) Value {
		xs := needSeries("ptp", args[0])
		if len(xs) == 0 {
			fail("ptp of an empty series")
		}
		lo, hi := xs[0], xs[0]
		for _, x := range xs[1:] {
			lo = math.Min(lo, x)
			hi = math.Max(hi, x)
		}
		return Num(hi - lo)
	})

	// Series shape/construction.
	def("diff", 1, 1, func(args []Value) Value {
		xs := needSeries("diff", args[0])
		if len(xs) == 0 {
			return Series(nil)
		}
		out := make([]float64, len(xs)-1)
		for i := 1; i < len(xs); i++ {
			out[i-1] = xs[i] - xs[i-1]
		}
		return Series(out)
	})
	def("cumsum", 1, 1, func(args []Value) Value {
		xs := needSeries("cumsum", args[0])
		out := make([]float64, len(xs))
		var acc float64
		for i, x := range xs {
			acc += x
			out[i] = acc
		}
		return Series(out)
	})
	def("linspace", 2, 3, func(args []Value) Value {
		start := needScalar("linspace", args[0])
		stop := needScalar("linspace", args[1])
		n := 50
		if len(args) == 3 {
			n = needCount("linspace", args[2])
		}
		return Series(linspace(start, stop, n))
	})
	def("arange", 1, 3, func(args []Value) Value {
		start, stop, step := 0.0, 0.0, 1.0
		switch len(args) {
		case 1:
			stop = needScalar("arange", args[0])
		case 2:
			start = needScalar("arange", args[0])
			stop = needScalar("arange", args[1])
		case 3:
			start = needScalar("arange", args[0])
			stop = needScalar("arange", args[1])
			step = needScalar("arange", args[2])
		}
		if step == 0 {
			fail("arange: step must not be zero")
		}
		var out []float64
		if step > 0 {
			for x := start; x < stop; x += step {
				out = append(out, x)
			}
		} else {
			for x := start; x > stop; x += step {
				out = append(out, x)
			}
		}
		return Series(out)
	})
	def("zeros", 1, 1, func(args []Value) Value {
		return Series(make([]float64, needCount("zeros", args[0])))
	})
	def("ones", 1, 1, func(args []Value) Value {
		out := make([]float64, needCount("ones", args[0]))
		for i := range out {
			out[i] = 1
		}
		return Series(out)
	})

	env.Define("np", NSVal(np))
}

// ───────────────────────────── helpers ──────────────────────────────────

func mapReal(fn string, v Value, f func(float64) float64) Value {
	switch v.Tag {
	case VTNum:
		return Num(f(v.Data.(float64)))
	case VTSeries:
		xs := v.Data.([]float64)
		out := make([]float64, len(xs))
		for i, x := range xs {
			out[i] = f(x)
		}
		return Series(out)
	default:
		fail("%s is not defined for %s values", fn, v.Kind())
		return Value{}
	}
}

func complexPart(fn string, v Value, part func(complex128) float64) Value {
	switch v.Tag {
	case VTComplex:
		return Num(part(v.Data.(complex128)))
	case VTCSeries:
		xs := v.Data.([]complex128)
		out := make([]float64, len(xs))
		for i, x := range xs {
			out[i] = part(x)
		}
		return Series(out)
	case VTNum:
		if fn == "imag" {
			return Num(0)
		}
		return v
	case VTSeries:
		if fn == "imag" {
			return Series(make([]float64, v.Len()))
		}
		return v
	default:
		fail("%s: expected a numeric value, got %s", fn, v.Kind())
		return Value{}
	}
}

func reduceExtreme(fn string, v Value, pick func(a, b float64) float64) Value {
	xs := needSeries(fn, v)
	if len(xs) == 0 {
		fail("%s of an empty series", fn)
	}
	acc := xs[0]
	for _, x := range xs[1:] {
		acc = pick(acc, x)
	}
	return Num(acc)
}

// needSeries views a real value as a series; scalars become one element.
func needSeries(fn string, v Value) []float64 {
	switch v.Tag {
	case VTSeries:
		return v.Data.([]float64)
	case VTNum:
		return []float64{v.Data.(float64)}
	default:
		fail("%s: expected a real series, got %s", fn, v.Kind())
		return nil
	}
}

func needScalar(fn string, v Value) float64 {
	if v.Tag != VTNum {
		fail("%s: expected a number, got %s", fn, v.Kind())
	}
	return v.Data.(float64)
}

// needCount extracts a non-negative integral argument.
func needCount(fn string, v Value) int {
	f := needScalar(fn, v)
	n := int(f)
	if f != float64(n) || n < 0 {
		fail("%s: expected a non-negative integer, got %v", fn, f)
	}
	return n
}

func linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}
