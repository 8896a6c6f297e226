// builtin_spectral.go — the fft namespace.
//
// Transform and frequency-bin conventions follow numpy.fft: rfft of an
// n-point real series yields n/2+1 bins, ifft scales by 1/n, and the
// freq helpers take (n, d) with the sample spacing d defaulting to 1.
// Power-of-two lengths go through an iterative radix-2 Cooley–Tukey;
// everything else falls back to the direct transform, which is fine at
// plotting sizes.

package plotdata

import "math"

func registerSpectralBuiltins(env *Env) {
	ns := NewNamespace("fft")

	def := func(name string, min, max int, impl NativeImpl) {
		ns.Define(name, FuncVal(&Builtin{Name: "fft." + name, MinArgs: min, MaxArgs: max, Impl: impl}))
	}

	def("fft", 1, 1, func(args []Value) Value {
		xs, _ := toComplexOperand(seriesOperand("fft.fft", args[0]))
		return CSeries(fourier(xs, false))
	})
	def("ifft", 1, 1, func(args []Value) Value {
		xs, _ := toComplexOperand(seriesOperand("fft.ifft", args[0]))
		n := len(xs)
		out := fourier(xs, true)
		scale(out, 1/float64(n))
		return CSeries(out)
	})
	def("rfft", 1, 1, func(args []Value) Value {
		xs := needSeries("fft.rfft", args[0])
		if len(xs) == 0 {
			fail("fft.rfft: empty series")
		}
		cs := make([]complex128, len(xs))
		for i, x := range xs {
			cs[i] = complex(x, 0)
		}
		full := fourier(cs, false)
		return CSeries(full[:len(xs)/2+1])
	})
	def("irfft", 1, 2, func(args []Value) Value {
		half := needCSeries("fft.irfft", args[0])
		if len(half) < 2 {
			fail("fft.irfft: need at least 2 bins")
		}
		n := 2 * (len(half) - 1)
		if len(args) == 2 {
			n = needCount("fft.irfft", args[1])
			if n < 1 {
				fail("fft.irfft: output length must be positive")
			}
		}
		full := make([]complex128, n)
		limit := n/2 + 1
		if limit > len(half) {
			limit = len(half)
		}
		copy(full, half[:limit])
		for k := 1; k < n-n/2; k++ {
			re, im := real(full[k]), imag(full[k])
			full[n-k] = complex(re, -im)
		}
		out := fourier(full, true)
		res := make([]float64, n)
		for i, c := range out {
			res[i] = real(c) / float64(n)
		}
		return Series(res)
	})
	def("fftfreq", 1, 2, func(args []Value) Value {
		n, d := freqArgs("fft.fftfreq", args)
		out := make([]float64, n)
		scaleBy := 1 / (float64(n) * d)
		half := (n - 1) / 2
		for i := 0; i <= half; i++ {
			out[i] = float64(i) * scaleBy
		}
		for i := half + 1; i < n; i++ {
			out[i] = float64(i-n) * scaleBy
		}
		return Series(out)
	})
	def("rfftfreq", 1, 2, func(args []Value) Value {
		n, d := freqArgs("fft.rfftfreq", args)
		out := make([]float64, n/2+1)
		scaleBy := 1 / (float64(n) * d)
		for i := range out {
			out[i] = float64(i) * scaleBy
		}
		return Series(out)
	})

	env.Define("fft", NSVal(ns))
}

// PowerSpectrum returns |rfft(xs)|^2, the one-sided power spectrum used
// by the CLI's --fft mode.
func PowerSpectrum(xs []float64) []float64 {
	if len(xs) == 0 {
		return nil
	}
	cs := make([]complex128, len(xs))
	for i, x := range xs {
		cs[i] = complex(x, 0)
	}
	full := fourier(cs, false)
	out := make([]float64, len(xs)/2+1)
	for i := range out {
		re, im := real(full[i]), imag(full[i])
		out[i] = re*re + im*im
	}
	return out
}

// RFFTFreq returns the bin frequencies matching PowerSpectrum for an
// n-point series with sample spacing d.
func RFFTFreq(n int, d float64) []float64 {
	out := make([]float64, n/2+1)
	scaleBy := 1 / (float64(n) * d)
	for i := range out {
		out[i] = float64(i) * scaleBy
	}
	return out
}

func seriesOperand(fn string, v Value) Value {
	switch v.Tag {
	case VTSeries, VTCSeries:
		return v
	default:
		fail("%s: expected a series, got %s", fn, v.Kind())
		return Value{}
	}
}

func needCSeries(fn string, v Value) []complex128 {
	switch v.Tag {
	case VTCSeries:
		return v.Data.([]complex128)
	case VTSeries:
		xs := v.Data.([]float64)
		out := make([]complex128, len(xs))
		for i, x := range xs {
			out[i] = complex(x, 0)
		}
		return out
	default:
		fail("%s: expected a series, got %s", fn, v.Kind())
		return nil
	}
}

func freqArgs(fn string, args []Value) (int, float64) {
	n := needCount(fn, args[0])
	if n < 1 {
		fail("%s: n must be positive", fn)
	}
	d := 1.0
	if len(args) == 2 {
		d = needScalar(fn, args[1])
		if d == 0 {
			fail("%s: sample spacing must not be zero", fn)
		}
	}
	return n, d
}

func scale(xs []complex128, s float64) {
	for i := range xs {
		xs[i] = complex(real(xs[i])*s, imag(xs[i])*s)
	}
}

// fourier computes the DFT (or its unscaled inverse) of x.
func fourier(x []complex128, inverse bool) []complex128 {
	n := len(x)
	if n == 0 {
		return nil
	}
	if n&(n-1) == 0 {
		return fftRadix2(x, inverse)
	}
	return dftNaive(x, inverse)
}

// fftRadix2 is the iterative bit-reversal Cooley–Tukey transform.
// len(x) must be a power of two.
func fftRadix2(x []complex128, inverse bool) []complex128 {
	n := len(x)
	out := make([]complex128, n)
	copy(out, x)

	// bit-reversal permutation
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j |= bit
		if i < j {
			out[i], out[j] = out[j], out[i]
		}
	}

	sign := -1.0
	if inverse {
		sign = 1.0
	}
	for span := 2; span <= n; span <<= 1 {
		angle := sign * 2 * math.Pi / float64(span)
		wSpan := complex(math.Cos(angle), math.Sin(angle))
		for start := 0; start < n; start += span {
			w := complex(1, 0)
			for k := start; k < start+span/2; k++ {
				u := out[k]
				v := out[k+span/2] * w
				out[k] = u + v
				out[k+span/2] = u - v
				w *= wSpan
			}
		}
	}
	return out
}

// dftNaive is the O(n^2) direct transform for awkward lengths.
func dftNaive(x []complex128, inverse bool) []complex128 {
	n := len(x)
	sign := -1.0
	if inverse {
		sign = 1.0
	}
	out := make([]complex128, n)
	for k := 0; k < n; k++ {
		var acc complex128
		for j := 0; j < n; j++ {
			angle := sign * 2 * math.Pi * float64(k) * float64(j) / float64(n)
			acc += x[j] * complex(math.Cos(angle), math.Sin(angle))
		}
		out[k] = acc
	}
	return out
}
