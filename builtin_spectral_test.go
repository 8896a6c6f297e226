// builtin_spectral_test.go
package plotdata

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireSeriesInDelta(t *testing.T, want, got []float64, tol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.InDelta(t, want[i], got[i], tol, "index %d", i)
	}
}

func TestSpectral_ImpulseAndRoundTrip(t *testing.T) {
	cols := [][]float64{{1, 0, 0, 0, 0, 0, 0, 0}}
	v := evalIn(t, "abs(fft.fft(column0))", cols, nil)
	requireSeriesInDelta(t, []float64{1, 1, 1, 1, 1, 1, 1, 1}, v.Data.([]float64), 1e-12)

	// ifft(fft(x)) recovers x, power-of-two length
	v = evalIn(t, "real(fft.ifft(fft.fft(column0)))", cols, nil)
	requireSeriesInDelta(t, cols[0], v.Data.([]float64), 1e-12)
}

func TestSpectral_RoundTripNonPowerOfTwo(t *testing.T) {
	cols := [][]float64{{1, 2, 3, 4, 5, 6}}
	v := evalIn(t, "real(fft.ifft(fft.fft(column0)))", cols, nil)
	requireSeriesInDelta(t, cols[0], v.Data.([]float64), 1e-9)
}

func TestSpectral_RFFTPicksOutTone(t *testing.T) {
	// Two full cycles over 16 samples: all energy lands in bin 2.
	n := 16
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = math.Cos(2 * math.Pi * 2 * float64(i) / float64(n))
	}
	v := evalIn(t, "abs(fft.rfft(column0))", [][]float64{xs}, nil)
	bins := v.Data.([]float64)
	require.Len(t, bins, n/2+1)
	require.InDelta(t, 8, bins[2], 1e-9) // n/2 for a unit cosine
	for i, b := range bins {
		if i != 2 {
			require.InDelta(t, 0, b, 1e-9, "bin %d", i)
		}
	}
}

func TestSpectral_IRFFTRoundTrip(t *testing.T) {
	cols := [][]float64{{1, 2, 4, 2, 1, 3, 2, 1}}
	v := evalIn(t, "fft.irfft(fft.rfft(column0))", cols, nil)
	require.Equal(t, VTSeries, v.Tag)
	requireSeriesInDelta(t, cols[0], v.Data.([]float64), 1e-9)
}

func TestSpectral_FreqBins(t *testing.T) {
	v := evalIn(t, "fft.rfftfreq(8)", nil, nil)
	requireSeriesInDelta(t, []float64{0, 0.125, 0.25, 0.375, 0.5}, v.Data.([]float64), 1e-12)

	v = evalIn(t, "fft.fftfreq(8)", nil, nil)
	requireSeriesInDelta(t, []float64{0, 0.125, 0.25, 0.375, -0.5, -0.375, -0.25, -0.125},
		v.Data.([]float64), 1e-12)

	v = evalIn(t, "fft.fftfreq(5)", nil, nil)
	requireSeriesInDelta(t, []float64{0, 0.2, 0.4, -0.4, -0.2}, v.Data.([]float64), 1e-12)

	v = evalIn(t, "fft.rfftfreq(8, 0.001)", nil, nil)
	requireSeriesInDelta(t, []float64{0, 125, 250, 375, 500}, v.Data.([]float64), 1e-9)
}

func TestSpectral_PowerSpectrumMatchesExpression(t *testing.T) {
	xs := []float64{1, 2, 4, 2, 1, 3, 2, 1}
	got := PowerSpectrum(xs)

	v := evalIn(t, "abs(fft.rfft(column0))**2", [][]float64{xs}, nil)
	requireSeriesInDelta(t, v.Data.([]float64), got, 1e-9)
}

func TestSpectral_RFFTFreqHelper(t *testing.T) {
	requireSeriesInDelta(t, []float64{0, 0.125, 0.25, 0.375, 0.5}, RFFTFreq(8, 1), 1e-12)
	require.Len(t, RFFTFreq(9, 1), 5)
}

func TestSpectral_ParsevalHolds(t *testing.T) {
	xs := []float64{1, -2, 3, 0.5, -1, 2, 0, 1}
	var timeEnergy float64
	for _, x := range xs {
		timeEnergy += x * x
	}
	v := evalIn(t, "sum(abs(fft.fft(column0))**2) / len(column0)", [][]float64{xs}, nil)
	require.InDelta(t, timeEnergy, v.Data.(float64), 1e-9)
}

func TestSpectral_EmptySeriesRejected(t *testing.T) {
	// diff of a one-row column is empty; the transform must refuse it
	// with a proper expression error, not crash.
	st := NewSymbolTable([][]float64{{1}}, nil)
	_, err := Resolve("fft.rfft(diff(column0))", st)
	require.Error(t, err)
	ee, ok := err.(*ExpressionError)
	require.True(t, ok, "want *ExpressionError, got %T", err)
	require.Contains(t, ee.Msg, "empty")
	require.Equal(t, "fft.rfft(diff(column0))", ee.Expr)

	require.Empty(t, PowerSpectrum(nil))
}
