// resolve_test.go
package plotdata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func symtab(t *testing.T, input string) *SymbolTable {
	t.Helper()
	tbl, err := ReadTableFrom(strings.NewReader(input))
	require.NoError(t, err)
	return tbl.Symbols()
}

func resolveSeries(t *testing.T, st *SymbolTable, expr string) []float64 {
	t.Helper()
	v, err := Resolve(expr, st)
	require.NoError(t, err, expr)
	require.Equal(t, VTSeries, v.Tag, expr)
	return v.Data.([]float64)
}

func TestResolve_ColumnDifference(t *testing.T) {
	st := NewSymbolTable([][]float64{{1, 2, 3}, {4, 5, 6}}, nil)
	require.Equal(t, []float64{3, 3, 3}, resolveSeries(t, st, "column1 - column0"))
}

func TestResolve_LabelArithmetic(t *testing.T) {
	st := NewSymbolTable([][]float64{{1, 2}, {10, 20}}, []string{"a", "b"})
	require.Equal(t, []float64{10, 10}, resolveSeries(t, st, "b/a"))
}

func TestResolve_FastPathReturnsStoredColumn(t *testing.T) {
	col := []float64{1, 2, 3}
	st := NewSymbolTable([][]float64{col}, []string{"total energy"})

	v, err := Resolve("column0", st)
	require.NoError(t, err)
	got := v.Data.([]float64)
	require.True(t, &got[0] == &col[0], "fast path must hand back the column's own storage")

	// Exact match works even for labels that are not legal identifiers.
	v, err = Resolve("total energy", st)
	require.NoError(t, err)
	require.Equal(t, col, v.Data.([]float64))
}

func TestResolve_Idempotent(t *testing.T) {
	st := NewSymbolTable([][]float64{{1, 2, 3}, {2, 3, 5}}, []string{"a", "b"})
	first, err := Resolve("(b-a)**2 + 1", st)
	require.NoError(t, err)
	second, err := Resolve("(b-a)**2 + 1", st)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestResolve_UnresolvableSymbol(t *testing.T) {
	st := NewSymbolTable([][]float64{{1}}, nil)
	_, err := Resolve("undefined_name * 2", st)
	require.Error(t, err)
	ee, ok := err.(*ExpressionError)
	require.True(t, ok, "want *ExpressionError, got %T", err)
	require.Equal(t, "undefined_name * 2", ee.Expr)
	require.Contains(t, err.Error(), "undefined_name * 2")
}

func TestResolve_SuggestsCloseKey(t *testing.T) {
	st := NewSymbolTable([][]float64{{1}, {2}}, []string{"voltage", "current"})
	_, err := Resolve("voltge * 2", st)
	require.Error(t, err)
	require.Contains(t, err.Error(), "did you mean")
	require.Contains(t, err.Error(), "voltage")
}

func TestResolve_ScalarResult(t *testing.T) {
	st := NewSymbolTable([][]float64{{1, 2, 3}}, nil)
	v, err := Resolve("np.median(column0) + 1", st)
	require.NoError(t, err)
	require.Equal(t, Num(3.0), v)
}

func TestResolve_ScalarBroadcast(t *testing.T) {
	st := NewSymbolTable([][]float64{{1, 2, 3}}, nil)
	require.Equal(t, []float64{2, 4, 6}, resolveSeries(t, st, "2 * column0"))
	require.Equal(t, []float64{0.5, 1, 1.5}, resolveSeries(t, st, "column0 / 2"))
}

func TestResolve_Comparisons(t *testing.T) {
	st := NewSymbolTable([][]float64{{1, 5, 3}}, nil)
	require.Equal(t, []float64{0, 1, 0}, resolveSeries(t, st, "column0 > 3"))
	require.Equal(t, []float64{1, 0, 1}, resolveSeries(t, st, "column0 <= 3"))
}

func TestResolve_ShapeMismatch(t *testing.T) {
	st := NewSymbolTable([][]float64{{1, 2, 3}}, nil)
	_, err := Resolve("column0 + diff(column0)", st)
	require.Error(t, err)
	require.Contains(t, err.Error(), "shape mismatch")
}

func TestResolve_SpectralPipeline(t *testing.T) {
	st := symtab(t, "t b\n0 1\n1 2\n2 4\n3 2\n4 1\n5 3\n6 2\n7 1\n")
	ys := resolveSeries(t, st, "abs(fft.rfft(b-np.median(b)))**2")
	require.Len(t, ys, 5) // 8 samples -> 5 one-sided bins
	for _, y := range ys {
		require.GreaterOrEqual(t, y, 0.0)
	}

	freqs := resolveSeries(t, st, "fft.rfftfreq(len(b), 1./1.E6)")
	require.Len(t, freqs, 5)
	require.InDelta(t, 125000.0, freqs[1], 1e-9)
}

func TestResolve_SyntaxErrorCarriesExpression(t *testing.T) {
	st := NewSymbolTable([][]float64{{1}}, nil)
	for _, expr := range []string{"column0 +", "(column0", "column0 $ 2"} {
		_, err := Resolve(expr, st)
		require.Error(t, err, expr)
		ee, ok := err.(*ExpressionError)
		require.True(t, ok, "%s: want *ExpressionError, got %T", expr, err)
		require.Equal(t, expr, ee.Expr)
	}
}

func TestResolve_RebindsEveryCall(t *testing.T) {
	// The same expression against two different tables sees each table's
	// own columns; nothing leaks between resolutions.
	a := NewSymbolTable([][]float64{{1, 1}}, []string{"v"})
	b := NewSymbolTable([][]float64{{7, 7}}, []string{"v"})
	require.Equal(t, []float64{2, 2}, resolveSeries(t, a, "v + 1"))
	require.Equal(t, []float64{8, 8}, resolveSeries(t, b, "v + 1"))
}

func TestResolveSeries_BroadcastsScalars(t *testing.T) {
	st := NewSymbolTable([][]float64{{1, 2, 3, 4}}, nil)
	ys, err := ResolveSeries("np.mean(column0)", st, 4)
	require.NoError(t, err)
	require.Equal(t, []float64{2.5, 2.5, 2.5, 2.5}, ys)

	_, err = ResolveSeries("fft.rfft(column0)", st, 4)
	require.Error(t, err)
	require.Contains(t, err.Error(), "complex")
}

func TestResolve_NamespaceErrors(t *testing.T) {
	st := NewSymbolTable([][]float64{{1}}, nil)
	_, err := Resolve("fft.nope(column0)", st)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no member")

	_, err = Resolve("column0.real", st)
	require.Error(t, err)

	_, err = Resolve("np(column0)", st)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not callable")
}
