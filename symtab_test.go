// symtab_test.go
package plotdata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSymbolTable_PositionalThenLabelOrder(t *testing.T) {
	st := NewSymbolTable([][]float64{{1}, {2}}, []string{"a", "b"})
	require.Equal(t, []string{"column0", "column1", "a", "b"}, st.Keys())

	col, ok := st.Get("column1")
	require.True(t, ok)
	require.Equal(t, []float64{2}, col)
	col, ok = st.Get("b")
	require.True(t, ok)
	require.Equal(t, []float64{2}, col)
}

func TestSymbolTable_LabelZipTruncates(t *testing.T) {
	// More labels than columns: extras are dropped.
	st := NewSymbolTable([][]float64{{1}}, []string{"a", "b", "c"})
	require.Equal(t, []string{"column0", "a"}, st.Keys())

	// Fewer labels than columns: trailing columns stay positional-only.
	st = NewSymbolTable([][]float64{{1}, {2}, {3}}, []string{"a"})
	require.Equal(t, []string{"column0", "column1", "column2", "a"}, st.Keys())
}

func TestSymbolTable_DuplicateLabelLastWins(t *testing.T) {
	st := NewSymbolTable([][]float64{{1}, {2}}, []string{"a", "a"})
	require.Equal(t, []string{"column0", "column1", "a"}, st.Keys())
	col, _ := st.Get("a")
	require.Equal(t, []float64{2}, col)
}

func TestSymbolTable_LabelMatchingPositionalName(t *testing.T) {
	// A label textually equal to a positional key overwrites it in place.
	st := NewSymbolTable([][]float64{{1}, {2}}, []string{"column1", "x"})
	require.Equal(t, []string{"column0", "column1", "x"}, st.Keys())
	col, _ := st.Get("column1")
	require.Equal(t, []float64{1}, col)
}

func TestSymbolTable_NonIdentifierLabelSkippedButKept(t *testing.T) {
	st := NewSymbolTable([][]float64{{1}, {2}}, []string{"total energy", "ok"})
	_, found := st.Get("total energy")
	require.True(t, found, "key stays addressable for exact-match lookup")
	require.Len(t, st.Skipped, 1)
	require.Equal(t, "total energy", st.Skipped[0].Name)
	require.Contains(t, st.Skipped[0].Reason, "identifier")
}

func TestSymbolTable_BuiltinCollisionSkipped(t *testing.T) {
	st := NewSymbolTable([][]float64{{5}}, []string{"abs"})
	require.Len(t, st.Skipped, 1)
	require.Contains(t, st.Skipped[0].Reason, "builtin")

	// Fast path still returns the column...
	v, err := Resolve("abs", st)
	require.NoError(t, err)
	require.Equal(t, Series([]float64{5}), v)

	// ...while inside expressions the name stays the builtin function.
	v, err = Resolve("abs(0-column0)", st)
	require.NoError(t, err)
	require.Equal(t, Series([]float64{5}), v)
}

func TestIsIdentifier(t *testing.T) {
	for _, ok := range []string{"a", "_x", "column0", "Total_2"} {
		require.True(t, isIdentifier(ok), ok)
	}
	for _, bad := range []string{"", "2x", "a b", "a-b", "a.b"} {
		require.False(t, isIdentifier(bad), bad)
	}
}
