// resolve.go — turning a user expression string into plottable data.
//
// Resolve is a pure function of (expression, table): it rebinds every
// bindable table key on every call, so there is no state carried between
// the --x and --y resolutions. An expression that is exactly a table key
// short-circuits to the stored column without evaluation, which also
// covers labels like "total energy" that are not legal identifiers.

package plotdata

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Resolve evaluates expr against table, returning a series or a scalar.
// All failures come back as *ExpressionError naming the expression.
func Resolve(expr string, table *SymbolTable) (Value, error) {
	// Fast path: an exact key returns the column's own storage.
	if col, ok := table.Get(expr); ok {
		return Series(col), nil
	}

	node, err := ParseExpr(expr)
	if err != nil {
		return Value{}, wrapExprError(err, expr)
	}

	env := NewEnv(BaseEnv())
	for _, key := range table.Keys() {
		if _, blocked := bindBlocker(key); blocked {
			continue
		}
		col, _ := table.Get(key)
		env.Define(key, Series(col))
	}

	v, err := Eval(node, env)
	if err != nil {
		if ue, ok := err.(*unresolvedError); ok {
			ue.ExpressionError.Expr = expr
			if hint := suggest(ue.Name, table.Keys()); hint != "" {
				ue.ExpressionError.Msg += "; did you mean " + hint + "?"
			}
			return Value{}, ue.ExpressionError
		}
		if ee, ok := err.(*ExpressionError); ok {
			ee.Expr = expr
			return Value{}, ee
		}
		return Value{}, &ExpressionError{Expr: expr, Msg: err.Error(), Col: -1}
	}
	return v, nil
}

// ResolveSeries is Resolve with scalar results broadcast to length n,
// which is what a plot surface wants for expressions like "column0*0+5".
func ResolveSeries(expr string, table *SymbolTable, n int) ([]float64, error) {
	v, err := Resolve(expr, table)
	if err != nil {
		return nil, err
	}
	switch v.Tag {
	case VTSeries:
		return v.Data.([]float64), nil
	case VTNum:
		out := make([]float64, n)
		for i := range out {
			out[i] = v.Data.(float64)
		}
		return out, nil
	case VTCSeries:
		return nil, &ExpressionError{
			Expr: expr,
			Msg:  "result is complex; take abs(...), real(...) or imag(...) to plot it",
			Col:  -1,
		}
	default:
		return nil, &ExpressionError{
			Expr: expr,
			Msg:  fmt.Sprintf("result is a %s, not plottable data", v.Kind()),
			Col:  -1,
		}
	}
}

// suggest returns up to three close table keys for an unknown name.
func suggest(name string, keys []string) string {
	ranks := fuzzy.RankFindFold(name, keys)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	var picks []string
	for i, r := range ranks {
		if i == 3 {
			break
		}
		picks = append(picks, fmt.Sprintf("%q", r.Target))
	}
	return strings.Join(picks, ", ")
}
