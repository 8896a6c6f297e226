// errors.go — user-facing error wrapping and caret-snippet rendering.
//
// Resolve converts every internal failure (lex, parse, runtime) into an
// *ExpressionError that carries the offending expression text. When a
// column position is known, Error() renders a small snippet with a caret
// under the failing spot:
//
//	expression error in "column1 - colum0": unknown name "colum0"
//
//	    | column1 - colum0
//	    |           ^
//
// Runtime failures without a precise position (shape mismatches and the
// like) render without the caret block.

package plotdata

import (
	"fmt"
	"strings"
)

// ExpressionError is the single error kind the resolver surfaces. Expr is
// the original expression text; Col is a 0-based byte offset into Expr, or
// -1 when the failure has no position.
type ExpressionError struct {
	Expr string
	Msg  string
	Col  int
}

func (e *ExpressionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "expression error in %q: %s", e.Expr, e.Msg)
	if e.Col >= 0 && e.Col <= len(e.Expr) {
		fmt.Fprintf(&b, "\n\n    | %s\n    | %s^", e.Expr, strings.Repeat(" ", e.Col))
	}
	return b.String()
}

// wrapExprError attaches the expression text to lex/parse failures. Errors
// of other kinds pass through unchanged.
func wrapExprError(err error, expr string) error {
	switch e := err.(type) {
	case *LexError:
		return &ExpressionError{Expr: expr, Msg: e.Msg, Col: e.Col}
	case *ParseError:
		return &ExpressionError{Expr: expr, Msg: e.Msg, Col: e.Col}
	case *ExpressionError:
		return e
	default:
		return err
	}
}
