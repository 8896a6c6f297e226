// parser.go — Pratt parser for column expressions, producing compact
// S-expressions.
//
// Node shapes (tag first, like a Lisp form):
//
//	{"num", float64}            literal
//	{"id", name}                identifier
//	{"get", recv, name}         namespace access (fft.rfft)
//	{"call", callee, args...}   function call
//	{"unop", op, operand}       unary "-" / "+"
//	{"binop", op, left, right}  binary operator
//
// Precedence follows Python: comparisons lowest, then additive,
// multiplicative, unary sign, and "**" binding tightest and associating
// to the right (so -x**2 parses as -(x**2) and 2**3**2 as 2**(3**2)).

package plotdata

import "fmt"

// S is an S-expression node: a tag string followed by parts.
type S []any

// Tag returns the node's tag string.
func (s S) Tag() string { return s[0].(string) }

// ParseError reports a grammar failure with its 0-based column.
type ParseError struct {
	Col int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at column %d: %s", e.Col+1, e.Msg)
}

// ParseExpr tokenizes and parses a complete expression.
func ParseExpr(src string) (S, error) {
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.Type != EOF {
		return nil, p.errAt(t, fmt.Sprintf("unexpected %q after expression", t.Lexeme))
	}
	return n, nil
}

type parser struct {
	toks []Token
	i    int
}

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.i]
}

func (p *parser) need(tt TokenType, msg string) (Token, error) {
	t := p.peek()
	if t.Type != tt {
		return Token{}, p.errAt(t, msg)
	}
	p.i++
	return t, nil
}

func (p *parser) errAt(t Token, msg string) error {
	return &ParseError{Col: t.Col, Msg: msg}
}

// ───────────────────────── precedence / associativity ──────────────────────

func lbp(t TokenType) (int, bool) {
	switch t {
	case POW:
		return 80, true
	case MULT, DIV, MOD:
		return 70, true
	case PLUS, MINUS:
		return 60, true
	case LESS, LESS_EQ, GREATER, GREATER_EQ:
		return 50, true
	case EQ, NEQ:
		return 40, true
	}
	return 0, false
}

func isRightAssoc(tt TokenType) bool { return tt == POW }

// unaryBP binds looser than "**" so that -x**2 means -(x**2).
const unaryBP = 75

// ───────────────────────────────── grammar ──────────────────────────────────

func (p *parser) expr(minBP int) (S, error) {
	t := p.peek()
	p.i++

	var left S
	switch t.Type {
	case NUMBER:
		left = S{"num", t.Literal.(float64)}

	case ID:
		left = S{"id", t.Lexeme}

	case MINUS, PLUS:
		r, err := p.expr(unaryBP)
		if err != nil {
			return nil, err
		}
		left = S{"unop", t.Lexeme, r}

	case LROUND:
		inner, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RROUND, "expected ')'"); err != nil {
			return nil, err
		}
		left = inner

	case EOF:
		return nil, p.errAt(t, "unexpected end of expression")

	default:
		return nil, p.errAt(t, fmt.Sprintf("expected expression, found %q", t.Lexeme))
	}

	// ---- postfix and infix ----
	for {
		t := p.peek()

		// Postfix forms bind tightest.
		if t.Type == PERIOD {
			p.i++
			name, err := p.need(ID, "expected name after '.'")
			if err != nil {
				return nil, err
			}
			left = S{"get", left, name.Lexeme}
			continue
		}
		if t.Type == LROUND {
			p.i++
			args, err := p.callArgs()
			if err != nil {
				return nil, err
			}
			node := S{"call", left}
			node = append(node, args...)
			left = node
			continue
		}

		bp, ok := lbp(t.Type)
		if !ok || bp <= minBP {
			break
		}
		p.i++
		nextMin := bp
		if isRightAssoc(t.Type) {
			nextMin = bp - 1
		}
		right, err := p.expr(nextMin)
		if err != nil {
			return nil, err
		}
		left = S{"binop", t.Lexeme, left, right}
	}
	return left, nil
}

// callArgs parses a possibly empty comma-separated argument list; the
// opening '(' is already consumed.
func (p *parser) callArgs() ([]any, error) {
	var args []any
	if p.peek().Type == RROUND {
		p.i++
		return args, nil
	}
	for {
		a, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		t := p.peek()
		switch t.Type {
		case COMMA:
			p.i++
		case RROUND:
			p.i++
			return args, nil
		default:
			return nil, p.errAt(t, "expected ',' or ')' in argument list")
		}
	}
}
