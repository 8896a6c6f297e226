// lexer.go — tokenizer for the column expression language.

package plotdata

import (
	"fmt"
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LROUND // "("
	RROUND // ")"
	COMMA  // ","
	PERIOD // "." (namespace access, e.g. fft.rfft)

	// Operators
	PLUS
	MINUS
	MULT
	DIV
	MOD
	POW // "**"
	LESS
	LESS_EQ
	GREATER
	GREATER_EQ
	EQ  // "=="
	NEQ // "!="

	// Literals & identifiers
	ID
	NUMBER
)

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string // raw text slice
	Literal any    // parsed value for NUMBER
	Col     int    // 0-based byte offset into the expression
}

// Lexer scans an expression string into tokens. Expressions are single
// lines, so positions are byte columns only.
type Lexer struct {
	src         string
	start       int // start index of current token
	cur         int // current index
	tokens      []Token
	tokStartCol int
}

// NewLexer creates a new lexer for the given expression source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Scan tokenizes the whole expression, ending with an EOF token.
func (l *Lexer) Scan() ([]Token, error) {
	for {
		l.skipWhitespace()
		if l.isAtEnd() {
			break
		}
		l.tokStartCol = l.cur
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	l.tokStartCol = l.cur
	l.addToken(EOF, nil)
	return l.tokens, nil
}

func (l *Lexer) scanToken() error {
	ch, _ := l.advance()
	switch ch {
	case '(':
		l.addToken(LROUND, nil)
	case ')':
		l.addToken(RROUND, nil)
	case ',':
		l.addToken(COMMA, nil)
	case '+':
		l.addToken(PLUS, nil)
	case '-':
		l.addToken(MINUS, nil)
	case '*':
		if l.match('*') {
			l.addToken(POW, nil)
		} else {
			l.addToken(MULT, nil)
		}
	case '/':
		l.addToken(DIV, nil)
	case '%':
		l.addToken(MOD, nil)
	case '<':
		if l.match('=') {
			l.addToken(LESS_EQ, nil)
		} else {
			l.addToken(LESS, nil)
		}
	case '>':
		if l.match('=') {
			l.addToken(GREATER_EQ, nil)
		} else {
			l.addToken(GREATER, nil)
		}
	case '=':
		if l.match('=') {
			l.addToken(EQ, nil)
		} else {
			return l.err("single '=' is not an operator (use '==' to compare)")
		}
	case '!':
		if l.match('=') {
			l.addToken(NEQ, nil)
		} else {
			return l.err("expected '=' after '!'")
		}
	case '.':
		// A dot starting a digit run is a number like ".5"; otherwise it is
		// namespace access.
		if b, ok := l.peek(); ok && isDigit(b) {
			return l.scanNumber()
		}
		l.addToken(PERIOD, nil)
	default:
		if isDigit(ch) {
			return l.scanNumber()
		}
		if isAlpha(ch) {
			l.scanIdentifier()
			return nil
		}
		return l.err(fmt.Sprintf("unexpected character %q", ch))
	}
	return nil
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	return ch, true
}

// match consumes the next byte if it equals want.
func (l *Lexer) match(want byte) bool {
	if b, ok := l.peek(); ok && b == want {
		l.cur++
		return true
	}
	return false
}

func (l *Lexer) addToken(tt TokenType, lit any) {
	l.tokens = append(l.tokens, Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Col:     l.tokStartCol,
	})
	l.start = l.cur
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\r', '\n', '\t':
			l.cur++
			l.start = l.cur
		default:
			return
		}
	}
}

// helpers

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') ||
		b == '_'
}

// ----- errors -----

// LexError reports a tokenizing failure with its 0-based column.
type LexError struct {
	Col int
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexical error at column %d: %s", e.Col+1, e.Msg)
}

func (l *Lexer) err(msg string) error {
	return &LexError{Col: l.tokStartCol, Msg: msg}
}

// ----- scanners -----

// scanIdentifier parses [A-Za-z_][A-Za-z0-9_]*
func (l *Lexer) scanIdentifier() {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.cur++
	}
	l.addToken(ID, nil)
}

// scanNumber parses a float literal; supports .5, 1., 1.23e-4, 1.E6, etc.
// The first character (digit or '.') has already been consumed.
func (l *Lexer) scanNumber() error {
	digits := func() {
		for {
			b, ok := l.peek()
			if !ok || !isDigit(b) {
				return
			}
			l.cur++
		}
	}
	digits()
	if b, ok := l.peek(); ok && b == '.' && l.src[l.start] != '.' {
		l.cur++
		digits()
	}
	if b, ok := l.peek(); ok && (b == 'e' || b == 'E') {
		save := l.cur
		l.cur++
		if b, ok := l.peek(); ok && (b == '+' || b == '-') {
			l.cur++
		}
		if b, ok := l.peek(); ok && isDigit(b) {
			digits()
		} else {
			// Not an exponent after all (e.g. "2e" followed by garbage);
			// leave the 'e' for the identifier path to reject in context.
			l.cur = save
		}
	}
	lexeme := l.src[l.start:l.cur]
	f, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return l.err(fmt.Sprintf("malformed number %q", lexeme))
	}
	l.addToken(NUMBER, f)
	return nil
}
