// lexer_test.go
package plotdata

import (
	"reflect"
	"testing"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	ts, err := NewLexer(src).Scan()
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	return ts
}

func typesWithoutEOF(tokens []Token) []TokenType {
	if len(tokens) == 0 {
		return nil
	}
	end := len(tokens)
	if tokens[end-1].Type == EOF {
		end--
	}
	out := make([]TokenType, 0, end)
	for i := 0; i < end; i++ {
		out = append(out, tokens[i].Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	gotTypes := typesWithoutEOF(got)
	if !reflect.DeepEqual(gotTypes, want) {
		t.Fatalf("\nsource:\n%s\nwant types:\n%v\ngot types:\n%v\n", src, want, gotTypes)
	}
	return got
}

func Test_Lexer_ColumnArithmetic(t *testing.T) {
	wantTypes(t, "column1 - column0", []TokenType{ID, MINUS, ID})
	wantTypes(t, "(c-b)/100", []TokenType{LROUND, ID, MINUS, ID, RROUND, DIV, NUMBER})
}

func Test_Lexer_Operators(t *testing.T) {
	wantTypes(t, "a ** b * c % d", []TokenType{ID, POW, ID, MULT, ID, MOD, ID})
	wantTypes(t, "a < b <= c > d >= e == f != g",
		[]TokenType{ID, LESS, ID, LESS_EQ, ID, GREATER, ID, GREATER_EQ, ID, EQ, ID, NEQ, ID})
}

func Test_Lexer_NamespaceCall(t *testing.T) {
	wantTypes(t, "fft.rfftfreq(len(b), 1./1.E6)",
		[]TokenType{ID, PERIOD, ID, LROUND, ID, LROUND, ID, RROUND, COMMA, NUMBER, DIV, NUMBER, RROUND})
}

func Test_Lexer_NumberForms(t *testing.T) {
	cases := map[string]float64{
		"1":      1,
		"1.":     1,
		".5":     0.5,
		"1.25":   1.25,
		"1e3":    1000,
		"1.E6":   1e6,
		"2.5e-2": 0.025,
	}
	for src, want := range cases {
		got := wantTypes(t, src, []TokenType{NUMBER})
		if got[0].Literal.(float64) != want {
			t.Fatalf("%s: literal = %v, want %v", src, got[0].Literal, want)
		}
	}
}

func Test_Lexer_DotAfterIdentIsAccess(t *testing.T) {
	got := wantTypes(t, "np.median", []TokenType{ID, PERIOD, ID})
	if got[0].Lexeme != "np" || got[2].Lexeme != "median" {
		t.Fatalf("lexemes = %q, %q", got[0].Lexeme, got[2].Lexeme)
	}
}

func Test_Lexer_Columns(t *testing.T) {
	got := wantTypes(t, "ab + cd", []TokenType{ID, PLUS, ID})
	if got[0].Col != 0 || got[1].Col != 3 || got[2].Col != 5 {
		t.Fatalf("cols = %d, %d, %d", got[0].Col, got[1].Col, got[2].Col)
	}
}

func Test_Lexer_Errors(t *testing.T) {
	for _, src := range []string{"a = b", "a ! b", "a $ b"} {
		if _, err := NewLexer(src).Scan(); err == nil {
			t.Fatalf("expected error for %q", src)
		}
	}
	_, err := NewLexer("ab # cd").Scan()
	le, ok := err.(*LexError)
	if !ok {
		t.Fatalf("expected *LexError, got %v", err)
	}
	if le.Col != 3 {
		t.Fatalf("Col = %d, want 3", le.Col)
	}
}
