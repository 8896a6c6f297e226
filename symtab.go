// symtab.go — the ordered name→column mapping expressions evaluate against.
//
// Positional keys column0..columnN-1 always exist; label keys follow in
// positional order, truncated to the shorter of (labels, columns), with
// last-write-wins on duplicates. Every key is usable for the resolver's
// exact-match fast path; only keys that are legal identifiers and do not
// shadow a builtin are additionally bound inside expressions. The rest
// are recorded in Skipped instead of vanishing silently.

package plotdata

import "fmt"

// SkippedName records a label that cannot be bound in expressions and why.
type SkippedName struct {
	Name   string
	Reason string
}

// SymbolTable is an ordered mapping from column names to column data.
// It is frozen after construction.
type SymbolTable struct {
	keys    []string
	entries map[string][]float64

	// Skipped lists label keys unavailable inside expressions. They still
	// resolve through the exact-match fast path.
	Skipped []SkippedName
}

// NewSymbolTable builds the table from columns and (possibly garbage,
// possibly short or long) labels.
func NewSymbolTable(cols [][]float64, labels []string) *SymbolTable {
	t := &SymbolTable{entries: make(map[string][]float64)}
	for i, c := range cols {
		t.put(fmt.Sprintf("column%d", i), c)
	}
	for i, label := range labels {
		if i >= len(cols) {
			break
		}
		t.put(label, cols[i])
		if reason, ok := bindBlocker(label); ok {
			t.Skipped = append(t.Skipped, SkippedName{Name: label, Reason: reason})
		}
	}
	return t
}

// Symbols builds the symbol table for a read table.
func (t *Table) Symbols() *SymbolTable {
	return NewSymbolTable(t.Columns, t.Labels)
}

func (t *SymbolTable) put(name string, col []float64) {
	if _, ok := t.entries[name]; !ok {
		t.keys = append(t.keys, name)
	}
	t.entries[name] = col
}

// Get returns the column stored under name.
func (t *SymbolTable) Get(name string) ([]float64, bool) {
	c, ok := t.entries[name]
	return c, ok
}

// Keys lists all keys in insertion order.
func (t *SymbolTable) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Len returns the number of distinct keys.
func (t *SymbolTable) Len() int { return len(t.keys) }

// bindBlocker explains why name cannot be an expression binding, if so.
func bindBlocker(name string) (string, bool) {
	if !isIdentifier(name) {
		return "not a valid identifier", true
	}
	if IsReservedName(name) {
		return "collides with a builtin name", true
	}
	return "", false
}

func isIdentifier(s string) bool {
	if s == "" || !isAlpha(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isAlphaNum(s[i]) {
			return false
		}
	}
	return true
}
