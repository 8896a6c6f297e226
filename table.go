// table.go — reading column-formatted numeric data.
//
// The input is a loose mix of leading comment lines, an optional label
// line (the last comment), and whitespace-separated numeric rows:
//
//	This is my data
//	a b c
//	0.1 0.2 0.3
//	0.2 0.4 0.6
//
// Reading stops at a blank line, at end of input, or at the first
// non-numeric line after data has started. That terminating line is NOT
// consumed: it stays readable on the LineScanner, so a caller can inspect
// it or read a following table from the same stream. The reader never
// fails on malformed input — the only error it can return is a data row
// whose width disagrees with the first row's.

package plotdata

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// ErrRaggedRow reports a data row whose field count differs from the
// first row's. Silently transposing ragged rows would corrupt the
// invariant that every column has one length per table.
var ErrRaggedRow = fmt.Errorf("ragged data row")

// LineScanner reads a stream line by line with one line of pushback, so
// the table-terminating line can be left unread even on a pipe.
type LineScanner struct {
	r       *bufio.Reader
	pending *string
	line    int // 1-based number of the last line returned
}

func NewLineScanner(r io.Reader) *LineScanner {
	return &LineScanner{r: bufio.NewReader(r)}
}

// ReadLine returns the next line without its trailing newline. At end of
// input it returns io.EOF (a final unterminated line is returned first).
func (s *LineScanner) ReadLine() (string, error) {
	if s.pending != nil {
		line := *s.pending
		s.pending = nil
		s.line++
		return line, nil
	}
	line, err := s.r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			s.line++
			return strings.TrimSuffix(line, "\r"), nil
		}
		return "", err
	}
	s.line++
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), nil
}

// Unread pushes line back; the next ReadLine returns it. Only one line of
// pushback is kept.
func (s *LineScanner) Unread(line string) {
	s.pending = &line
	s.line--
}

// Line reports the 1-based number of the last line returned.
func (s *LineScanner) Line() int { return s.line }

// Table is the result of one read pass: columns in positional order,
// every comment line seen before the data, and the labels tokenized from
// the last comment. All fields are frozen after ReadTable returns.
type Table struct {
	Columns  [][]float64
	Comments []string
	Labels   []string
}

// Rows returns the number of data rows.
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0])
}

// ReadTable consumes one table from the scanner.
//
// Classification per line: blank ends the table; a line whose fields all
// parse as floats is a data row; anything else is a comment before the
// first row, and the terminator after it (left unread via pushback).
func ReadTable(s *LineScanner) (*Table, error) {
	var (
		comments []string
		rows     [][]float64
	)

	for {
		line, err := s.ReadLine()
		if err != nil {
			break // end of stream
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			break
		}

		vals, ok := parseRow(trimmed)
		if !ok {
			if len(rows) == 0 {
				comments = append(comments, trimmed)
				continue
			}
			s.Unread(line)
			break
		}
		if len(rows) > 0 && len(vals) != len(rows[0]) {
			return nil, fmt.Errorf("line %d: %w: %d fields, expected %d",
				s.Line(), ErrRaggedRow, len(vals), len(rows[0]))
		}
		rows = append(rows, vals)
	}

	t := &Table{
		Comments: comments,
		Columns:  transpose(rows),
		Labels:   parseLabels(comments),
	}
	return t, nil
}

// ReadTableFrom reads a single table from the start of r.
func ReadTableFrom(r io.Reader) (*Table, error) {
	return ReadTable(NewLineScanner(r))
}

func parseRow(line string) ([]float64, bool) {
	fields := strings.Fields(line)
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, false
		}
		vals[i] = v
	}
	return vals, true
}

func transpose(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return nil
	}
	cols := make([][]float64, len(rows[0]))
	for i := range cols {
		cols[i] = make([]float64, len(rows))
		for j, row := range rows {
			cols[i][j] = row[i]
		}
	}
	return cols
}

// parseLabels tokenizes the last comment line as column labels. A leading
// '#' marker and a leading word "labels" are stripped first; quoting
// follows shell rules so a label may contain spaces. This runs even when
// the last comment is ordinary prose — callers tolerate garbage labels.
func parseLabels(comments []string) []string {
	if len(comments) == 0 {
		return nil
	}
	s := comments[len(comments)-1]
	if strings.HasPrefix(s, "#") {
		s = strings.TrimSpace(s[1:])
	}
	if s == "labels" {
		s = ""
	} else if rest, ok := strings.CutPrefix(s, "labels"); ok && (rest[0] == ' ' || rest[0] == '\t') {
		s = strings.TrimSpace(rest)
	}
	if s == "" {
		return nil
	}
	labels, err := shlex.Split(s)
	if err != nil {
		// Unbalanced quote in a prose comment; no labels then.
		return nil
	}
	return labels
}
