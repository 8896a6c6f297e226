// Package plotdata reads column-formatted numeric data and evaluates
// algebraic expressions over the columns.
//
// A data file is a run of leading comment lines followed by rows of
// whitespace-separated numbers; the last comment line doubles as column
// labels. Columns are addressable as column0, column1, ... and by label,
// and expressions may combine them with arithmetic and the np/fft
// function namespaces:
//
//	tbl, _ := plotdata.ReadTableFrom(f)
//	syms := tbl.Symbols()
//	y, err := plotdata.Resolve("abs(fft.rfft(b-np.median(b)))**2", syms)
//
// The cmd/plotdata binary wraps this in a terminal plotting tool.
package plotdata
