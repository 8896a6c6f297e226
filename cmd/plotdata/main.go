// Command plotdata plots column-formatted data in the terminal, with
// algebraic expressions over the columns and an FFT mode.
//
// Columns are addressed positionally (column0, column1, ...) or by the
// labels read from the last comment line of the input:
//
//	plotdata datafile --x a --y column1 --y '(c-b)/100'
//	plotdata datafile --y 'abs(fft.fft(column0))**2'
//	plotdata datafile --y 'abs(fft.rfft(b-np.median(b)))**2' --x 'fft.rfftfreq(len(b), 1./1.E6)'
package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	tm "github.com/buger/goterm"
	"github.com/fatih/color"
	"github.com/peterh/liner"
	"gopkg.in/alecthomas/kingpin.v2"

	plotdata "github.com/drmcnelson/Plot-Program-with-Algebraic-Data-Manipulation"
)

const historyFile = ".plotdata_history"

var (
	errc  = color.New(color.FgRed)
	headc = color.New(color.Bold)
	notec = color.New(color.FgYellow)
)

// config is the one immutable bundle of CLI options; nothing below main
// reads flags directly.
type config struct {
	datafile    string
	yExprs      []string
	xExpr       string
	xmin, xmax  float64
	ymin, ymax  float64
	xlabel      string
	ylabel      string
	title       string
	contents    bool
	fftMode     bool
	samplerate  float64
	output      string
	interactive bool
	width       int
	height      int
}

func main() {
	app := kingpin.New("plotdata", "Plot column data with algebraic expressions and the np/fft namespaces.")
	app.Version(plotdata.Version)
	app.HelpFlag.Short('h')

	cfg := config{}
	app.Arg("datafile", "Input file (defaults to stdin).").StringVar(&cfg.datafile)
	app.Flag("y", "Y data expression; repeatable. See keys listed by --contents.").StringsVar(&cfg.yExprs)
	app.Flag("x", "X data expression. See keys listed by --contents.").StringVar(&cfg.xExpr)
	app.Flag("xmin", "Drop points with x below this.").Default("NaN").Float64Var(&cfg.xmin)
	app.Flag("xmax", "Drop points with x above this.").Default("NaN").Float64Var(&cfg.xmax)
	app.Flag("ymin", "Clip y values below this.").Default("NaN").Float64Var(&cfg.ymin)
	app.Flag("ymax", "Clip y values above this.").Default("NaN").Float64Var(&cfg.ymax)
	app.Flag("xlabel", "X axis label.").StringVar(&cfg.xlabel)
	app.Flag("ylabel", "Y axis label.").StringVar(&cfg.ylabel)
	app.Flag("title", "Plot title (defaults to the input name).").StringVar(&cfg.title)
	app.Flag("contents", "List comments and column keys, then exit.").BoolVar(&cfg.contents)
	app.Flag("fft", "Plot the power spectrum of each y series.").BoolVar(&cfg.fftMode)
	app.Flag("samplerate", "Sample rate for the frequency axis.").Default("1.0").Float64Var(&cfg.samplerate)
	app.Flag("output", "Write the rendered chart to a file instead of the terminal.").StringVar(&cfg.output)
	app.Flag("interactive", "Evaluate expressions against the table interactively.").Short('i').BoolVar(&cfg.interactive)
	app.Flag("width", "Chart width in cells (0 = fit terminal).").Default("0").IntVar(&cfg.width)
	app.Flag("height", "Chart height in cells (0 = fit terminal).").Default("0").IntVar(&cfg.height)

	kingpin.MustParse(app.Parse(os.Args[1:]))
	os.Exit(run(cfg))
}

func run(cfg config) int {
	in, name, err := openInput(cfg.datafile)
	if err != nil {
		errc.Fprintln(os.Stderr, err)
		return 1
	}
	defer in.Close()

	tbl, err := plotdata.ReadTableFrom(in)
	if err != nil {
		errc.Fprintf(os.Stderr, "%s: %v\n", name, err)
		return 1
	}
	syms := tbl.Symbols()

	if cfg.contents {
		showContents(tbl, syms)
		return 0
	}
	if tbl.Rows() == 0 {
		errc.Fprintf(os.Stderr, "%s: no data rows\n", name)
		return 1
	}
	if cfg.interactive {
		return runInteractive(tbl, syms, name)
	}

	xName, x, series, err := buildSeries(cfg, tbl, syms)
	if err != nil {
		errc.Fprintln(os.Stderr, err)
		return 1
	}

	title := cfg.title
	if title == "" {
		title = name
	}
	out := renderChart(cfg, title, xName, x, series)
	if cfg.output != "" {
		if err := os.WriteFile(cfg.output, []byte(out), 0o644); err != nil {
			errc.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	tm.Println(out)
	tm.Flush()
	return 0
}

func openInput(path string) (io.ReadCloser, string, error) {
	if path == "" {
		return io.NopCloser(os.Stdin), "stdin", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	return f, filepath.Base(path), nil
}

// showContents mirrors the --contents listing: the leading comments (when
// there is more than the label line) and every addressable key.
func showContents(tbl *plotdata.Table, syms *plotdata.SymbolTable) {
	if len(tbl.Comments) > 1 {
		for _, c := range tbl.Comments {
			fmt.Println(c)
		}
	}
	fmt.Println("keys: " + strings.Join(syms.Keys(), ", "))
	for _, sk := range syms.Skipped {
		notec.Printf("note: label %q is %s; use it verbatim, not inside expressions\n", sk.Name, sk.Reason)
	}
}

type plotSeries struct {
	name string
	ys   []float64
}

// buildSeries resolves the x and y expressions into aligned float series.
// Any failing expression aborts the whole run; a partial plot would not be
// trustworthy.
func buildSeries(cfg config, tbl *plotdata.Table, syms *plotdata.SymbolTable) (string, []float64, []plotSeries, error) {
	nrows := tbl.Rows()

	targets := cfg.yExprs
	if len(targets) == 0 {
		for i := range tbl.Columns {
			targets = append(targets, fmt.Sprintf("column%d", i))
		}
	}

	if cfg.fftMode {
		f := plotdata.RFFTFreq(nrows, 1/cfg.samplerate)
		var out []plotSeries
		for _, expr := range targets {
			ys, err := plotdata.ResolveSeries(expr, syms, nrows)
			if err != nil {
				return "", nil, nil, err
			}
			p := plotdata.PowerSpectrum(ys)
			if len(p) != len(f) {
				return "", nil, nil, fmt.Errorf("--y %q: spectrum has %d bins, frequency axis has %d (series length %d != row count %d)",
					expr, len(p), len(f), len(ys), nrows)
			}
			// bin 0 is the DC offset; it only squashes the interesting part
			out = append(out, plotSeries{name: expr, ys: p[1:]})
		}
		xlabel := cfg.xlabel
		if xlabel == "" {
			xlabel = "frequency"
		}
		return xlabel, f[1:], out, nil
	}

	var x []float64
	xName := cfg.xlabel
	if cfg.xExpr != "" {
		var err error
		x, err = plotdata.ResolveSeries(cfg.xExpr, syms, nrows)
		if err != nil {
			return "", nil, nil, err
		}
		if xName == "" {
			xName = cfg.xExpr
		}
	} else {
		x = defaultAxis(nrows, cfg.samplerate)
		if xName == "" {
			xName = "x"
		}
	}

	var out []plotSeries
	for _, expr := range targets {
		ys, err := plotdata.ResolveSeries(expr, syms, len(x))
		if err != nil {
			return "", nil, nil, err
		}
		if len(ys) != len(x) {
			return "", nil, nil, fmt.Errorf("--y %q: length %d does not match x length %d", expr, len(ys), len(x))
		}
		out = append(out, plotSeries{name: expr, ys: ys})
	}
	return xName, x, out, nil
}

// defaultAxis spans [0, nrows*samplerate] over nrows points.
func defaultAxis(nrows int, samplerate float64) []float64 {
	out := make([]float64, nrows)
	if nrows == 1 {
		return out
	}
	step := float64(nrows) * samplerate / float64(nrows-1)
	for i := range out {
		out[i] = float64(i) * step
	}
	return out
}

func renderChart(cfg config, title, xName string, x []float64, series []plotSeries) string {
	w, h := cfg.width, cfg.height
	if w <= 0 {
		if w = tm.Width() - 2; w < 40 {
			w = 100
		}
	}
	if h <= 0 {
		if h = tm.Height() - 6; h < 10 {
			h = 20
		}
	}

	chart := tm.NewLineChart(w, h)
	data := new(tm.DataTable)
	data.AddColumn(xName)
	for _, s := range series {
		data.AddColumn(s.name)
	}

	for i := range x {
		if !math.IsNaN(cfg.xmin) && x[i] < cfg.xmin {
			continue
		}
		if !math.IsNaN(cfg.xmax) && x[i] > cfg.xmax {
			continue
		}
		row := make([]float64, 0, len(series)+1)
		row = append(row, x[i])
		for _, s := range series {
			row = append(row, clip(s.ys[i], cfg.ymin, cfg.ymax))
		}
		data.AddRow(row...)
	}

	var b strings.Builder
	b.WriteString(headc.Sprint(title))
	b.WriteByte('\n')
	b.WriteString(chart.Draw(data))
	if cfg.ylabel != "" {
		fmt.Fprintf(&b, "\ny: %s", cfg.ylabel)
	}
	return b.String()
}

func clip(v, lo, hi float64) float64 {
	if !math.IsNaN(lo) && v < lo {
		return lo
	}
	if !math.IsNaN(hi) && v > hi {
		return hi
	}
	return v
}

// ----------------------------------------------------------------------------
// interactive mode
// ----------------------------------------------------------------------------

func runInteractive(tbl *plotdata.Table, syms *plotdata.SymbolTable, name string) int {
	fmt.Printf("plotdata %s — %s: %d columns, %d rows\n", plotdata.Version, name, len(tbl.Columns), tbl.Rows())
	fmt.Println("Type an expression, :keys to list columns, :quit to exit.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(func(line string) (out []string) {
		for _, k := range syms.Keys() {
			if strings.HasPrefix(k, line) {
				out = append(out, k)
			}
		}
		return out
	})

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		src, err := ln.Prompt("plot> ")
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil {
			fmt.Println()
			return 0
		}
		src = strings.TrimSpace(src)
		switch {
		case src == "":
			continue
		case src == ":quit" || src == ":q":
			return 0
		case src == ":keys":
			fmt.Println("keys: " + strings.Join(syms.Keys(), ", "))
			continue
		case strings.HasPrefix(src, ":"):
			fmt.Println("unknown command; try :keys or :quit")
			continue
		}

		v, err := plotdata.Resolve(src, syms)
		if err != nil {
			errc.Fprintln(os.Stderr, err)
			continue
		}
		describe(v)
		ln.AppendHistory(src)
	}
}

// describe prints a one-glance summary of an evaluated value.
func describe(v plotdata.Value) {
	if v.Tag == plotdata.VTSeries {
		xs := v.Data.([]float64)
		if len(xs) == 0 {
			fmt.Println("[] (empty series)")
			return
		}
		lo, hi, sum := xs[0], xs[0], 0.0
		for _, x := range xs {
			lo = math.Min(lo, x)
			hi = math.Max(hi, x)
			sum += x
		}
		fmt.Printf("%s  len=%d min=%g max=%g mean=%g\n", v, len(xs), lo, hi, sum/float64(len(xs)))
		return
	}
	fmt.Printf("%s (%s)\n", v, v.Kind())
}
