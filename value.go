// value.go — runtime values and the evaluation environment.
//
// Every quantity the expression engine touches is a Value: a tagged union
// over real/complex scalars and series, plus the callable and namespace
// kinds used to expose the numeric libraries. Series are plain Go slices;
// a Value never copies the data it wraps, so returning a column through
// the fast path hands back the table's own storage.

package plotdata

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VTNum     ValueTag = iota // float64
	VTSeries                  // []float64
	VTComplex                 // complex128
	VTCSeries                 // []complex128
	VTFunc                    // *Builtin
	VTNS                      // *Namespace
)

// Value is the engine's tagged union. Tag is the discriminant; Data holds
// the Go value appropriate for the tag.
type Value struct {
	Tag  ValueTag
	Data any
}

// Constructors.

func Num(f float64) Value           { return Value{Tag: VTNum, Data: f} }
func Series(xs []float64) Value     { return Value{Tag: VTSeries, Data: xs} }
func Cmplx(c complex128) Value      { return Value{Tag: VTComplex, Data: c} }
func CSeries(xs []complex128) Value { return Value{Tag: VTCSeries, Data: xs} }
func FuncVal(b *Builtin) Value      { return Value{Tag: VTFunc, Data: b} }
func NSVal(ns *Namespace) Value     { return Value{Tag: VTNS, Data: ns} }

// Kind names the value's category for diagnostics.
func (v Value) Kind() string {
	switch v.Tag {
	case VTNum:
		return "number"
	case VTSeries:
		return "series"
	case VTComplex:
		return "complex"
	case VTCSeries:
		return "complex series"
	case VTFunc:
		return "function"
	case VTNS:
		return "namespace"
	}
	return "unknown"
}

// Len returns the element count of a series value, or 1 for scalars.
func (v Value) Len() int {
	switch v.Tag {
	case VTSeries:
		return len(v.Data.([]float64))
	case VTCSeries:
		return len(v.Data.([]complex128))
	default:
		return 1
	}
}

const formatMaxElems = 8

// String renders a value for terminal display. Long series are elided.
func (v Value) String() string {
	switch v.Tag {
	case VTNum:
		return strconv.FormatFloat(v.Data.(float64), 'g', -1, 64)
	case VTComplex:
		return fmt.Sprintf("%v", v.Data.(complex128))
	case VTSeries:
		xs := v.Data.([]float64)
		var b strings.Builder
		b.WriteByte('[')
		for i, x := range xs {
			if i == formatMaxElems {
				fmt.Fprintf(&b, "... +%d more", len(xs)-formatMaxElems)
				break
			}
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
		}
		b.WriteByte(']')
		return b.String()
	case VTCSeries:
		xs := v.Data.([]complex128)
		var b strings.Builder
		b.WriteByte('[')
		for i, x := range xs {
			if i == formatMaxElems {
				fmt.Fprintf(&b, "... +%d more", len(xs)-formatMaxElems)
				break
			}
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%v", x)
		}
		b.WriteByte(']')
		return b.String()
	case VTFunc:
		return fmt.Sprintf("<function %s>", v.Data.(*Builtin).Name)
	case VTNS:
		return fmt.Sprintf("<namespace %s>", v.Data.(*Namespace).Name)
	}
	return "<invalid>"
}

// NativeImpl is the implementation signature for builtin functions. Arity is
// checked by the caller; the implementation signals failures via fail().
type NativeImpl func(args []Value) Value

// Builtin is a host function exposed to expressions. MaxArgs < 0 means
// variadic beyond MinArgs.
type Builtin struct {
	Name    string
	MinArgs int
	MaxArgs int
	Impl    NativeImpl
}

// Namespace is a qualified function set (np.*, fft.*). Member order is kept
// for listing.
type Namespace struct {
	Name    string
	order   []string
	members map[string]Value
}

func NewNamespace(name string) *Namespace {
	return &Namespace{Name: name, members: make(map[string]Value)}
}

func (ns *Namespace) Define(name string, v Value) {
	if _, ok := ns.members[name]; !ok {
		ns.order = append(ns.order, name)
	}
	ns.members[name] = v
}

func (ns *Namespace) Get(name string) (Value, bool) {
	v, ok := ns.members[name]
	return v, ok
}

// Members lists member names in definition order.
func (ns *Namespace) Members() []string {
	out := make([]string, len(ns.order))
	copy(out, ns.order)
	return out
}

// Env is a lexical environment mapping identifiers to Values.
type Env struct {
	parent *Env
	table  map[string]Value
}

func NewEnv(parent *Env) *Env { return &Env{parent: parent, table: make(map[string]Value)} }

// Define binds name in this environment, shadowing any parent binding.
func (e *Env) Define(name string, v Value) { e.table[name] = v }

// Get resolves name through the parent chain.
func (e *Env) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.table[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Names lists every name visible from this environment, innermost first.
func (e *Env) Names() []string {
	seen := make(map[string]bool)
	var out []string
	for env := e; env != nil; env = env.parent {
		for name := range env.table {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}
