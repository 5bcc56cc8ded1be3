// Package analyzer implements the auxiliary AST walk used to tell callers,
// before evaluation, which fields, functions, and time-series window sizes
// an expression references.
package analyzer

import (
	"sort"

	"github.com/stratoquant/alphaql/syntax"
)

// Result is the analyzer's output: the set of referenced field names, the
// set of called function names, and a map from field name to the set of
// window sizes passed to a recognized time-series function whose first
// argument is a bare field reference and whose last argument is a literal
// number. Any other call shape is simply not counted; this is
// deliberately lossy but stable.
type Result struct {
	Fields    map[string]bool
	Functions map[string]bool
	Windows   map[string]map[int]bool
}

// timeSeriesFuncs is the set of built-ins whose last argument is a window
// size, used to recognize when a Call's shape supports window extraction.
// Kept in lockstep with the registry's "ts" kind entries.
var timeSeriesFuncs = map[string]bool{
	"delay":        true,
	"ts_mean":      true,
	"ts_sum":       true,
	"ts_std":       true,
	"ts_rank":      true,
	"ts_corr":      true,
	"decay_linear": true,
}

// Analyze walks node once and returns the collected Result.
func Analyze(node syntax.Node) Result {
	r := Result{
		Fields:    make(map[string]bool),
		Functions: make(map[string]bool),
		Windows:   make(map[string]map[int]bool),
	}
	walk(node, &r)
	return r
}

func walk(node syntax.Node, r *Result) {
	switch node.Type() {
	case syntax.NNumber:
		// nothing to collect

	case syntax.NName:
		r.Fields[node.AsName().Field] = true

	case syntax.NUnary:
		walk(node.AsUnary().Operand, r)

	case syntax.NBinary:
		n := node.AsBinary()
		walk(n.Left, r)
		walk(n.Right, r)

	case syntax.NCall:
		n := node.AsCall()
		name := normalize(n.Name)
		r.Functions[name] = true
		recordWindow(name, n.Args, r)
		for _, a := range n.Args {
			walk(a, r)
		}
	}
}

// recordWindow adds a field -> window-size entry when args has the shape
// (bare Name, ..., literal Number) and name is a recognized ts function.
func recordWindow(name string, args []syntax.Node, r *Result) {
	if !timeSeriesFuncs[name] || len(args) < 2 {
		return
	}
	first := args[0]
	last := args[len(args)-1]
	if first.Type() != syntax.NName || last.Type() != syntax.NNumber {
		return
	}
	field := first.AsName().Field
	n := int(last.AsNumber().Value)

	if r.Windows[field] == nil {
		r.Windows[field] = make(map[int]bool)
	}
	r.Windows[field][n] = true
}

func normalize(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// SortedFields returns r's fields in sorted order, for stable display.
func (r Result) SortedFields() []string { return sortedKeys(r.Fields) }

// SortedFunctions returns r's functions in sorted order, for stable display.
func (r Result) SortedFunctions() []string { return sortedKeys(r.Functions) }

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
