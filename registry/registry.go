// Package registry holds the process-wide function table that both
// evaluators consult: a name maps to an arity set, a kind, and one or two
// implementations.
//
// registry depends only on value and panel, never on eval, so that eval can
// depend on registry without creating an import cycle: kernel scalar
// implementations take a ScalarContext interface rather than a concrete
// evaluator context type.
package registry

import (
	"sort"

	"github.com/stratoquant/alphaql/panel"
	"github.com/stratoquant/alphaql/value"
)

// Kind classifies how a function's output relates to its position in a
// panel.
type Kind int

const (
	// TimeSeries functions depend on the history of one symbol up to and
	// including the current row.
	TimeSeries Kind = iota
	// CrossSectional functions depend only on values at the current date,
	// across symbols.
	CrossSectional
	// ScalarKind functions are plain elementwise/scalar math with no
	// windowing or cross-symbol dependency.
	ScalarKind
)

func (k Kind) String() string {
	switch k {
	case TimeSeries:
		return "ts"
	case CrossSectional:
		return "cs"
	case ScalarKind:
		return "scalar"
	default:
		return "unknown"
	}
}

// ScalarContext is the interface kernel scalar implementations use to
// resolve a value's field tag back into its source panel and the row index
// of the context's target date. It is declared here, not in eval, so that
// registry and kernels never need to import eval: eval's context type
// merely has to implement this interface.
type ScalarContext interface {
	// FieldPanel resolves a field name to its panel and the row index of
	// the context's target date within it. Returns UnknownFieldError or
	// UnknownDateError as appropriate.
	FieldPanel(name string) (*panel.Panel, int, error)
}

// ScalarFunc is a function's scalar-evaluator implementation: given a
// ScalarContext (to resolve field tags into source panels for ts lookbacks)
// and already-evaluated argument values, it returns a result or an error.
type ScalarFunc func(ctx ScalarContext, args []value.Value) (value.Value, error)

// VectorFunc is a function's vectorized-evaluator implementation: given
// already-evaluated panel-or-scalar argument values, it returns a result or
// an error. Returning UnsupportedVectorizedError signals the vectorized
// evaluator to fall back to a per-date scalar loop.
type VectorFunc func(args []value.Value) (value.Value, error)

// ArgSet is the set of permitted argument counts for a function, e.g.
// {1: true} or {1: true, 2: true}.
type ArgSet map[int]bool

// FuncSpec is one function registry entry.
type FuncSpec struct {
	Name   string
	Arity  ArgSet
	Kind   Kind
	Scalar ScalarFunc
	Vector VectorFunc
	Doc    string
}

// Registry is a process-wide, name-to-FuncSpec table. It is safe for
// concurrent reads once populated; Register is expected to be called only
// during deterministic startup init, never concurrently with lookups.
type Registry struct {
	entries map[string]FuncSpec
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]FuncSpec)}
}

// Register adds one entry, keyed case-insensitively so both
// evaluators share one dispatch policy. A duplicate name overwrites the
// previous entry (last-writer-wins).
func (r *Registry) Register(spec FuncSpec) {
	r.entries[normalizeName(spec.Name)] = spec
}

// Get looks up a function by name, or returns UnknownFunctionError.
func (r *Registry) Get(name string) (FuncSpec, error) {
	spec, ok := r.entries[normalizeName(name)]
	if !ok {
		return FuncSpec{}, &UnknownFunctionError{Name: name}
	}
	return spec, nil
}

// CheckArity validates an argument count against a function's allowed set,
// returning ArityError if it does not match.
func (r *Registry) CheckArity(spec FuncSpec, got int) error {
	if !spec.Arity[got] {
		return &ArityError{Name: spec.Name, Got: got, Allowed: spec.Arity}
	}
	return nil
}

// List returns a sorted snapshot of every registered function, for
// introspection.
func (r *Registry) List() []FuncSpec {
	out := make([]FuncSpec, 0, len(r.entries))
	for _, spec := range r.entries {
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func normalizeName(name string) string {
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
