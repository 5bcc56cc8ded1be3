// Package value defines the tagged-variant values that flow through both
// evaluators: a bare Scalar, a per-date CrossSection (one value per symbol),
// or a full dates×symbols Panel.
package value

import (
	"fmt"
	"time"

	"github.com/stratoquant/alphaql/panel"
)

// Kind tags which variant a Value holds. Conversion between kinds is always
// explicit (via the constructors and accessors below); there is no runtime
// type probing beyond switching on Kind.
type Kind int

const (
	// Scalar holds a single f64.
	Scalar Kind = iota
	// CrossSection holds a vector of f64 indexed by symbol, for one date.
	CrossSection
	// Panel holds a full dates×symbols table.
	Panel
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case CrossSection:
		return "cross-section"
	case Panel:
		return "panel"
	default:
		return "unknown"
	}
}

// Value is an immutable tagged union of Scalar / CrossSection / Panel. The
// zero Value is a Scalar of 0.0.
type Value struct {
	kind Kind

	scalar float64

	symbols []string // CrossSection only
	vec     []float64

	dates        []time.Time // Panel only
	panelSymbols []string
	mat          [][]float64

	field  string // originating field name, if this value came from a Name node
	tagged bool
}

// NewScalar constructs a Scalar value.
func NewScalar(f float64) Value {
	return Value{kind: Scalar, scalar: f}
}

// NewCrossSection constructs a CrossSection value. symbols and vec must be
// the same length and are taken by reference, not copied.
func NewCrossSection(symbols []string, vec []float64) Value {
	return Value{kind: CrossSection, symbols: symbols, vec: vec}
}

// NewPanel constructs a Panel value directly from a panel.Panel.
func NewPanel(p *panel.Panel) Value {
	return Value{kind: Panel, dates: p.Dates, panelSymbols: p.Symbols, mat: p.Data}
}

// WithField returns a copy of v tagged with the originating field name. Time
// series functions in the scalar evaluator use this to locate the source
// panel for rolling lookbacks.
func (v Value) WithField(name string) Value {
	v.field = name
	v.tagged = true
	return v
}

// Field returns the originating field name and whether one is set.
func (v Value) Field() (string, bool) {
	return v.field, v.tagged
}

// Kind reports which variant this Value holds.
func (v Value) Kind() Kind { return v.kind }

// Float returns the f64 held by a Scalar value. Calling this on a
// non-Scalar value panics; callers must check Kind first.
func (v Value) Float() float64 {
	if v.kind != Scalar {
		panic(fmt.Sprintf("value: Float() called on a %s value", v.kind))
	}
	return v.scalar
}

// CrossSectionData returns the symbol labels and values of a CrossSection
// value. Calling this on a non-CrossSection value panics.
func (v Value) CrossSectionData() ([]string, []float64) {
	if v.kind != CrossSection {
		panic(fmt.Sprintf("value: CrossSectionData() called on a %s value", v.kind))
	}
	return v.symbols, v.vec
}

// PanelData returns the dates, symbols, and data matrix of a Panel value.
// Calling this on a non-Panel value panics.
func (v Value) PanelData() ([]time.Time, []string, [][]float64) {
	if v.kind != Panel {
		panic(fmt.Sprintf("value: PanelData() called on a %s value", v.kind))
	}
	return v.dates, v.panelSymbols, v.mat
}

// AsPanel packages a Panel value back up as a *panel.Panel.
func (v Value) AsPanel() *panel.Panel {
	dates, symbols, mat := v.PanelData()
	return &panel.Panel{Dates: dates, Symbols: symbols, Data: mat}
}

// ToCrossSection converts v to a CrossSection, broadcasting a Scalar over
// the given symbol index. A CrossSection is returned unchanged; its symbols
// are not reordered to match the given index. It panics if v is a Panel;
// panels must be reduced to a single row by the caller first.
func (v Value) ToCrossSection(symbols []string) Value {
	switch v.kind {
	case CrossSection:
		return v
	case Scalar:
		vec := make([]float64, len(symbols))
		for i := range vec {
			vec[i] = v.scalar
		}
		return NewCrossSection(symbols, vec)
	default:
		panic(fmt.Sprintf("value: ToCrossSection() called on a %s value", v.kind))
	}
}

// TypeMismatchError is returned when an operator or function receives a
// Value of a Kind it cannot operate on.
type TypeMismatchError struct {
	Op      string
	Kind    Kind
	Context string
}

func (e *TypeMismatchError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("type mismatch: %s cannot operate on a %s value (%s)", e.Op, e.Kind, e.Context)
	}
	return fmt.Sprintf("type mismatch: %s cannot operate on a %s value", e.Op, e.Kind)
}
