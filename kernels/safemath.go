package kernels

import (
	"time"

	"github.com/stratoquant/alphaql/panel"
	"github.com/stratoquant/alphaql/registry"
	"github.com/stratoquant/alphaql/value"
)

func sdivScalar(ctx registry.ScalarContext, args []value.Value) (value.Value, error) {
	a, b := args[0], args[1]
	if a.Kind() == value.Scalar && b.Kind() == value.Scalar {
		return value.NewScalar(sdiv(a.Float(), b.Float())), nil
	}
	symbols, av, bv := value.AlignCrossSections(broadcastForAlign(a, b), broadcastForAlign(b, a))
	out := make([]float64, len(symbols))
	for i := range symbols {
		out[i] = sdiv(av[i], bv[i])
	}
	return value.NewCrossSection(symbols, out), nil
}

// broadcastForAlign returns v unchanged if it is already a CrossSection, or
// broadcasts a Scalar to match other's symbol index when other is a
// CrossSection.
func broadcastForAlign(v, other value.Value) value.Value {
	if v.Kind() == value.CrossSection {
		return v
	}
	symbols, _ := other.CrossSectionData()
	return v.ToCrossSection(symbols)
}

func sdivVector(args []value.Value) (value.Value, error) {
	a, b := args[0], args[1]
	if a.Kind() == value.Scalar && b.Kind() == value.Scalar {
		return value.NewScalar(sdiv(a.Float(), b.Float())), nil
	}

	dates, symbols := panelShapeOf(a, b)
	out := make([][]float64, len(dates))
	for i := range dates {
		out[i] = make([]float64, len(symbols))
		for j := range symbols {
			out[i][j] = sdiv(valueAt(a, i, j), valueAt(b, i, j))
		}
	}
	return value.NewPanel(&panel.Panel{Dates: dates, Symbols: symbols, Data: out}), nil
}

// panelShapeOf returns the shared dates/symbols index from whichever of a, b
// is a Panel (the other is a Scalar broadcast against it, per the bundle
// alignment invariant that guarantees two Panel operands
// already share an index).
func panelShapeOf(a, b value.Value) (dates []time.Time, symbols []string) {
	if a.Kind() == value.Panel {
		d, s, _ := a.PanelData()
		return d, s
	}
	d, s, _ := b.PanelData()
	return d, s
}

func valueAt(v value.Value, row, col int) float64 {
	switch v.Kind() {
	case value.Scalar:
		return v.Float()
	case value.Panel:
		_, _, mat := v.PanelData()
		return mat[row][col]
	default:
		panic("sdiv: unsupported value kind in vectorized evaluation")
	}
}
