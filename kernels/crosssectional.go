package kernels

import (
	"time"

	"github.com/stratoquant/alphaql/panel"
	"github.com/stratoquant/alphaql/registry"
	"github.com/stratoquant/alphaql/value"
)

// Cross-sectional functions never need the scalar context: their sole input
// is already the per-symbol vector at the current date, so
// these scalar implementations ignore ctx entirely.

// csArg checks that a cross-sectional function's input is a CrossSection
// before unpacking it, so a scalar literal (e.g. rank(5)) fails with a
// TypeMismatchError instead of panicking.
func csArg(v value.Value, funcName string) ([]string, []float64, error) {
	if v.Kind() != value.CrossSection {
		return nil, nil, &value.TypeMismatchError{Op: funcName, Kind: v.Kind(), Context: "expected a per-symbol cross-section"}
	}
	symbols, vec := v.CrossSectionData()
	return symbols, vec, nil
}

// panelArg is csArg's vectorized counterpart: the input must be a full Panel.
func panelArg(v value.Value, funcName string) ([]time.Time, []string, [][]float64, error) {
	if v.Kind() != value.Panel {
		return nil, nil, nil, &value.TypeMismatchError{Op: funcName, Kind: v.Kind(), Context: "expected a panel"}
	}
	dates, symbols, mat := v.PanelData()
	return dates, symbols, mat, nil
}

func rankScalar(ctx registry.ScalarContext, args []value.Value) (value.Value, error) {
	symbols, vec, err := csArg(args[0], "rank")
	if err != nil {
		return value.Value{}, err
	}
	return value.NewCrossSection(symbols, csRank(vec)), nil
}

func rankVector(args []value.Value) (value.Value, error) {
	dates, symbols, mat, err := panelArg(args[0], "rank")
	if err != nil {
		return value.Value{}, err
	}
	out := make([][]float64, len(dates))
	for i := range dates {
		out[i] = csRank(mat[i])
	}
	return value.NewPanel(&panel.Panel{Dates: dates, Symbols: symbols, Data: out}), nil
}

func zscoreScalar(ctx registry.ScalarContext, args []value.Value) (value.Value, error) {
	symbols, vec, err := csArg(args[0], "zscore")
	if err != nil {
		return value.Value{}, err
	}
	return value.NewCrossSection(symbols, csZscore(vec)), nil
}

func zscoreVector(args []value.Value) (value.Value, error) {
	dates, symbols, mat, err := panelArg(args[0], "zscore")
	if err != nil {
		return value.Value{}, err
	}
	out := make([][]float64, len(dates))
	for i := range dates {
		out[i] = csZscore(mat[i])
	}
	return value.NewPanel(&panel.Panel{Dates: dates, Symbols: symbols, Data: out}), nil
}

// scaleFactor unpacks scale's optional second argument, which must be a
// bare scalar.
func scaleFactor(args []value.Value) (float64, error) {
	if len(args) < 2 {
		return 1.0, nil
	}
	if args[1].Kind() != value.Scalar {
		return 0, &value.TypeMismatchError{Op: "scale", Kind: args[1].Kind(), Context: "expected a scalar target norm"}
	}
	return args[1].Float(), nil
}

func scaleScalar(ctx registry.ScalarContext, args []value.Value) (value.Value, error) {
	symbols, vec, err := csArg(args[0], "scale")
	if err != nil {
		return value.Value{}, err
	}
	a, err := scaleFactor(args)
	if err != nil {
		return value.Value{}, err
	}
	return value.NewCrossSection(symbols, csScale(vec, a)), nil
}

func scaleVector(args []value.Value) (value.Value, error) {
	dates, symbols, mat, err := panelArg(args[0], "scale")
	if err != nil {
		return value.Value{}, err
	}
	a, err := scaleFactor(args)
	if err != nil {
		return value.Value{}, err
	}
	out := make([][]float64, len(dates))
	for i := range dates {
		out[i] = csScale(mat[i], a)
	}
	return value.NewPanel(&panel.Panel{Dates: dates, Symbols: symbols, Data: out}), nil
}
