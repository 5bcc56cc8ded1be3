package kernels

import (
	"fmt"
	"math"

	"github.com/stratoquant/alphaql/panel"
	"github.com/stratoquant/alphaql/registry"
	"github.com/stratoquant/alphaql/value"
)

// intArg truncates a Scalar argument to an int, as every ts function's
// window-size argument is expected to be a positive integer.
func intArg(v value.Value, funcName string) (int, error) {
	if v.Kind() != value.Scalar {
		return 0, &value.TypeMismatchError{Op: funcName, Kind: v.Kind(), Context: "expected a scalar window size"}
	}
	return int(v.Float()), nil
}

// fieldPanelArg resolves arg to its source panel and the current row index,
// failing with MissingFieldTagError if arg carries no field tag.
func fieldPanelArg(ctx registry.ScalarContext, arg value.Value, funcName string) (*panel.Panel, int, error) {
	field, ok := arg.Field()
	if !ok {
		return nil, 0, &MissingFieldTagError{Func: funcName}
	}
	return ctx.FieldPanel(field)
}

// tsColumnScalar implements the common shape shared by every single-input
// time-series function's scalar evaluation: resolve x's source panel, apply
// f to each symbol's column at the current row, and return a CrossSection.
func tsColumnScalar(funcName string, f func(data [][]float64, col, row, n int) float64) registry.ScalarFunc {
	return func(ctx registry.ScalarContext, args []value.Value) (value.Value, error) {
		p, row, err := fieldPanelArg(ctx, args[0], funcName)
		if err != nil {
			return value.Value{}, err
		}
		n, err := intArg(args[1], funcName)
		if err != nil {
			return value.Value{}, err
		}
		out := make([]float64, len(p.Symbols))
		for j := range p.Symbols {
			out[j] = f(p.Data, j, row, n)
		}
		return value.NewCrossSection(p.Symbols, out), nil
	}
}

// tsColumnVector is tsColumnScalar's vectorized counterpart: apply f to
// every (row, col) of the input panel.
func tsColumnVector(f func(data [][]float64, col, row, n int) float64) registry.VectorFunc {
	return func(args []value.Value) (value.Value, error) {
		dates, symbols, mat := args[0].PanelData()
		n, err := intArg(args[1], "")
		if err != nil {
			return value.Value{}, err
		}
		out := make([][]float64, len(dates))
		for i := range dates {
			out[i] = make([]float64, len(symbols))
			for j := range symbols {
				out[i][j] = f(mat, j, i, n)
			}
		}
		return value.NewPanel(&panel.Panel{Dates: dates, Symbols: symbols, Data: out}), nil
	}
}

func delayScalar(ctx registry.ScalarContext, args []value.Value) (value.Value, error) {
	return tsColumnScalar("delay", trailingDelay)(ctx, args)
}

func delayVector(args []value.Value) (value.Value, error) {
	return tsColumnVector(trailingDelay)(args)
}

func tsMeanScalar(ctx registry.ScalarContext, args []value.Value) (value.Value, error) {
	return tsColumnScalar("ts_mean", trailingMean)(ctx, args)
}

func tsMeanVector(args []value.Value) (value.Value, error) {
	return tsColumnVector(trailingMean)(args)
}

func tsSumKernel(data [][]float64, col, row, n int) float64 {
	sum, count := trailingSum(data, col, row, n)
	if count == 0 {
		return math.NaN()
	}
	return sum
}

func tsSumScalar(ctx registry.ScalarContext, args []value.Value) (value.Value, error) {
	return tsColumnScalar("ts_sum", tsSumKernel)(ctx, args)
}

func tsSumVector(args []value.Value) (value.Value, error) {
	return tsColumnVector(tsSumKernel)(args)
}

func tsStdScalar(ctx registry.ScalarContext, args []value.Value) (value.Value, error) {
	return tsColumnScalar("ts_std", trailingStd)(ctx, args)
}

func tsStdVector(args []value.Value) (value.Value, error) {
	return tsColumnVector(trailingStd)(args)
}

func tsRankScalar(ctx registry.ScalarContext, args []value.Value) (value.Value, error) {
	return tsColumnScalar("ts_rank", trailingRank)(ctx, args)
}

func tsRankVector(args []value.Value) (value.Value, error) {
	return tsColumnVector(trailingRank)(args)
}

func decayLinearScalar(ctx registry.ScalarContext, args []value.Value) (value.Value, error) {
	return tsColumnScalar("decay_linear", trailingDecayLinear)(ctx, args)
}

func decayLinearVector(args []value.Value) (value.Value, error) {
	return tsColumnVector(trailingDecayLinear)(args)
}

func tsCorrScalar(ctx registry.ScalarContext, args []value.Value) (value.Value, error) {
	xPanel, row, err := fieldPanelArg(ctx, args[0], "ts_corr")
	if err != nil {
		return value.Value{}, err
	}
	yPanel, _, err := fieldPanelArg(ctx, args[1], "ts_corr")
	if err != nil {
		return value.Value{}, err
	}
	n, err := intArg(args[2], "ts_corr")
	if err != nil {
		return value.Value{}, err
	}
	if len(xPanel.Symbols) != len(yPanel.Symbols) {
		return value.Value{}, fmt.Errorf("ts_corr: operand panels have different symbol counts (%d vs %d)", len(xPanel.Symbols), len(yPanel.Symbols))
	}
	out := make([]float64, len(xPanel.Symbols))
	for j := range xPanel.Symbols {
		out[j] = trailingCorr(xPanel.Data, j, yPanel.Data, j, row, n)
	}
	return value.NewCrossSection(xPanel.Symbols, out), nil
}

func tsCorrVector(args []value.Value) (value.Value, error) {
	xDates, xSymbols, xMat := args[0].PanelData()
	_, _, yMat := args[1].PanelData()
	n, err := intArg(args[2], "ts_corr")
	if err != nil {
		return value.Value{}, err
	}
	out := make([][]float64, len(xDates))
	for i := range xDates {
		out[i] = make([]float64, len(xSymbols))
		for j := range xSymbols {
			out[i][j] = trailingCorr(xMat, j, yMat, j, i, n)
		}
	}
	return value.NewPanel(&panel.Panel{Dates: xDates, Symbols: xSymbols, Data: out}), nil
}
