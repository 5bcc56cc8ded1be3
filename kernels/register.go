// Package kernels implements the built-in function bodies: the time-series,
// cross-sectional, and safe-math kernels, each as a pair of
// scalar and vectorized implementations sharing the pure numeric helpers in
// window.go so the two are guaranteed to agree.
package kernels

import "github.com/stratoquant/alphaql/registry"

// RegisterAll registers every built-in function with reg. Call this once at
// startup, before any evaluation begins: a deterministic init routine, not an
// import-order side effect.
func RegisterAll(reg *registry.Registry) {
	reg.Register(registry.FuncSpec{
		Name: "delay", Arity: registry.ArgSet{2: true}, Kind: registry.TimeSeries,
		Scalar: delayScalar, Vector: delayVector,
		Doc: "delay(x, n) - value of x at row t-n; NaN before the start of the panel",
	})
	reg.Register(registry.FuncSpec{
		Name: "ts_mean", Arity: registry.ArgSet{2: true}, Kind: registry.TimeSeries,
		Scalar: tsMeanScalar, Vector: tsMeanVector,
		Doc: "ts_mean(x, n) - trailing rolling mean over a window of n rows",
	})
	reg.Register(registry.FuncSpec{
		Name: "ts_sum", Arity: registry.ArgSet{2: true}, Kind: registry.TimeSeries,
		Scalar: tsSumScalar, Vector: tsSumVector,
		Doc: "ts_sum(x, n) - trailing rolling sum over a window of n rows",
	})
	reg.Register(registry.FuncSpec{
		Name: "ts_std", Arity: registry.ArgSet{2: true}, Kind: registry.TimeSeries,
		Scalar: tsStdScalar, Vector: tsStdVector,
		Doc: "ts_std(x, n) - trailing rolling sample standard deviation (divisor n-1)",
	})
	reg.Register(registry.FuncSpec{
		Name: "ts_rank", Arity: registry.ArgSet{2: true}, Kind: registry.TimeSeries,
		Scalar: tsRankScalar, Vector: tsRankVector,
		Doc: "ts_rank(x, n) - fraction of the trailing window at or below the current value",
	})
	reg.Register(registry.FuncSpec{
		Name: "ts_corr", Arity: registry.ArgSet{3: true}, Kind: registry.TimeSeries,
		Scalar: tsCorrScalar, Vector: tsCorrVector,
		Doc: "ts_corr(x, y, n) - trailing Pearson correlation between x and y",
	})
	reg.Register(registry.FuncSpec{
		Name: "decay_linear", Arity: registry.ArgSet{2: true}, Kind: registry.TimeSeries,
		Scalar: decayLinearScalar, Vector: decayLinearVector,
		Doc: "decay_linear(x, n) - linearly weighted trailing moving average, heaviest on the most recent sample",
	})

	reg.Register(registry.FuncSpec{
		Name: "rank", Arity: registry.ArgSet{1: true}, Kind: registry.CrossSectional,
		Scalar: rankScalar, Vector: rankVector,
		Doc: "rank(x) - percentile rank of x across symbols at each date",
	})
	reg.Register(registry.FuncSpec{
		Name: "zscore", Arity: registry.ArgSet{1: true}, Kind: registry.CrossSectional,
		Scalar: zscoreScalar, Vector: zscoreVector,
		Doc: "zscore(x) - (x - mean) / stddev across symbols at each date",
	})
	reg.Register(registry.FuncSpec{
		Name: "scale", Arity: registry.ArgSet{1: true, 2: true}, Kind: registry.CrossSectional,
		Scalar: scaleScalar, Vector: scaleVector,
		Doc: "scale(x, a=1.0) - rescale x so the L1 norm across symbols equals a",
	})

	reg.Register(registry.FuncSpec{
		Name: "sdiv", Arity: registry.ArgSet{2: true}, Kind: registry.ScalarKind,
		Scalar: sdivScalar, Vector: sdivVector,
		Doc: "sdiv(a, b) - a/b, or 0.0 where b is zero or NaN",
	})
}
