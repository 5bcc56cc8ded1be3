package eval_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratoquant/alphaql/eval"
	"github.com/stratoquant/alphaql/kernels"
	"github.com/stratoquant/alphaql/panel"
	"github.com/stratoquant/alphaql/registry"
	"github.com/stratoquant/alphaql/syntax"
	"github.com/stratoquant/alphaql/value"
)

func newRegistry() *registry.Registry {
	r := registry.New()
	kernels.RegisterAll(r)
	return r
}

func newTestBundle(t *testing.T) *panel.Bundle {
	t.Helper()
	dates := make([]time.Time, 5)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = base.AddDate(0, 0, i)
	}
	b, err := panel.NewBundle(dates, []string{"A", "B"})
	require.NoError(t, err)

	_, err = b.AddField("close", [][]float64{
		{10, 100},
		{11, 102},
		{12, 101},
		{13, 105},
		{14, 103},
	})
	require.NoError(t, err)
	return b
}

func TestScalarAndPanelAgreeOnArithmetic(t *testing.T) {
	reg := newRegistry()
	bundle := newTestBundle(t)
	node, err := syntax.Parse("close * 2 + 1")
	require.NoError(t, err)

	panelResult, err := eval.EvalPanel(reg, bundle, node)
	require.NoError(t, err)
	_, symbols, mat := panelResult.PanelData()

	for i, date := range bundle.Dates {
		ctx := eval.NewCtx(bundle, date)
		scalarResult, err := eval.EvalScalar(reg, ctx, node)
		require.NoError(t, err)
		gotSymbols, gotVec := scalarResult.CrossSectionData()
		assert.Equal(t, symbols, gotSymbols)
		for j := range symbols {
			assert.InDelta(t, mat[i][j], gotVec[j], 1e-9)
		}
	}
}

func TestScalarAndPanelAgreeOnTsMean(t *testing.T) {
	reg := newRegistry()
	bundle := newTestBundle(t)
	node, err := syntax.Parse("ts_mean(close, 3)")
	require.NoError(t, err)

	panelResult, err := eval.EvalPanel(reg, bundle, node)
	require.NoError(t, err)
	_, symbols, mat := panelResult.PanelData()

	for i, date := range bundle.Dates {
		ctx := eval.NewCtx(bundle, date)
		scalarResult, err := eval.EvalScalar(reg, ctx, node)
		require.NoError(t, err)
		_, gotVec := scalarResult.CrossSectionData()
		for j := range symbols {
			assert.InDelta(t, mat[i][j], gotVec[j], 1e-9)
		}
	}
}

func TestDelayZeroIsIdentity(t *testing.T) {
	reg := newRegistry()
	bundle := newTestBundle(t)
	node, err := syntax.Parse("delay(close, 0)")
	require.NoError(t, err)

	result, err := eval.EvalPanel(reg, bundle, node)
	require.NoError(t, err)
	_, _, mat := result.PanelData()

	closePanel, _ := bundle.Field("close")
	for i := range bundle.Dates {
		for j := range bundle.Symbols {
			assert.Equal(t, closePanel.Data[i][j], mat[i][j])
		}
	}
}

func TestDelayComposesAdditively(t *testing.T) {
	reg := newRegistry()
	bundle := newTestBundle(t)

	composed, err := syntax.Parse("delay(delay(close, 1), 2)")
	require.NoError(t, err)
	direct, err := syntax.Parse("delay(close, 3)")
	require.NoError(t, err)

	composedResult, err := eval.EvalPanelWithFallback(reg, bundle, composed)
	require.NoError(t, err)
	directResult, err := eval.EvalPanelWithFallback(reg, bundle, direct)
	require.NoError(t, err)

	_, _, composedMat := composedResult.PanelData()
	_, _, directMat := directResult.PanelData()
	for i := range bundle.Dates {
		for j := range bundle.Symbols {
			a, b := composedMat[i][j], directMat[i][j]
			if math.IsNaN(a) || math.IsNaN(b) {
				assert.True(t, math.IsNaN(a) && math.IsNaN(b))
				continue
			}
			assert.InDelta(t, a, b, 1e-9)
		}
	}
}

func TestFinalizePanelBroadcastsScalar(t *testing.T) {
	reg := newRegistry()
	bundle := newTestBundle(t)
	node, err := syntax.Parse("1 + 1")
	require.NoError(t, err)

	result, err := eval.EvalPanel(reg, bundle, node)
	require.NoError(t, err)
	dates, symbols, mat := result.PanelData()
	assert.Equal(t, len(bundle.Dates), len(dates))
	for i := range dates {
		for j := range symbols {
			assert.Equal(t, 2.0, mat[i][j])
		}
	}
}

func TestUnsupportedVectorizedFallsBackToScalarLoop(t *testing.T) {
	reg := registry.New()
	// sdiv has no ts/cs kind here but does have a Vector impl in the real
	// registry; register a function with only a Scalar implementation to
	// force the fallback path deterministically.
	reg.Register(registry.FuncSpec{
		Name:  "only_scalar",
		Arity: registry.ArgSet{1: true},
		Kind:  registry.ScalarKind,
		Scalar: func(ctx registry.ScalarContext, args []value.Value) (value.Value, error) {
			return args[0], nil
		},
	})
	bundle := newTestBundle(t)
	node, err := syntax.Parse("only_scalar(close)")
	require.NoError(t, err)

	_, err = eval.EvalPanel(reg, bundle, node)
	require.Error(t, err)
	var unsupported *eval.UnsupportedVectorizedError
	require.ErrorAs(t, err, &unsupported)

	result, err := eval.EvalPanelWithFallback(reg, bundle, node)
	require.NoError(t, err)
	_, _, mat := result.PanelData()
	closePanel, _ := bundle.Field("close")
	assert.Equal(t, closePanel.Data, mat)
}

func TestComparisonYieldsZeroOneCrossSection(t *testing.T) {
	reg := newRegistry()
	bundle := newTestBundle(t)
	node, err := syntax.Parse("close > 11")
	require.NoError(t, err)

	ctx := eval.NewCtx(bundle, bundle.Dates[1])
	result, err := eval.EvalScalar(reg, ctx, node)
	require.NoError(t, err)
	symbols, vec := result.CrossSectionData()
	for i, s := range symbols {
		if s == "A" {
			assert.Equal(t, 0.0, vec[i])
		}
		if s == "B" {
			assert.Equal(t, 1.0, vec[i])
		}
	}
}
