package value_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratoquant/alphaql/panel"
	"github.com/stratoquant/alphaql/value"
)

func TestNewScalar(t *testing.T) {
	v := value.NewScalar(3.5)
	assert.Equal(t, value.Scalar, v.Kind())
	assert.Equal(t, 3.5, v.Float())
}

func TestNewCrossSection(t *testing.T) {
	v := value.NewCrossSection([]string{"A", "B"}, []float64{1, 2})
	assert.Equal(t, value.CrossSection, v.Kind())
	symbols, vec := v.CrossSectionData()
	assert.Equal(t, []string{"A", "B"}, symbols)
	assert.Equal(t, []float64{1, 2}, vec)
}

func TestNewPanel(t *testing.T) {
	dates := []time.Time{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	p := &panel.Panel{Dates: dates, Symbols: []string{"A"}, Data: [][]float64{{1}}}
	v := value.NewPanel(p)
	assert.Equal(t, value.Panel, v.Kind())
	gotDates, gotSymbols, gotMat := v.PanelData()
	assert.Equal(t, dates, gotDates)
	assert.Equal(t, []string{"A"}, gotSymbols)
	assert.Equal(t, [][]float64{{1}}, gotMat)
}

func TestFieldTag(t *testing.T) {
	v := value.NewScalar(1)
	_, ok := v.Field()
	require.False(t, ok)

	tagged := v.WithField("close")
	name, ok := tagged.Field()
	require.True(t, ok)
	assert.Equal(t, "close", name)
}

func TestToCrossSectionBroadcastsScalar(t *testing.T) {
	v := value.NewScalar(7)
	cs := v.ToCrossSection([]string{"A", "B", "C"})
	symbols, vec := cs.CrossSectionData()
	assert.Equal(t, []string{"A", "B", "C"}, symbols)
	assert.Equal(t, []float64{7, 7, 7}, vec)
}

func TestFloatPanicsOnWrongKind(t *testing.T) {
	v := value.NewCrossSection([]string{"A"}, []float64{1})
	assert.Panics(t, func() { v.Float() })
}

func TestAlignCrossSectionsOuterJoin(t *testing.T) {
	a := value.NewCrossSection([]string{"A", "B"}, []float64{1, 2})
	b := value.NewCrossSection([]string{"B", "C"}, []float64{20, 30})

	symbols, av, bv := value.AlignCrossSections(a, b)
	assert.Equal(t, []string{"A", "B", "C"}, symbols)
	assert.Equal(t, 1.0, av[0])
	assert.Equal(t, 2.0, av[1])
	assert.True(t, math.IsNaN(av[2]))
	assert.True(t, math.IsNaN(bv[0]))
	assert.Equal(t, 20.0, bv[1])
	assert.Equal(t, 30.0, bv[2])
}

func TestTypeMismatchError(t *testing.T) {
	err := &value.TypeMismatchError{Op: "+", Kind: value.Panel, Context: "binary expression"}
	assert.Contains(t, err.Error(), "+")
	assert.Contains(t, err.Error(), "panel")
	assert.Contains(t, err.Error(), "binary expression")
}
