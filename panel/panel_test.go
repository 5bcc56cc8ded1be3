package panel_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratoquant/alphaql/panel"
)

func dates(n int) []time.Time {
	out := make([]time.Time, n)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = base.AddDate(0, 0, i)
	}
	return out
}

func TestNewBundleRejectsNonIncreasingDates(t *testing.T) {
	d := dates(2)
	bad := []time.Time{d[0], d[0]}
	_, err := panel.NewBundle(bad, []string{"A"})
	require.Error(t, err)
}

func TestAddFieldSharesIndex(t *testing.T) {
	b, err := panel.NewBundle(dates(2), []string{"A", "B"})
	require.NoError(t, err)

	p, err := b.AddField("close", [][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.Same(t, &b.Dates[0], &p.Dates[0])
	assert.Same(t, &b.Symbols[0], &p.Symbols[0])
}

func TestAddFieldRejectsWrongShape(t *testing.T) {
	b, err := panel.NewBundle(dates(2), []string{"A", "B"})
	require.NoError(t, err)

	_, err = b.AddField("close", [][]float64{{1, 2}})
	require.Error(t, err)

	_, err = b.AddField("close", [][]float64{{1}, {2}})
	require.Error(t, err)
}

func TestFieldLookup(t *testing.T) {
	b, err := panel.NewBundle(dates(1), []string{"A"})
	require.NoError(t, err)
	_, err = b.AddField("close", [][]float64{{100}})
	require.NoError(t, err)

	p, ok := b.Field("close")
	require.True(t, ok)
	assert.Equal(t, 100.0, p.Data[0][0])

	_, ok = b.Field("open")
	require.False(t, ok)
}

func TestFieldNamesSorted(t *testing.T) {
	b, err := panel.NewBundle(dates(1), []string{"A"})
	require.NoError(t, err)
	_, _ = b.AddField("volume", [][]float64{{1}})
	_, _ = b.AddField("close", [][]float64{{1}})

	assert.Equal(t, []string{"close", "volume"}, b.FieldNames())
}

func TestRowIndex(t *testing.T) {
	d := dates(3)
	p := &panel.Panel{Dates: d, Symbols: []string{"A"}, Data: [][]float64{{1}, {2}, {3}}}

	idx, ok := p.RowIndex(d[1])
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = p.RowIndex(d[1].AddDate(0, 0, 100))
	assert.False(t, ok)
}

func TestColExtractsTimeSeries(t *testing.T) {
	p := &panel.Panel{
		Dates:   dates(2),
		Symbols: []string{"A", "B"},
		Data:    [][]float64{{1, 2}, {3, 4}},
	}
	assert.Equal(t, []float64{1, 3}, p.Col(0))
	assert.Equal(t, []float64{2, 4}, p.Col(1))
}

func TestCloneIsIndependent(t *testing.T) {
	p := &panel.Panel{Dates: dates(1), Symbols: []string{"A"}, Data: [][]float64{{1}}}
	clone := p.Clone()
	clone.Data[0][0] = 99
	assert.Equal(t, 1.0, p.Data[0][0])
}

func TestSymbolIndex(t *testing.T) {
	b, err := panel.NewBundle(dates(1), []string{"A", "B", "C"})
	require.NoError(t, err)
	assert.Equal(t, 1, b.SymbolIndex("B"))
	assert.Equal(t, -1, b.SymbolIndex("Z"))
}
