package kernels

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func col(vals ...float64) [][]float64 {
	out := make([][]float64, len(vals))
	for i, v := range vals {
		out[i] = []float64{v}
	}
	return out
}

func TestTrailingDelay(t *testing.T) {
	data := col(10, 20, 30, 40)
	assert.Equal(t, 40.0, trailingDelay(data, 0, 3, 0))
	assert.Equal(t, 30.0, trailingDelay(data, 0, 3, 1))
	assert.True(t, math.IsNaN(trailingDelay(data, 0, 1, 5)))
}

func TestTrailingMeanAndSum(t *testing.T) {
	data := col(1, 2, 3, 4, 5)
	sum, count := trailingSum(data, 0, 4, 3)
	assert.Equal(t, 12.0, sum)
	assert.Equal(t, 3, count)
	assert.Equal(t, 4.0, trailingMean(data, 0, 4, 3))
}

func TestTrailingMeanSkipsNaN(t *testing.T) {
	data := col(1, math.NaN(), 3)
	assert.Equal(t, 2.0, trailingMean(data, 0, 2, 3))
}

func TestTrailingStd(t *testing.T) {
	data := col(2, 4, 4, 4, 5, 5, 7, 9)
	got := trailingStd(data, 0, 7, 8)
	assert.InDelta(t, 2.138, got, 1e-3)
}

func TestTrailingStdMinPeriods(t *testing.T) {
	data := col(1)
	assert.True(t, math.IsNaN(trailingStd(data, 0, 0, 3)))
}

func TestTrailingRank(t *testing.T) {
	data := col(3, 1, 2)
	assert.InDelta(t, 1.0, trailingRank(data, 0, 0, 3), 1e-9)
	assert.InDelta(t, 0.5, trailingRank(data, 0, 1, 3), 1e-9)
	assert.InDelta(t, 2.0/3.0, trailingRank(data, 0, 2, 3), 1e-9)
}

func TestTrailingRankNaNCurrentRanksZero(t *testing.T) {
	data := col(1, 2, math.NaN())
	assert.Equal(t, 0.0, trailingRank(data, 0, 2, 3))
}

func TestTrailingRankAllNaNWindow(t *testing.T) {
	data := col(math.NaN(), math.NaN())
	assert.True(t, math.IsNaN(trailingRank(data, 0, 1, 2)))
}

func TestTrailingCorrPerfectPositive(t *testing.T) {
	x := col(1, 2, 3, 4)
	y := col(2, 4, 6, 8)
	got := trailingCorr(x, 0, y, 0, 3, 4)
	assert.InDelta(t, 1.0, got, 1e-9)
}

func TestTrailingCorrMinPeriods(t *testing.T) {
	x := col(1)
	y := col(1)
	assert.True(t, math.IsNaN(trailingCorr(x, 0, y, 0, 0, 3)))
}

func TestTrailingDecayLinearFullWindow(t *testing.T) {
	data := col(1, 2, 3)
	got := trailingDecayLinear(data, 0, 2, 3)
	// weights 1/6, 2/6, 3/6 over values 1,2,3
	want := 1*(1.0/6) + 2*(2.0/6) + 3*(3.0/6)
	assert.InDelta(t, want, got, 1e-9)
}

func TestTrailingDecayLinearShrunkWindow(t *testing.T) {
	// window of 3 requested but only 2 rows exist; last 2 base weights
	// (2/6, 3/6) renormalize to sum to 1.
	data := col(10, 20)
	got := trailingDecayLinear(data, 0, 1, 3)
	want := 10*(2.0/5) + 20*(3.0/5)
	assert.InDelta(t, want, got, 1e-9)
}

func TestTrailingDecayLinearZeroFillsNaNWithoutRenormalizing(t *testing.T) {
	data := col(math.NaN(), 2, 3)
	got := trailingDecayLinear(data, 0, 2, 3)
	want := 0*(1.0/6) + 2*(2.0/6) + 3*(3.0/6)
	assert.InDelta(t, want, got, 1e-9)
}

func TestCSRank(t *testing.T) {
	got := csRank([]float64{3, 1, 2})
	assert.InDelta(t, 1.0, got[0], 1e-9)
	assert.InDelta(t, 1.0/3.0, got[1], 1e-9)
	assert.InDelta(t, 2.0/3.0, got[2], 1e-9)
}

func TestCSRankSkipsNaN(t *testing.T) {
	got := csRank([]float64{1, math.NaN(), 2})
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 0.5, got[0], 1e-9)
	assert.InDelta(t, 1.0, got[2], 1e-9)
}

func TestCSZscore(t *testing.T) {
	got := csZscore([]float64{1, 2, 3})
	assert.InDelta(t, 0.0, got[1], 1e-9)
	assert.True(t, got[0] < 0)
	assert.True(t, got[2] > 0)
}

func TestCSZscoreTooFewSamples(t *testing.T) {
	got := csZscore([]float64{1})
	assert.True(t, math.IsNaN(got[0]))
}

func TestCSScale(t *testing.T) {
	got := csScale([]float64{1, -2, 3}, 1.0)
	var l1 float64
	for _, v := range got {
		l1 += math.Abs(v)
	}
	assert.InDelta(t, 1.0, l1, 1e-9)
}

func TestSdiv(t *testing.T) {
	assert.Equal(t, 2.0, sdiv(4, 2))
	assert.Equal(t, 0.0, sdiv(4, 0))
	assert.Equal(t, 0.0, sdiv(4, math.NaN()))
}
