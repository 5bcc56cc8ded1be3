package kernels

import "math"

// This file holds the pure rolling-window and cross-sectional numeric
// kernels. Every function here operates directly on raw
// [][]float64 matrices indexed [row][col] so the exact same code backs both
// the scalar evaluator (a single row) and the vectorized evaluator (every
// row), which is what lets the two guarantee numeric agreement.
//
// Windows are trailing and inclusive of the current row; NaN samples within
// a window are skipped (not counted toward min_periods, not included in
// sums), uniformly across all of the time-series kernels.

func windowStart(row, n int) int {
	start := row - n + 1
	if start < 0 {
		start = 0
	}
	return start
}

func trailingDelay(data [][]float64, col, row, n int) float64 {
	idx := row - n
	if idx < 0 {
		return math.NaN()
	}
	return data[idx][col]
}

func trailingSum(data [][]float64, col, row, n int) (sum float64, count int) {
	start := windowStart(row, n)
	for i := start; i <= row; i++ {
		v := data[i][col]
		if !math.IsNaN(v) {
			sum += v
			count++
		}
	}
	return sum, count
}

func trailingMean(data [][]float64, col, row, n int) float64 {
	sum, count := trailingSum(data, col, row, n)
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

func trailingStd(data [][]float64, col, row, n int) float64 {
	start := windowStart(row, n)
	sum, count := trailingSum(data, col, row, n)
	if count < 2 {
		return math.NaN()
	}
	mean := sum / float64(count)
	var sqDiff float64
	for i := start; i <= row; i++ {
		v := data[i][col]
		if math.IsNaN(v) {
			continue
		}
		d := v - mean
		sqDiff += d * d
	}
	return math.Sqrt(sqDiff / float64(count-1))
}

// trailingRank returns the fraction of the window's non-NaN entries at or
// below the current sample. A NaN current sample compares false against
// every entry, so it ranks 0 while any non-NaN history remains in the
// window.
func trailingRank(data [][]float64, col, row, n int) float64 {
	current := data[row][col]
	start := windowStart(row, n)
	var total, le int
	for i := start; i <= row; i++ {
		v := data[i][col]
		if math.IsNaN(v) {
			continue
		}
		total++
		if v <= current {
			le++
		}
	}
	if total == 0 {
		return math.NaN()
	}
	return float64(le) / float64(total)
}

// trailingCorr computes the Pearson correlation of two columns over a
// trailing window via running sums.
func trailingCorr(xData [][]float64, xCol int, yData [][]float64, yCol, row, n int) float64 {
	start := windowStart(row, n)
	var sx, sy, sxx, syy, sxy float64
	var m int
	for i := start; i <= row; i++ {
		x, y := xData[i][xCol], yData[i][yCol]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		sx += x
		sy += y
		sxx += x * x
		syy += y * y
		sxy += x * y
		m++
	}
	if m < 2 {
		return math.NaN()
	}
	fm := float64(m)
	cov := sxy - sx*sy/fm
	varX := sxx - sx*sx/fm
	varY := syy - sy*sy/fm
	if varX <= 0 || varY <= 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varX*varY)
}

// trailingDecayLinear applies a linear-weighted moving average. Base
// weights w_i = i/sum(1..n) for i=1..n, heaviest on the most recent sample.
// When the window has shrunk to m<n entries, the last m base weights are
// taken and renormalized to sum to 1; NaN samples are then treated as 0
// without any further renormalization.
func trailingDecayLinear(data [][]float64, col, row, n int) float64 {
	start := windowStart(row, n)
	m := row - start + 1
	total := float64(n*(n+1)) / 2

	weights := make([]float64, m)
	var weightSum float64
	for k := 1; k <= m; k++ {
		i := n - m + k
		w := float64(i) / total
		weights[k-1] = w
		weightSum += w
	}

	var result float64
	for k := 0; k < m; k++ {
		v := data[start+k][col]
		if math.IsNaN(v) {
			continue
		}
		result += (weights[k] / weightSum) * v
	}
	return result
}

// csRank computes the percentile rank of row[i] among the non-NaN entries
// of row.
func csRank(row []float64) []float64 {
	out := make([]float64, len(row))
	var total int
	for _, v := range row {
		if !math.IsNaN(v) {
			total++
		}
	}
	for i, v := range row {
		if math.IsNaN(v) || total == 0 {
			out[i] = math.NaN()
			continue
		}
		var le int
		for _, w := range row {
			if !math.IsNaN(w) && w <= v {
				le++
			}
		}
		out[i] = float64(le) / float64(total)
	}
	return out
}

// csZscore standardizes row using the sample mean and sample standard
// deviation (divisor n-1) of its non-NaN entries.
func csZscore(row []float64) []float64 {
	out := make([]float64, len(row))
	var sum float64
	var count int
	for _, v := range row {
		if !math.IsNaN(v) {
			sum += v
			count++
		}
	}
	if count < 2 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	mean := sum / float64(count)
	var sqDiff float64
	for _, v := range row {
		if math.IsNaN(v) {
			continue
		}
		d := v - mean
		sqDiff += d * d
	}
	std := math.Sqrt(sqDiff / float64(count-1))
	for i, v := range row {
		if math.IsNaN(v) || std == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (v - mean) / std
	}
	return out
}

// csScale rescales row so the L1 norm of its non-NaN entries equals a.
func csScale(row []float64, a float64) []float64 {
	out := make([]float64, len(row))
	var l1 float64
	for _, v := range row {
		if !math.IsNaN(v) {
			l1 += math.Abs(v)
		}
	}
	for i, v := range row {
		if math.IsNaN(v) || l1 == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = v * (a / l1)
	}
	return out
}

// sdiv is the safe division kernel: 0.0 where b is zero or NaN, a/b
// otherwise.
func sdiv(a, b float64) float64 {
	if b == 0 || math.IsNaN(b) {
		return 0
	}
	return a / b
}
