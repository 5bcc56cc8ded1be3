// Package synth generates deterministic synthetic market-data panels for the
// CLI and the test suite's end-to-end scenarios: a seeded cumulative random
// walk for close, a seeded uniform draw for volume, and returns derived
// from close via percent-change. Generation uses an explicit
// *rand.Rand (never the global math/rand state) so two calls with the same
// seed always produce byte-identical panels.
package synth

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/stratoquant/alphaql/panel"
)

// Params configures a synthetic bundle.
type Params struct {
	Seed      int64
	Start     time.Time
	Days      int // number of business days (Mon-Fri) to generate
	Symbols   []string
	ReturnVol float64 // std dev of the daily log-ish return used to build close
}

// BusinessDays returns the first n weekday dates starting at (and including,
// if it is itself a weekday) start.
func BusinessDays(start time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	d := start
	for len(out) < n {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			out = append(out, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	return out
}

// Generate builds a Bundle with "close", "open", "high", "low", "volume",
// and "returns" fields over Params.Days business days starting at
// Params.Start, for Params.Symbols. The first row of "returns" is 0, there
// being no prior close to diff against.
func Generate(p Params) (*panel.Bundle, error) {
	if p.Days <= 0 {
		return nil, fmt.Errorf("synth: days must be positive, got %d", p.Days)
	}
	if len(p.Symbols) == 0 {
		return nil, fmt.Errorf("synth: at least one symbol is required")
	}
	vol := p.ReturnVol
	if vol == 0 {
		vol = 0.01
	}

	dates := BusinessDays(p.Start, p.Days)
	bundle, err := panel.NewBundle(dates, p.Symbols)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(p.Seed))
	nDays, nSym := len(dates), len(p.Symbols)

	close_ := make([][]float64, nDays)
	open_ := make([][]float64, nDays)
	high := make([][]float64, nDays)
	low := make([][]float64, nDays)
	volume := make([][]float64, nDays)
	returns := make([][]float64, nDays)

	level := make([]float64, nSym)
	for j := range level {
		level[j] = 100
	}

	for i := 0; i < nDays; i++ {
		close_[i] = make([]float64, nSym)
		open_[i] = make([]float64, nSym)
		high[i] = make([]float64, nSym)
		low[i] = make([]float64, nSym)
		volume[i] = make([]float64, nSym)
		returns[i] = make([]float64, nSym)

		for j := 0; j < nSym; j++ {
			level[j] += rng.NormFloat64() * vol * 100
			c := level[j]
			o := c * (1 + rng.NormFloat64()*0.002)
			h := math.Max(o, c) * (1 + math.Abs(rng.NormFloat64())*0.001)
			l := math.Min(o, c) * (1 - math.Abs(rng.NormFloat64())*0.001)

			close_[i][j] = c
			open_[i][j] = o
			high[i][j] = h
			low[i][j] = l
			volume[i][j] = float64(100000 + rng.Intn(4900000))

			if i == 0 {
				returns[i][j] = 0
			} else {
				prev := close_[i-1][j]
				if prev == 0 {
					returns[i][j] = 0
				} else {
					returns[i][j] = (c - prev) / prev
				}
			}
		}
	}

	for name, data := range map[string][][]float64{
		"close": close_, "open": open_, "high": high, "low": low,
		"volume": volume, "returns": returns,
	} {
		if _, err := bundle.AddField(name, data); err != nil {
			return nil, err
		}
	}
	return bundle, nil
}
