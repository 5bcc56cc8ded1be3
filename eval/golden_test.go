package eval_test

import (
	"fmt"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	"github.com/stratoquant/alphaql/eval"
	"github.com/stratoquant/alphaql/panel"
	"github.com/stratoquant/alphaql/syntax"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

// goldenBundle is a small hand-written panel, so the snapshots stay readable
// and are independent of the synthetic generator.
func goldenBundle(t *testing.T) *panel.Bundle {
	t.Helper()
	dates := make([]time.Time, 6)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = base.AddDate(0, 0, i)
	}
	b, err := panel.NewBundle(dates, []string{"A", "B", "C"})
	require.NoError(t, err)

	_, err = b.AddField("close", [][]float64{
		{10, 100, 50},
		{11, 98, 52},
		{12, 101, 49},
		{11, 103, 51},
		{13, 99, 53},
		{14, 104, 50},
	})
	require.NoError(t, err)

	_, err = b.AddField("volume", [][]float64{
		{1000, 5000, 2000},
		{1100, 4800, 2100},
		{900, 5100, 1900},
		{1200, 5300, 2050},
		{1050, 4900, 2200},
		{1300, 5200, 1950},
	})
	require.NoError(t, err)
	return b
}

func formatPanel(t *testing.T, mat [][]float64, bundle *panel.Bundle) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("date\t" + strings.Join(bundle.Symbols, "\t") + "\n")
	for i, d := range bundle.Dates {
		sb.WriteString(d.Format("2006-01-02"))
		for j := range bundle.Symbols {
			v := mat[i][j]
			if math.IsNaN(v) {
				sb.WriteString("\tNaN")
			} else {
				sb.WriteString(fmt.Sprintf("\t%.6g", v))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func TestGoldenPanels(t *testing.T) {
	reg := newRegistry()
	bundle := goldenBundle(t)

	exprs := []string{
		"ts_mean(close, 3)",
		"ts_std(close, 3)",
		"ts_rank(close, 4)",
		"decay_linear(close, 3)",
		"ts_corr(close, volume, 4)",
		"rank(close)",
		"zscore(close)",
		"scale(close, 2)",
		"sdiv(close - delay(close,1), delay(close,1))",
		"rank(ts_mean(close,2)) > 0.5 || volume < 1000",
	}

	for _, src := range exprs {
		t.Run(src, func(t *testing.T) {
			node, err := syntax.Parse(src)
			require.NoError(t, err)
			result, err := eval.EvalPanelWithFallback(reg, bundle, node)
			require.NoError(t, err)
			_, _, mat := result.PanelData()
			snaps.MatchSnapshot(t, src, formatPanel(t, mat, bundle))
		})
	}
}
