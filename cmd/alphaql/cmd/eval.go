package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/stratoquant/alphaql/eval"
	"github.com/stratoquant/alphaql/internal/store"
	"github.com/stratoquant/alphaql/panel"
	"github.com/stratoquant/alphaql/syntax"
	"github.com/stratoquant/alphaql/value"
)

var (
	evalExpr    string
	evalDate    string
	evalVector  bool
	evalNoCache bool
)

var evalCmd = &cobra.Command{
	Use:   "eval [file]",
	Short: "Evaluate an alpha expression against synthetic panel data",
	Long: `Eval parses and evaluates an expression, printing its result.

By default it evaluates over the full panel (vectorized, falling back to a
per-date scalar loop for any function without a vectorized kernel) and
prints one row per date. With --date, it evaluates only that date using the
scalar evaluator. With --vector=false, the full panel is produced by the
per-date scalar loop instead of the vectorized evaluator.

Full-panel results are cached in the sqlite cache keyed by the generating
config and the expression text, unless --no-cache, cache.enabled=false,
--vector=false, or --bundle is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVarP(&evalExpr, "expression", "e", "", "evaluate this expression instead of reading a file/stdin")
	evalCmd.Flags().StringVar(&evalDate, "date", "", "evaluate only this date (YYYY-MM-DD) with the scalar evaluator")
	evalCmd.Flags().BoolVar(&evalVector, "vector", true, "use the vectorized evaluator (ignored if --date is set)")
	evalCmd.Flags().BoolVar(&evalNoCache, "no-cache", false, "skip the sqlite result cache for this run")
}

func runEval(cmd *cobra.Command, args []string) error {
	src, err := readExpressionInput(evalExpr, args)
	if err != nil {
		return err
	}

	parseStart := time.Now()
	node, err := syntax.Parse(src)
	if err != nil {
		logEvalError(err)
		return fmt.Errorf("parse error: %w", err)
	}
	log.Debug().Dur("elapsed", time.Since(parseStart)).Msg("parsed expression")

	bundle, err := loadBundle()
	if err != nil {
		return fmt.Errorf("building panel: %w", err)
	}

	if evalDate != "" {
		date, err := time.Parse("2006-01-02", evalDate)
		if err != nil {
			return fmt.Errorf("parsing --date %q: %w", evalDate, err)
		}
		ctx := eval.NewCtx(bundle, date)
		result, err := eval.EvalScalar(reg, ctx, node)
		if err != nil {
			logEvalError(err)
			return fmt.Errorf("eval error: %w", err)
		}
		printScalarResult(result)
		return nil
	}

	if cached, ok := lookupCachedResult(src); ok {
		printPanelResult(value.NewPanel(cached))
		return nil
	}

	evalStart := time.Now()
	result, err := evalFullPanel(bundle, node)
	if err != nil {
		logEvalError(err)
		return fmt.Errorf("eval error: %w", err)
	}
	log.Debug().Dur("elapsed", time.Since(evalStart)).Bool("vectorized", evalVector).Msg("evaluated expression")

	storeCachedResult(src, result.AsPanel())
	printPanelResult(result)
	return nil
}

// evalFullPanel produces the full result panel either through the
// vectorized evaluator (with scalar fallback) or, with --vector=false,
// through the per-date scalar loop directly.
func evalFullPanel(bundle *panel.Bundle, node syntax.Node) (value.Value, error) {
	if evalVector {
		return eval.EvalPanelWithFallback(reg, bundle, node)
	}

	out := make([][]float64, len(bundle.Dates))
	for i, date := range bundle.Dates {
		ctx := eval.NewCtx(bundle, date)
		row, err := eval.EvalScalar(reg, ctx, node)
		if err != nil {
			return value.Value{}, err
		}
		vec := make([]float64, len(bundle.Symbols))
		if row.Kind() == value.Scalar {
			for j := range vec {
				vec[j] = row.Float()
			}
		} else {
			_, rowVec := row.CrossSectionData()
			copy(vec, rowVec)
		}
		out[i] = vec
	}
	return value.NewPanel(&panel.Panel{Dates: bundle.Dates, Symbols: bundle.Symbols, Data: out}), nil
}

// cacheUsable reports whether the result cache applies to this run. A
// bundle loaded from a file bypasses the cache, since the cache key is
// derived from the synthetic generation parameters.
func cacheUsable() bool {
	return cfg.Cache.Enabled && !evalNoCache && evalVector && bundleFile == ""
}

// lookupCachedResult checks the sqlite cache for a previously evaluated
// result of expr over the configured synthetic bundle. Cache trouble is
// never fatal to the evaluation itself; it logs and misses.
func lookupCachedResult(expr string) (*panel.Panel, bool) {
	if !cacheUsable() {
		return nil, false
	}
	st, err := openCache()
	if err != nil {
		log.Warn().Err(err).Msg("result cache unavailable")
		return nil, false
	}
	defer st.Close()

	p, err := st.GetResult(context.Background(), bundleCacheKey(), expr)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Warn().Err(err).Msg("result cache read failed")
		}
		log.Debug().Str("expr", expr).Msg("result cache miss")
		return nil, false
	}
	log.Debug().Str("expr", expr).Msg("result cache hit")
	return p, true
}

func storeCachedResult(expr string, result *panel.Panel) {
	if !cacheUsable() {
		return
	}
	st, err := openCache()
	if err != nil {
		log.Warn().Err(err).Msg("result cache unavailable")
		return
	}
	defer st.Close()

	if err := st.PutResult(context.Background(), bundleCacheKey(), expr, result); err != nil {
		log.Warn().Err(err).Msg("result cache write failed")
	}
}

func openCache() (*store.Store, error) {
	if err := os.MkdirAll(cfg.Cache.Dir, 0o755); err != nil {
		return nil, err
	}
	return store.Open(filepath.Join(cfg.Cache.Dir, "alphaql.db"))
}

func printScalarResult(v value.Value) {
	switch v.Kind() {
	case value.Scalar:
		fmt.Println(v.Float())
	case value.CrossSection:
		symbols, vec := v.CrossSectionData()
		for i, s := range symbols {
			fmt.Printf("%s\t%v\n", s, vec[i])
		}
	default:
		fmt.Println(v)
	}
}

func printPanelResult(v value.Value) {
	dates, symbols, mat := v.PanelData()
	fmt.Printf("date")
	for _, s := range symbols {
		fmt.Printf("\t%s", s)
	}
	fmt.Println()
	for i, d := range dates {
		fmt.Printf("%s", d.Format("2006-01-02"))
		for j := range symbols {
			fmt.Printf("\t%v", mat[i][j])
		}
		fmt.Println()
	}
}
