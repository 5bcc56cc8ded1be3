package cmd

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stratoquant/alphaql/eval"
	"github.com/stratoquant/alphaql/internal/config"
	"github.com/stratoquant/alphaql/internal/logging"
	"github.com/stratoquant/alphaql/internal/version"
	"github.com/stratoquant/alphaql/kernels"
	"github.com/stratoquant/alphaql/panel"
	"github.com/stratoquant/alphaql/registry"
	"github.com/stratoquant/alphaql/syntax"
)

var (
	cfgFile string
	cfg     config.Config
	reg     *registry.Registry
	runID   string
)

var rootCmd = &cobra.Command{
	Use:     "alphaql",
	Short:   "Parse, evaluate, and analyze alpha expressions over panel data",
	Version: version.Current,
	Long: `alphaql is the command-line interface to the alpha expression engine.

It parses expressions over a grammar of arithmetic, comparison, and named
time-series/cross-sectional functions, and evaluates them over a panel of
market data, either one date at a time (scalar) or over an entire bundle in
one vectorized pass.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("generating run id: %w", err)
		}
		runID = id.String()

		logging.Init(logging.Options{
			Level: cfg.Logging.Level,
			JSON:  cfg.Logging.JSON,
			RunID: runID,
		})

		reg = registry.New()
		kernels.RegisterAll(reg)
		log.Debug().Int("functions", len(reg.List())).Msg("registry initialized")

		cmd.Flags().Visit(func(f *pflag.Flag) {
			log.Debug().Str("flag", f.Name).Str("value", f.Value.String()).Msg("flag set")
		})
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a TOML config file")
}

// logEvalError logs err at error level with the structured fields of the
// error taxonomy attached (position, field name, function name, arity)
// rather than only the formatted Error() string.
func logEvalError(err error) {
	ev := log.Error()
	var parseErr *syntax.ParseError
	var unknownField *panel.UnknownFieldError
	var unknownDate *panel.UnknownDateError
	var unknownFunc *registry.UnknownFunctionError
	var arityErr *registry.ArityError
	var unsupported *eval.UnsupportedVectorizedError
	switch {
	case errors.As(err, &parseErr):
		ev = ev.Int("position", parseErr.Pos)
	case errors.As(err, &unknownField):
		ev = ev.Str("field", unknownField.Name)
	case errors.As(err, &unknownDate):
		ev = ev.Str("field", unknownDate.Field).Str("date", unknownDate.Date.Format("2006-01-02"))
	case errors.As(err, &unknownFunc):
		ev = ev.Str("function", unknownFunc.Name)
	case errors.As(err, &arityErr):
		ev = ev.Str("function", arityErr.Name).Int("got", arityErr.Got)
	case errors.As(err, &unsupported):
		ev = ev.Str("function", unsupported.Name)
	}
	ev.Err(err).Msg("evaluation failed")
}
