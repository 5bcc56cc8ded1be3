// Package logging configures the process-wide structured logger used by the
// alphaql CLI. The core evaluator packages (syntax, registry, eval, kernels,
// panel, value, analyzer) never log; only the CLI layer that drives them
// does, so every log line here carries an operation name and, where
// relevant, the structured fields of the spec's error taxonomy (position,
// field name, function name, arity) rather than just an Error() string.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls how Init configures the global logger.
type Options struct {
	// Level is one of "debug", "info", "warn", "error". Defaults to "info".
	Level string
	// JSON selects structured JSON output instead of zerolog's human-readable
	// console writer. CLI runs default to console; non-tty/CI runs should set
	// this to true.
	JSON bool
	// Writer overrides the log destination. Defaults to os.Stderr, keeping
	// stdout free for evaluation results.
	Writer io.Writer
	// RunID is a correlation ID (a CLI invocation UUID) attached to every
	// log line emitted during this run.
	RunID string
}

// Init configures the global zerolog logger per opts and returns it. Callers
// use github.com/rs/zerolog/log's package-level functions afterward, which
// read from the global logger Init installs.
func Init(opts Options) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	if !opts.JSON {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(w).With().Timestamp()
	if opts.RunID != "" {
		logger = logger.Str("run_id", opts.RunID)
	}
	l := logger.Logger()
	log.Logger = l
	return l
}
