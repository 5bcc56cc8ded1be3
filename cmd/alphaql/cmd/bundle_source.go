package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/stratoquant/alphaql/internal/snapshot"
	"github.com/stratoquant/alphaql/internal/synth"
	"github.com/stratoquant/alphaql/panel"
)

var bundleFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&bundleFile, "bundle", "", "load the panel bundle from a snapshot file (see 'bundle export') instead of generating synthetic data")
}

// loadBundle builds the panel.Bundle subcommands evaluate against: a
// snapshot file if --bundle is given, otherwise a synthetic panel generated
// from the active config's engine section.
func loadBundle() (*panel.Bundle, error) {
	if bundleFile != "" {
		data, err := os.ReadFile(bundleFile)
		if err != nil {
			return nil, fmt.Errorf("reading bundle %s: %w", bundleFile, err)
		}
		b, err := snapshot.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("decoding bundle %s: %w", bundleFile, err)
		}
		return b, nil
	}

	start, err := time.Parse("2006-01-02", cfg.Engine.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parsing engine.start_date %q: %w", cfg.Engine.StartDate, err)
	}
	return synth.Generate(synth.Params{
		Seed:      cfg.Engine.Seed,
		Start:     start,
		Days:      cfg.Engine.Days,
		Symbols:   cfg.Engine.Symbols,
		ReturnVol: cfg.Engine.ReturnsVol,
	})
}
