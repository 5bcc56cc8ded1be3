package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stratoquant/alphaql/internal/snapshot"
	"github.com/stratoquant/alphaql/internal/store"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Generate, export, and cache synthetic panel bundles",
}

var bundleExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Generate the configured synthetic bundle and write it to a binary snapshot file",
	Args:  cobra.ExactArgs(1),
	RunE:  runBundleExport,
}

var bundleCacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Generate the configured synthetic bundle and store it in the sqlite cache",
	RunE:  runBundleCache,
}

func init() {
	rootCmd.AddCommand(bundleCmd)
	bundleCmd.AddCommand(bundleExportCmd)
	bundleCmd.AddCommand(bundleCacheCmd)
}

func runBundleExport(cmd *cobra.Command, args []string) error {
	bundle, err := loadBundle()
	if err != nil {
		return fmt.Errorf("building panel: %w", err)
	}
	data, err := snapshot.Encode(bundle)
	if err != nil {
		return fmt.Errorf("encoding bundle: %w", err)
	}
	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", args[0], err)
	}
	fmt.Printf("wrote %d bytes to %s\n", len(data), args[0])
	return nil
}

func runBundleCache(cmd *cobra.Command, args []string) error {
	if !cfg.Cache.Enabled {
		return fmt.Errorf("cache is disabled (cache.enabled = false)")
	}
	bundle, err := loadBundle()
	if err != nil {
		return fmt.Errorf("building panel: %w", err)
	}

	if err := os.MkdirAll(cfg.Cache.Dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir %s: %w", cfg.Cache.Dir, err)
	}
	dbPath := filepath.Join(cfg.Cache.Dir, "alphaql.db")
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening cache at %s: %w", dbPath, err)
	}
	defer st.Close()

	key := bundleCacheKey()
	if err := st.PutBundle(context.Background(), key, bundle); err != nil {
		return fmt.Errorf("caching bundle: %w", err)
	}
	fmt.Printf("cached bundle %q in %s\n", key, dbPath)
	return nil
}

// bundleCacheKey derives a deterministic cache key from the engine config
// that generated the bundle.
func bundleCacheKey() string {
	return fmt.Sprintf("seed=%d;start=%s;days=%d;symbols=%v;vol=%g",
		cfg.Engine.Seed, cfg.Engine.StartDate, cfg.Engine.Days, cfg.Engine.Symbols, cfg.Engine.ReturnsVol)
}
