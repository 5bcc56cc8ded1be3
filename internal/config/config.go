// Package config loads alphaql's CLI/engine configuration from a TOML file,
// layered with ALPHAQL_-prefixed environment variables and built-in
// defaults via github.com/spf13/viper.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// Config is alphaql's complete CLI/engine configuration.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine" toml:"engine"`
	Cache   CacheConfig   `mapstructure:"cache" toml:"cache"`
	Logging LoggingConfig `mapstructure:"logging" toml:"logging"`
}

// EngineConfig controls the synthetic data generator that backs the CLI's
// eval/repl subcommands when no bundle file is given.
type EngineConfig struct {
	Seed       int64    `mapstructure:"seed" toml:"seed"`
	Days       int      `mapstructure:"days" toml:"days"`
	Symbols    []string `mapstructure:"symbols" toml:"symbols"`
	StartDate  string   `mapstructure:"start_date" toml:"start_date"`
	ReturnsVol float64  `mapstructure:"returns_vol" toml:"returns_vol"`
}

// CacheConfig controls the on-disk sqlite bundle/result cache.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
	Dir     string `mapstructure:"dir" toml:"dir"`
}

// LoggingConfig controls internal/logging.
type LoggingConfig struct {
	Level string `mapstructure:"level" toml:"level"`
	JSON  bool   `mapstructure:"json" toml:"json"`
}

// Default returns the configuration used when no config file or environment
// variables override it.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			Seed:       0,
			Days:       30,
			Symbols:    []string{"A", "B", "C"},
			StartDate:  "2024-01-01",
			ReturnsVol: 0.01,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     filepath.Join(homeDir(), ".alphaql", "cache"),
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// Load reads configuration from path (if non-empty and present), then layers
// ALPHAQL_-prefixed environment variables on top (e.g. ALPHAQL_ENGINE_SEED,
// ALPHAQL_CACHE_ENABLED). Defaults from Default() are used for anything
// neither the file nor the environment sets.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix("ALPHAQL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			var raw map[string]any
			if _, err := toml.DecodeFile(path, &raw); err != nil {
				return Config{}, err
			}
			if err := v.MergeConfigMap(raw); err != nil {
				return Config{}, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("engine.seed", d.Engine.Seed)
	v.SetDefault("engine.days", d.Engine.Days)
	v.SetDefault("engine.symbols", d.Engine.Symbols)
	v.SetDefault("engine.start_date", d.Engine.StartDate)
	v.SetDefault("engine.returns_vol", d.Engine.ReturnsVol)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.json", d.Logging.JSON)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
