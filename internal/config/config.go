package config

import (
	"errors"
	"fmt"
	"time"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"

	"github.com/papapumpkin/linkrank/internal/rank"
)

// Config holds all runtime configuration for a linkrank invocation.
// Values are populated from .linkrank.yaml, LINKRANK_* env vars, and CLI flags.
type Config struct {
	Damping       float64 `mapstructure:"damping"`
	Samples       int     `mapstructure:"samples"`
	Threshold     float64 `mapstructure:"threshold"`
	MaxIterations int     `mapstructure:"max_iterations"`
	Dangling      string  `mapstructure:"dangling"`
	Seed          uint64  `mapstructure:"seed"`
	Format        string  `mapstructure:"format"`
	DBPath        string  `mapstructure:"db_path"`
	TelemetryDir  string  `mapstructure:"telemetry_dir"`
	Verbose       bool    `mapstructure:"verbose"`
}

// SetDefaults registers the built-in default for every key.
func SetDefaults() {
	defaults := rank.DefaultOptions()
	viper.SetDefault("damping", defaults.Damping)
	viper.SetDefault("samples", defaults.Samples)
	viper.SetDefault("threshold", defaults.Threshold)
	viper.SetDefault("max_iterations", defaults.MaxIterations)
	viper.SetDefault("dangling", defaults.Dangling.String())
	viper.SetDefault("seed", 0)
	viper.SetDefault("format", "plain")
	viper.SetDefault("db_path", ".linkrank/history.db")
	viper.SetDefault("telemetry_dir", ".linkrank/telemetry")
	viper.SetDefault("verbose", false)
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	SetDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var result error
	if !(c.Damping >= 0 && c.Damping <= 1) {
		result = multierror.Append(result, fmt.Errorf("damping must be in [0, 1], got %g", c.Damping))
	}
	if c.Samples <= 0 {
		result = multierror.Append(result, fmt.Errorf("samples must be positive, got %d", c.Samples))
	}
	if !(c.Threshold > 0) {
		result = multierror.Append(result, fmt.Errorf("threshold must be positive, got %g", c.Threshold))
	}
	if c.MaxIterations < 0 {
		result = multierror.Append(result, fmt.Errorf("max_iterations must not be negative, got %d", c.MaxIterations))
	}
	if _, err := rank.ParseDangling(c.Dangling); err != nil {
		result = multierror.Append(result, fmt.Errorf("dangling must be \"redistribute\" or \"drop\", got %q", c.Dangling))
	}
	if c.Format == "" {
		result = multierror.Append(result, errors.New("format must not be empty"))
	}
	return result
}

// RankOptions converts the estimator settings into rank.Options.
func (c Config) RankOptions() (rank.Options, error) {
	policy, err := rank.ParseDangling(c.Dangling)
	if err != nil {
		return rank.Options{}, err
	}
	return rank.Options{
		Damping:       c.Damping,
		Samples:       c.Samples,
		Threshold:     c.Threshold,
		MaxIterations: c.MaxIterations,
		Dangling:      policy,
	}, nil
}

// EffectiveSeed returns the configured seed, or a time-derived one when the
// seed is 0.
func (c Config) EffectiveSeed() uint64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return uint64(time.Now().UnixNano())
}
