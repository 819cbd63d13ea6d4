package config

import (
	"errors"
	"os"
	"strings"
	"testing"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"

	"github.com/papapumpkin/linkrank/internal/rank"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Damping", cfg.Damping, 0.85},
		{"Samples", cfg.Samples, 10000},
		{"Threshold", cfg.Threshold, 0.001},
		{"MaxIterations", cfg.MaxIterations, 0},
		{"Dangling", cfg.Dangling, "redistribute"},
		{"Seed", cfg.Seed, uint64(0)},
		{"Format", cfg.Format, "plain"},
		{"DBPath", cfg.DBPath, ".linkrank/history.db"},
		{"TelemetryDir", cfg.TelemetryDir, ".linkrank/telemetry"},
		{"Verbose", cfg.Verbose, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetViper()

	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "damping",
			envKey: "LINKRANK_DAMPING",
			envVal: "0.5",
			field:  func(c Config) any { return c.Damping },
			want:   0.5,
		},
		{
			name:   "samples",
			envKey: "LINKRANK_SAMPLES",
			envVal: "250",
			field:  func(c Config) any { return c.Samples },
			want:   250,
		},
		{
			name:   "max_iterations",
			envKey: "LINKRANK_MAX_ITERATIONS",
			envVal: "40",
			field:  func(c Config) any { return c.MaxIterations },
			want:   40,
		},
		{
			name:   "dangling",
			envKey: "LINKRANK_DANGLING",
			envVal: "drop",
			field:  func(c Config) any { return c.Dangling },
			want:   "drop",
		},
		{
			name:   "seed",
			envKey: "LINKRANK_SEED",
			envVal: "42",
			field:  func(c Config) any { return c.Seed },
			want:   uint64(42),
		},
		{
			name:   "db_path",
			envKey: "LINKRANK_DB_PATH",
			envVal: "/tmp/runs.db",
			field:  func(c Config) any { return c.DBPath },
			want:   "/tmp/runs.db",
		},
		{
			name:   "verbose",
			envKey: "LINKRANK_VERBOSE",
			envVal: "true",
			field:  func(c Config) any { return c.Verbose },
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			// Set env prefix so LINKRANK_* env vars map to config keys.
			viper.SetEnvPrefix("LINKRANK")
			viper.AutomaticEnv()

			os.Setenv(tt.envKey, tt.envVal)
			defer os.Unsetenv(tt.envKey)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			got := tt.field(cfg)
			if got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLoad_ExplicitValuesWin(t *testing.T) {
	resetViper()
	viper.Set("samples", 77)
	viper.Set("format", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Samples != 77 {
		t.Errorf("Samples = %d, want 77", cfg.Samples)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	cfg := Config{
		Damping:       1.5,
		Samples:       0,
		Threshold:     -1,
		MaxIterations: -2,
		Dangling:      "teleport",
		Format:        "",
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("error %T is not a *multierror.Error", err)
	}
	if len(merr.Errors) != 6 {
		t.Errorf("got %d problems, want 6:\n%v", len(merr.Errors), err)
	}
	for _, key := range []string{"damping", "samples", "threshold", "max_iterations", "dangling", "format"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error does not mention %s:\n%v", key, err)
		}
	}
}

func TestRankOptions(t *testing.T) {
	cfg := Config{
		Damping:       0.7,
		Samples:       500,
		Threshold:     1e-4,
		MaxIterations: 30,
		Dangling:      "drop",
	}

	opts, err := cfg.RankOptions()
	if err != nil {
		t.Fatalf("RankOptions: %v", err)
	}
	want := rank.Options{
		Damping:       0.7,
		Samples:       500,
		Threshold:     1e-4,
		MaxIterations: 30,
		Dangling:      rank.DanglingDrop,
	}
	if opts.Damping != want.Damping || opts.Samples != want.Samples ||
		opts.Threshold != want.Threshold || opts.MaxIterations != want.MaxIterations ||
		opts.Dangling != want.Dangling {
		t.Errorf("RankOptions() = %+v, want %+v", opts, want)
	}

	cfg.Dangling = "sideways"
	if _, err := cfg.RankOptions(); !errors.Is(err, rank.ErrInvalidInput) {
		t.Errorf("bad policy: got %v, want rank.ErrInvalidInput", err)
	}
}

func TestEffectiveSeed(t *testing.T) {
	if got := (Config{Seed: 9}).EffectiveSeed(); got != 9 {
		t.Errorf("EffectiveSeed() = %d, want 9", got)
	}
	if got := (Config{}).EffectiveSeed(); got == 0 {
		t.Error("EffectiveSeed() with seed 0 should derive a non-zero seed")
	}
}
