package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config holds the settings for building and training a network.
type Config struct {
	Layers    []int // widths, first entry is the input width
	Inputs    []float64
	Seed      uint64
	Steps     int
	LR        float64
	Optimizer string // "sgd" or "adam"
	DataPath  string
	DataURL   string
	DotPath   string
	LogLevel  slog.Level
}

// Default returns the configuration of the reference 3-4-5-1 network.
func Default() *Config {
	return &Config{
		Layers:    []int{3, 4, 5, 1},
		Inputs:    []float64{0.1, 0.2, 0.3},
		Seed:      42,
		Steps:     0,
		LR:        0.05,
		Optimizer: "sgd",
		LogLevel:  slog.LevelInfo,
	}
}

// Load loads the configuration from environment variables.
// It attempts to find a .env file in the current or parent directories.
func Load() (*Config, error) {
	// A missing .env is fine; an unreadable one is not.
	if err := loadEnvFile(); err != nil {
		return nil, errors.Wrap(err, "loading .env")
	}

	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, starting from Default.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if v, ok := lookup("BACKPROP_LAYERS"); ok && v != "" {
		layers, err := ParseInts(v)
		if err != nil {
			return nil, errors.Wrap(err, "BACKPROP_LAYERS")
		}
		cfg.Layers = layers
	}
	if v, ok := lookup("BACKPROP_INPUTS"); ok && v != "" {
		inputs, err := ParseFloats(v)
		if err != nil {
			return nil, errors.Wrap(err, "BACKPROP_INPUTS")
		}
		cfg.Inputs = inputs
	}
	if v, ok := lookup("BACKPROP_SEED"); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "BACKPROP_SEED")
		}
		cfg.Seed = seed
	}
	if v, ok := lookup("BACKPROP_STEPS"); ok && v != "" {
		steps, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Wrap(err, "BACKPROP_STEPS")
		}
		cfg.Steps = steps
	}
	if v, ok := lookup("BACKPROP_LR"); ok && v != "" {
		lr, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.Wrap(err, "BACKPROP_LR")
		}
		cfg.LR = lr
	}
	if v, ok := lookup("BACKPROP_OPTIMIZER"); ok && v != "" {
		cfg.Optimizer = strings.ToLower(v)
	}
	if v, ok := lookup("BACKPROP_DATA"); ok {
		cfg.DataPath = v
	}
	if v, ok := lookup("BACKPROP_DATA_URL"); ok {
		cfg.DataURL = v
	}
	if v, ok := lookup("BACKPROP_DOT"); ok {
		cfg.DotPath = v
	}
	if v, ok := lookup("BACKPROP_LOG_LEVEL"); ok && v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, errors.Wrap(err, "BACKPROP_LOG_LEVEL")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot be caught at parse time.
func (c *Config) Validate() error {
	if len(c.Layers) < 2 {
		return errors.Errorf("need an input width and at least one layer, got %v", c.Layers)
	}
	for _, w := range c.Layers {
		if w <= 0 {
			return errors.Errorf("layer widths must be positive, got %v", c.Layers)
		}
	}
	if c.Steps < 0 {
		return errors.Errorf("steps must be >= 0, got %d", c.Steps)
	}
	switch c.Optimizer {
	case "sgd", "adam":
	default:
		return errors.Errorf("unknown optimizer %q", c.Optimizer)
	}
	return nil
}

// ParseInts parses a comma separated list such as "3,4,5,1".
func ParseInts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %q", s)
		}
		out = append(out, n)
	}
	return out, nil
}

// ParseFloats parses a comma separated list such as "0.1,0.2,0.3".
func ParseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %q", s)
		}
		out = append(out, f)
	}
	return out, nil
}

// loadEnvFile attempts to look up until it finds a .env file
func loadEnvFile() error {
	dir, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "resolving working directory")
	}

	// Look up to 5 levels
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			return errors.Wrap(godotenv.Load(envPath), envPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil
}
