// Package config holds the run configuration of the lstm command.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/lstm/internal/parity"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("invalid configuration")

// Config is the run configuration.
//
// Example file:
//
//	n_hidden: 5
//	n_output: 3
//	n_features: 4
//	batch_size: 2
//	steps: 3
//	decimal: 6
//	seed: 42
//	encoding: char
type Config struct {
	NumHidden   int    `yaml:"n_hidden"`
	NumOutput   int    `yaml:"n_output"`
	NumFeatures int    `yaml:"n_features"`
	BatchSize   int    `yaml:"batch_size"`
	Steps       int    `yaml:"steps"`
	Decimal     int    `yaml:"decimal"`
	Seed        uint64 `yaml:"seed"`
	Encoding    string `yaml:"encoding"` // "char" or a tiktoken encoding name
}

// Default returns a single-sample, single-step run of a 4-5-3 cell.
func Default() Config {
	return Config{
		NumHidden:   5,
		NumOutput:   3,
		NumFeatures: 4,
		BatchSize:   1,
		Steps:       1,
		Decimal:     parity.DefaultDecimal,
		Encoding:    "char",
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that all dimensions are positive.
func (c Config) Validate() error {
	for _, f := range []struct {
		name  string
		value int
	}{
		{"n_hidden", c.NumHidden},
		{"n_output", c.NumOutput},
		{"n_features", c.NumFeatures},
		{"batch_size", c.BatchSize},
		{"steps", c.Steps},
	} {
		if f.value <= 0 {
			return fmt.Errorf("config: %w: %s must be > 0, got %d", ErrInvalid, f.name, f.value)
		}
	}
	if c.Decimal < 0 {
		return fmt.Errorf("config: %w: decimal must be >= 0, got %d", ErrInvalid, c.Decimal)
	}
	return nil
}

// Parity converts the configuration into a comparison run.
func (c Config) Parity() parity.Config {
	return parity.Config{
		NumHidden:   c.NumHidden,
		NumOutput:   c.NumOutput,
		NumFeatures: c.NumFeatures,
		BatchSize:   c.BatchSize,
		Steps:       c.Steps,
		Decimal:     c.Decimal,
		Seed:        c.Seed,
	}
}
