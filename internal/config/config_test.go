package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/lstm/internal/parity"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lstm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5, cfg.NumHidden)
	assert.Equal(t, 3, cfg.NumOutput)
	assert.Equal(t, 4, cfg.NumFeatures)
	assert.Equal(t, 1, cfg.BatchSize)
	assert.Equal(t, 1, cfg.Steps)
	assert.Equal(t, parity.DefaultDecimal, cfg.Decimal)
	assert.Equal(t, "char", cfg.Encoding)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeFile(t, `
n_hidden: 8
batch_size: 4
seed: 42
encoding: cl100k_base
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.NumHidden)
	assert.Equal(t, 4, cfg.BatchSize)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, "cl100k_base", cfg.Encoding)

	// Keys missing from the file keep their defaults.
	assert.Equal(t, 3, cfg.NumOutput)
	assert.Equal(t, 4, cfg.NumFeatures)
	assert.Equal(t, 1, cfg.Steps)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeFile(t, "n_hidden: 0\n"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(writeFile(t, "decimal: -2\n"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(writeFile(t, "n_hidden: [1, 2\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_Parity(t *testing.T) {
	cfg := Default()
	cfg.Steps = 3
	cfg.Seed = 9

	p := cfg.Parity()
	assert.Equal(t, parity.Config{
		NumHidden:   5,
		NumOutput:   3,
		NumFeatures: 4,
		BatchSize:   1,
		Steps:       3,
		Decimal:     parity.DefaultDecimal,
		Seed:        9,
	}, p)
}
