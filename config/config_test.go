package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerwibrew/pswarm"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pswarm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := NewManager("").Load()
	require.NoError(t, err)

	assert.Equal(t, "Sphere", cfg.Function)
	assert.Equal(t, 2, cfg.Dimensions)
	assert.Equal(t, pswarm.DefaultSwarmSize, cfg.Swarm.Size)
	assert.Equal(t, pswarm.DefaultMaxIter, cfg.Swarm.MaxIter)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 1, cfg.Trials)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
function: Eggholder
seed: 42
trials: 3
swarm:
  size: 50
  threshold: -959
`)

	cfg, err := NewManager(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "Eggholder", cfg.Function)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 3, cfg.Trials)
	assert.Equal(t, 50, cfg.Swarm.Size)
	assert.Equal(t, -959.0, cfg.Swarm.Threshold)

	// keys absent from the file keep their defaults
	assert.Equal(t, pswarm.DefaultMaxIter, cfg.Swarm.MaxIter)
	assert.Equal(t, pswarm.DefaultInertia, cfg.Swarm.Inertia)
	assert.Equal(t, 1, cfg.Workers)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewManager(filepath.Join(t.TempDir(), "absent.yaml")).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading")
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, "function: [unclosed")

	_, err := NewManager(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
function: Ackley
seed: 1
`)

	t.Setenv("PSWARM_FUNCTION", "Schaffer2")
	t.Setenv("PSWARM_SEED", "99")
	t.Setenv("PSWARM_WORKERS", "4")
	t.Setenv("PSWARM_LOG_LEVEL", "debug")

	cfg, err := NewManager(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "Schaffer2", cfg.Function)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvOverrideIgnoresGarbage(t *testing.T) {
	t.Setenv("PSWARM_SEED", "not-a-number")

	cfg, err := NewManager("").Load()
	require.NoError(t, err)
	assert.Equal(t, int64(0), cfg.Seed)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mangle func(*Config)
	}{
		{"empty function", func(c *Config) { c.Function = "" }},
		{"negative dimensions", func(c *Config) { c.Dimensions = -1 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"zero trials", func(c *Config) { c.Trials = 0 }},
		{"bad log level", func(c *Config) { c.LogLevel = "chatty" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mangle(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")

	cfg := Default()
	cfg.Function = "HolderTable"
	cfg.Seed = 1234
	cfg.Swarm.Size = 64

	m := NewManager(path)
	require.NoError(t, m.Save(cfg))

	loaded, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestParams(t *testing.T) {
	cfg := Default()
	low := []float64{-10, -10}
	up := []float64{10, 10}

	p := cfg.Params(low, up)
	assert.Equal(t, low, p.Low)
	assert.Equal(t, up, p.Up)
	assert.Equal(t, cfg.Swarm.Size, p.SwarmSize)
	assert.Equal(t, cfg.Swarm.Threshold, p.Threshold)
	assert.NoError(t, p.Validate())
}
