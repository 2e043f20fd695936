// Package config loads, validates, and saves optimization run
// configuration for the pswarm command. Files are YAML; a handful of
// PSWARM_* environment variables override file values for
// script-level tweaking without editing files.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rogerwibrew/pswarm"
)

// Config describes one optimization run of a named benchmark
// function.
type Config struct {
	// Function names the benchmark function to optimize.
	Function string `yaml:"function"`
	// Dimensions sizes functions with scalable dimensionality; fixed
	// two-dimensional functions ignore it.
	Dimensions int `yaml:"dimensions"`

	Swarm SwarmConfig `yaml:"swarm"`

	// Seed fixes the random stream for reproducible runs; zero draws
	// fresh entropy instead.
	Seed int64 `yaml:"seed"`
	// Workers greater than one evaluates each sweep on a parallel
	// worker pool. The trajectory is identical either way.
	Workers int `yaml:"workers"`
	// Trials is the number of independent runs to perform and report.
	Trials int `yaml:"trials"`
	// Database, when set, is a sqlite file recording every iteration
	// of every trial.
	Database string `yaml:"database"`
	// ArchiveSize, when positive, keeps that many elite points per
	// run.
	ArchiveSize int `yaml:"archive_size"`

	LogLevel string `yaml:"log_level"`
}

type SwarmConfig struct {
	Size            int     `yaml:"size"`
	MaxIter         int     `yaml:"max_iter"`
	Inertia         float64 `yaml:"inertia"`
	Cognitive       float64 `yaml:"cognitive"`
	Social          float64 `yaml:"social"`
	VelClampFactor  float64 `yaml:"vel_clamp_factor"`
	Threshold       float64 `yaml:"threshold"`
	StagnationIters int     `yaml:"stagnation_iters"`
}

// Default returns the configuration used when no file is given. File
// values are unmarshalled over it, so absent keys keep these values.
func Default() *Config {
	return &Config{
		Function:   "Sphere",
		Dimensions: 2,
		Swarm: SwarmConfig{
			Size:            pswarm.DefaultSwarmSize,
			MaxIter:         pswarm.DefaultMaxIter,
			Inertia:         pswarm.DefaultInertia,
			Cognitive:       pswarm.DefaultCognitive,
			Social:          pswarm.DefaultSocial,
			VelClampFactor:  pswarm.DefaultVelClampFactor,
			Threshold:       pswarm.DefaultThreshold,
			StagnationIters: pswarm.DefaultStagnationIters,
		},
		Workers:  1,
		Trials:   1,
		LogLevel: "info",
	}
}

// Manager loads and saves configuration at a fixed path.
type Manager struct {
	path string
}

func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Load reads the manager's file (defaults only when the path is
// empty), applies environment overrides, and validates the result.
func (m *Manager) Load() (*Config, error) {
	cfg := Default()

	if m.path != "" {
		data, err := os.ReadFile(m.path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %v: %w", m.path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %v: %w", m.path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to the manager's path as YAML.
func (m *Manager) Save(cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %v: %w", m.path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PSWARM_FUNCTION"); v != "" {
		cfg.Function = v
	}
	if v := os.Getenv("PSWARM_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
	if v := os.Getenv("PSWARM_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("PSWARM_DATABASE"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("PSWARM_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// Validate checks the fields the engine cannot check itself; bounds
// and swarm parameters get their full validation from
// pswarm.Params.Validate at run time.
func (c *Config) Validate() error {
	if c.Function == "" {
		return fmt.Errorf("config: function must be set")
	}
	if c.Dimensions < 0 {
		return fmt.Errorf("config: negative dimensions %v", c.Dimensions)
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: negative workers %v", c.Workers)
	}
	if c.Trials < 1 {
		return fmt.Errorf("config: trials %v, need at least 1", c.Trials)
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("config: log level %q: %w", c.LogLevel, err)
		}
	}
	return nil
}

// Params assembles engine parameters from the swarm section and the
// given search bounds.
func (c *Config) Params(low, up []float64) pswarm.Params {
	return pswarm.Params{
		Low:             low,
		Up:              up,
		SwarmSize:       c.Swarm.Size,
		MaxIter:         c.Swarm.MaxIter,
		Inertia:         c.Swarm.Inertia,
		Cognitive:       c.Swarm.Cognitive,
		Social:          c.Swarm.Social,
		VelClampFactor:  c.Swarm.VelClampFactor,
		Threshold:       c.Swarm.Threshold,
		StagnationIters: c.Swarm.StagnationIters,
	}
}
