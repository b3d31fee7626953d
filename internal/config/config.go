// Package config loads and validates run configuration for dpdsim.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dpdsim/internal/dpd"
	"github.com/san-kum/dpdsim/internal/krylov"
)

const (
	DefaultParticles   = 256
	DefaultDensity     = 3.0
	DefaultDt          = 0.01
	DefaultSteps       = 1000
	DefaultTemperature = 1.0
	DefaultA0          = 25.0
	DefaultGamma       = 4.5
	DefaultCutoff      = 1.0
	DefaultSampleEvery = 10
)

// PairCoeff is one (type,type) coefficient entry.
type PairCoeff struct {
	I      int     `yaml:"i"`
	J      int     `yaml:"j"`
	A0     float64 `yaml:"a0"`
	Gamma  float64 `yaml:"gamma"`
	Cutoff float64 `yaml:"cutoff"`
}

// SolverConfig are the Krylov solver knobs.
type SolverConfig struct {
	KMax        int     `yaml:"kmax"`
	Tol         float64 `yaml:"tol"`
	FixedBudget bool    `yaml:"fixed_budget"`
}

type Config struct {
	Particles   int          `yaml:"particles"`
	Types       int          `yaml:"types"`
	Box         float64      `yaml:"box"`
	Density     float64      `yaml:"density"`
	Dt          float64      `yaml:"dt"`
	Steps       int          `yaml:"steps"`
	SampleEvery int          `yaml:"sample_every"`
	Temperature float64      `yaml:"temperature"`
	Seed        int64        `yaml:"seed"`
	Pairs       []PairCoeff  `yaml:"pairs"`
	Solver      SolverConfig `yaml:"solver"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles:   DefaultParticles,
		Types:       1,
		Density:     DefaultDensity,
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		SampleEvery: DefaultSampleEvery,
		Temperature: DefaultTemperature,
		Pairs: []PairCoeff{
			{I: 0, J: 0, A0: DefaultA0, Gamma: DefaultGamma, Cutoff: DefaultCutoff},
		},
		Solver: SolverConfig{
			KMax: krylov.DefaultMaxIter,
			Tol:  krylov.DefaultTol,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations the solver and thermostat would only
// notice mid-run.
func (c *Config) Validate() error {
	if c.Particles < 2 {
		return fmt.Errorf("config: need at least 2 particles, got %d", c.Particles)
	}
	if c.Types < 1 {
		return fmt.Errorf("config: need at least 1 type, got %d", c.Types)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %g", c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("config: steps must be positive, got %d", c.Steps)
	}
	if c.Temperature < 0 {
		return fmt.Errorf("config: temperature must be non-negative, got %g", c.Temperature)
	}
	if c.Box <= 0 && c.Density <= 0 {
		return fmt.Errorf("config: either box or density must be positive")
	}
	if c.Solver.KMax < 0 || c.Solver.KMax > krylov.MaxSubspace {
		return fmt.Errorf("config: solver kmax %d outside (0, %d]", c.Solver.KMax, krylov.MaxSubspace)
	}
	if len(c.Pairs) == 0 {
		return fmt.Errorf("config: no pair coefficients")
	}
	return nil
}

// BoxLength returns the explicit box size, or the one derived from the
// number density when unset.
func (c *Config) BoxLength() float64 {
	if c.Box > 0 {
		return c.Box
	}
	return math.Cbrt(float64(c.Particles) / c.Density)
}

// CoeffTable builds the symmetric coefficient table from the pair entries
// and mixes sigma for the target temperature.
func (c *Config) CoeffTable() (*dpd.CoeffTable, error) {
	t := dpd.NewCoeffTable(c.Types)
	for _, p := range c.Pairs {
		if err := t.Set(p.I, p.J, p.A0, p.Gamma, p.Cutoff); err != nil {
			return nil, err
		}
	}
	if err := t.Mix(1.0, c.Temperature); err != nil {
		return nil, err
	}
	return t, nil
}

// ParticleTypes assigns types round-robin over the configured type count.
func (c *Config) ParticleTypes() []int {
	types := make([]int, c.Particles)
	for i := range types {
		types[i] = i % c.Types
	}
	return types
}

// SolverOptions maps the config knobs onto the solver's option struct.
func (c *Config) SolverOptions() krylov.Options {
	return krylov.Options{
		MaxIter:     c.Solver.KMax,
		Tol:         c.Solver.Tol,
		FixedBudget: c.Solver.FixedBudget,
	}
}
