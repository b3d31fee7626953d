package config

import (
	"math"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"too few particles", func(c *Config) { c.Particles = 1 }},
		{"no types", func(c *Config) { c.Types = 0 }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -0.01 }},
		{"zero steps", func(c *Config) { c.Steps = 0 }},
		{"negative temperature", func(c *Config) { c.Temperature = -1 }},
		{"no box or density", func(c *Config) { c.Box = 0; c.Density = 0 }},
		{"kmax over cap", func(c *Config) { c.Solver.KMax = 64 }},
		{"no pairs", func(c *Config) { c.Pairs = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Particles = 128
	cfg.Temperature = 1.5
	cfg.Solver.KMax = 16
	cfg.Solver.FixedBudget = true
	cfg.Pairs = []PairCoeff{{I: 0, J: 0, A0: 30, Gamma: 9, Cutoff: 1.2}}

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Particles != 128 || got.Temperature != 1.5 {
		t.Errorf("round trip lost scalars: %+v", got)
	}
	if got.Solver.KMax != 16 || !got.Solver.FixedBudget {
		t.Errorf("round trip lost solver knobs: %+v", got.Solver)
	}
	if len(got.Pairs) != 1 || got.Pairs[0].A0 != 30 {
		t.Errorf("round trip lost pair coefficients: %+v", got.Pairs)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dt = -1
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected validation error on load")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBoxLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Box = 7.5
	if got := cfg.BoxLength(); got != 7.5 {
		t.Errorf("explicit box: got %g, want 7.5", got)
	}

	cfg.Box = 0
	cfg.Particles = 81
	cfg.Density = 3.0
	if got, want := cfg.BoxLength(), math.Cbrt(27.0); math.Abs(got-want) > 1e-12 {
		t.Errorf("derived box: got %g, want %g", got, want)
	}
}

func TestCoeffTableMixed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Temperature = 2.0
	tab, err := cfg.CoeffTable()
	if err != nil {
		t.Fatal(err)
	}

	want := math.Sqrt(2.0 * 2.0 * DefaultGamma)
	if got := tab.Sigma(0, 0); math.Abs(got-want) > 1e-15 {
		t.Errorf("Sigma = %g, want %g", got, want)
	}
}

func TestCoeffTableIncomplete(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Types = 2 // pairs only cover (0,0)
	if _, err := cfg.CoeffTable(); err == nil {
		t.Error("expected error for missing cross-type coefficients")
	}
}

func TestParticleTypesRoundRobin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Particles = 5
	cfg.Types = 2
	got := cfg.ParticleTypes()
	want := []int{0, 1, 0, 1, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ParticleTypes() = %v, want %v", got, want)
		}
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			p := GetPreset(name)
			if p == nil {
				t.Fatal("listed preset not retrievable")
			}
			if err := p.Validate(); err != nil {
				t.Errorf("preset does not validate: %v", err)
			}
			if _, err := p.CoeffTable(); err != nil {
				t.Errorf("preset coefficient table: %v", err)
			}
		})
	}
}

func TestGetPresetReturnsCopy(t *testing.T) {
	a := GetPreset("equilibrium")
	if a == nil {
		t.Fatal("missing equilibrium preset")
	}
	a.Steps = 1
	a.Pairs[0].A0 = -99

	b := GetPreset("equilibrium")
	if b.Steps == 1 || b.Pairs[0].A0 == -99 {
		t.Error("preset mutation leaked into the shared table")
	}

	if GetPreset("no-such-preset") != nil {
		t.Error("unknown preset should return nil")
	}
}
