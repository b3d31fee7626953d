package config

// Presets are named ready-to-run configurations.
var Presets = map[string]*Config{
	// Standard water-like DPD fluid at equilibrium density.
	"equilibrium": {
		Particles: 256, Types: 1, Density: 3.0,
		Dt: 0.01, Steps: 2000, SampleEvery: 10, Temperature: 1.0,
		Pairs:  []PairCoeff{{I: 0, J: 0, A0: 25.0, Gamma: 4.5, Cutoff: 1.0}},
		Solver: SolverConfig{KMax: 10, Tol: 1e-5},
	},
	// Hot start quenched by a strong thermostat; stresses the implicit
	// solve with large friction.
	"quench": {
		Particles: 256, Types: 1, Density: 3.0,
		Dt: 0.01, Steps: 2000, SampleEvery: 10, Temperature: 0.5,
		Pairs:  []PairCoeff{{I: 0, J: 0, A0: 25.0, Gamma: 40.0, Cutoff: 1.0}},
		Solver: SolverConfig{KMax: 16, Tol: 1e-6},
	},
	// Dense binary mixture with asymmetric repulsion.
	"dense": {
		Particles: 512, Types: 2, Density: 5.0,
		Dt: 0.005, Steps: 4000, SampleEvery: 20, Temperature: 1.0,
		Pairs: []PairCoeff{
			{I: 0, J: 0, A0: 25.0, Gamma: 4.5, Cutoff: 1.0},
			{I: 0, J: 1, A0: 40.0, Gamma: 4.5, Cutoff: 1.0},
			{I: 1, J: 1, A0: 25.0, Gamma: 4.5, Cutoff: 1.0},
		},
		Solver: SolverConfig{KMax: 10, Tol: 1e-5},
	},
}

// ListPresets returns the available preset names.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *p
	c.Pairs = append([]PairCoeff(nil), p.Pairs...)
	return &c
}
