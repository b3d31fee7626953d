package metrics

import (
	"github.com/san-kum/dpdsim/internal/dpd"
	"github.com/san-kum/dpdsim/internal/thermostat"
)

// SolverIterations reports the mean number of Lanczos iterations per
// implicit solve, read from the thermostat's cumulative counters.
type SolverIterations struct {
	therm *thermostat.Thermostat
	base  int // iterations already counted before this run
	baseS int
}

func NewSolverIterations(th *thermostat.Thermostat) *SolverIterations {
	return &SolverIterations{therm: th}
}

func (m *SolverIterations) Name() string { return "solver_iterations" }

func (m *SolverIterations) Observe(pos, vel dpd.Vector, t float64) {}

func (m *SolverIterations) Value() float64 {
	s := m.therm.SolverStats()
	solves := s.Solves - m.baseS
	if solves == 0 {
		return 0
	}
	return float64(s.Iterations-m.base) / float64(solves)
}

func (m *SolverIterations) Reset() {
	s := m.therm.SolverStats()
	m.base = s.Iterations
	m.baseS = s.Solves
}
