package sim

import (
	"fmt"

	"github.com/san-kum/dpdsim/internal/dpd"
	"github.com/san-kum/dpdsim/internal/krylov"
)

// Config controls one simulation run. Dt lives on the thermostat; the
// driver only decides how many steps to take and what to record.
type Config struct {
	Steps         int
	SampleEvery   int
	Seed          int64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Steps:         1000,
		SampleEvery:   10,
		ValidateState: true,
	}
}

// Frame is one recorded trajectory sample.
type Frame struct {
	Time float64
	Pos  dpd.Vector
	Vel  dpd.Vector
}

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(pos, vel dpd.Vector, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every completed step.
type Observer interface {
	OnStep(pos, vel dpd.Vector, t float64)
}

// Result collects the trajectory samples and final metric values of a run.
type Result struct {
	Frames      []Frame
	Metrics     map[string]float64
	StepsTaken  int
	SolverStats krylov.Stats
	Errors      []error
}

// SimError carries the step and time at which a run went bad.
type SimError struct {
	Step    int
	Time    float64
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
