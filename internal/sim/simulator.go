package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/dpdsim/internal/dpd"
	"github.com/san-kum/dpdsim/internal/neighbor"
	"github.com/san-kum/dpdsim/internal/thermostat"
)

// Simulator advances a thermostatted particle system one implicit step at
// a time: rebuild the interaction list, solve for the displacement
// correction, move particles, estimate midpoint velocities.
type Simulator struct {
	therm     *thermostat.Thermostat
	builder   *neighbor.Builder
	box       neighbor.Box
	metrics   []Metric
	observers []Observer
	pool      *VectorPool
}

func New(therm *thermostat.Thermostat, builder *neighbor.Builder, box neighbor.Box) *Simulator {
	return &Simulator{
		therm:   therm,
		builder: builder,
		box:     box,
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Thermostat exposes the underlying thermostat for stats queries.
func (s *Simulator) Thermostat() *thermostat.Thermostat { return s.therm }

// Step advances the system by one timestep. The returned buffers come from
// the simulator's pool; callers that retain them across steps must Clone.
func (s *Simulator) Step(step int64, pos, vel dpd.Vector) (dpd.Vector, dpd.Vector) {
	list := s.builder.Build(pos, step)
	dr := s.therm.Displacement(list, vel)

	inv := 1.0 / s.therm.Dt()
	newPos := s.buf(len(pos))
	newVel := s.buf(len(pos))
	for i := range pos {
		newPos[i] = s.box.Wrap(pos[i] + dr[i])
		newVel[i] = dr[i] * inv
	}
	return newPos, newVel
}

func (s *Simulator) buf(n int) dpd.Vector {
	if s.pool == nil || s.pool.Size() != n {
		s.pool = NewVectorPool(n)
	}
	return s.pool.Get()
}

func (s *Simulator) Run(ctx context.Context, pos0, vel0 dpd.Vector, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(pos0) != len(vel0) {
		return nil, fmt.Errorf("%w: %d positions vs %d velocities", dpd.ErrInvalidState, len(pos0), len(vel0))
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		Frames:  make([]Frame, 0, cfg.Steps/cfg.SampleEvery+1),
		Metrics: make(map[string]float64),
	}

	pos, vel := pos0.Clone(), vel0.Clone()
	t := 0.0
	dt := s.therm.Dt()

	result.Frames = append(result.Frames, Frame{Time: t, Pos: pos.Clone(), Vel: vel.Clone()})

	for step := 0; step < cfg.Steps; step++ {
		select {
		case <-ctx.Done():
			result.SolverStats = s.therm.SolverStats()
			return result, ctx.Err()
		default:
		}

		newPos, newVel := s.Step(int64(step), pos, vel)
		if s.pool != nil {
			s.pool.Put(pos)
			s.pool.Put(vel)
		}
		pos, vel = newPos, newVel
		t += dt
		result.StepsTaken++

		if cfg.ValidateState && !(pos.IsValid() && vel.IsValid()) {
			err := SimError{Step: step, Time: t, Message: "invalid state (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			break
		}

		for _, m := range s.metrics {
			m.Observe(pos, vel, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(pos, vel, t)
		}

		if (step+1)%cfg.SampleEvery == 0 {
			result.Frames = append(result.Frames, Frame{Time: t, Pos: pos.Clone(), Vel: vel.Clone()})
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.SolverStats = s.therm.SolverStats()

	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.Steps <= 0 {
		return fmt.Errorf("sim: steps must be positive, got %d", cfg.Steps)
	}
	if cfg.SampleEvery <= 0 {
		return fmt.Errorf("sim: sample interval must be positive, got %d", cfg.SampleEvery)
	}
	return nil
}
