package sim

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/dpdsim/internal/dpd"
	"github.com/san-kum/dpdsim/internal/krylov"
	"github.com/san-kum/dpdsim/internal/neighbor"
	"github.com/san-kum/dpdsim/internal/thermostat"
)

func testSimulator(t *testing.T, seed int64) (*Simulator, dpd.Vector, dpd.Vector) {
	t.Helper()
	coeffs := dpd.NewCoeffTable(1)
	if err := coeffs.Set(0, 0, 25.0, 4.5, 1.0); err != nil {
		t.Fatal(err)
	}
	if err := coeffs.Mix(thermostat.Boltzmann, 1.0); err != nil {
		t.Fatal(err)
	}
	th, err := thermostat.New(coeffs, 0.01, krylov.Options{})
	if err != nil {
		t.Fatal(err)
	}

	n := 27
	box := neighbor.Box{L: 3.0, Periodic: true}
	types := make([]int, n)
	builder := neighbor.NewBuilder(box, coeffs, types, seed)

	rng := rand.New(rand.NewSource(seed))
	pos := Lattice(n, box.L, rng)
	vel := MaxwellVelocities(n, 1.0, rng)
	return New(th, builder, box), pos, vel
}

func TestRunFrameCount(t *testing.T) {
	s, pos, vel := testSimulator(t, 1)

	cfg := Config{Steps: 20, SampleEvery: 5, ValidateState: true}
	res, err := s.Run(context.Background(), pos, vel, cfg)
	if err != nil {
		t.Fatal(err)
	}

	// Initial frame plus one sample every 5 steps.
	if got, want := len(res.Frames), 5; got != want {
		t.Errorf("got %d frames, want %d", got, want)
	}
	if res.StepsTaken != 20 {
		t.Errorf("StepsTaken = %d, want 20", res.StepsTaken)
	}
	if len(res.Errors) != 0 {
		t.Errorf("unexpected run errors: %v", res.Errors)
	}

	last := res.Frames[len(res.Frames)-1]
	if math.Abs(last.Time-0.2) > 1e-12 {
		t.Errorf("final frame time = %g, want 0.2", last.Time)
	}
	if !last.Pos.IsValid() || !last.Vel.IsValid() {
		t.Error("final frame holds non-finite state")
	}
}

func TestRunSolverStatsAccumulate(t *testing.T) {
	s, pos, vel := testSimulator(t, 2)

	res, err := s.Run(context.Background(), pos, vel, Config{Steps: 10, SampleEvery: 10})
	if err != nil {
		t.Fatal(err)
	}
	if res.SolverStats.Solves != 10 {
		t.Errorf("Solves = %d, want one per step", res.SolverStats.Solves)
	}
	if res.SolverStats.Applies == 0 {
		t.Error("expected operator applications to be counted")
	}
}

func TestRunInvalidConfig(t *testing.T) {
	s, pos, vel := testSimulator(t, 3)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero steps", Config{Steps: 0, SampleEvery: 5}},
		{"negative steps", Config{Steps: -1, SampleEvery: 5}},
		{"zero sample interval", Config{Steps: 10, SampleEvery: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Run(context.Background(), pos, vel, tt.cfg); err == nil {
				t.Error("expected config validation error")
			}
		})
	}
}

func TestRunMismatchedState(t *testing.T) {
	s, pos, _ := testSimulator(t, 4)
	_, err := s.Run(context.Background(), pos, dpd.NewVector(1), Config{Steps: 1, SampleEvery: 1})
	if err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestRunContextCancel(t *testing.T) {
	s, pos, vel := testSimulator(t, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.Run(ctx, pos, vel, Config{Steps: 100, SampleEvery: 10})
	if err != context.Canceled {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if res == nil || res.StepsTaken != 0 {
		t.Errorf("cancelled before the first step, StepsTaken = %d", res.StepsTaken)
	}
}

func TestRunPreservesInputs(t *testing.T) {
	s, pos, vel := testSimulator(t, 6)
	posCopy, velCopy := pos.Clone(), vel.Clone()

	if _, err := s.Run(context.Background(), pos, vel, Config{Steps: 5, SampleEvery: 5}); err != nil {
		t.Fatal(err)
	}
	for i := range pos {
		if pos[i] != posCopy[i] || vel[i] != velCopy[i] {
			t.Fatal("Run mutated its input state")
		}
	}
}

func TestStepWrapsPositions(t *testing.T) {
	s, pos, vel := testSimulator(t, 7)

	newPos, _ := s.Step(0, pos, vel)
	for i, x := range newPos {
		if x < 0 || x >= 3.0 {
			t.Errorf("position %d = %g outside [0, L)", i, x)
		}
	}
}

func TestEnsembleIndependentReplicas(t *testing.T) {
	factory := func(seed int64) (*Simulator, error) {
		s, _, _ := testSimulator(t, seed)
		return s, nil
	}
	_, pos, vel := testSimulator(t, 10)

	e := NewEnsemble(factory, 4, 10)
	results, err := e.Run(context.Background(), pos, vel, Config{Steps: 5, SampleEvery: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	for i, res := range results {
		if res.StepsTaken != 5 {
			t.Errorf("replica %d: StepsTaken = %d, want 5", i, res.StepsTaken)
		}
	}

	// Different noise seeds must yield distinct trajectories.
	a := results[0].Frames[len(results[0].Frames)-1].Pos
	b := results[1].Frames[len(results[1].Frames)-1].Pos
	if a.Sub(b).Norm() == 0 {
		t.Error("replicas with different seeds produced identical trajectories")
	}
}

func TestLatticeInsideBox(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pos := Lattice(27, 3.0, rng)

	if pos.Particles() != 27 {
		t.Fatalf("got %d particles, want 27", pos.Particles())
	}
	for i, x := range pos {
		if x < 0 || x > 3.0 {
			t.Errorf("coordinate %d = %g outside the box", i, x)
		}
	}
}

func TestMaxwellVelocitiesZeroMomentum(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	vel := MaxwellVelocities(100, 1.0, rng)

	for c := 0; c < 3; c++ {
		sum := 0.0
		for i := 0; i < 100; i++ {
			sum += vel[3*i+c]
		}
		if math.Abs(sum) > 1e-10 {
			t.Errorf("net momentum component %d = %g, want 0", c, sum)
		}
	}
}

func TestVectorPoolRoundTrip(t *testing.T) {
	p := NewVectorPool(6)
	v := p.Get()
	if len(v) != 6 {
		t.Fatalf("Get returned length %d, want 6", len(v))
	}
	for i := range v {
		v[i] = float64(i)
	}
	p.Put(v)

	w := p.Get()
	for i, x := range w {
		if x != 0 {
			t.Errorf("recycled buffer not zeroed at %d: %g", i, x)
		}
	}
}
