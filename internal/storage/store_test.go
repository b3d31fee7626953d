package storage

import (
	"math"
	"testing"

	"github.com/san-kum/dpdsim/internal/dpd"
	"github.com/san-kum/dpdsim/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Frames: []sim.Frame{
			{Time: 0, Pos: dpd.Vector{1, 2, 3, 4, 5, 6}, Vel: dpd.Vector{0.1, 0.2, 0.3, -0.1, -0.2, -0.3}},
			{Time: 0.1, Pos: dpd.Vector{1.1, 2.1, 3.1, 4.1, 5.1, 6.1}, Vel: dpd.Vector{0.1, 0.2, 0.3, -0.1, -0.2, -0.3}},
		},
		Metrics:    map[string]float64{"temperature": 1.02},
		StepsTaken: 10,
	}
}

func TestSaveLoadMetadata(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	id, err := s.Save(2, 5.0, 0.01, 10, 1.0, 42, testResult())
	if err != nil {
		t.Fatal(err)
	}

	meta, err := s.Load(id)
	if err != nil {
		t.Fatal(err)
	}
	if meta.ID != id {
		t.Errorf("ID = %q, want %q", meta.ID, id)
	}
	if meta.Particles != 2 || meta.Box != 5.0 || meta.Dt != 0.01 || meta.Steps != 10 || meta.Seed != 42 {
		t.Errorf("metadata round trip lost fields: %+v", meta)
	}
	if got := meta.Metrics["temperature"]; got != 1.02 {
		t.Errorf("metric = %g, want 1.02", got)
	}
}

func TestLoadFramesRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	want := testResult()
	id, err := s.Save(2, 5.0, 0.01, 10, 1.0, 1, want)
	if err != nil {
		t.Fatal(err)
	}

	frames, err := s.LoadFrames(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != len(want.Frames) {
		t.Fatalf("got %d frames, want %d", len(frames), len(want.Frames))
	}
	for fi, fr := range frames {
		if math.Abs(fr.Time-want.Frames[fi].Time) > 1e-6 {
			t.Errorf("frame %d: time %g, want %g", fi, fr.Time, want.Frames[fi].Time)
		}
		for i := range fr.Pos {
			if math.Abs(fr.Pos[i]-want.Frames[fi].Pos[i]) > 1e-6 {
				t.Errorf("frame %d pos[%d]: %g, want %g", fi, i, fr.Pos[i], want.Frames[fi].Pos[i])
			}
			if math.Abs(fr.Vel[i]-want.Frames[fi].Vel[i]) > 1e-6 {
				t.Errorf("frame %d vel[%d]: %g, want %g", fi, i, fr.Vel[i], want.Frames[fi].Vel[i])
			}
		}
	}
}

func TestSaveEmptyTrajectory(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	res := &sim.Result{Metrics: map[string]float64{}}
	id, err := s.Save(0, 0, 0.01, 0, 1.0, 0, res)
	if err != nil {
		t.Fatal(err)
	}

	frames, err := s.LoadFrames(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 0 {
		t.Errorf("got %d frames from an empty trajectory", len(frames))
	}
}

func TestListRuns(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Fatalf("fresh store lists %d runs", len(runs))
	}

	if _, err := s.Save(2, 5.0, 0.01, 10, 1.0, 1, testResult()); err != nil {
		t.Fatal(err)
	}

	runs, err = s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("got %d runs, want 1", len(runs))
	}
}

func TestListMissingBaseDir(t *testing.T) {
	s := New(t.TempDir() + "/never-created")
	runs, err := s.List()
	if err != nil {
		t.Fatalf("missing base dir should list empty, got %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("got %d runs, want 0", len(runs))
	}
}
