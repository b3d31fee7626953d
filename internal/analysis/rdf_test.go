package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/dpdsim/internal/dpd"
	"github.com/san-kum/dpdsim/internal/neighbor"
	"github.com/san-kum/dpdsim/internal/sim"
)

func TestComputeRDFSinglePair(t *testing.T) {
	box := neighbor.Box{L: 10, Periodic: true}
	frames := []sim.Frame{{
		Pos: dpd.Vector{
			1, 1, 1,
			1.75, 1, 1,
		},
	}}

	rdf := ComputeRDF(frames, box, 2.0, 10)
	if rdf.Dr != 0.2 {
		t.Fatalf("Dr = %g, want 0.2", rdf.Dr)
	}

	// The only pair sits at r=0.75, bin 3.
	for i, g := range rdf.G {
		if i == 3 && g == 0 {
			t.Error("pair separation bin is empty")
		}
		if i != 3 && g != 0 {
			t.Errorf("bin %d = %g, want 0", i, g)
		}
	}

	// Normalization check against the ideal-gas shell population.
	rho := 2.0 / 1000.0
	shell := 4.0 / 3.0 * math.Pi * (math.Pow(0.8, 3) - math.Pow(0.6, 3))
	want := 1.0 / (shell * rho)
	if got := rdf.G[3]; math.Abs(got-want) > 1e-9 {
		t.Errorf("g(r) = %g, want %g", got, want)
	}
}

func TestComputeRDFMinimumImage(t *testing.T) {
	box := neighbor.Box{L: 10, Periodic: true}
	frames := []sim.Frame{{
		// 9.5 apart directly, 0.5 across the boundary.
		Pos: dpd.Vector{
			0.25, 5, 5,
			9.75, 5, 5,
		},
	}}

	rdf := ComputeRDF(frames, box, 2.0, 10)
	if rdf.G[2] == 0 {
		t.Error("periodic pair at r=0.5 not counted in bin 2")
	}
}

func TestComputeRDFAveragesFrames(t *testing.T) {
	box := neighbor.Box{L: 10, Periodic: true}
	frame := sim.Frame{Pos: dpd.Vector{1, 1, 1, 1.75, 1, 1}}

	one := ComputeRDF([]sim.Frame{frame}, box, 2.0, 10)
	three := ComputeRDF([]sim.Frame{frame, frame, frame}, box, 2.0, 10)

	// Identical frames: the per-frame average must not change.
	if math.Abs(one.G[3]-three.G[3]) > 1e-12 {
		t.Errorf("frame averaging changed g(r): %g vs %g", one.G[3], three.G[3])
	}
}

func TestComputeRDFDegenerateInputs(t *testing.T) {
	box := neighbor.Box{L: 10, Periodic: true}
	if rdf := ComputeRDF(nil, box, 2.0, 10); len(rdf.G) != 0 {
		t.Error("no frames should produce an empty histogram")
	}

	frame := sim.Frame{Pos: dpd.Vector{1, 1, 1, 2, 2, 2}}
	if rdf := ComputeRDF([]sim.Frame{frame}, box, 2.0, 0); len(rdf.G) != 0 {
		t.Error("zero bins should produce an empty histogram")
	}
	if rdf := ComputeRDF([]sim.Frame{frame}, box, -1, 10); len(rdf.G) != 0 {
		t.Error("negative range should produce an empty histogram")
	}
}

func TestRadii(t *testing.T) {
	rdf := &RDF{Dr: 0.5, G: make([]float64, 4)}
	want := []float64{0.25, 0.75, 1.25, 1.75}
	for i, r := range rdf.Radii() {
		if math.Abs(r-want[i]) > 1e-15 {
			t.Errorf("radius %d = %g, want %g", i, r, want[i])
		}
	}
}
