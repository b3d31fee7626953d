// Package analysis computes structural observables from stored
// trajectories.
package analysis

import (
	"math"

	"github.com/san-kum/dpdsim/internal/dpd"
	"github.com/san-kum/dpdsim/internal/neighbor"
	"github.com/san-kum/dpdsim/internal/sim"
)

// RDF is a radial distribution function histogram: G[i] is g(r) at
// r = (i+0.5)*Dr.
type RDF struct {
	Dr float64
	G  []float64
}

// Radii returns the bin-center radii matching G.
func (r *RDF) Radii() []float64 {
	radii := make([]float64, len(r.G))
	for i := range radii {
		radii[i] = (float64(i) + 0.5) * r.Dr
	}
	return radii
}

// ComputeRDF averages g(r) over the supplied frames, up to rMax, using the
// minimum image convention of the given box. The normalization assumes a
// homogeneous system, which a thermostatted DPD fluid is at equilibrium.
func ComputeRDF(frames []sim.Frame, box neighbor.Box, rMax float64, bins int) *RDF {
	if len(frames) == 0 || bins <= 0 || rMax <= 0 {
		return &RDF{Dr: 1, G: []float64{}}
	}

	dr := rMax / float64(bins)
	counts := make([]float64, bins)
	n := frames[0].Pos.Particles()

	for _, fr := range frames {
		accumulatePairs(fr.Pos, box, rMax, dr, counts)
	}

	// Normalize by the ideal-gas shell population.
	rho := float64(n) / (box.L * box.L * box.L)
	g := make([]float64, bins)
	for i := range g {
		rLo := float64(i) * dr
		rHi := rLo + dr
		shell := 4.0 / 3.0 * math.Pi * (rHi*rHi*rHi - rLo*rLo*rLo)
		ideal := shell * rho * float64(n) / 2.0 * float64(len(frames))
		if ideal > 0 {
			g[i] = counts[i] / ideal
		}
	}
	return &RDF{Dr: dr, G: g}
}

func accumulatePairs(pos dpd.Vector, box neighbor.Box, rMax, dr float64, counts []float64) {
	n := pos.Particles()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := box.MinImage(pos[3*i] - pos[3*j])
			dy := box.MinImage(pos[3*i+1] - pos[3*j+1])
			dz := box.MinImage(pos[3*i+2] - pos[3*j+2])
			r := math.Sqrt(dx*dx + dy*dy + dz*dz)
			if r >= rMax {
				continue
			}
			bin := int(r / dr)
			if bin < len(counts) {
				counts[bin]++
			}
		}
	}
}
