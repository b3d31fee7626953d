package metrics

import (
	"math"

	"github.com/san-kum/dpdsim/internal/dpd"
)

// MomentumDrift tracks the worst-case norm of the total momentum over a
// run. Pairwise forces conserve momentum exactly, so growth here points at
// a broken pair-ownership convention (double-counted or leaked reactions).
type MomentumDrift struct {
	maxNorm float64
}

func NewMomentumDrift() *MomentumDrift { return &MomentumDrift{} }

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(pos, vel dpd.Vector, t float64) {
	var px, py, pz float64
	n := vel.Particles()
	for i := 0; i < n; i++ {
		px += vel[3*i]
		py += vel[3*i+1]
		pz += vel[3*i+2]
	}
	norm := math.Sqrt(px*px + py*py + pz*pz)
	if norm > m.maxNorm {
		m.maxNorm = norm
	}
}

func (m *MomentumDrift) Value() float64 { return m.maxNorm }

func (m *MomentumDrift) Reset() { m.maxNorm = 0 }
