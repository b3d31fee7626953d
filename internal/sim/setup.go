package sim

import (
	"math"
	"math/rand"

	"github.com/san-kum/dpdsim/internal/dpd"
)

// Lattice places n particles on a simple cubic grid inside a cubic box of
// side length box, with a small jitter to break the symmetry.
func Lattice(n int, box float64, rng *rand.Rand) dpd.Vector {
	pos := dpd.NewVector(n)
	side := int(math.Ceil(math.Cbrt(float64(n))))
	spacing := box / float64(side)

	for i := 0; i < n; i++ {
		cx := i % side
		cy := (i / side) % side
		cz := i / (side * side)
		pos[3*i] = (float64(cx)+0.5)*spacing + (rng.Float64()-0.5)*0.1*spacing
		pos[3*i+1] = (float64(cy)+0.5)*spacing + (rng.Float64()-0.5)*0.1*spacing
		pos[3*i+2] = (float64(cz)+0.5)*spacing + (rng.Float64()-0.5)*0.1*spacing
	}
	return pos
}

// MaxwellVelocities draws velocities from the Maxwell distribution at the
// given temperature (unit mass, kB=1) and removes the net momentum so the
// system starts at rest in the center-of-mass frame.
func MaxwellVelocities(n int, temperature float64, rng *rand.Rand) dpd.Vector {
	vel := dpd.NewVector(n)
	s := math.Sqrt(temperature)
	for i := range vel {
		vel[i] = s * rng.NormFloat64()
	}

	var px, py, pz float64
	for i := 0; i < n; i++ {
		px += vel[3*i]
		py += vel[3*i+1]
		pz += vel[3*i+2]
	}
	px, py, pz = px/float64(n), py/float64(n), pz/float64(n)
	for i := 0; i < n; i++ {
		vel[3*i] -= px
		vel[3*i+1] -= py
		vel[3*i+2] -= pz
	}
	return vel
}
