// Package metrics provides run-level observables for thermostatted
// particle simulations.
package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/dpdsim/internal/dpd"
)

// KineticTemperature returns the instantaneous kinetic temperature of a
// velocity vector, 2*KE / (kB * dof), with unit mass, kB=1 and three
// degrees of freedom removed for the conserved center-of-mass momentum.
func KineticTemperature(vel dpd.Vector) float64 {
	n := vel.Particles()
	if n < 2 {
		return 0
	}
	ke := 0.0
	for _, v := range vel {
		ke += v * v
	}
	ke *= 0.5
	dof := float64(3*n - 3)
	return 2.0 * ke / dof
}

// Temperature accumulates the instantaneous kinetic temperature over a
// run and reports its mean.
type Temperature struct {
	samples []float64
}

func NewTemperature() *Temperature { return &Temperature{} }

func (m *Temperature) Name() string { return "temperature" }

func (m *Temperature) Observe(pos, vel dpd.Vector, t float64) {
	m.samples = append(m.samples, KineticTemperature(vel))
}

func (m *Temperature) Value() float64 {
	if len(m.samples) == 0 {
		return 0
	}
	return stat.Mean(m.samples, nil)
}

// Variance reports the spread of the sampled temperature around its mean.
func (m *Temperature) Variance() float64 {
	if len(m.samples) < 2 {
		return 0
	}
	return stat.Variance(m.samples, nil)
}

func (m *Temperature) Reset() { m.samples = m.samples[:0] }
