package dpd

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Vector is a dense state vector of length 3N: one x,y,z block per owned
// particle, indexed by global tag. It represents either a velocity-like
// input or a force/displacement-like output of the pairwise operator.
type Vector []float64

// NewVector returns a zero vector for n particles.
func NewVector(n int) Vector {
	return make(Vector, 3*n)
}

// Particles returns the number of 3-component blocks.
func (v Vector) Particles() int { return len(v) / 3 }

func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

func (v Vector) Zero() {
	for i := range v {
		v[i] = 0
	}
}

func (v Vector) Norm() float64 {
	return floats.Norm(v, 2)
}

func (v Vector) Dot(other Vector) float64 {
	return floats.Dot(v, other)
}

// AddScaled adds s*other to v in place.
func (v Vector) AddScaled(s float64, other Vector) {
	floats.AddScaled(v, s, other)
}

func (v Vector) Scale(s float64) Vector {
	c := v.Clone()
	floats.Scale(s, c)
	return c
}

func (v Vector) Sub(other Vector) Vector {
	c := v.Clone()
	floats.Sub(c, other)
	return c
}

func (v Vector) IsValid() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// Pair is one interacting particle pair inside the cutoff, annotated with
// everything the operator and force pass need. I and J are local storage
// indices; TagI and TagJ are the stable global tags used to index Vectors.
// The local-to-tag mapping is fixed for the lifetime of the list.
type Pair struct {
	I, J         int
	TagI, TagJ   int
	TypeI, TypeJ int

	// Del is x_i - x_j (minimum image), R its length.
	Del [3]float64
	R   float64

	// Factor is the bonded special-interaction scaling, 1.0 for plain pairs.
	Factor float64

	// Noise is the zero-mean unit-variance draw for this pair, frozen at
	// list build so every operator application in a solve sees the same
	// effective matrix.
	Noise float64

	// ApplyReaction reports whether this process owns the Newton reaction
	// half of the pair. Under the single-count convention each unordered
	// pair applies its reaction exactly once across the process group.
	ApplyReaction bool
}

// InteractionList is the transient per-timestep pair enumeration. NOwned is
// the number of particles whose vector blocks this process owns.
type InteractionList struct {
	Pairs  []Pair
	NOwned int
}
