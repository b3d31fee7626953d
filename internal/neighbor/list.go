// Package neighbor builds the per-timestep interaction list consumed by
// the pairwise operator and the explicit force pass. Each unordered pair
// within the cutoff is emitted exactly once with its reaction flag set, so
// Newton's third law is applied exactly once system-wide.
package neighbor

import (
	"math"
	"math/rand"

	"github.com/san-kum/dpdsim/internal/dpd"
)

// Box is a cubic simulation box. With Periodic set, separations use the
// minimum image convention and positions wrap.
type Box struct {
	L        float64
	Periodic bool
}

// MinImage maps a coordinate difference into [-L/2, L/2).
func (b Box) MinImage(d float64) float64 {
	if !b.Periodic {
		return d
	}
	d -= b.L * math.Round(d/b.L)
	return d
}

// Wrap maps a coordinate into [0, L).
func (b Box) Wrap(x float64) float64 {
	if !b.Periodic {
		return x
	}
	x -= b.L * math.Floor(x/b.L)
	return x
}

// Builder produces interaction lists from current positions. Pairs are
// found with a direct O(N^2) cutoff scan; the per-pair random scalar is
// drawn deterministically from (tags, step, seed) so every process that
// sees a pair agrees on its noise.
type Builder struct {
	box     Box
	coeffs  *dpd.CoeffTable
	types   []int
	seed    int64
	special map[[2]int]float64
}

func NewBuilder(box Box, coeffs *dpd.CoeffTable, types []int, seed int64) *Builder {
	return &Builder{
		box:     box,
		coeffs:  coeffs,
		types:   types,
		seed:    seed,
		special: make(map[[2]int]float64),
	}
}

// SetSpecial registers a bonded special-interaction scaling factor for a
// tag pair. A factor of zero excludes the pair entirely.
func (b *Builder) SetSpecial(tagI, tagJ int, factor float64) {
	if tagJ < tagI {
		tagI, tagJ = tagJ, tagI
	}
	b.special[[2]int{tagI, tagJ}] = factor
}

func (b *Builder) factor(tagI, tagJ int) float64 {
	if tagJ < tagI {
		tagI, tagJ = tagJ, tagI
	}
	if f, ok := b.special[[2]int{tagI, tagJ}]; ok {
		return f
	}
	return 1.0
}

// Build enumerates all pairs within their type-pair cutoff at the given
// positions. The returned list is immutable for the rest of the timestep:
// weights and noise are frozen until the next Build.
func (b *Builder) Build(pos dpd.Vector, step int64) *dpd.InteractionList {
	n := pos.Particles()
	list := &dpd.InteractionList{NOwned: n}

	for i := 0; i < n; i++ {
		ti := b.types[i]
		for j := i + 1; j < n; j++ {
			tj := b.types[j]
			cut := b.coeffs.Cutoff(ti, tj)

			dx := b.box.MinImage(pos[3*i] - pos[3*j])
			dy := b.box.MinImage(pos[3*i+1] - pos[3*j+1])
			dz := b.box.MinImage(pos[3*i+2] - pos[3*j+2])
			rsq := dx*dx + dy*dy + dz*dz
			if rsq >= cut*cut {
				continue
			}

			list.Pairs = append(list.Pairs, dpd.Pair{
				I: i, J: j,
				TagI: i, TagJ: j,
				TypeI: ti, TypeJ: tj,
				Del:    [3]float64{dx, dy, dz},
				R:      math.Sqrt(rsq),
				Factor: b.factor(i, j),
				Noise:  b.noise(i, j, step),
				// Single-process build owns every reaction half.
				ApplyReaction: true,
			})
		}
	}
	return list
}

// noise draws the pair's zero-mean unit-variance scalar from a PRNG seeded
// by a hash of (low tag, high tag, step, run seed). Both sides of a
// process boundary would derive the identical value, which keeps the
// effective operator symmetric across the group.
func (b *Builder) noise(tagI, tagJ int, step int64) float64 {
	if tagJ < tagI {
		tagI, tagJ = tagJ, tagI
	}
	h := uint64(b.seed)
	for _, v := range [3]uint64{uint64(tagI), uint64(tagJ), uint64(step)} {
		h ^= v
		h = splitmix64(h)
	}
	return rand.New(rand.NewSource(int64(h))).NormFloat64()
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
