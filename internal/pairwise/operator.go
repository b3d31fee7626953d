// Package pairwise evaluates the matrix-free action of the implicit
// friction coupling matrix. The matrix (I - (dt/2)*Gamma) is never
// assembled; Apply walks the live interaction list and accumulates the
// pairwise drag projections directly, the same way the explicit force pass
// walks its neighbor list.
package pairwise

import "github.com/san-kum/dpdsim/internal/dpd"

// Epsilon is the separation below which a pair is treated as degenerate
// and skipped. Coincident particles can occur in soft DPD potentials; the
// pair then contributes nothing rather than dividing by zero.
const Epsilon = 1e-10

// Operator is the sparse symmetric linear map (I - (dt/2)*Gamma) defined
// by the current interaction list and coefficient table. It holds no state
// beyond those references; Apply is pure.
type Operator struct {
	coeffs *dpd.CoeffTable
	list   *dpd.InteractionList
	dt     float64
}

func New(coeffs *dpd.CoeffTable, dt float64) *Operator {
	return &Operator{coeffs: coeffs, dt: dt}
}

// SetList installs the interaction list for the current timestep. The list
// must stay unchanged for every Apply within one inverse solve.
func (op *Operator) SetList(list *dpd.InteractionList) { op.list = list }

// Dim returns the vector length the operator acts on.
func (op *Operator) Dim() int { return 3 * op.list.NOwned }

// Apply returns (I - (dt/2)*Gamma) * in.
//
// For every pair within its type cutoff the friction projection
// -gamma*w^2*(e.dv)*e is accumulated with weight -dt/2 and the pair's
// exclusion factor, on both sides when the reaction half is owned. The
// identity term is the initial copy of the input.
func (op *Operator) Apply(in dpd.Vector) dpd.Vector {
	out := in.Clone()
	pre := -op.dt / 2.0

	for _, p := range op.list.Pairs {
		if p.R < Epsilon {
			continue
		}
		w := 1.0 - p.R/op.coeffs.Cutoff(p.TypeI, p.TypeJ)
		if w <= 0 {
			continue
		}
		rinv := 1.0 / p.R
		io, jo := 3*p.TagI, 3*p.TagJ

		dvx := in[io] - in[jo]
		dvy := in[io+1] - in[jo+1]
		dvz := in[io+2] - in[jo+2]
		dot := p.Del[0]*dvx + p.Del[1]*dvy + p.Del[2]*dvz

		f := -op.coeffs.Gamma(p.TypeI, p.TypeJ) * w * w * dot * rinv
		f *= pre * p.Factor * rinv

		out[io] += p.Del[0] * f
		out[io+1] += p.Del[1] * f
		out[io+2] += p.Del[2] * f
		if p.ApplyReaction {
			out[jo] -= p.Del[0] * f
			out[jo+1] -= p.Del[1] * f
			out[jo+2] -= p.Del[2] * f
		}
	}
	return out
}
