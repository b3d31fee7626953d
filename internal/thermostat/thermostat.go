// Package thermostat implements the implicit pairwise DPD thermostat: the
// explicit conservative + random force pass, the right-hand-side assembly,
// and the Lanczos inverse solve that yields the timestep's displacement
// correction.
package thermostat

import (
	"fmt"
	"math"

	"github.com/san-kum/dpdsim/internal/dpd"
	"github.com/san-kum/dpdsim/internal/krylov"
	"github.com/san-kum/dpdsim/internal/pairwise"
)

// Boltzmann is the Boltzmann constant in reduced DPD units.
const Boltzmann = 1.0

// Thermostat couples the explicit pair force pass with the implicit drag
// solve. One instance drives one process's owned particles; it is not safe
// for concurrent use.
type Thermostat struct {
	coeffs    *dpd.CoeffTable
	op        *pairwise.Operator
	solver    *krylov.Solver
	dt        float64
	dtInvSqrt float64
}

func New(coeffs *dpd.CoeffTable, dt float64, opts krylov.Options) (*Thermostat, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("%w: %g", dpd.ErrBadTimestep, dt)
	}
	op := pairwise.New(coeffs, dt)
	solver, err := krylov.New(op, opts)
	if err != nil {
		return nil, err
	}
	return &Thermostat{
		coeffs:    coeffs,
		op:        op,
		solver:    solver,
		dt:        dt,
		dtInvSqrt: 1.0 / math.Sqrt(dt),
	}, nil
}

func (th *Thermostat) Dt() float64 { return th.dt }

// SolverStats exposes the cumulative solver counters.
func (th *Thermostat) SolverStats() krylov.Stats { return th.solver.Stats() }

// PairForces accumulates the explicit part of the DPD force for every
// pair: conservative a0*w plus random sigma*w*noise/sqrt(dt), scaled by
// the pair's exclusion factor, with the reaction applied once per pair.
func (th *Thermostat) PairForces(list *dpd.InteractionList) dpd.Vector {
	f := dpd.NewVector(list.NOwned)

	for _, p := range list.Pairs {
		if p.R < pairwise.Epsilon {
			continue
		}
		w := 1.0 - p.R/th.coeffs.Cutoff(p.TypeI, p.TypeJ)
		if w <= 0 {
			continue
		}
		rinv := 1.0 / p.R

		fpair := th.coeffs.A0(p.TypeI, p.TypeJ) * w
		fpair += th.coeffs.Sigma(p.TypeI, p.TypeJ) * w * p.Noise * th.dtInvSqrt
		fpair *= p.Factor * rinv

		io, jo := 3*p.TagI, 3*p.TagJ
		f[io] += p.Del[0] * fpair
		f[io+1] += p.Del[1] * fpair
		f[io+2] += p.Del[2] * fpair
		if p.ApplyReaction {
			f[jo] -= p.Del[0] * fpair
			f[jo+1] -= p.Del[1] * fpair
			f[jo+2] -= p.Del[2] * fpair
		}
	}
	return f
}

// RHS assembles the right-hand side of the implicit system from current
// velocities and the explicit forces: dt*v + (dt^2/2)*f per component.
func (th *Thermostat) RHS(vel, forces dpd.Vector) dpd.Vector {
	rhs := vel.Scale(th.dt)
	rhs.AddScaled(th.dt*th.dt/2.0, forces)
	return rhs
}

// Displacement runs one full implicit step for the timestep's frozen
// interaction list: explicit forces, right-hand side, and the approximate
// inverse action (I - (dt/2)*Gamma)^-1 * rhs. The result is the
// displacement correction the trajectory integrator applies.
func (th *Thermostat) Displacement(list *dpd.InteractionList, vel dpd.Vector) dpd.Vector {
	th.op.SetList(list)
	return th.solver.InverseApply(th.RHS(vel, th.PairForces(list)))
}

