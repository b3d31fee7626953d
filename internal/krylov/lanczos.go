// Package krylov approximates the inverse action of the pairwise friction
// operator with a fixed-budget Lanczos iteration. The operator is consumed
// as a black box through its matrix-vector product; the only dense algebra
// is the k x k tridiagonal projection, which stays small by construction.
package krylov

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/dpdsim/internal/dpd"
)

// Operator is the matrix-free linear map the solver inverts.
type Operator interface {
	Apply(in dpd.Vector) dpd.Vector
	Dim() int
}

const (
	// DefaultMaxIter is the default Krylov subspace cap.
	DefaultMaxIter = 10

	// DefaultTol is the default successive-iterate convergence tolerance.
	DefaultTol = 1e-5

	// MaxSubspace bounds the subspace size. The projection is rebuilt and
	// inverted densely every iteration, which is only acceptable while k
	// stays this small.
	MaxSubspace = 32

	// breakdownTol: a residual norm this close to zero means the Krylov
	// subspace exactly captured an invariant subspace of the operator.
	breakdownTol = 1e-14
)

// Options configures a Solver. Zero values select the defaults.
type Options struct {
	// MaxIter caps the number of Lanczos iterations per solve.
	MaxIter int

	// Tol is the tolerance on the norm of successive Ritz iterate
	// differences.
	Tol float64

	// FixedBudget disables the convergence early-exit, always running the
	// full MaxIter iterations. This reproduces a fixed operation count per
	// solve regardless of conditioning.
	FixedBudget bool
}

// Stats is the solver's observability side-channel: cumulative counters
// across solves, read through Solver.Stats.
type Stats struct {
	Solves         int
	Applies        int
	Iterations     int
	Converged      int // solves whose iterate difference fell below Tol
	Breakdowns     int // exact invariant-subspace early exits
	SkippedInverts int // near-singular projections discarded
	LastDiff       float64
	Elapsed        time.Duration
}

// Solver approximates x = (I - (dt/2)*Gamma)^-1 * rhs without forming the
// matrix. One Solver may be reused across timesteps; it is not safe for
// concurrent use.
type Solver struct {
	op        Operator
	maxIter   int
	tol       float64
	earlyExit bool
	stats     Stats
}

func New(op Operator, opts Options) (*Solver, error) {
	if opts.MaxIter == 0 {
		opts.MaxIter = DefaultMaxIter
	}
	if opts.Tol == 0 {
		opts.Tol = DefaultTol
	}
	if opts.MaxIter < 0 || opts.MaxIter > MaxSubspace {
		return nil, fmt.Errorf("krylov: max iterations %d outside (0, %d]", opts.MaxIter, MaxSubspace)
	}
	if opts.Tol < 0 {
		return nil, fmt.Errorf("krylov: negative tolerance %g", opts.Tol)
	}
	return &Solver{
		op:        op,
		maxIter:   opts.MaxIter,
		tol:       opts.Tol,
		earlyExit: !opts.FixedBudget,
	}, nil
}

func (s *Solver) Stats() Stats { return s.stats }

func (s *Solver) ResetStats() { s.stats = Stats{} }

// InverseApply returns the best available approximation to the solution of
// (I - (dt/2)*Gamma) * x = rhs after at most MaxIter Lanczos iterations.
//
// A zero right-hand side short-circuits to the zero vector. A vanishing
// residual norm stops basis growth (the subspace is exactly invariant).
// Otherwise the last Ritz iterate is returned even if the tolerance never
// triggered: this is a fixed-budget approximate solver, not a
// residual-guaranteed one.
func (s *Solver) InverseApply(rhs dpd.Vector) dpd.Vector {
	start := time.Now()
	s.stats.Solves++
	defer func() { s.stats.Elapsed += time.Since(start) }()

	x := make(dpd.Vector, len(rhs))
	norm := rhs.Norm()
	if norm == 0 {
		return x
	}

	basis := make([]dpd.Vector, 0, s.maxIter)
	basis = append(basis, rhs.Scale(1.0/norm))
	alpha := make([]float64, s.maxIter)
	beta := make([]float64, s.maxIter)

	r := s.op.Apply(basis[0])
	s.stats.Applies++
	alpha[0] = basis[0].Dot(r)

	var prev dpd.Vector
	converged := false
	for k := 1; k <= s.maxIter; k++ {
		s.stats.Iterations++

		xk, err := s.ritz(basis, alpha, beta, k, norm)
		if err != nil {
			// Singular projection: keep the previous iterate rather than
			// propagating NaNs into the trajectory.
			s.stats.SkippedInverts++
		} else {
			x = xk
			if prev != nil {
				diff := xk.Sub(prev).Norm()
				s.stats.LastDiff = diff
				if diff < s.tol {
					if !converged {
						converged = true
						s.stats.Converged++
					}
					if s.earlyExit {
						break
					}
				}
			}
			prev = xk
		}

		if k == s.maxIter {
			break
		}

		// Three-term recurrence: orthogonalize the residual against the
		// last one or two basis vectors.
		r.AddScaled(-alpha[k-1], basis[k-1])
		if k >= 2 {
			r.AddScaled(-beta[k-2], basis[k-2])
		}
		b := r.Norm()
		if b < breakdownTol {
			s.stats.Breakdowns++
			break
		}
		beta[k-1] = b
		basis = append(basis, r.Scale(1.0/b))

		r = s.op.Apply(basis[k])
		s.stats.Applies++
		alpha[k] = basis[k].Dot(r)
	}

	return x
}

// ritz solves the k x k projected system directly and maps the result back
// through the basis: x_k = norm * V_k * (H_k^-1 * e1).
func (s *Solver) ritz(basis []dpd.Vector, alpha, beta []float64, k int, norm float64) (dpd.Vector, error) {
	hk := mat.NewDense(k, k, nil)
	for i := 0; i < k; i++ {
		hk.Set(i, i, alpha[i])
		if i+1 < k {
			hk.Set(i, i+1, beta[i])
			hk.Set(i+1, i, beta[i])
		}
	}

	var inv mat.Dense
	if err := inv.Inverse(hk); err != nil {
		// gonum reports both near-singular and exactly singular systems as
		// mat.Condition. A finite condition number means the inverse was
		// still computed and the iterate is usable; an infinite one means
		// the projection is singular and the iterate must be discarded.
		cond, ok := err.(mat.Condition)
		if !ok || math.IsInf(float64(cond), 0) {
			return nil, err
		}
	}

	x := make(dpd.Vector, len(basis[0]))
	for i := 0; i < k; i++ {
		x.AddScaled(norm*inv.At(i, 0), basis[i])
	}
	return x, nil
}
