package dpd

import (
	"fmt"
	"math"
)

// CoeffTable holds the per (type,type) interaction coefficients:
// conservative strength a0, friction gamma, cutoff, and the derived random
// force amplitude sigma = sqrt(2*kB*T*gamma). Storage is symmetric; setting
// (i,j) also sets (j,i). Types are zero-based.
type CoeffTable struct {
	ntypes int
	a0     [][]float64
	gamma  [][]float64
	cut    [][]float64
	sigma  [][]float64
	set    [][]bool
}

func NewCoeffTable(ntypes int) *CoeffTable {
	t := &CoeffTable{ntypes: ntypes}
	t.a0 = square(ntypes)
	t.gamma = square(ntypes)
	t.cut = square(ntypes)
	t.sigma = square(ntypes)
	t.set = make([][]bool, ntypes)
	for i := range t.set {
		t.set[i] = make([]bool, ntypes)
	}
	return t
}

func square(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

func (t *CoeffTable) NumTypes() int { return t.ntypes }

// Set assigns coefficients for the unordered type pair (i,j).
func (t *CoeffTable) Set(i, j int, a0, gamma, cut float64) error {
	if i < 0 || i >= t.ntypes || j < 0 || j >= t.ntypes {
		return fmt.Errorf("%w: (%d,%d) with %d types", ErrTypeRange, i, j, t.ntypes)
	}
	if cut <= 0 {
		return fmt.Errorf("%w: cutoff %g", ErrBadCoeff, cut)
	}
	if gamma < 0 {
		return fmt.Errorf("%w: gamma %g", ErrBadCoeff, gamma)
	}
	t.a0[i][j], t.a0[j][i] = a0, a0
	t.gamma[i][j], t.gamma[j][i] = gamma, gamma
	t.cut[i][j], t.cut[j][i] = cut, cut
	t.set[i][j], t.set[j][i] = true, true
	return nil
}

// Mix derives sigma for every pair from the target temperature,
// sigma_ij = sqrt(2*kB*T*gamma_ij), and verifies the table is complete.
// Call once after all Set calls, before the first timestep.
func (t *CoeffTable) Mix(kB, temperature float64) error {
	for i := 0; i < t.ntypes; i++ {
		for j := i; j < t.ntypes; j++ {
			if !t.set[i][j] {
				return fmt.Errorf("%w: (%d,%d)", ErrCoeffUnset, i, j)
			}
			s := math.Sqrt(2.0 * kB * temperature * t.gamma[i][j])
			t.sigma[i][j], t.sigma[j][i] = s, s
		}
	}
	return nil
}

func (t *CoeffTable) A0(i, j int) float64     { return t.a0[i][j] }
func (t *CoeffTable) Gamma(i, j int) float64  { return t.gamma[i][j] }
func (t *CoeffTable) Cutoff(i, j int) float64 { return t.cut[i][j] }
func (t *CoeffTable) Sigma(i, j int) float64  { return t.sigma[i][j] }

// MaxCutoff returns the largest cutoff over all set pairs, for neighbor
// list construction.
func (t *CoeffTable) MaxCutoff() float64 {
	max := 0.0
	for i := 0; i < t.ntypes; i++ {
		for j := i; j < t.ntypes; j++ {
			if t.set[i][j] && t.cut[i][j] > max {
				max = t.cut[i][j]
			}
		}
	}
	return max
}
