package dpd

import "errors"

// Domain errors shared across the dpd packages.
var (
	// ErrTypeRange indicates a particle type outside the coefficient table.
	ErrTypeRange = errors.New("dpd: particle type out of range")

	// ErrCoeffUnset indicates a type pair without coefficients.
	ErrCoeffUnset = errors.New("dpd: pair coefficients not set for all type pairs")

	// ErrBadCoeff indicates a non-positive cutoff or negative friction.
	ErrBadCoeff = errors.New("dpd: invalid pair coefficient")

	// ErrBadTimestep indicates a non-positive timestep.
	ErrBadTimestep = errors.New("dpd: timestep must be positive")

	// ErrInvalidState indicates a vector containing NaN or Inf.
	ErrInvalidState = errors.New("dpd: state vector contains NaN or Inf")
)
