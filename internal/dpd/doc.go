// Package dpd provides the shared primitives for dissipative particle
// dynamics: the flat per-particle state vector, the per-step interaction
// pair list, and the symmetric per-type-pair coefficient table.
//
// Vectors are indexed by global particle tag, three components per
// particle. The interaction list is rebuilt every timestep by the neighbor
// collaborator and is immutable for the duration of one implicit solve:
// every operator application within a solve sees the same pairs, weights
// and noise draws.
package dpd
