package sim

import (
	"context"
	"sync"

	"github.com/san-kum/dpdsim/internal/dpd"
)

// Ensemble runs independent seeded replicas of the same system in
// parallel. Simulators and their solvers are not safe for concurrent use,
// so each replica builds its own through the factory.
type Ensemble struct {
	factory   func(seed int64) (*Simulator, error)
	numRuns   int
	seedStart int64
}

func NewEnsemble(factory func(seed int64) (*Simulator, error), numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, pos0, vel0 dpd.Vector, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			seed := e.seedStart + int64(idx)
			s, err := e.factory(seed)
			if err != nil {
				errs[idx] = err
				return
			}

			cfgCopy := cfg
			cfgCopy.Seed = seed
			results[idx], errs[idx] = s.Run(ctx, pos0.Clone(), vel0.Clone(), cfgCopy)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
