package sim

import (
	"context"
	"sync"
)

// Ensemble runs independent copies of a config to completion, one per seed.
type Ensemble struct {
	cfg       Config
	numRuns   int
	seedStart int64
	metrics   func() []Metric
}

// NewEnsemble uses seeds seedStart, seedStart+1, ... for the noise of each
// run. newMetrics is called once per run so metric state is never shared.
func NewEnsemble(cfg Config, numRuns int, seedStart int64, newMetrics func() []Metric) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart, metrics: newMetrics}
}

type RunResult struct {
	Seed    int64
	Session Session
	Metrics map[string]float64
}

func (e *Ensemble) Run(ctx context.Context) ([]RunResult, error) {
	results := make([]RunResult, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfg := e.cfg
			cfg.Seed = e.seedStart + int64(idx)

			s, err := New(cfg)
			if err != nil {
				errs[idx] = err
				return
			}
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			sess, err := s.RunToCompletion(ctx)
			results[idx] = RunResult{Seed: cfg.Seed, Session: sess, Metrics: s.Metrics()}
			errs[idx] = err
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
