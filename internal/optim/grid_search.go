package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/pacesim/internal/config"
	"github.com/san-kum/pacesim/internal/experiment"
	"github.com/san-kum/pacesim/internal/sim"
)

// Objective scores one parameter combination; lower is better.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Search evaluates every combination and returns the one with the lowest
// score. Combinations whose evaluation fails are skipped; if all of them
// fail the last error is returned.
func (g *GridSearch) Search(ctx context.Context, evaluate Objective) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("%d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	var lastErr error

	err := g.searchRecursive(ctx, 0, make(map[string]float64), evaluate, &best, &bestParams, &lastErr)
	if err != nil {
		return bestParams, best, err
	}
	if bestParams == nil {
		if lastErr == nil {
			lastErr = errors.New("empty search space")
		}
		return nil, 0, lastErr
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	evaluate Objective,
	best *float64,
	bestParams *map[string]float64,
	lastErr *error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		val, err := evaluate(ctx, current)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			*lastErr = err
			return nil
		}

		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, evaluate, best, bestParams, lastErr); err != nil {
			return err
		}
	}
	return nil
}

// EnsembleObjective scores parameters by the mean of metric over runs noise
// seeds starting at seedStart. base is never modified.
func EnsembleObjective(base *config.Config, runs int, seedStart int64, metric string, registry *experiment.Registry) Objective {
	return func(ctx context.Context, params map[string]float64) (float64, error) {
		cfg := base.Clone()
		for name, v := range params {
			if err := cfg.Set(name, v); err != nil {
				return 0, err
			}
		}
		if err := cfg.Validate(); err != nil {
			return 0, err
		}

		sc := cfg.SimConfig()
		results, err := sim.NewEnsemble(sc, runs, seedStart, registry.MetricsFactory(sc)).Run(ctx)
		if err != nil {
			return 0, err
		}
		s := experiment.Summarize(results, metric)
		if s.N == 0 {
			return 0, fmt.Errorf("unknown metric: %s", metric)
		}
		return s.Mean, nil
	}
}
