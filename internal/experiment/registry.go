package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/pacesim/internal/metrics"
	"github.com/san-kum/pacesim/internal/sim"
)

// Registry maps metric names to constructors so runs, sweeps and the tuner
// can refer to metrics by name.
type Registry struct {
	metrics map[string]func(sim.Config) sim.Metric
	order   []string
}

func NewRegistry() *Registry {
	r := &Registry{metrics: make(map[string]func(sim.Config) sim.Metric)}

	for _, name := range metrics.Names {
		r.Register(name, metrics.Constructors[name])
	}

	return r
}

func (r *Registry) Register(name string, fn func(sim.Config) sim.Metric) {
	if _, ok := r.metrics[name]; !ok {
		r.order = append(r.order, name)
	}
	r.metrics[name] = fn
}

func (r *Registry) GetMetric(name string, cfg sim.Config) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(cfg), nil
}

func (r *Registry) HasMetric(name string) bool {
	_, ok := r.metrics[name]
	return ok
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns a fresh instance of every registered metric in
// registration order.
func (r *Registry) DefaultMetrics(cfg sim.Config) []sim.Metric {
	out := make([]sim.Metric, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.metrics[name](cfg))
	}
	return out
}

// MetricsFactory adapts the registry to sim.NewEnsemble.
func (r *Registry) MetricsFactory(cfg sim.Config) func() []sim.Metric {
	return func() []sim.Metric { return r.DefaultMetrics(cfg) }
}
