package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/pacesim/internal/sim"
)

// Experiment is one headless run of a config from a fresh session to the
// end of the horizon.
type Experiment struct {
	cfg       sim.Config
	simulator *sim.Simulator
}

type Result struct {
	Seed    int64
	Session sim.Session
	Metrics map[string]float64
}

func New(cfg sim.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the simulator. Extra options (noise, logger) are passed
// through to sim.New.
func (e *Experiment) Setup(metrics []sim.Metric, opts ...sim.Option) error {
	s, err := sim.New(e.cfg, opts...)
	if err != nil {
		return err
	}
	for _, m := range metrics {
		s.AddMetric(m)
	}
	e.simulator = s
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	sess, err := e.simulator.RunToCompletion(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{
		Seed:    e.cfg.Seed,
		Session: sess,
		Metrics: e.simulator.Metrics(),
	}, nil
}

// GetSimulator returns the underlying simulator for adding observers.
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// Run is the common case: default metrics from the registry, no observers.
func Run(ctx context.Context, cfg sim.Config, registry *Registry, logger *slog.Logger) (*Result, error) {
	exp := New(cfg)
	opts := []sim.Option{}
	if logger != nil {
		opts = append(opts, sim.WithLogger(logger))
	}
	if err := exp.Setup(registry.DefaultMetrics(cfg), opts...); err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}
