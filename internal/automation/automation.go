package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/pacesim/internal/config"
	"github.com/san-kum/pacesim/internal/experiment"
	"github.com/san-kum/pacesim/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario is a yaml file of named variants run side by side.
//
//	name: gains
//	base: default
//	runs:
//	  - name: p-only
//	  - name: pid
//	    preset: pid
//	    config:
//	      seed: 7
type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Base        string    `yaml:"base"`
	Runs        []Variant `yaml:"runs"`
}

// Variant starts from the scenario base (or its own preset) and overrides
// only the keys present under config.
type Variant struct {
	Name   string    `yaml:"name"`
	Preset string    `yaml:"preset"`
	Config yaml.Node `yaml:"config"`
}

type Outcome struct {
	Name   string
	Config *config.Config
	Result *experiment.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Runs) == 0 {
		return nil, fmt.Errorf("%s: scenario has no runs", path)
	}
	return &scenario, nil
}

// Resolve builds the config for run i. base is used when neither the
// scenario nor the variant names a preset.
func (s *Scenario) Resolve(i int, base *config.Config) (*config.Config, error) {
	v := s.Runs[i]

	cfg := base.Clone()
	for _, name := range []string{s.Base, v.Preset} {
		if name == "" {
			continue
		}
		p := config.GetPreset(name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s", name)
		}
		cfg = p
	}

	if !v.Config.IsZero() {
		if err := v.Config.Decode(cfg); err != nil {
			return nil, fmt.Errorf("run %q: %w", v.Name, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("run %q: %w", v.Name, err)
	}
	return cfg, nil
}

// RunScenario executes every variant to completion in order.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, registry *experiment.Registry, logger *slog.Logger) ([]Outcome, error) {
	if logger == nil {
		logger = slog.Default()
	}
	outcomes := make([]Outcome, 0, len(scenario.Runs))

	for i, v := range scenario.Runs {
		name := v.Name
		if name == "" {
			name = fmt.Sprintf("run-%d", i+1)
		}
		logger.Info("running variant", "scenario", scenario.Name, "run", name, "index", i+1, "of", len(scenario.Runs))

		cfg, err := scenario.Resolve(i, base)
		if err != nil {
			return outcomes, err
		}

		result, err := experiment.Run(ctx, cfg.SimConfig(), registry, logger)
		if err != nil {
			return outcomes, fmt.Errorf("run %q: %w", name, err)
		}
		outcomes = append(outcomes, Outcome{Name: name, Config: cfg, Result: result})
	}

	return outcomes, nil
}

// ParameterSweep varies one parameter over an evenly spaced range. Each
// value is averaged over Runs seeds starting at SeedStart.
type ParameterSweep struct {
	Param     string
	Min       float64
	Max       float64
	NumSteps  int
	Runs      int
	SeedStart int64
}

type SweepResult struct {
	Value   float64
	Metrics map[string]float64
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, base *config.Config, registry *experiment.Registry, logger *slog.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step")
	}

	step := 0.0
	if sweep.NumSteps > 1 {
		step = (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		val := sweep.Min + float64(i)*step

		cfg := base.Clone()
		if err := cfg.Set(sweep.Param, val); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.Param, val, err)
		}

		runs, err := RunMonteCarlo(ctx, cfg, &MonteCarloConfig{NumTrials: sweep.Runs, Seed: sweep.SeedStart}, registry)
		if err != nil {
			return nil, err
		}
		results = append(results, SweepResult{Value: val, Metrics: experiment.MeanMetrics(runs)})

		logger.Info("sweep", "step", i+1, "of", sweep.NumSteps, "param", sweep.Param, "value", val)
	}

	return results, nil
}

type MonteCarloConfig struct {
	NumTrials int
	// Seed of the first trial; trial i uses Seed+i. Zero starts at 1 so
	// every trial stays reproducible.
	Seed int64
}

// RunMonteCarlo runs cfg once per noise seed, concurrently.
func RunMonteCarlo(ctx context.Context, cfg *config.Config, mc *MonteCarloConfig, registry *experiment.Registry) ([]sim.RunResult, error) {
	n := mc.NumTrials
	if n < 1 {
		n = 1
	}
	seed := mc.Seed
	if seed == 0 {
		seed = 1
	}

	sc := cfg.SimConfig()
	return sim.NewEnsemble(sc, n, seed, registry.MetricsFactory(sc)).Run(ctx)
}

// MonteCarloStats counts runs that stayed within the overspend tolerance.
func MonteCarloStats(results []sim.RunResult) (onBudget int, overspent int) {
	for _, r := range results {
		if r.Metrics["overspend"] > 0 {
			overspent++
		} else {
			onBudget++
		}
	}
	return
}
