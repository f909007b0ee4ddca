package metrics

import "github.com/san-kum/pacesim/internal/sim"

// Names lists the built-in metrics in report order.
var Names = []string{"budget_error", "tracking_rmse", "pacing_effort", "saturation", "overspend"}

// Constructors builds a fresh built-in metric by name.
var Constructors = map[string]func(cfg sim.Config) sim.Metric{
	"budget_error":  func(sim.Config) sim.Metric { return NewBudgetError() },
	"tracking_rmse": func(sim.Config) sim.Metric { return NewTrackingRMSE() },
	"pacing_effort": func(c sim.Config) sim.Metric { return NewPacingEffort(c.InitialPacingFactor) },
	"saturation":    func(sim.Config) sim.Metric { return NewSaturation() },
	"overspend":     func(sim.Config) sim.Metric { return NewOverspend(0.05) },
}

// Default returns a fresh set of the metrics reported by every run.
func Default(cfg sim.Config) []sim.Metric {
	out := make([]sim.Metric, 0, len(Names))
	for _, name := range Names {
		out = append(out, Constructors[name](cfg))
	}
	return out
}
