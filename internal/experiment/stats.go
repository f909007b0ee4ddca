package experiment

import (
	"github.com/san-kum/pacesim/internal/sim"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes one metric across a set of runs.
type Summary struct {
	Metric string
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes a Summary for metric over every run that reported it.
// StdDev is the population standard deviation.
func Summarize(results []sim.RunResult, metric string) Summary {
	values := make([]float64, 0, len(results))
	for _, r := range results {
		if v, ok := r.Metrics[metric]; ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return Summary{Metric: metric}
	}

	mean, std := stat.PopMeanStdDev(values, nil)
	return Summary{
		Metric: metric,
		N:      len(values),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(values),
		Max:    floats.Max(values),
	}
}

// MeanMetrics averages every metric reported by results.
func MeanMetrics(results []sim.RunResult) map[string]float64 {
	out := make(map[string]float64)
	for _, r := range results {
		for name := range r.Metrics {
			if _, ok := out[name]; !ok {
				out[name] = Summarize(results, name).Mean
			}
		}
	}
	return out
}
