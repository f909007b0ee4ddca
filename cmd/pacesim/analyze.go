package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/pacesim/internal/automation"
	"github.com/san-kum/pacesim/internal/config"
	"github.com/san-kum/pacesim/internal/experiment"
	"github.com/san-kum/pacesim/internal/optim"
	"github.com/san-kum/pacesim/internal/sim"
	"github.com/spf13/cobra"
)

// parseRange reads "min:max:n" into n evenly spaced values. A bare number is
// a single value.
func parseRange(s string) ([]float64, error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		v, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", s, err)
		}
		return []float64{v}, nil
	case 3:
		lo, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", s, err)
		}
		hi, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", s, err)
		}
		n, err := strconv.Atoi(parts[2])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid range %q: count must be a positive integer", s)
		}
		return optim.Linspace(lo, hi, n), nil
	}
	return nil, fmt.Errorf("invalid range %q: want min:max:n", s)
}

func newTuneCmd() *cobra.Command {
	var (
		kpRange, kiRange, kdRange string
		runs                      int
		seedStart                 int64
		metric                    string
		savePath                  string
	)
	cmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search gains that minimize a metric across noise seeds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			registry := experiment.NewRegistry()
			if !registry.HasMetric(metric) {
				return fmt.Errorf("unknown metric: %s (available: %v)", metric, registry.ListMetrics())
			}

			names := []string{"kp", "ki", "kd"}
			ranges := make([][]float64, len(names))
			for i, r := range []string{kpRange, kiRange, kdRange} {
				if ranges[i], err = parseRange(r); err != nil {
					return err
				}
			}

			total := len(ranges[0]) * len(ranges[1]) * len(ranges[2])
			logger.Info("tuning", "combinations", total, "runs", runs, "metric", metric)

			g := optim.NewGridSearch(names, ranges)
			best, score, err := g.Search(cmd.Context(), optim.EnsembleObjective(base, runs, seedStart, metric, registry))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "best gains: kp=%g ki=%g kd=%g\n", best["kp"], best["ki"], best["kd"])
			fmt.Fprintf(cmd.OutOrStdout(), "mean %s over %d runs: %.6f\n", metric, runs, score)

			if savePath != "" {
				tuned := base.Clone()
				tuned.Kp, tuned.Ki, tuned.Kd = best["kp"], best["ki"], best["kd"]
				if err := config.Save(savePath, tuned); err != nil {
					return err
				}
				logger.Info("tuned config written", "path", savePath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kpRange, "kp-range", "0.2:2:10", "kp values as min:max:n")
	cmd.Flags().StringVar(&kiRange, "ki-range", "0", "ki values as min:max:n")
	cmd.Flags().StringVar(&kdRange, "kd-range", "0", "kd values as min:max:n")
	cmd.Flags().IntVar(&runs, "runs", 10, "noise seeds per combination")
	cmd.Flags().Int64Var(&seedStart, "seed-start", 1, "first noise seed")
	cmd.Flags().StringVar(&metric, "metric", "budget_error", "metric to minimize")
	cmd.Flags().StringVar(&savePath, "save", "", "write the tuned config to this yaml file")
	return cmd
}

func newMonteCarloCmd() *cobra.Command {
	var (
		runs      int
		seedStart int64
	)
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run the same config over many noise seeds and summarize metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			registry := experiment.NewRegistry()

			results, err := automation.RunMonteCarlo(cmd.Context(), cfg, &automation.MonteCarloConfig{NumTrials: runs, Seed: seedStart}, registry)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w := newTable(out)
			fmt.Fprintln(w, "METRIC\tMEAN\tSTDDEV\tMIN\tMAX")
			for _, name := range registry.ListMetrics() {
				s := experiment.Summarize(results, name)
				fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.6f\t%.6f\n", name, s.Mean, s.StdDev, s.Min, s.Max)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			onBudget, overspent := automation.MonteCarloStats(results)
			fmt.Fprintf(out, "\n%d runs: %d on budget, %d overspent\n", len(results), onBudget, overspent)
			return nil
		},
	}
	cmd.Flags().IntVar(&runs, "runs", 100, "number of noise seeds")
	cmd.Flags().Int64Var(&seedStart, "seed-start", 1, "first noise seed")
	return cmd
}

func newSweepCmd() *cobra.Command {
	var (
		values    string
		runs      int
		seedStart int64
		metric    string
	)
	cmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "vary one parameter and report averaged metrics",
		Long:  "vary one parameter and report averaged metrics.\n\nparameters: " + strings.Join(config.Params, ", "),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			vals, err := parseRange(values)
			if err != nil {
				return err
			}

			sweep := &automation.ParameterSweep{
				Param:     args[0],
				Min:       vals[0],
				Max:       vals[len(vals)-1],
				NumSteps:  len(vals),
				Runs:      runs,
				SeedStart: seedStart,
			}
			registry := experiment.NewRegistry()
			results, err := automation.RunSweep(cmd.Context(), sweep, base, registry, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			names := registry.ListMetrics()
			w := newTable(out)
			fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(args[0]), strings.ToUpper(strings.Join(names, "\t")))
			series := make([]float64, 0, len(results))
			for _, r := range results {
				fmt.Fprintf(w, "%g", r.Value)
				for _, name := range names {
					fmt.Fprintf(w, "\t%.6f", r.Metrics[name])
				}
				fmt.Fprintln(w)
				series = append(series, r.Metrics[metric])
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if len(series) > 1 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, asciigraph.Plot(series,
					asciigraph.Height(8),
					asciigraph.Width(60),
					asciigraph.Precision(4),
					asciigraph.Caption(fmt.Sprintf("%s vs %s", metric, args[0])),
				))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&values, "values", "0.2:2:10", "values as min:max:n")
	cmd.Flags().IntVar(&runs, "runs", 5, "noise seeds per value")
	cmd.Flags().Int64Var(&seedStart, "seed-start", 1, "first noise seed")
	cmd.Flags().StringVar(&metric, "metric", "budget_error", "metric to chart")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var noPlot bool
	cmd := &cobra.Command{
		Use:   "compare [scenario.yaml]",
		Short: "run the variants of a scenario file side by side",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}
			base, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			registry := experiment.NewRegistry()
			outcomes, err := automation.RunScenario(cmd.Context(), scenario, base, registry, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if scenario.Description != "" {
				fmt.Fprintf(out, "%s: %s\n\n", scenario.Name, scenario.Description)
			}

			names := registry.ListMetrics()
			w := newTable(out)
			fmt.Fprintf(w, "RUN\tMODE\tKP\tKI\tKD\tSPENT\t%s\n", strings.ToUpper(strings.Join(names, "\t")))
			for _, o := range outcomes {
				sess := o.Result.Session
				fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\t%.0f", o.Name, sess.State.Mode, o.Config.Kp, o.Config.Ki, o.Config.Kd, sess.State.CumulativeInput)
				for _, name := range names {
					fmt.Fprintf(w, "\t%.4f", o.Result.Metrics[name])
				}
				fmt.Fprintln(w)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if !noPlot {
				printComparison(cmd, outcomes)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip the pacing factor chart")
	return cmd
}

func printComparison(cmd *cobra.Command, outcomes []automation.Outcome) {
	colors := []asciigraph.AnsiColor{asciigraph.Blue, asciigraph.Green, asciigraph.Red, asciigraph.Yellow, asciigraph.Magenta, asciigraph.Cyan}

	data := make([][]float64, 0, len(outcomes))
	legends := make([]string, 0, len(outcomes))
	used := make([]asciigraph.AnsiColor, 0, len(outcomes))
	for i, o := range outcomes {
		factors := sim.Values(o.Result.Session.History.PacingFactors)
		if len(factors) < 2 {
			continue
		}
		data = append(data, factors)
		legends = append(legends, o.Name)
		used = append(used, colors[i%len(colors)])
	}
	if len(data) == 0 {
		return
	}

	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), asciigraph.PlotMany(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(used...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.Caption("pacing factor"),
	))
}
