package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/pacesim/internal/config"
	"github.com/san-kum/pacesim/internal/export"
	"github.com/san-kum/pacesim/internal/sim"
	"github.com/san-kum/pacesim/internal/tui"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var (
		live      bool
		frameRate int
		noPlot    bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run one session to the end of the horizon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			s, err := newSimulator(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			start := time.Now()
			if live {
				r := tui.NewLiveRenderer(out, "pacesim "+cfg.Mode.String(), cfg.Horizon, frameRate)
				s.AddObserver(r)
				r.Start()
				err = sim.NewRunner(s, logger).Run(ctx)
				r.Stop()
			} else {
				_, err = s.RunToCompletion(ctx)
			}
			if err != nil {
				return err
			}
			logger.Debug("run finished", "elapsed", time.Since(start))

			sess := s.Session()
			if !live && !noPlot {
				printPlots(out, sess.History, cfg.Horizon)
			}
			printSummary(out, cfg, sess)
			printMetrics(out, s.Metrics())
			return nil
		},
	}
	cmd.Flags().BoolVar(&live, "live", false, "step on the configured interval and redraw charts as it runs")
	cmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate limit for --live")
	cmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip the final charts")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		csvPath     string
		jsonPath    string
		chartDir    string
		chartFormat string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "run one session and write its history as csv, json or charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if csvPath == "" && jsonPath == "" && chartDir == "" {
				return fmt.Errorf("nothing to export: set --csv, --json or --charts")
			}

			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			s, err := newSimulator(cfg, logger)
			if err != nil {
				return err
			}
			sess, err := s.RunToCompletion(cmd.Context())
			if err != nil {
				return err
			}

			if csvPath != "" {
				if err := export.ExportCSV(csvPath, sess.History); err != nil {
					return fmt.Errorf("csv export: %w", err)
				}
				logger.Info("exported", "format", "csv", "path", csvPath, "rows", sess.History.Len())
			}
			if jsonPath != "" {
				data := export.NewExportData(cfg.SimConfig(), sess, s.Metrics())
				if err := export.ExportJSON(jsonPath, data); err != nil {
					return fmt.Errorf("json export: %w", err)
				}
				logger.Info("exported", "format", "json", "path", jsonPath)
			}
			if chartDir != "" {
				paths, err := export.SaveCharts(chartDir, sess.History, cfg.Horizon, chartFormat)
				if err != nil {
					return fmt.Errorf("chart export: %w", err)
				}
				for _, p := range paths {
					logger.Info("exported", "format", chartFormat, "path", p)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "write per-period history to this csv file")
	cmd.Flags().StringVar(&jsonPath, "json", "", "write config, metrics and history to this json file")
	cmd.Flags().StringVar(&chartDir, "charts", "", "write cumulative, current and pacing charts into this directory")
	cmd.Flags().StringVar(&chartFormat, "chart-format", "png", "chart image format (png, svg, pdf)")
	return cmd
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printPlots(w io.Writer, h sim.History, horizon int) {
	if h.Len() < 2 {
		return
	}

	ref, act := sim.Series(h.Cumulative)
	fmt.Fprintln(w, asciigraph.PlotMany([][]float64{ref, act},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Green),
		asciigraph.SeriesLegends("reference", "actual"),
		asciigraph.Caption("cumulative spend"),
	))
	fmt.Fprintln(w)

	ref, act = sim.Series(h.Current)
	fmt.Fprintln(w, asciigraph.PlotMany([][]float64{ref, act},
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Green),
		asciigraph.SeriesLegends("setpoint", "actual"),
		asciigraph.Caption("spend per period"),
	))
	fmt.Fprintln(w)

	fmt.Fprintln(w, asciigraph.Plot(sim.Values(h.PacingFactors),
		asciigraph.Height(6),
		asciigraph.Width(80),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Precision(2),
		asciigraph.Caption(fmt.Sprintf("pacing factor (%d/%d periods)", h.Len(), horizon)),
	))
	fmt.Fprintln(w)
}

func printSummary(w io.Writer, cfg *config.Config, sess sim.Session) {
	fmt.Fprintf(w, "status:   %s after %d/%d periods\n", sess.Status, sess.State.Period, cfg.Horizon)
	fmt.Fprintf(w, "mode:     %s (kp=%g ki=%g kd=%g)\n", sess.State.Mode, sess.Controller.Kp, sess.Controller.Ki, sess.Controller.Kd)
	fmt.Fprintf(w, "spent:    %.0f of %.0f\n", sess.State.CumulativeInput, sess.State.Target)
	fmt.Fprintf(w, "factor:   %.4f\n", sess.State.PacingFactor)
}

func printMetrics(w io.Writer, values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "\nmetrics:")
	tw := newTable(w)
	for _, name := range names {
		fmt.Fprintf(tw, "  %s\t%.6f\n", name, values[name])
	}
	tw.Flush()
}
