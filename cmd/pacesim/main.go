package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/san-kum/pacesim/internal/config"
	"github.com/san-kum/pacesim/internal/control"
	"github.com/san-kum/pacesim/internal/metrics"
	"github.com/san-kum/pacesim/internal/sim"
	"github.com/san-kum/pacesim/internal/tui"
	"github.com/san-kum/pacesim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	kp         float64
	ki         float64
	kd         float64
	target     float64
	mode       string
	seed       int64
	interval   time.Duration
	horizon    int
	noise      int
	verbose    bool

	// root only
	theme string
	pick  bool

	logger = slog.Default()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newRootCmd registers the commands; with no subcommand the dashboard is
// launched.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pacesim",
		Short:         "budget pacing simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = newLogger(cmd.ErrOrStderr(), verbose)
			slog.SetDefault(logger)
		},
		RunE: runDashboard,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a named preset")
	pf.Float64Var(&kp, "kp", control.DefaultKp, "proportional gain")
	pf.Float64Var(&ki, "ki", control.DefaultKi, "integral gain")
	pf.Float64Var(&kd, "kd", control.DefaultKd, "derivative gain")
	pf.Float64Var(&target, "target", sim.DefaultTarget, "total budget for the horizon")
	pf.StringVar(&mode, "mode", control.ModePID.String(), "pacing mode (pid, multiplicative)")
	pf.Int64Var(&seed, "seed", 0, "noise seed (0 seeds from the clock)")
	pf.DurationVar(&interval, "interval", sim.DefaultInterval, "time between periods while running")
	pf.IntVar(&horizon, "horizon", sim.DefaultHorizon, "number of periods")
	pf.IntVar(&noise, "noise", sim.DefaultNoiseAmplitude, "noise amplitude (0 disables noise)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.Flags().StringVar(&theme, "theme", viz.ThemeDefault.Name, "dashboard color theme")
	rootCmd.Flags().BoolVar(&pick, "pick", false, "choose a preset from a menu first")

	rootCmd.AddCommand(
		newRunCmd(),
		newExportCmd(),
		newTuneCmd(),
		newMonteCarloCmd(),
		newSweepCmd(),
		newCompareCmd(),
		newPresetsCmd(),
		newInitCmd(),
	)
	return rootCmd
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

// resolveConfig applies preset, then config file, then explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("kp") {
		cfg.Kp = kp
	}
	if flags.Changed("ki") {
		cfg.Ki = ki
	}
	if flags.Changed("kd") {
		cfg.Kd = kd
	}
	if flags.Changed("target") {
		cfg.Target = target
	}
	if flags.Changed("mode") {
		m, err := control.ParseMode(mode)
		if err != nil {
			return nil, err
		}
		cfg.Mode = m
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("interval") {
		cfg.Interval = interval
	}
	if flags.Changed("horizon") {
		cfg.Horizon = horizon
	}
	if flags.Changed("noise") {
		cfg.NoiseAmplitude = noise
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSimulator(cfg *config.Config, log *slog.Logger) (*sim.Simulator, error) {
	sc := cfg.SimConfig()
	s, err := sim.New(sc, sim.WithLogger(log))
	if err != nil {
		return nil, err
	}
	for _, m := range metrics.Default(sc) {
		s.AddMetric(m)
	}
	return s, nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if pick && !cmd.Flags().Changed("preset") {
		options := make([]tui.Option, 0, len(config.Presets))
		for _, name := range config.ListPresets() {
			options = append(options, tui.Option{Name: name, Description: config.Describe(name)})
		}
		name, err := tui.PickPreset(options)
		if errors.Is(err, tui.ErrCanceled) {
			return nil
		}
		if err != nil {
			return err
		}
		preset = name
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// The dashboard owns the terminal; log lines would tear the alt screen.
	s, err := newSimulator(cfg, slog.New(tint.NewHandler(io.Discard, nil)))
	if err != nil {
		return err
	}
	return viz.Run(s, theme)
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "NAME\tMODE\tKP\tKI\tKD\tNOISE\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\t%d\t%s\n", name, p.Mode, p.Kp, p.Ki, p.Kd, p.NoiseAmplitude, config.Describe(name))
			}
			return w.Flush()
		},
	}
}

func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved configuration to a yaml file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "pacesim.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			logger.Info("config written", "path", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
