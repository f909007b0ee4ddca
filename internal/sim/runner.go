package sim

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Runner drives a Simulator on a fixed cadence. Each tick runs to completion
// before the next one is taken, so steps never overlap.
type Runner struct {
	sim      *Simulator
	interval time.Duration
	logger   *slog.Logger
}

func NewRunner(s *Simulator, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{sim: s, interval: s.Config().Interval, logger: logger}
}

// Run starts the simulator and ticks it until the horizon is reached, the
// simulator is stopped from elsewhere, or ctx is canceled. Cancellation
// leaves the simulator stopped and returns ctx.Err().
func (r *Runner) Run(ctx context.Context) error {
	if err := r.sim.Start(); err != nil {
		return err
	}
	r.logger.Info("run started", "period", r.sim.Session().State.Period, "interval", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.sim.Stop()
			r.logger.Info("run canceled", "period", r.sim.Session().State.Period)
			return ctx.Err()
		case <-ticker.C:
			rec, stepped, err := r.sim.Tick()
			if err != nil {
				if errors.Is(err, ErrComplete) {
					return nil
				}
				return err
			}
			if !stepped {
				r.logger.Info("run stopped", "period", r.sim.Session().State.Period)
				return nil
			}
			r.logger.Debug("step",
				"period", rec.Period,
				"measured", rec.Measured,
				"control", rec.ControlValue,
				"factor", rec.Pacing.Value,
				"setpoint", rec.Setpoint,
			)
			if r.sim.Status() == Complete {
				sess := r.sim.Session()
				r.logger.Info("run complete",
					"periods", sess.State.Period,
					"spent", sess.State.CumulativeInput,
					"target", sess.State.Target,
				)
				return nil
			}
		}
	}
}
