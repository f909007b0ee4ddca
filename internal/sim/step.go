package sim

import (
	"math"

	"github.com/san-kum/pacesim/internal/control"
)

// TunePID advances one period. It is a pure function of its arguments: the
// same state, controller and noise always give the same successor. Calling
// it once the horizon is reached returns ErrComplete and the inputs
// unchanged.
func (c Config) TunePID(s State, pid control.PID, noise float64) (State, control.PID, StepRecord, error) {
	if s.Period >= c.Horizon {
		return s, pid, StepRecord{}, &StepError{Period: s.Period, Wrapped: ErrComplete}
	}

	period := s.Period + 1

	measured := math.Max(0, c.BaseInput*s.PacingFactor+noise)
	cumulative := s.CumulativeInput + measured

	current := ComparePoint{Period: period, Reference: pid.Setpoint(), Actual: measured}

	pid = pid.Compute(measured)
	factor := c.Policy.Next(s.PacingFactor, pid.Output(), s.Mode)

	// Linear forecast: an even share of the target per period.
	cumulativeRef := s.Target * float64(period) / float64(c.Horizon)

	// The last period has nothing left to spread the remainder over, so the
	// setpoint stays where it was.
	setpoint := pid.Setpoint()
	if remaining := c.Horizon - period; remaining > 0 {
		setpoint = math.Max(0, (s.Target-cumulative)/float64(remaining))
	}
	pid = pid.WithSetpoint(setpoint)

	rec := StepRecord{
		Period:       period,
		Noise:        noise,
		Measured:     measured,
		ControlValue: pid.Output(),
		Setpoint:     setpoint,
		Current:      current,
		Cumulative:   ComparePoint{Period: period, Reference: cumulativeRef, Actual: cumulative},
		Pacing:       ScalarPoint{Period: period, Value: factor},
	}

	s.Period = period
	s.PacingFactor = factor
	s.CumulativeInput = cumulative
	return s, pid, rec, nil
}
