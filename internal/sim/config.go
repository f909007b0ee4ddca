package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/pacesim/internal/control"
)

const (
	DefaultHorizon        = 100
	DefaultInterval       = 100 * time.Millisecond
	DefaultTarget         = 800000.0
	DefaultPacingFactor   = 0.1
	DefaultBaseInput      = 10000.0
	DefaultNoiseAmplitude = 1000
)

// Config fixes everything about a session that is not edited while it runs.
// Kp, Ki, Kd, Target and Mode are the initial values restored on reset.
type Config struct {
	Horizon             int
	Interval            time.Duration
	BaseInput           float64
	NoiseAmplitude      int
	InitialPacingFactor float64
	InitialSetpoint     float64
	Target              float64
	Mode                control.Mode
	Kp, Ki, Kd          float64
	Policy              control.Policy
	Seed                int64
}

func DefaultConfig() Config {
	return Config{
		Horizon:             DefaultHorizon,
		Interval:            DefaultInterval,
		BaseInput:           DefaultBaseInput,
		NoiseAmplitude:      DefaultNoiseAmplitude,
		InitialPacingFactor: DefaultPacingFactor,
		InitialSetpoint:     control.DefaultSetpoint,
		Target:              DefaultTarget,
		Mode:                control.ModePID,
		Kp:                  control.DefaultKp,
		Ki:                  control.DefaultKi,
		Kd:                  control.DefaultKd,
		Policy:              control.DefaultPolicy(),
	}
}

func (c Config) Validate() error {
	if c.Horizon <= 0 {
		return fmt.Errorf("%w: horizon must be positive, got %d", ErrInvalidConfig, c.Horizon)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %v", ErrInvalidConfig, c.Interval)
	}
	if c.InitialPacingFactor < 0 || c.InitialPacingFactor > 1 {
		return fmt.Errorf("%w: initial pacing factor must be in [0,1], got %f", ErrInvalidConfig, c.InitialPacingFactor)
	}
	if c.NoiseAmplitude < 0 {
		return fmt.Errorf("%w: noise amplitude must not be negative, got %d", ErrInvalidConfig, c.NoiseAmplitude)
	}
	if c.Policy.Scale == 0 || math.IsNaN(c.Policy.Scale) {
		return fmt.Errorf("%w: factor scale must be non-zero", ErrInvalidConfig)
	}
	if c.Policy.Step < 0 || c.Policy.Step >= 1 {
		return fmt.Errorf("%w: multiplicative step must be in [0,1), got %f", ErrInvalidConfig, c.Policy.Step)
	}
	if _, err := c.Mode.MarshalText(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Initial returns the session a fresh start or a reset lands on.
func (c Config) Initial() Session {
	return Session{
		State: State{
			PacingFactor: c.InitialPacingFactor,
			Mode:         c.Mode,
			Target:       c.Target,
		},
		Controller: control.NewPID(c.Kp, c.Ki, c.Kd, c.InitialSetpoint),
		Status:     Idle,
	}
}
