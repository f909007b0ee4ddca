package control

import (
	"time"

	"go.einride.tech/pid"
)

const (
	DefaultKp       = 1.0
	DefaultKi       = 0.0
	DefaultKd       = 0.0
	DefaultSetpoint = 6000.0
)

// period is the sampling interval handed to the underlying controller. One
// second makes the integral a plain running sum and the derivative the raw
// difference between consecutive errors.
const period = time.Second

// PID is a discrete controller with one update per period. The integral is
// unbounded.
type PID struct {
	Kp float64
	Ki float64
	Kd float64

	lastSetpoint float64
	state        pid.ControllerState
}

func NewPID(kp, ki, kd, setpoint float64) PID {
	return PID{
		Kp:           kp,
		Ki:           ki,
		Kd:           kd,
		lastSetpoint: setpoint,
	}
}

func DefaultPID() PID {
	return NewPID(DefaultKp, DefaultKi, DefaultKd, DefaultSetpoint)
}

// Compute feeds one measurement through the controller.
func (p PID) Compute(input float64) PID {
	c := pid.Controller{
		Config: pid.ControllerConfig{
			ProportionalGain: p.Kp,
			IntegralGain:     p.Ki,
			DerivativeGain:   p.Kd,
		},
		State: p.state,
	}
	c.Update(pid.ControllerInput{
		ReferenceSignal:  p.lastSetpoint,
		ActualSignal:     input,
		SamplingInterval: period,
	})
	p.state = c.State
	return p
}

// WithSetpoint replaces the setpoint used by the next Compute.
func (p PID) WithSetpoint(v float64) PID {
	p.lastSetpoint = v
	return p
}

func (p PID) WithGains(kp, ki, kd float64) PID {
	p.Kp, p.Ki, p.Kd = kp, ki, kd
	return p
}

func (p PID) Setpoint() float64  { return p.lastSetpoint }
func (p PID) SumError() float64  { return p.state.ControlErrorIntegral }
func (p PID) LastError() float64 { return p.state.ControlError }
func (p PID) Output() float64    { return p.state.ControlSignal }

// Params returns tunable parameters for display
func (p PID) Params() map[string]float64 {
	return map[string]float64{
		"Kp": p.Kp,
		"Ki": p.Ki,
		"Kd": p.Kd,
	}
}

// SetParam adjusts a gain by name; unknown names are ignored.
func (p *PID) SetParam(name string, value float64) {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	}
}
