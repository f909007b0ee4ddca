package sim

import (
	"fmt"

	"github.com/san-kum/pacesim/internal/control"
)

// Session is a complete, immutable snapshot of one simulation.
type Session struct {
	State      State
	Controller control.PID
	Status     Status
	History    History
}

type CommandKind int

const (
	CmdStart CommandKind = iota
	CmdStop
	CmdReset
	// CmdStep advances one period on request, even while stopped.
	CmdStep
	// CmdTick is the scheduler's step: it only advances while running.
	CmdTick
	CmdSetGains
	CmdSetTarget
	CmdSetMode
)

func (k CommandKind) String() string {
	switch k {
	case CmdStart:
		return "start"
	case CmdStop:
		return "stop"
	case CmdReset:
		return "reset"
	case CmdStep:
		return "step"
	case CmdTick:
		return "tick"
	case CmdSetGains:
		return "set-gains"
	case CmdSetTarget:
		return "set-target"
	case CmdSetMode:
		return "set-mode"
	}
	return fmt.Sprintf("command(%d)", int(k))
}

type Command struct {
	Kind       CommandKind
	Kp, Ki, Kd float64
	Target     float64
	Mode       control.Mode
}

func GainsCommand(kp, ki, kd float64) Command {
	return Command{Kind: CmdSetGains, Kp: kp, Ki: ki, Kd: kd}
}

func TargetCommand(target float64) Command {
	return Command{Kind: CmdSetTarget, Target: target}
}

func ModeCommand(m control.Mode) Command {
	return Command{Kind: CmdSetMode, Mode: m}
}

// Apply is the session transition function. noise is only consumed by
// CmdStep and CmdTick. On error the input session is returned unchanged.
// The returned StepRecord is non-nil only when a period was advanced.
func (c Config) Apply(s Session, cmd Command, noise float64) (Session, *StepRecord, error) {
	switch cmd.Kind {
	case CmdStart:
		switch s.Status {
		case Complete:
			return s, nil, ErrComplete
		case Idle:
			if s.State.Period >= c.Horizon {
				return s, nil, ErrComplete
			}
			s.Status = Running
		}
		return s, nil, nil

	case CmdStop:
		if s.Status == Running {
			s.Status = Idle
		}
		return s, nil, nil

	case CmdReset:
		return c.Initial(), nil, nil

	case CmdTick:
		if s.Status != Running {
			return s, nil, nil
		}
		return c.advance(s, noise)

	case CmdStep:
		return c.advance(s, noise)

	case CmdSetGains:
		if s.State.Period != 0 {
			return s, nil, ErrLocked
		}
		s.Controller = s.Controller.WithGains(cmd.Kp, cmd.Ki, cmd.Kd)
		return s, nil, nil

	case CmdSetTarget:
		if s.Status == Running {
			return s, nil, ErrRunning
		}
		s.State.Target = cmd.Target
		return s, nil, nil

	case CmdSetMode:
		if s.Status == Running {
			return s, nil, ErrRunning
		}
		if s.State.Period != 0 {
			return s, nil, ErrLocked
		}
		if _, err := cmd.Mode.MarshalText(); err != nil {
			return s, nil, err
		}
		s.State.Mode = cmd.Mode
		return s, nil, nil
	}
	return s, nil, fmt.Errorf("unknown command: %v", cmd.Kind)
}

func (c Config) advance(s Session, noise float64) (Session, *StepRecord, error) {
	state, pid, rec, err := c.TunePID(s.State, s.Controller, noise)
	if err != nil {
		return s, nil, err
	}

	s.State = state
	s.Controller = pid
	s.History = s.History.append(rec)
	if state.Period >= c.Horizon {
		s.Status = Complete
	}
	return s, &rec, nil
}
