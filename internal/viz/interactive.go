package viz

import (
	"errors"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/pacesim/internal/sim"
)

type field string

const (
	fieldKp     field = "kp"
	fieldKi     field = "ki"
	fieldKd     field = "kd"
	fieldTarget field = "target"
)

var fields = []field{fieldKp, fieldKi, fieldKd, fieldTarget}

// Nudges used when a field sits at zero and scaling would leave it there.
var zeroStep = map[field]float64{
	fieldKp:     0.1,
	fieldKi:     0.01,
	fieldKd:     0.01,
	fieldTarget: 10000,
}

func (m Model) fieldValue(f field) float64 {
	sess := m.sim.Session()
	switch f {
	case fieldKp:
		return sess.Controller.Kp
	case fieldKi:
		return sess.Controller.Ki
	case fieldKd:
		return sess.Controller.Kd
	case fieldTarget:
		return sess.State.Target
	}
	return 0
}

func (m Model) setField(f field, v float64) error {
	if v < 0 {
		return fmt.Errorf("%s must not be negative", f)
	}
	if f == fieldTarget {
		return m.sim.SetTarget(v)
	}

	pid := m.sim.Session().Controller
	kp, ki, kd := pid.Kp, pid.Ki, pid.Kd
	switch f {
	case fieldKp:
		kp = v
	case fieldKi:
		ki = v
	case fieldKd:
		kd = v
	}
	return m.sim.SetGains(kp, ki, kd)
}

func (m Model) adjust(factor float64) error {
	f := fields[m.field]
	v := m.fieldValue(f)
	switch {
	case v != 0:
		v *= factor
	case factor > 1:
		v = zeroStep[f]
	}
	return m.setField(f, v)
}

func (m Model) editKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "enter":
		f := fields[m.field]
		v, err := strconv.ParseFloat(m.editBuf, 64)
		if err != nil {
			m.err = fmt.Errorf("invalid %s %q", f, m.editBuf)
		} else {
			m.err = m.setField(f, v)
		}
		m.editing, m.editBuf = false, ""
	case "esc", "ctrl+c":
		m.editing, m.editBuf = false, ""
	case "backspace":
		if len(m.editBuf) > 0 {
			m.editBuf = m.editBuf[:len(m.editBuf)-1]
		}
	default:
		if s := msg.String(); len(s) == 1 {
			c := s[0]
			if (c >= '0' && c <= '9') || c == '.' || c == 'e' {
				m.editBuf += s
			}
		}
	}
	return m
}

func fieldLocked(f field, sess sim.Session) bool {
	if f == fieldTarget {
		return sess.Status == sim.Running
	}
	return sess.State.Period > 0
}

func formatField(f field, v float64) string {
	if f == fieldTarget {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// describeError turns the simulator's sentinel errors into a hint about what
// to do next.
func describeError(err error) string {
	switch {
	case errors.Is(err, sim.ErrComplete):
		return "horizon reached; press r to reset"
	case errors.Is(err, sim.ErrLocked):
		return "gains and mode are fixed once the first period has run; press r to reset"
	case errors.Is(err, sim.ErrRunning):
		return "stop the run before changing target or mode"
	}
	return err.Error()
}
