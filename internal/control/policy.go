package control

import (
	"fmt"
	"strings"
)

// Mode selects how controller output moves the pacing factor.
type Mode int

const (
	ModePID Mode = iota
	ModeMultiplicative
)

var modeNames = map[Mode]string{
	ModePID:            "pid",
	ModeMultiplicative: "multiplicative",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode accepts "pid" and "multiplicative" ("mult" and "linkedin" are
// aliases for the latter).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pid", "":
		return ModePID, nil
	case "multiplicative", "mult", "linkedin":
		return ModeMultiplicative, nil
	}
	return ModePID, fmt.Errorf("unknown mode: %s", s)
}

func (m Mode) MarshalText() ([]byte, error) {
	if _, ok := modeNames[m]; !ok {
		return nil, fmt.Errorf("unknown mode: %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Modes lists the selectable modes in display order.
func Modes() []Mode {
	return []Mode{ModePID, ModeMultiplicative}
}

const (
	DefaultScale = 10000.0
	DefaultStep  = 0.1
)

// Policy holds the tuning constants of both update rules. Scale converts
// controller output into factor units for ModePID; Step is the fixed
// fraction applied by ModeMultiplicative.
type Policy struct {
	Scale float64
	Step  float64
}

func DefaultPolicy() Policy {
	return Policy{Scale: DefaultScale, Step: DefaultStep}
}

// Next returns the pacing factor for the following period. The
// multiplicative rule only looks at the sign of controlValue.
func (p Policy) Next(current, controlValue float64, mode Mode) float64 {
	switch mode {
	case ModePID:
		return Normalize(current + controlValue/p.Scale)
	case ModeMultiplicative:
		return Normalize((1 + sign(controlValue)*p.Step) * current)
	default:
		return current
	}
}

// Normalize clamps a pacing factor to [0, 1].
func Normalize(v float64) float64 {
	if v > 1 {
		return 1
	} else if v < 0 {
		return 0
	}
	return v
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
