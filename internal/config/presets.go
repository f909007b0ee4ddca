package config

import (
	"sort"

	"github.com/san-kum/pacesim/internal/control"
)

var Presets = map[string]func() *Config{
	"default": DefaultConfig,
	"aggressive": func() *Config {
		c := DefaultConfig()
		c.Kp = 2.0
		return c
	},
	"pi": func() *Config {
		c := DefaultConfig()
		c.Kp, c.Ki = 0.6, 0.05
		return c
	},
	"pid": func() *Config {
		c := DefaultConfig()
		c.Kp, c.Ki, c.Kd = 0.6, 0.05, 0.2
		return c
	},
	"multiplicative": func() *Config {
		c := DefaultConfig()
		c.Mode = control.ModeMultiplicative
		return c
	},
	"quiet": func() *Config {
		c := DefaultConfig()
		c.NoiseAmplitude = 0
		return c
	},
}

var presetDescriptions = map[string]string{
	"default":        "proportional pacing, kp=1",
	"aggressive":     "proportional pacing, kp=2",
	"pi":             "proportional-integral pacing",
	"pid":            "full pid pacing",
	"multiplicative": "fixed 10% steps up or down",
	"quiet":          "default gains without noise",
}

func Describe(name string) string { return presetDescriptions[name] }

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
