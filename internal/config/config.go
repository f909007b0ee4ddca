package config

import (
	"fmt"
	"os"
	"time"

	"github.com/san-kum/pacesim/internal/control"
	"github.com/san-kum/pacesim/internal/sim"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Kp                  float64       `yaml:"kp"`
	Ki                  float64       `yaml:"ki"`
	Kd                  float64       `yaml:"kd"`
	Target              float64       `yaml:"target"`
	Mode                control.Mode  `yaml:"mode"`
	InitialPacingFactor float64       `yaml:"initial_pacing_factor"`
	InitialSetpoint     float64       `yaml:"initial_setpoint"`
	Horizon             int           `yaml:"horizon"`
	Interval            time.Duration `yaml:"interval"`
	BaseInput           float64       `yaml:"base_input"`
	NoiseAmplitude      int           `yaml:"noise_amplitude"`
	FactorScale         float64       `yaml:"factor_scale"`
	MultiplicativeStep  float64       `yaml:"multiplicative_step"`
	Seed                int64         `yaml:"seed"`
}

func DefaultConfig() *Config {
	return FromSim(sim.DefaultConfig())
}

// FromSim converts a runtime config back into its file form.
func FromSim(c sim.Config) *Config {
	return &Config{
		Kp:                  c.Kp,
		Ki:                  c.Ki,
		Kd:                  c.Kd,
		Target:              c.Target,
		Mode:                c.Mode,
		InitialPacingFactor: c.InitialPacingFactor,
		InitialSetpoint:     c.InitialSetpoint,
		Horizon:             c.Horizon,
		Interval:            c.Interval,
		BaseInput:           c.BaseInput,
		NoiseAmplitude:      c.NoiseAmplitude,
		FactorScale:         c.Policy.Scale,
		MultiplicativeStep:  c.Policy.Step,
		Seed:                c.Seed,
	}
}

// Load reads a yaml file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a yaml file over a copy of base, typically a preset.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	return c.SimConfig().Validate()
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Horizon:             c.Horizon,
		Interval:            c.Interval,
		BaseInput:           c.BaseInput,
		NoiseAmplitude:      c.NoiseAmplitude,
		InitialPacingFactor: c.InitialPacingFactor,
		InitialSetpoint:     c.InitialSetpoint,
		Target:              c.Target,
		Mode:                c.Mode,
		Kp:                  c.Kp,
		Ki:                  c.Ki,
		Kd:                  c.Kd,
		Policy:              control.Policy{Scale: c.FactorScale, Step: c.MultiplicativeStep},
		Seed:                c.Seed,
	}
}

// Clone returns an independent copy, used before applying overrides to a
// shared preset.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Params lists the names accepted by Set.
var Params = []string{"kp", "ki", "kd", "target", "initial_pacing_factor", "initial_setpoint", "base_input", "noise_amplitude"}

// Set assigns a numeric field by its yaml name. It is how sweeps and the
// tuner address parameters.
func (c *Config) Set(name string, v float64) error {
	switch name {
	case "kp":
		c.Kp = v
	case "ki":
		c.Ki = v
	case "kd":
		c.Kd = v
	case "target":
		c.Target = v
	case "initial_pacing_factor":
		c.InitialPacingFactor = v
	case "initial_setpoint":
		c.InitialSetpoint = v
	case "base_input":
		c.BaseInput = v
	case "noise_amplitude":
		c.NoiseAmplitude = int(v)
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}
