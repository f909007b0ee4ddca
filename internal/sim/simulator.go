package sim

import (
	"context"
	"log/slog"
	"sync"

	"github.com/san-kum/pacesim/internal/control"
)

// Simulator owns one session and feeds it commands through Config.Apply.
// It is safe to call from several goroutines, but steps never overlap.
type Simulator struct {
	mu        sync.Mutex
	cfg       Config
	session   Session
	noise     Noise
	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
}

type Option func(*Simulator)

// WithNoise replaces the seeded SignedNoise built from the config.
func WithNoise(n Noise) Option {
	return func(s *Simulator) { s.noise = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

func New(cfg Config, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulator{
		cfg:       cfg,
		session:   cfg.Initial(),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.noise == nil {
		s.noise = NewSignedNoise(cfg.NoiseAmplitude, cfg.Seed)
	}
	return s, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Config() Config { return s.cfg }

func (s *Simulator) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *Simulator) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Status
}

func (s *Simulator) Start() error {
	_, err := s.apply(Command{Kind: CmdStart})
	return err
}

func (s *Simulator) Stop() {
	_, _ = s.apply(Command{Kind: CmdStop})
}

// Reset returns the session to its configured initial values and clears
// history and metrics.
func (s *Simulator) Reset() {
	_, _ = s.apply(Command{Kind: CmdReset})
}

// Step advances one period regardless of whether the simulator is running.
func (s *Simulator) Step() (StepRecord, error) {
	rec, err := s.apply(Command{Kind: CmdStep})
	if err != nil {
		return StepRecord{}, err
	}
	return *rec, nil
}

// Tick advances one period only while running. It reports whether a period
// was advanced.
func (s *Simulator) Tick() (StepRecord, bool, error) {
	rec, err := s.apply(Command{Kind: CmdTick})
	if err != nil || rec == nil {
		return StepRecord{}, false, err
	}
	return *rec, true, nil
}

func (s *Simulator) SetGains(kp, ki, kd float64) error {
	_, err := s.apply(GainsCommand(kp, ki, kd))
	return err
}

func (s *Simulator) SetTarget(target float64) error {
	_, err := s.apply(TargetCommand(target))
	return err
}

func (s *Simulator) SetMode(m control.Mode) error {
	_, err := s.apply(ModeCommand(m))
	return err
}

// Metrics returns the current value of every registered metric.
func (s *Simulator) Metrics() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// RunToCompletion steps synchronously until the horizon is reached.
func (s *Simulator) RunToCompletion(ctx context.Context) (Session, error) {
	for {
		select {
		case <-ctx.Done():
			return s.Session(), ctx.Err()
		default:
		}

		if s.Session().State.Period >= s.cfg.Horizon {
			return s.Session(), nil
		}
		if _, err := s.Step(); err != nil {
			return s.Session(), err
		}
	}
}

func (s *Simulator) apply(cmd Command) (*StepRecord, error) {
	s.mu.Lock()
	before := s.session.Status

	var noise float64
	if cmd.Kind == CmdStep || (cmd.Kind == CmdTick && before == Running) {
		noise = s.noise.Sample()
	}

	next, rec, err := s.cfg.Apply(s.session, cmd, noise)
	if err != nil {
		s.mu.Unlock()
		s.logger.Debug("command rejected", "command", cmd.Kind, "period", s.session.State.Period, "err", err)
		return nil, err
	}
	s.session = next

	if cmd.Kind == CmdReset {
		for _, m := range s.metrics {
			m.Reset()
		}
	}
	if rec != nil {
		for _, m := range s.metrics {
			m.Observe(*rec)
		}
	}
	after := s.session.Status
	observers := s.observers
	s.mu.Unlock()

	if rec != nil {
		for _, o := range observers {
			o.OnStep(*rec)
		}
	}
	if after != before || cmd.Kind == CmdReset {
		s.logger.Debug("status changed", "from", before, "to", after, "command", cmd.Kind)
		for _, o := range observers {
			if so, ok := o.(StatusObserver); ok {
				so.OnStatus(after)
			}
		}
	}
	return rec, nil
}
