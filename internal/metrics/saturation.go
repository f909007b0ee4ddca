package metrics

import "github.com/san-kum/pacesim/internal/sim"

// Saturation is the fraction of periods that ended with the pacing factor
// pinned at 0 or 1.
type Saturation struct {
	name      string
	saturated int
	samples   int
}

func NewSaturation() *Saturation {
	return &Saturation{name: "saturation"}
}

func (s *Saturation) Name() string {
	return s.name
}

func (s *Saturation) Observe(rec sim.StepRecord) {
	s.samples++
	if v := rec.Pacing.Value; v <= 0 || v >= 1 {
		s.saturated++
	}
}

func (s *Saturation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.saturated) / float64(s.samples)
}

func (s *Saturation) Reset() {
	s.saturated = 0
	s.samples = 0
}
