package metrics

import (
	"math"

	"github.com/san-kum/pacesim/internal/sim"
)

// PacingEffort is the mean absolute change of the pacing factor per period.
type PacingEffort struct {
	name    string
	last    float64
	initial float64
	sum     float64
	samples int
}

func NewPacingEffort(initialFactor float64) *PacingEffort {
	return &PacingEffort{
		name:    "pacing_effort",
		last:    initialFactor,
		initial: initialFactor,
	}
}

func (p *PacingEffort) Name() string {
	return p.name
}

func (p *PacingEffort) Observe(rec sim.StepRecord) {
	p.sum += math.Abs(rec.Pacing.Value - p.last)
	p.last = rec.Pacing.Value
	p.samples++
}

func (p *PacingEffort) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.sum / float64(p.samples)
}

func (p *PacingEffort) Reset() {
	p.sum = 0
	p.samples = 0
	p.last = p.initial
}
