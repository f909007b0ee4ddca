package metrics

import (
	"math"

	"github.com/san-kum/pacesim/internal/sim"
)

// BudgetError is |cumulative actual - cumulative reference| / reference at
// the latest observed period. At the end of the horizon the reference is the
// target, so the final value is the relative miss on the whole budget.
type BudgetError struct {
	name string
	last sim.ComparePoint
	seen bool
}

func NewBudgetError() *BudgetError {
	return &BudgetError{name: "budget_error"}
}

func (b *BudgetError) Name() string { return b.name }

func (b *BudgetError) Observe(rec sim.StepRecord) {
	b.last = rec.Cumulative
	b.seen = true
}

func (b *BudgetError) Value() float64 {
	if !b.seen {
		return 0
	}
	if b.last.Reference == 0 {
		return math.Abs(b.last.Actual)
	}
	return math.Abs(b.last.Actual-b.last.Reference) / math.Abs(b.last.Reference)
}

func (b *BudgetError) Reset() {
	b.last = sim.ComparePoint{}
	b.seen = false
}

// Overspend is 1 once cumulative spend has exceeded the cumulative
// reference by more than tolerance (relative), 0 otherwise.
type Overspend struct {
	name      string
	tolerance float64
	exceeded  bool
}

func NewOverspend(tolerance float64) *Overspend {
	return &Overspend{name: "overspend", tolerance: tolerance}
}

func (o *Overspend) Name() string { return o.name }

func (o *Overspend) Observe(rec sim.StepRecord) {
	c := rec.Cumulative
	if c.Actual > c.Reference*(1+o.tolerance) {
		o.exceeded = true
	}
}

func (o *Overspend) Value() float64 {
	if o.exceeded {
		return 1
	}
	return 0
}

func (o *Overspend) Reset() { o.exceeded = false }

// TrackingRMSE is the root mean square of per-period spend minus the
// setpoint that was in force for that period.
type TrackingRMSE struct {
	name    string
	sumSq   float64
	samples int
}

func NewTrackingRMSE() *TrackingRMSE {
	return &TrackingRMSE{name: "tracking_rmse"}
}

func (t *TrackingRMSE) Name() string { return t.name }

func (t *TrackingRMSE) Observe(rec sim.StepRecord) {
	d := rec.Current.Actual - rec.Current.Reference
	t.sumSq += d * d
	t.samples++
}

func (t *TrackingRMSE) Value() float64 {
	if t.samples == 0 {
		return 0
	}
	return math.Sqrt(t.sumSq / float64(t.samples))
}

func (t *TrackingRMSE) Reset() {
	t.sumSq = 0
	t.samples = 0
}
