package sim

import (
	"fmt"

	"github.com/san-kum/pacesim/internal/control"
)

// State is the pacing side of a session: where we are in the horizon and
// how much has been spent so far.
type State struct {
	Period          int
	PacingFactor    float64
	CumulativeInput float64
	Mode            control.Mode
	Target          float64
}

type Status int

const (
	Idle Status = iota
	Running
	Complete
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Running:
		return "RUNNING"
	case Complete:
		return "COMPLETE"
	}
	return fmt.Sprintf("STATUS(%d)", int(s))
}

type ComparePoint struct {
	Period    int     `json:"period"`
	Reference float64 `json:"reference"`
	Actual    float64 `json:"actual"`
}

type ScalarPoint struct {
	Period int     `json:"period"`
	Value  float64 `json:"value"`
}

// History holds one entry per completed period in each series.
type History struct {
	Current       []ComparePoint `json:"current"`
	Cumulative    []ComparePoint `json:"cumulative"`
	PacingFactors []ScalarPoint  `json:"pacing_factors"`
}

func (h History) Len() int { return len(h.PacingFactors) }

// append returns a history with rec added. The receiver's slices are never
// written to, so earlier snapshots stay valid.
func (h History) append(rec StepRecord) History {
	return History{
		Current:       append(h.Current[:len(h.Current):len(h.Current)], rec.Current),
		Cumulative:    append(h.Cumulative[:len(h.Cumulative):len(h.Cumulative)], rec.Cumulative),
		PacingFactors: append(h.PacingFactors[:len(h.PacingFactors):len(h.PacingFactors)], rec.Pacing),
	}
}

// StepRecord describes one completed period.
type StepRecord struct {
	Period       int
	Noise        float64
	Measured     float64
	ControlValue float64
	Setpoint     float64
	Current      ComparePoint
	Cumulative   ComparePoint
	Pacing       ScalarPoint
}

type Metric interface {
	Name() string
	Observe(rec StepRecord)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(rec StepRecord)
}

// StatusObserver is implemented by observers that also want to hear about
// start, stop, completion and reset.
type StatusObserver interface {
	OnStatus(s Status)
}

// Series returns the values of a compare series split into references and
// actuals, ready for charting.
func Series(points []ComparePoint) (reference, actual []float64) {
	reference = make([]float64, len(points))
	actual = make([]float64, len(points))
	for i, p := range points {
		reference[i] = p.Reference
		actual[i] = p.Actual
	}
	return reference, actual
}

func Values(points []ScalarPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}
