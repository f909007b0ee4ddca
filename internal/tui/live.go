package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/pacesim/internal/sim"
)

const (
	width       = 70
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer redraws the session charts on a plain terminal as steps
// arrive. It is a sim.Observer for headless runs where the full dashboard
// would be too much.
type LiveRenderer struct {
	mu        sync.Mutex
	out       io.Writer
	title     string
	horizon   int
	frameRate int
	lastFrame time.Time
	now       func() time.Time

	cumRef, cumAct []float64
	curRef, curAct []float64
	factors        []float64
	last           sim.StepRecord
	status         sim.Status
}

// NewLiveRenderer draws at most frameRate frames per second; frameRate <= 0
// draws on every step.
func NewLiveRenderer(out io.Writer, title string, horizon, frameRate int) *LiveRenderer {
	return &LiveRenderer{
		out:       out,
		title:     title,
		horizon:   horizon,
		frameRate: frameRate,
		now:       time.Now,
	}
}

func (r *LiveRenderer) OnStep(rec sim.StepRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// A period at or before what we hold means the session was reset.
	if n := rec.Period - 1; n < len(r.factors) {
		r.truncate(n)
	}
	r.cumRef = append(r.cumRef, rec.Cumulative.Reference)
	r.cumAct = append(r.cumAct, rec.Cumulative.Actual)
	r.curRef = append(r.curRef, rec.Current.Reference)
	r.curAct = append(r.curAct, rec.Current.Actual)
	r.factors = append(r.factors, rec.Pacing.Value)
	r.last = rec

	if r.frameRate > 0 && rec.Period < r.horizon {
		now := r.now()
		if now.Sub(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
		r.lastFrame = now
	}
	r.render()
}

// OnStatus always redraws so the final frame reflects completion or a stop.
func (r *LiveRenderer) OnStatus(s sim.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = s
	r.render()
}

func (r *LiveRenderer) truncate(n int) {
	if n < 0 {
		n = 0
	}
	r.cumRef, r.cumAct = r.cumRef[:n], r.cumAct[:n]
	r.curRef, r.curAct = r.curRef[:n], r.curAct[:n]
	r.factors = r.factors[:n]
}

func (r *LiveRenderer) render() {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  [%s]  period %d/%d\n", r.title, r.status, r.last.Period, r.horizon))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	if len(r.factors) < 2 {
		b.WriteString("  waiting for data...\n")
	} else {
		b.WriteString(asciigraph.PlotMany([][]float64{r.cumRef, r.cumAct},
			asciigraph.Height(8),
			asciigraph.Width(width),
			asciigraph.Precision(0),
			asciigraph.Offset(4),
			asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Green),
			asciigraph.SeriesLegends("reference", "actual"),
			asciigraph.Caption("cumulative"),
		))
		b.WriteString("\n\n")
		b.WriteString(asciigraph.PlotMany([][]float64{r.curRef, r.curAct},
			asciigraph.Height(6),
			asciigraph.Width(width),
			asciigraph.Precision(0),
			asciigraph.Offset(4),
			asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Green),
			asciigraph.SeriesLegends("setpoint", "actual"),
			asciigraph.Caption("current"),
		))
		b.WriteString("\n\n")
		b.WriteString(asciigraph.Plot(r.factors,
			asciigraph.Height(4),
			asciigraph.Width(width),
			asciigraph.LowerBound(0),
			asciigraph.UpperBound(1),
			asciigraph.Precision(2),
			asciigraph.Offset(4),
			asciigraph.Caption("pacing factor"),
		))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	b.WriteString(fmt.Sprintf("  measured=%.0f setpoint=%.1f factor=%.4f spent=%.0f\n",
		r.last.Measured, r.last.Setpoint, r.last.Pacing.Value, r.last.Cumulative.Actual))

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
