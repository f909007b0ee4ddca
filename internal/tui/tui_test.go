package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/pacesim/internal/sim"
)

func newRenderer(frameRate int) (*LiveRenderer, *bytes.Buffer, *time.Time) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, "test", 100, frameRate)
	clock := time.Unix(0, 0)
	r.now = func() time.Time { return clock }
	return r, &buf, &clock
}

func TestLiveRendererDrawsEveryStep(t *testing.T) {
	r, buf, _ := newRenderer(0)

	s, err := sim.New(sim.DefaultConfig(), sim.WithNoise(sim.FixedNoise(0)))
	if err != nil {
		t.Fatal(err)
	}
	s.AddObserver(r)

	for i := 0; i < 5; i++ {
		if _, err := s.Step(); err != nil {
			t.Fatal(err)
		}
	}

	out := buf.String()
	if n := strings.Count(out, clearScreen); n != 5 {
		t.Errorf("expected 5 frames, got %d", n)
	}
	if !strings.Contains(out, "period 5/100") {
		t.Error("last frame should show period 5")
	}
	if !strings.Contains(out, "pacing factor") {
		t.Error("expected pacing chart once there are two points")
	}
}

func TestLiveRendererFrameRate(t *testing.T) {
	r, buf, clock := newRenderer(10)

	for p := 1; p <= 4; p++ {
		r.OnStep(sim.StepRecord{Period: p})
	}
	if n := strings.Count(buf.String(), clearScreen); n != 1 {
		t.Errorf("expected 1 frame within the same instant, got %d", n)
	}

	*clock = clock.Add(200 * time.Millisecond)
	r.OnStep(sim.StepRecord{Period: 5})
	if n := strings.Count(buf.String(), clearScreen); n != 2 {
		t.Errorf("expected a second frame after 200ms, got %d", n)
	}

	r.OnStatus(sim.Complete)
	if !strings.Contains(buf.String(), "[COMPLETE]") {
		t.Error("status change should force a frame")
	}
}

func TestLiveRendererReset(t *testing.T) {
	r, _, _ := newRenderer(0)
	for p := 1; p <= 3; p++ {
		r.OnStep(sim.StepRecord{Period: p})
	}
	r.OnStep(sim.StepRecord{Period: 1})
	if len(r.factors) != 1 || len(r.cumAct) != 1 {
		t.Errorf("expected series restarted after reset, got %d points", len(r.factors))
	}
}

func TestLiveRendererWithRunner(t *testing.T) {
	r, buf, _ := newRenderer(0)

	cfg := sim.DefaultConfig()
	cfg.Interval = time.Millisecond
	cfg.Horizon = 10
	s, err := sim.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	s.AddObserver(r)

	r.Start()
	err = sim.NewRunner(s, nil).Run(context.Background())
	r.Stop()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, hideCursor) || !strings.HasSuffix(out, showCursor) {
		t.Error("cursor should be hidden for the duration of the run")
	}
	if !strings.Contains(out, "[COMPLETE]") {
		t.Error("final frame should report completion")
	}
}

func TestPicker(t *testing.T) {
	m := newPicker([]Option{{Name: "default"}, {Name: "pi"}, {Name: "pid"}})

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})

	p := next.(picker)
	if p.selected != "pid" {
		t.Errorf("expected pid, got %q", p.selected)
	}
	if cmd == nil {
		t.Error("enter should quit the menu")
	}
	if !strings.Contains(p.View(), "pid") {
		t.Error("view should list options")
	}
}

func TestPickerQuit(t *testing.T) {
	m := newPicker([]Option{{Name: "default"}})
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if p := next.(picker); !p.quit || p.selected != "" {
		t.Error("q should cancel without a selection")
	}
}
