package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/pacesim/internal/control"
	"github.com/san-kum/pacesim/internal/sim"
)

const (
	defaultWidth  = 110
	defaultHeight = 36
	sideWidth     = 38
)

type TickMsg time.Time

// Model is the dashboard over one Simulator. The simulator owns all session
// state; the model only holds what is on screen.
type Model struct {
	sim      *sim.Simulator
	interval time.Duration

	field   int
	editing bool
	editBuf string

	err      error
	theme    int
	showHelp bool

	width, height int
}

func NewModel(s *sim.Simulator) Model {
	return Model{
		sim:      s,
		interval: s.Config().Interval,
		width:    defaultWidth,
		height:   defaultHeight,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m.editKey(msg), nil
		}
		return m.handleKey(msg)
	case TickMsg:
		if m.sim.Status() == sim.Running {
			if _, _, err := m.sim.Tick(); err != nil {
				m.err = err
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.sim.Stop()
		return m, tea.Quit
	case " ":
		m.err = nil
		if m.sim.Status() == sim.Running {
			m.sim.Stop()
		} else {
			m.err = m.sim.Start()
		}
	case "n":
		_, m.err = m.sim.Step()
	case "r":
		m.sim.Reset()
		m.err = nil
	case "m":
		m.err = m.sim.SetMode(nextMode(m.sim.Session().State.Mode))
	case "tab":
		m.field = (m.field + 1) % len(fields)
	case "shift+tab":
		m.field = (m.field + len(fields) - 1) % len(fields)
	case "up", "k":
		m.err = m.adjust(1.1)
	case "down", "j":
		m.err = m.adjust(0.9)
	case "enter":
		m.editing = true
		m.editBuf = formatField(fields[m.field], m.fieldValue(fields[m.field]))
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func nextMode(mode control.Mode) control.Mode {
	modes := control.Modes()
	for i, md := range modes {
		if md == mode {
			return modes[(i+1)%len(modes)]
		}
	}
	return control.ModePID
}

func (m Model) View() string {
	st := newStyles(Themes[m.theme])
	sess := m.sim.Session()
	cfg := m.sim.Config()

	chartWidth := m.width - sideWidth - 16
	if chartWidth < 30 {
		chartWidth = 30
	}

	var charts strings.Builder
	charts.WriteString(m.chart(st, "Cumulative: reference vs actual", sess.History.Cumulative, chartWidth))
	charts.WriteString("\n")
	charts.WriteString(m.chart(st, "Current: setpoint vs actual", sess.History.Current, chartWidth))
	charts.WriteString("\n")
	charts.WriteString(m.pacingChart(st, sess.History.PacingFactors, chartWidth))

	side := lipgloss.JoinVertical(lipgloss.Left,
		m.viewState(st, sess, cfg),
		m.viewParams(st, sess),
		m.viewMetrics(st),
	)

	var b strings.Builder
	b.WriteString(m.viewHeader(st, sess, cfg) + "\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, charts.String(), "  ", side) + "\n")
	if m.err != nil {
		b.WriteString("\n" + st.err.Render("! "+describeError(m.err)) + "\n")
	}
	b.WriteString("\n" + m.viewKeys(st))
	if m.showHelp {
		return helpText + "\n" + b.String()
	}
	return b.String()
}

func (m Model) viewHeader(st styleSet, sess sim.Session, cfg sim.Config) string {
	var badge string
	switch sess.Status {
	case sim.Running:
		badge = st.running.Render(sess.Status.String())
	case sim.Complete:
		badge = st.complete.Render(sess.Status.String())
	default:
		badge = st.idle.Render(sess.Status.String())
	}
	progress := float64(sess.State.Period) / float64(cfg.Horizon)
	return fmt.Sprintf("%s  %s  %s %s  %s",
		st.title.Render("PACESIM"),
		badge,
		st.progressBar(progress, 30),
		st.value.Render(fmt.Sprintf("%d/%d", sess.State.Period, cfg.Horizon)),
		st.subtle.Render("mode "+sess.State.Mode.String()),
	)
}

func (m Model) chart(st styleSet, caption string, points []sim.ComparePoint, width int) string {
	if len(points) < 2 {
		return st.panel.Width(width + 10).Render(st.subtle.Render(caption + "\n\nwaiting for data..."))
	}
	ref, act := sim.Series(points)
	graph := asciigraph.PlotMany([][]float64{ref, act},
		asciigraph.Height(7),
		asciigraph.Width(width),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Green),
		asciigraph.SeriesLegends("reference", "actual"),
		asciigraph.Caption(caption),
	)
	return st.panel.Render(graph)
}

func (m Model) pacingChart(st styleSet, points []sim.ScalarPoint, width int) string {
	if len(points) < 2 {
		return st.panel.Width(width + 10).Render(st.subtle.Render("Pacing factor\n\nwaiting for data..."))
	}
	graph := asciigraph.Plot(sim.Values(points),
		asciigraph.Height(5),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(asciigraph.Blue),
		asciigraph.Caption("Pacing factor"),
	)
	return st.panel.Render(graph)
}

func (m Model) viewState(st styleSet, sess sim.Session, cfg sim.Config) string {
	var b strings.Builder
	b.WriteString(st.header.Render("STATE") + "\n")
	row := func(label, value string) {
		b.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Spent", fmt.Sprintf("%.0f", sess.State.CumulativeInput))
	row("Remaining", fmt.Sprintf("%.0f", sess.State.Target-sess.State.CumulativeInput))
	row("Setpoint", fmt.Sprintf("%.1f", sess.Controller.Setpoint()))
	row("Factor", fmt.Sprintf("%.4f", sess.State.PacingFactor))
	row("Control", fmt.Sprintf("%.1f", sess.Controller.Output()))
	row("Interval", cfg.Interval.String())
	b.WriteString(st.sparkline(sim.Values(sess.History.PacingFactors), sideWidth-4))
	return st.panel.Width(sideWidth).Render(b.String())
}

func (m Model) viewParams(st styleSet, sess sim.Session) string {
	var b strings.Builder
	b.WriteString(st.header.Render("PARAMETERS") + "\n")
	for i, f := range fields {
		val := formatField(f, m.fieldValue(f))
		if m.editing && i == m.field {
			val = m.editBuf + "_"
		}
		line := fmt.Sprintf("%-8s %12s", f, val)
		switch {
		case i == m.field:
			b.WriteString(st.active.Render("▸ "+line) + "\n")
		case fieldLocked(f, sess):
			b.WriteString(st.locked.Render("  "+line+" (locked)") + "\n")
		default:
			b.WriteString(st.value.Render("  "+line) + "\n")
		}
	}
	return st.panel.Width(sideWidth).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) viewMetrics(st styleSet) string {
	values := m.sim.Metrics()
	if len(values) == 0 {
		return ""
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(st.header.Render("METRICS") + "\n")
	for _, name := range names {
		b.WriteString(st.label.Width(16).Render(name) + st.value.Render(fmt.Sprintf("%.4f", values[name])) + "\n")
	}
	return st.panel.Width(sideWidth).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) viewKeys(st styleSet) string {
	if m.editing {
		return st.hint("enter", "apply") + st.hint("esc", "cancel")
	}
	return st.hint("space", "start/stop") +
		st.hint("n", "step") +
		st.hint("r", "reset") +
		st.hint("m", "mode") +
		st.hint("tab", "field") +
		st.hint("↑↓", "adjust") +
		st.hint("enter", "edit") +
		st.hint("t", "theme") +
		st.hint("?", "help") +
		st.hint("q", "quit")
}

const helpText = `
╔══════════════════════════════════════════╗
║            KEYBOARD SHORTCUTS            ║
╠══════════════════════════════════════════╣
║  Space     - Start / stop the run        ║
║  N         - Advance one period          ║
║  R         - Reset to initial values     ║
║  M         - Toggle pid / multiplicative ║
║  Tab       - Cycle kp, ki, kd, target    ║
║  Up/K      - Increase field (+10%)       ║
║  Down/J    - Decrease field (-10%)       ║
║  Enter     - Type a value                ║
║  T         - Cycle themes                ║
║  ?         - Toggle this help            ║
║  Q         - Quit                        ║
╚══════════════════════════════════════════╝`

// Run opens the dashboard in the alternate screen and blocks until quit.
func Run(s *sim.Simulator, theme string) error {
	m := NewModel(s)
	m.theme = themeIndex(theme)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
