package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styleSet struct {
	title    lipgloss.Style
	subtle   lipgloss.Style
	panel    lipgloss.Style
	header   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	active   lipgloss.Style
	locked   lipgloss.Style
	keyHint  lipgloss.Style
	key      lipgloss.Style
	err      lipgloss.Style
	running  lipgloss.Style
	idle     lipgloss.Style
	complete lipgloss.Style
	sparkHi  lipgloss.Style
	sparkMid lipgloss.Style
	sparkLo  lipgloss.Style
}

func newStyles(t Theme) styleSet {
	return styleSet{
		title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		subtle: lipgloss.NewStyle().Foreground(t.Muted),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border),
		label:    lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:    lipgloss.NewStyle().Foreground(t.Text),
		active:   lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		locked:   lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		keyHint:  lipgloss.NewStyle().Foreground(t.Muted),
		key:      lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		err:      lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		running:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#000000")).Background(t.Success).Padding(0, 1),
		idle:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#000000")).Background(t.Warning).Padding(0, 1),
		complete: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#000000")).Background(t.Secondary).Padding(0, 1),
		sparkHi:  lipgloss.NewStyle().Foreground(t.Success),
		sparkMid: lipgloss.NewStyle().Foreground(t.Warning),
		sparkLo:  lipgloss.NewStyle().Foreground(t.Error),
	}
}

// progressBar renders the share of the horizon already played.
func (st styleSet) progressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return st.sparkHi.Render(strings.Repeat("█", filled)) + st.subtle.Render(strings.Repeat("░", width-filled))
}

// sparkline renders the last width values on a fixed [0,1] scale, which is
// the range of the pacing factor.
func (st styleSet) sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return st.subtle.Render(strings.Repeat("─", width))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var b strings.Builder
	for _, v := range values {
		idx := int(v * float64(len(chars)-1))
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		if idx < 0 {
			idx = 0
		}
		c := string(chars[idx])
		switch {
		case v > 0.7:
			b.WriteString(st.sparkHi.Render(c))
		case v > 0.3:
			b.WriteString(st.sparkMid.Render(c))
		default:
			b.WriteString(st.sparkLo.Render(c))
		}
	}
	return b.String()
}

func (st styleSet) hint(key, desc string) string {
	return st.key.Render(key) + st.keyHint.Render(" "+desc+"  ")
}
