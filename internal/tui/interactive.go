package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

// ErrCanceled is returned by PickPreset when the menu is closed without a
// choice.
var ErrCanceled = errors.New("selection canceled")

// Option is one entry of the preset menu.
type Option struct {
	Name        string
	Description string
}

type picker struct {
	options  []Option
	cursor   int
	selected string
	quit     bool
}

func newPicker(options []Option) picker {
	return picker{options: options}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.quit = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.options) > 0 {
			m.selected = m.options[m.cursor].Name
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m picker) View() string {
	var b strings.Builder
	b.WriteString("\n\n    " + cyan.Bold(true).Render("PACESIM") + "\n")
	b.WriteString("    " + dim.Render("budget pacing simulator") + "\n")
	b.WriteString("    " + dim.Render("─────────────────────────") + "\n\n")
	for i, o := range m.options {
		desc := o.Description
		if len(desc) > 40 {
			desc = desc[:37] + "..."
		}
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cyan.Bold(true).Render("▸"), white.Bold(true).Render(fmt.Sprintf("%-16s", o.Name)), magenta.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", dim.Render(fmt.Sprintf("%-16s", o.Name)), dimmer.Render(desc)))
		}
	}
	b.WriteString("\n    " + cyan.Bold(true).Render("j/k") + dim.Render(" navigate  ") +
		cyan.Bold(true).Render("enter") + dim.Render(" select  ") +
		cyan.Bold(true).Render("q") + dim.Render(" quit") + "\n")
	return b.String()
}

// PickPreset shows a menu of presets and returns the chosen name.
func PickPreset(options []Option) (string, error) {
	final, err := tea.NewProgram(newPicker(options), tea.WithAltScreen()).Run()
	if err != nil {
		return "", err
	}
	m := final.(picker)
	if m.quit || m.selected == "" {
		return "", ErrCanceled
	}
	return m.selected, nil
}
