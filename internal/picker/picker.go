// Package picker provides the interactive list selections used during
// first-time setup: model choice and reasoning effort.
package picker

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrAborted is returned when the user quits the picker without choosing.
var ErrAborted = errors.New("selection aborted")

// Item is one selectable row: a value plus an optional description shown
// alongside it.
type Item struct {
	Value string
	Desc  string
}

// Model is a minimal Bubble Tea list: up/down to move, enter to choose,
// q or ctrl+c to abort.
type Model struct {
	title  string
	items  []Item
	cursor int
	choice string
	done   bool
}

func New(title string, items []Item) Model {
	return Model{title: title, items: items}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.done = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.items) > 0 {
			m.choice = m.items[m.cursor].Value
		}
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (m Model) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n\n")
	for i, it := range m.items {
		line := "  " + it.Value
		if i == m.cursor {
			line = selectedStyle.Render("> " + it.Value)
		}
		if it.Desc != "" {
			line += "  " + descStyle.Render(it.Desc)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + descStyle.Render("enter to select, q to quit") + "\n")
	return b.String()
}

// Choice returns the selected value, empty when aborted.
func (m Model) Choice() string { return m.choice }

// Pick runs the picker program and returns the chosen value.
func Pick(title string, items []Item) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("pick %s: no options", title)
	}
	final, err := tea.NewProgram(New(title, items)).Run()
	if err != nil {
		return "", fmt.Errorf("pick %s: %w", title, err)
	}
	m, ok := final.(Model)
	if !ok || m.choice == "" {
		return "", ErrAborted
	}
	return m.choice, nil
}

// EffortItems lists the reasoning effort levels in ascending cost order.
func EffortItems() []Item {
	return []Item{
		{Value: "low", Desc: "minimal deliberation, fastest"},
		{Value: "medium", Desc: "balanced"},
		{Value: "high", Desc: "maximum deliberation, slowest"},
	}
}
