// Package tui shows a spinner while a slow task (the model call) runs.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var labelStyle = lipgloss.NewStyle().Faint(true)

type doneMsg struct {
	out string
	err error
}

// Model wraps one blocking task behind a spinner.
type Model struct {
	spinner spinner.Model
	label   string
	task    func() (string, error)
	out     string
	err     error
}

func newModel(label string, task func() (string, error)) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{spinner: s, label: label, task: task}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runTask)
}

func (m Model) runTask() tea.Msg {
	out, err := m.task()
	return doneMsg{out: out, err: err}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.err = fmt.Errorf("cancelled")
			return m, tea.Quit
		}

	case doneMsg:
		m.out = msg.out
		m.err = msg.err
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.out != "" || m.err != nil {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), labelStyle.Render(m.label))
}

// Run executes task under a spinner and returns its result. Errors from the
// terminal program itself surface as task errors.
func Run(label string, task func() (string, error)) (string, error) {
	final, err := tea.NewProgram(newModel(label, task)).Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(Model)
	if !ok {
		return "", fmt.Errorf("unexpected final model")
	}
	return m.out, m.err
}
