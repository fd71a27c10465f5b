package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"lltrace"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <trace-dir>",
	Short: "Browse a trace's event stream interactively",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	dir := args[0]
	format, err := formatFromFlag(cmd)
	if err != nil {
		return err
	}
	trace, err := lltrace.LoadTrace(dir, format)
	if err != nil {
		return fmt.Errorf("lltrace inspect: %w", err)
	}

	model := &inspectModel{events: trace.Events, path: dir}
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, err = program.Run()
	return err
}

// inspectModel is a Bubble Tea model that scrolls through a decoded
// event stream one event at a time, adapted from internal/ui's
// progressModel for a static list rather than a live event channel.
type inspectModel struct {
	events []lltrace.LowLevelEvent
	path   string
	cursor int
}

func (m *inspectModel) Init() tea.Cmd { return nil }

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "down", "j":
			if m.cursor < len(m.events)-1 {
				m.cursor++
			}
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "g":
			m.cursor = 0
		case "G":
			m.cursor = len(m.events) - 1
		}
	}
	return m, nil
}

func (m *inspectModel) View() string {
	if len(m.events) == 0 {
		return "no events\n"
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	kindStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	e := m.events[m.cursor]
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", titleStyle.Render(fmt.Sprintf("%s  [%d/%d]", m.path, m.cursor+1, len(m.events))))
	fmt.Fprintf(&b, "%s\n\n", kindStyle.Render(e.Kind.String()))
	fmt.Fprintf(&b, "%s\n", summarizeEvent(e))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("j/k or ↑/↓ to move, g/G for start/end, q to quit"))
	return b.String()
}
