// Package tui provides the Bubble Tea analysis REPL.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/azielinski/nbpstat/internal/command"
)

const banner = "Currency Exchange Rate Statistical Analysis System"

const helpText = `Commands:
  analyze <currency> --period <period> [--start YYYY-MM-DD]
      Statistics for one currency: median, mode, deviation, sessions.
  change-distribution <currency> <currency> --period <period> [--start YYYY-MM-DD]
      Histogram of day-over-day changes for a currency pair.
  rate <currency>
      Latest published rate.
  history [--last N]
      Recent requests.
  help
      Show this help.
  exit
      Leave the program.

Periods: 1-week, 2-weeks, 1-month, 1-quarter, 6-months, 1-year
Dates anchor the period's end; the default is today.`

var (
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	echoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea REPL.
type Model struct {
	exec  *command.Executor
	input textinput.Model
	view  viewport.Model

	lines   []string
	history []string
	histPos int
	draft   string

	width  int
	height int
	ready  bool
}

// NewModel constructs a REPL model around an executor.
func NewModel(exec *command.Executor) *Model {
	input := textinput.New()
	input.Prompt = "nbp> "
	input.Placeholder = "help"
	input.Focus()

	m := &Model{
		exec:  exec,
		input: input,
	}
	m.appendOutput(bannerStyle.Render(banner))
	m.appendOutput("Type 'help' for available commands.")
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyUp:
			m.historyBack()
			return m, nil
		case tea.KeyDown:
			m.historyForward()
			return m, nil
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.view, cmd = m.view.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return strings.Join(m.lines, "\n") + "\n" + m.input.View()
	}
	footer := footerStyle.Render("PgUp/PgDn scroll · Ctrl+C quit")
	return m.view.View() + "\n" + m.input.View() + "\n" + footer
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	m.histPos = len(m.history)
	m.draft = ""

	if line == "" {
		return m, nil
	}
	m.history = append(m.history, line)
	m.histPos = len(m.history)
	m.appendOutput(echoStyle.Render("nbp> " + line))

	switch strings.ToLower(line) {
	case "exit", "quit":
		return m, tea.Quit
	case "help":
		m.appendOutput(helpText)
		return m, nil
	}

	out, err := m.exec.Run(context.Background(), line)
	if err != nil {
		m.appendOutput(errorStyle.Render("Error: " + err.Error()))
		return m, nil
	}
	m.appendOutput(strings.TrimRight(out, "\n"))
	return m, nil
}

func (m *Model) historyBack() {
	if len(m.history) == 0 || m.histPos == 0 {
		return
	}
	if m.histPos == len(m.history) {
		m.draft = m.input.Value()
	}
	m.histPos--
	m.input.SetValue(m.history[m.histPos])
	m.input.CursorEnd()
}

func (m *Model) historyForward() {
	if m.histPos >= len(m.history) {
		return
	}
	m.histPos++
	if m.histPos == len(m.history) {
		m.input.SetValue(m.draft)
	} else {
		m.input.SetValue(m.history[m.histPos])
	}
	m.input.CursorEnd()
}

func (m *Model) appendOutput(block string) {
	m.lines = append(m.lines, strings.Split(block, "\n")...)
	m.syncViewport()
}

func (m *Model) resize() {
	// One line for the prompt and one for the footer.
	bodyHeight := m.height - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	if !m.ready {
		m.view = viewport.New(m.width, bodyHeight)
		m.ready = true
	} else {
		m.view.Width = m.width
		m.view.Height = bodyHeight
	}
	m.input.Width = m.width - len(m.input.Prompt) - 1
	m.syncViewport()
}

func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	m.view.SetContent(strings.Join(m.lines, "\n"))
	m.view.GotoBottom()
}
