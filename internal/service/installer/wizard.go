// Package installer is the terminal wizard behind `jarvis install`. It
// asks for the provider, models, names and optional Telegram channel and
// writes the runtime directory.
package installer

import (
	"errors"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var ErrInterrupted = errors.New("jarvis installation interrupted")

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	itemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	selStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
)

// Step is one screen of the wizard. Update returns nil once the step is
// done; steps that must act before any key press send nextMsg from Init.
type Step interface {
	Init() tea.Cmd
	Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd)
	View(state *InstallState) string
}

func getSteps(root string) []Step {
	steps := []Step{NewProviderStep()}
	steps = append(steps, NewBaseURLSteps()...)
	steps = append(steps,
		NewAPIKeyStep(),
		NewModelStep(keyChatModel, "Select the conversation model"),
		NewModelStep(keyIntentModel, "Select the intent model (small and fast works best)"),
	)
	steps = append(steps, NewNameSteps()...)
	steps = append(steps, NewChannelStep())
	steps = append(steps, NewTelegramSteps()...)
	return append(steps,
		NewFinalizationStep(),
		NewSaveEnvStep(root),
		NewInitializeFilesStep(root),
	)
}

// item is a list entry of the model picker.
type item struct {
	id    string
	title string
	desc  string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.id }

type errMsg error
type nextMsg struct{}

type model struct {
	root     string
	steps    []Step
	current  int
	state    *InstallState
	quitting bool
	width    int
	height   int
}

func initialModel(root string) model {
	return model{
		root:  root,
		steps: getSteps(root),
		state: NewInstallState(),
	}
}

func (m model) done() bool {
	return m.current >= len(m.steps)
}

func (m model) Init() tea.Cmd {
	if m.done() {
		return tea.Quit
	}
	return m.steps[0].Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}
	if m.quitting || m.done() {
		return m, tea.Quit
	}

	next, cmd := m.steps[m.current].Update(msg, m.state, m.width, m.height)
	if next != nil {
		m.steps[m.current] = next
		return m, cmd
	}

	m.current++
	if m.done() {
		return m, tea.Quit
	}
	return m, m.steps[m.current].Init()
}

func (m model) View() string {
	switch {
	case m.quitting:
		return "Installation cancelled.\n"
	case m.done():
		return fmt.Sprintf("Configuration written to %s\n", filepath.Join(m.root, ".env"))
	}

	header := titleStyle.Render("Installing Jarvis") + " " +
		faintStyle.Render(fmt.Sprintf("step %d of %d", m.current+1, len(m.steps)))
	return header + "\n\n" + m.steps[m.current].View(m.state)
}

// RunWizard starts the TUI and writes the runtime directory at root.
func RunWizard(root string) (*InstallState, error) {
	p := tea.NewProgram(initialModel(root), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}

	m := final.(model)
	if m.quitting || !m.done() {
		return nil, ErrInterrupted
	}
	return m.state, nil
}
