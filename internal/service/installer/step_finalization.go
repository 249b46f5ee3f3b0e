package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

// FinalizationStep computes derived values
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	finalize(state)
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}

func finalize(state *InstallState) {
	if state.TelegramSelected() && state.EnvVars[keyTelegramToken] != "" {
		state.EnvVars[keyTelegram] = "true"
	} else {
		state.EnvVars[keyTelegram] = "false"
		delete(state.EnvVars, keyTelegramToken)
		delete(state.EnvVars, keyTelegramOwner)
	}
	delete(state.EnvVars, keyChannel)
}
