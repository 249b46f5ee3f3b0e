package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/jarvis/internal/config"
)

type choice struct {
	id    string
	label string
}

// ChoiceStep picks one option and stores its id under key.
type ChoiceStep struct {
	title   string
	key     string
	choices []choice
	cursor  int
}

func NewProviderStep() Step {
	return &ChoiceStep{
		title: "Select your AI Provider:",
		key:   keyProvider,
		choices: []choice{
			{config.ProviderGroq, "Groq"},
			{config.ProviderOpenAI, "OpenAI"},
			{config.ProviderAnthropic, "Anthropic"},
			{config.ProviderGemini, "Gemini"},
			{config.ProviderOpenRouter, "OpenRouter"},
			{config.ProviderOllama, "Ollama"},
			{config.ProviderCustom, "Custom OpenAI-compatible"},
		},
	}
}

func (s *ChoiceStep) Init() tea.Cmd {
	return nil
}

func (s *ChoiceStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			state.EnvVars[s.key] = s.choices[s.cursor].id
			return nil, nil
		}
	}
	return s, nil
}

func (s *ChoiceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.title + "\n\n")
	for i, c := range s.choices {
		if s.cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("> %s", c.label)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", c.label)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
