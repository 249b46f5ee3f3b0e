package installer

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/jarvis/internal/config"
)

type keySpec struct {
	env         string
	title       string
	placeholder string
	optional    bool
}

var apiKeys = map[string]keySpec{
	config.ProviderGroq:       {"GROQ_API_KEY", "Groq API Key", "gsk_...", false},
	config.ProviderOpenAI:     {"OPENAI_API_KEY", "OpenAI API Key", "sk-...", false},
	config.ProviderAnthropic:  {"ANTHROPIC_API_KEY", "Anthropic API Key", "sk-ant-...", false},
	config.ProviderGemini:     {"GEMINI_API_KEY", "Gemini API Key", "AIza...", false},
	config.ProviderOpenRouter: {"OPENROUTER_API_KEY", "OpenRouter API Key", "sk-or-v1-...", false},
	config.ProviderOllama:     {"OLLAMA_API_KEY", "Ollama API Key", "", true},
	config.ProviderCustom:     {"CUSTOM_OPENAI_API_KEY", "API Key", "", true},
}

// APIKeyStep asks for the key of the selected provider.
type APIKeyStep struct {
	*TextStep
}

func NewAPIKeyStep() Step {
	return &APIKeyStep{}
}

func (s *APIKeyStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *APIKeyStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.TextStep == nil {
		spec, ok := apiKeys[state.Provider()]
		if !ok {
			return nil, nil
		}
		opts := []textOption{secret()}
		if spec.optional {
			opts = append(opts, optional())
		}
		s.TextStep = NewTextStep(spec.env, "Enter your "+spec.title+":", spec.placeholder, opts...)
		return s, s.TextStep.Init()
	}

	next, cmd := s.TextStep.Update(msg, state, width, height)
	if next == nil {
		return nil, cmd
	}
	return s, cmd
}

func (s *APIKeyStep) View(state *InstallState) string {
	if s.TextStep == nil {
		return "Loading...\n"
	}
	return s.TextStep.View(state)
}

func NewBaseURLSteps() []Step {
	return []Step{
		NewTextStep(keyOllamaURL, "Enter Ollama Base URL:", "http://localhost:11434",
			placeholderDefault(),
			onlyWhen(func(s *InstallState) bool { return s.Provider() == config.ProviderOllama }),
			validated(validateURL),
		),
		NewTextStep(keyCustomURL, "Enter Custom OpenAI Base URL:", "https://api.example.com/v1",
			onlyWhen(func(s *InstallState) bool { return s.Provider() == config.ProviderCustom }),
			validated(validateURL),
		),
	}
}
