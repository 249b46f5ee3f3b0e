package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TextStep reads one value into key. An empty answer keeps the
// placeholder when fallback is set.
type TextStep struct {
	input    textinput.Model
	title    string
	key      string
	fallback bool
	optional bool
	when     func(*InstallState) bool
	validate func(string) error
	err      error
}

type textOption func(*TextStep)

func secret() textOption {
	return func(s *TextStep) {
		s.input.EchoMode = textinput.EchoPassword
		s.input.EchoCharacter = '*'
	}
}

func optional() textOption {
	return func(s *TextStep) { s.optional = true }
}

func placeholderDefault() textOption {
	return func(s *TextStep) { s.fallback = true }
}

func onlyWhen(fn func(*InstallState) bool) textOption {
	return func(s *TextStep) { s.when = fn }
}

func validated(fn func(string) error) textOption {
	return func(s *TextStep) { s.validate = fn }
}

func NewTextStep(key, title, placeholder string, opts ...textOption) *TextStep {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 50
	ti.Placeholder = placeholder

	s := &TextStep{input: ti, title: title, key: key}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TextStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *TextStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.when != nil && !s.when(state) {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" && s.fallback {
			val = s.input.Placeholder
		}
		if val == "" && !s.optional {
			s.err = fmt.Errorf("a value is required")
			return s, cmd
		}
		if val != "" && s.validate != nil {
			if err := s.validate(val); err != nil {
				s.err = err
				return s, cmd
			}
		}
		if val != "" {
			state.EnvVars[s.key] = val
		}
		return nil, nil
	}
	return s, cmd
}

func (s *TextStep) View(state *InstallState) string {
	hint := "(press enter to confirm)"
	if s.optional {
		hint = "(optional, press enter to skip)"
	}
	view := s.title + "\n\n" + s.input.View() + "\n\n" + hint + "\n"
	if s.err != nil {
		view += "\n" + errorStyle.Render(s.err.Error()) + "\n"
	}
	return view
}
