package installer

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/jarvis/internal/config"
	"github.com/sandevgo/jarvis/internal/core"
	"github.com/sandevgo/jarvis/internal/providers/llm"
)

const listModelsTimeout = 30 * time.Second

type modelsMsg []list.Item

type modelPhase int

const (
	phaseIdle modelPhase = iota
	phaseFetching
	phasePicking
	phaseFailed
)

// ModelStep lists the provider's models and stores the pick under key.
// If listing fails, esc skips the step and the config default applies.
type ModelStep struct {
	key     string
	phase   modelPhase
	list    list.Model
	spinner spinner.Model
	err     error
}

func NewModelStep(key, title string) Step {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.Styles.Title = titleStyle
	l.SetFilteringEnabled(true)

	return &ModelStep{
		key:     key,
		list:    l,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *ModelStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *ModelStep) fetch(vars map[string]string) tea.Cmd {
	s.phase = phaseFetching
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), listModelsTimeout)
		defer cancel()

		models, err := listModels(ctx, vars)
		if err != nil {
			return errMsg(err)
		}
		return modelsMsg(modelItems(models))
	})
}

func (s *ModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.phase == phaseIdle {
		return s, s.fetch(state.EnvVars)
	}
	s.list.SetSize(width, height-4)

	switch msg := msg.(type) {
	case modelsMsg:
		s.list.SetItems(msg)
		s.phase = phasePicking
		return s, nil
	case errMsg:
		s.err = msg
		s.phase = phaseFailed
		return s, nil
	case spinner.TickMsg:
		if s.phase != phaseFetching {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	case tea.KeyMsg:
		switch s.phase {
		case phaseFailed:
			switch msg.String() {
			case "enter":
				s.err = nil
				return s, s.fetch(state.EnvVars)
			case "esc":
				return nil, nil
			}
			return s, nil
		case phasePicking:
			return s.pick(msg, state)
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

// pick forwards keys to the list; enter outside filtering accepts the item.
func (s *ModelStep) pick(msg tea.KeyMsg, state *InstallState) (Step, tea.Cmd) {
	filtering := s.list.FilterState() == list.Filtering
	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	if msg.String() != "enter" || filtering || s.list.FilterState() == list.Filtering {
		return s, cmd
	}
	if it, ok := s.list.SelectedItem().(item); ok {
		state.EnvVars[s.key] = it.id
		return nil, nil
	}
	return s, cmd
}

func (s *ModelStep) View(state *InstallState) string {
	switch s.phase {
	case phaseFailed:
		return errorStyle.Render("Could not list models: "+s.err.Error()) +
			"\n\nCheck the API key and your connection.\n" +
			faintStyle.Render("enter retries, esc keeps the default model") + "\n"
	case phasePicking:
		return s.list.View()
	}
	return fmt.Sprintf("%s Fetching models from %s\n", s.spinner.View(), state.Provider())
}

func modelItems(models []core.Model) []list.Item {
	items := make([]list.Item, len(models))
	for i, m := range models {
		desc := m.ID
		if m.ContextLength > 0 {
			desc = fmt.Sprintf("%s, %dk context", m.ID, m.ContextLength/1000)
		}
		items[i] = item{id: m.ID, title: m.Name, desc: desc}
	}
	return items
}

func listModels(ctx context.Context, vars map[string]string) ([]core.Model, error) {
	var cfg config.ProviderConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return nil, err
	}

	p, err := llm.NewProvider(ctx, &cfg, cfg.ChatModel)
	if err != nil {
		return nil, err
	}
	lister, ok := p.(core.ModelLister)
	if !ok {
		return nil, fmt.Errorf("%s cannot list models", cfg.Provider)
	}
	return lister.Models(ctx)
}
