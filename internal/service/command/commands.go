package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandevgo/jarvis/internal/core"
)

type HelpCommand struct {
	router core.CmdRouter
}

func NewHelpCommand(router core.CmdRouter) *HelpCommand {
	return &HelpCommand{router: router}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "List session commands"
}

func (c *HelpCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	cmds := c.router.ListCommands()
	items := make([]string, len(cmds))
	for i, cmd := range cmds {
		items[i] = fmt.Sprintf("`/%s` %s", cmd.Name(), cmd.Description())
	}
	return new(reply).title("Commands").list(items).String(), nil
}

// SpecLister is the function registry.
type SpecLister interface {
	Specs() []core.FunctionSpec
}

type FunctionsCommand struct {
	registry SpecLister
}

func NewFunctionsCommand(registry SpecLister) *FunctionsCommand {
	return &FunctionsCommand{registry: registry}
}

func (c *FunctionsCommand) Name() string {
	return "functions"
}

func (c *FunctionsCommand) Description() string {
	return "Show the functions I can call"
}

func (c *FunctionsCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	specs := c.registry.Specs()
	if len(specs) == 0 {
		return new(reply).title("Functions").field("Status", "No functions are registered.").String(), nil
	}

	filter := strings.ToLower(strings.Join(args, " "))
	items := make([]string, 0, len(specs))
	for _, s := range specs {
		if filter != "" && !strings.Contains(strings.ToLower(s.Name+" "+s.Category), filter) {
			continue
		}
		items = append(items, fmt.Sprintf("**%s** %s", s.Name, shorten(s.Description, 120)))
	}

	return new(reply).
		title("Functions").
		field("Registered", strconv.Itoa(len(specs))).
		list(items).
		String(), nil
}

func shorten(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

const defaultHistoryLimit = 10

type HistoryCommand struct {
	repo core.HistoryRepository
}

func NewHistoryCommand(repo core.HistoryRepository) *HistoryCommand {
	return &HistoryCommand{repo: repo}
}

func (c *HistoryCommand) Name() string {
	return "history"
}

func (c *HistoryCommand) Description() string {
	return "Show the last turns of the conversation log"
}

func (c *HistoryCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	limit := defaultHistoryLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return new(reply).usage("/history [count]").String(), nil
		}
		limit = n
	}

	msgs, err := c.repo.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load history: %w", err)
	}
	if len(msgs) == 0 {
		return new(reply).field("History", "empty").String(), nil
	}
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	items := make([]string, len(msgs))
	for i, m := range msgs {
		items[i] = fmt.Sprintf("**%s**: %s", m.Role, shorten(m.Content, 200))
	}
	return new(reply).title(fmt.Sprintf("Last %d messages", len(msgs))).list(items).String(), nil
}

type ClearCommand struct {
	repo core.HistoryRepository
}

func NewClearCommand(repo core.HistoryRepository) *ClearCommand {
	return &ClearCommand{repo: repo}
}

func (c *ClearCommand) Name() string {
	return "clear"
}

func (c *ClearCommand) Description() string {
	return "Erase the conversation log"
}

func (c *ClearCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if err := c.repo.Clear(ctx); err != nil {
		return "", fmt.Errorf("failed to clear history: %w", err)
	}
	return new(reply).title("Conversation log cleared.").String(), nil
}

// ModelSwitcher is the provider whose model can change at runtime.
type ModelSwitcher interface {
	GetModel() string
	SetModel(ctx context.Context, model string) error
}

type ModelCommand struct {
	provider string
	models   ModelSwitcher
}

func NewModelCommand(provider string, models ModelSwitcher) *ModelCommand {
	return &ModelCommand{
		provider: provider,
		models:   models,
	}
}

func (c *ModelCommand) Name() string {
	return "model"
}

func (c *ModelCommand) Description() string {
	return "Show or change current model"
}

func (c *ModelCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if len(args) == 0 {
		return new(reply).
			title("Current model").
			field("Provider", c.provider).
			field("Model", c.models.GetModel()).
			usage("/model [model]").
			examples("/model llama-3.3-70b-versatile", "/model gemini-2.5-flash").
			String(), nil
	}

	if err := c.models.SetModel(ctx, args[0]); err != nil {
		return "", fmt.Errorf("failed to set model: %w", err)
	}

	return new(reply).title(fmt.Sprintf("Model changed to: %s/%s", c.provider, c.models.GetModel())).String(), nil
}
