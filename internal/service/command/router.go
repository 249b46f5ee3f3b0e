// Package command handles "/"-prefixed session commands typed in a
// transport. They bypass intent resolution entirely.
package command

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/sandevgo/jarvis/internal/core"
)

type Router struct {
	byName map[string]core.Command
}

// New builds a router over commands plus /help. A later command replaces
// an earlier one with the same name.
func New(commands []core.Command) *Router {
	r := &Router{byName: make(map[string]core.Command, len(commands)+1)}
	for _, cmd := range append(slices.Clip(commands), NewHelpCommand(r)) {
		r.byName[strings.ToLower(cmd.Name())] = cmd
	}
	return r
}

// Execute runs input when it is a command. The second result is false for
// ordinary utterances, which the caller passes on to intent resolution.
func (r *Router) Execute(ctx context.Context, sessionID, input string) (string, bool) {
	name, args, ok := parseCommand(input)
	if !ok {
		return "", false
	}

	cmd, found := r.byName[name]
	if !found {
		return fmt.Sprintf("Unknown command: /%s. Type /help for the list.", name), true
	}

	out, err := cmd.Execute(ctx, sessionID, args)
	if err != nil {
		return "Error: " + err.Error(), true
	}
	return out, true
}

// ListCommands returns the commands sorted by name.
func (r *Router) ListCommands() []core.Command {
	return slices.SortedFunc(maps.Values(r.byName), func(a, b core.Command) int {
		return strings.Compare(a.Name(), b.Name())
	})
}

func parseCommand(input string) (name string, args []string, ok bool) {
	fields := strings.Fields(input)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil, false
	}
	name = strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	if name == "" {
		return "", nil, false
	}
	return name, fields[1:], true
}
