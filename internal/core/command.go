package core

import "context"

// CmdRouter handles "/"-prefixed session commands. Execute reports false
// when input is not a command, so the caller resolves it as an utterance.
type CmdRouter interface {
	Execute(ctx context.Context, sessionID, input string) (string, bool)
	ListCommands() []Command
}

// Command is one session command. args are the words after its name.
type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, sessionID string, args []string) (string, error)
}
