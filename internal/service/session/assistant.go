// Package session drives conversation turns: resolve, dispatch or fall
// back, respond.
package session

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/sandevgo/jarvis/internal/core"
	"github.com/sandevgo/jarvis/pkg/log"
)

type Resolver interface {
	Resolve(ctx context.Context, history []core.Message, utterance string) (core.IntentDecision, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, name, argument string) core.DispatchResult
}

type Responder interface {
	Respond(ctx context.Context, utterance string) string
}

// Assistant runs single turns. Turns are serialized, so transports
// sharing one Assistant never interleave.
type Assistant struct {
	resolver   Resolver
	dispatcher Dispatcher
	fallback   Responder
	history    core.HistoryRepository
	commands   core.CmdRouter
	apology    string
	observe    Observer
	mu         sync.Mutex
}

type AssistantOption func(*Assistant)

// WithCommands routes "/"-prefixed input to router before resolution.
func WithCommands(router core.CmdRouter) AssistantOption {
	return func(a *Assistant) { a.commands = router }
}

func WithObserver(o Observer) AssistantOption {
	return func(a *Assistant) { a.observe = o }
}

func NewAssistant(
	resolver Resolver,
	dispatcher Dispatcher,
	fallback Responder,
	history core.HistoryRepository,
	apology string,
	opts ...AssistantOption,
) *Assistant {
	a := &Assistant{
		resolver:   resolver,
		dispatcher: dispatcher,
		fallback:   fallback,
		history:    history,
		apology:    apology,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Respond handles one non-empty utterance and always returns text.
func (a *Assistant) Respond(ctx context.Context, sessionID, utterance string) (reply string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	logger := log.FromCtx(ctx).With().Str("session", sessionID).Logger()
	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("turn panicked")
			reply = a.apology
		}
	}()

	if a.commands != nil {
		if out, ok := a.commands.Execute(ctx, sessionID, utterance); ok {
			return out
		}
	}

	a.enter(StateResolving)
	history, err := a.history.Load(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("history unavailable, resolving without it")
		history = nil
	}

	decision, err := a.resolver.Resolve(ctx, history, utterance)
	if err != nil {
		logger.Error().Err(err).Msg("intent resolution failed")
		return a.apology
	}

	switch d := decision.(type) {
	case core.FunctionCall:
		a.enter(StateDispatching)
		logger.Info().Str("function", d.Function).Str("query", d.Argument).Msg("dispatching")
		res := a.dispatcher.Dispatch(ctx, d.Function, d.Argument)
		if err := a.history.Append(ctx,
			core.Message{Role: core.RoleUser, Content: utterance},
			core.Message{Role: core.RoleAssistant, Content: res.Output},
		); err != nil {
			logger.Warn().Err(err).Msg("failed to record turn")
		}
		return res.Output
	default:
		a.enter(StateFallback)
		logger.Info().Msg("no function call, answering conversationally")
		return a.fallback.Respond(ctx, utterance)
	}
}

func (a *Assistant) enter(s State) {
	if a.observe != nil {
		a.observe(s)
	}
}
