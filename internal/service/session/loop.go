package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sandevgo/jarvis/internal/service/dialog"
	"github.com/sandevgo/jarvis/pkg/log"
)

// Input yields utterances. Next must return ctx.Err() when ctx ends
// before a line arrives, without losing that line, and io.EOF once the
// source is exhausted.
type Input interface {
	Next(ctx context.Context) (string, error)
}

// Output delivers text to the user and returns once it was emitted.
type Output interface {
	Say(ctx context.Context, text string) error
}

type LoopConfig struct {
	SessionID string
	// Zero disables the inactivity timeout
	InactivityTimeout time.Duration
	ExitWords         []string
	// Line key used to ask for input again after an empty utterance
	RepromptKey dialog.Key
}

type Loop struct {
	assistant *Assistant
	in        Input
	out       Output
	lines     *dialog.Book
	cfg       LoopConfig
	observe   Observer
	now       func() time.Time
}

type LoopOption func(*Loop)

func WithLoopObserver(o Observer) LoopOption {
	return func(l *Loop) { l.observe = o }
}

func WithLoopClock(now func() time.Time) LoopOption {
	return func(l *Loop) { l.now = now }
}

func NewLoop(a *Assistant, in Input, out Output, lines *dialog.Book, cfg LoopConfig, opts ...LoopOption) *Loop {
	if len(cfg.ExitWords) == 0 {
		cfg.ExitWords = DefaultExitWords
	}
	if cfg.RepromptKey == "" {
		cfg.RepromptKey = dialog.Reprompt
	}
	l := &Loop{
		assistant: a,
		in:        in,
		out:       out,
		lines:     lines,
		cfg:       cfg,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run processes turns until an exit phrase, inactivity, end of input or
// cancellation. Only input failures other than EOF are returned as errors.
func (l *Loop) Run(ctx context.Context) (Outcome, error) {
	logger := log.FromCtx(ctx).With().Str("session", l.cfg.SessionID).Logger()
	last := l.now()

	for {
		l.enter(StateIdle)

		text, err := l.read(ctx, last)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			return OutcomeInterrupted, nil
		case errors.Is(err, context.DeadlineExceeded):
			l.enter(StateDormant)
			logger.Info().Dur("timeout", l.cfg.InactivityTimeout).Msg("no input, going dormant")
			l.say(ctx, l.lines.Say(dialog.Dormant))
			return OutcomeDormant, nil
		case errors.Is(err, io.EOF):
			return OutcomeClosed, nil
		default:
			return OutcomeClosed, fmt.Errorf("read input: %w", err)
		}

		utterance := strings.TrimSpace(text)
		if utterance == "" {
			l.say(ctx, l.lines.Say(l.cfg.RepromptKey))
			continue
		}

		if IsExit(utterance, l.cfg.ExitWords) {
			l.enter(StateExiting)
			if !isWholeWordExit(utterance, l.cfg.ExitWords) {
				logger.Debug().Str("utterance", utterance).Msg("exit matched inside a longer word")
			}
			l.say(ctx, l.lines.Say(dialog.Farewells))
			return OutcomeExit, nil
		}

		reply := l.assistant.Respond(ctx, l.cfg.SessionID, utterance)
		l.enter(StateResponding)
		l.say(ctx, reply)
		last = l.now()
	}
}

func (l *Loop) read(ctx context.Context, last time.Time) (string, error) {
	if l.cfg.InactivityTimeout <= 0 {
		return l.in.Next(ctx)
	}

	remaining := l.cfg.InactivityTimeout - l.now().Sub(last)
	if remaining <= 0 {
		return "", context.DeadlineExceeded
	}

	readCtx, cancel := context.WithTimeout(ctx, remaining)
	defer cancel()
	return l.in.Next(readCtx)
}

func (l *Loop) say(ctx context.Context, text string) {
	if err := l.out.Say(ctx, text); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to emit output")
	}
}

func (l *Loop) enter(s State) {
	if l.observe != nil {
		l.observe(s)
	}
}
