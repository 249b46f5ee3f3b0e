package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sandevgo/jarvis/internal/service/dialog"
	"github.com/sandevgo/jarvis/pkg/log"
)

// Wake waits in dormant mode for the wake word, then hands over to the
// loop. Without a required wake word the loop runs directly.
type Wake struct {
	loop      *Loop
	in        Input
	out       Output
	lines     *dialog.Book
	name      string
	exitWords []string
	required  bool
}

func NewWake(loop *Loop, in Input, out Output, lines *dialog.Book, name string, required bool) *Wake {
	return &Wake{
		loop:      loop,
		in:        in,
		out:       out,
		lines:     lines,
		name:      strings.ToLower(strings.TrimSpace(name)),
		exitWords: loop.cfg.ExitWords,
		required:  required,
	}
}

// Run returns nil on exit phrases, end of input and cancellation. On
// cancellation the shutdown line is spoken first.
func (w *Wake) Run(ctx context.Context) error {
	w.say(ctx, w.lines.Say(dialog.Greetings))

	if !w.required {
		return w.session(ctx)
	}

	for {
		text, err := w.in.Next(ctx)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			return w.shutdown(ctx)
		case errors.Is(err, io.EOF):
			return nil
		default:
			return fmt.Errorf("read input: %w", err)
		}

		heard := strings.ToLower(strings.TrimSpace(text))
		switch {
		case heard == "":
			continue
		case w.name != "" && strings.Contains(heard, w.name):
			w.say(ctx, w.lines.Say(dialog.WakeAck))
			outcome, err := w.loop.Run(ctx)
			if err != nil {
				return err
			}
			switch outcome {
			case OutcomeDormant:
				continue
			case OutcomeInterrupted:
				return w.shutdown(ctx)
			default:
				return nil
			}
		case IsExit(heard, w.exitWords):
			w.say(ctx, w.lines.Say(dialog.WakeFarewell))
			return nil
		default:
			w.say(ctx, w.lines.Say(dialog.WakeReject))
		}
	}
}

func (w *Wake) session(ctx context.Context) error {
	for {
		outcome, err := w.loop.Run(ctx)
		if err != nil {
			return err
		}
		switch outcome {
		case OutcomeDormant:
			continue
		case OutcomeInterrupted:
			return w.shutdown(ctx)
		default:
			return nil
		}
	}
}

func (w *Wake) shutdown(ctx context.Context) error {
	// ctx is already cancelled, the shutdown line needs a live one
	w.say(context.WithoutCancel(ctx), w.lines.Say(dialog.Shutdown))
	return nil
}

func (w *Wake) say(ctx context.Context, text string) {
	if err := w.out.Say(ctx, text); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to emit output")
	}
}
