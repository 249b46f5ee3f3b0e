// Package output serializes everything the assistant says onto one writer.
package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sandevgo/jarvis/internal/core"
	"github.com/sandevgo/jarvis/internal/service/ui"
	"github.com/sandevgo/jarvis/pkg/conv"
	"github.com/sandevgo/jarvis/pkg/log"
)

const defaultBuffer = 64

var ErrClosed = errors.New("output bus closed")

type item struct {
	ctx    context.Context
	source string
	text   string
	ack    chan struct{}
}

// Bus is the single consumer of assistant output. Session turns use Say
// and wait for delivery; monitors use Publish and never block.
type Bus struct {
	w       io.Writer
	name    string
	speaker core.Speaker
	plain   bool

	ch       chan item
	quit     chan struct{}
	done     chan struct{}
	quitOnce sync.Once
}

type Option func(*Bus)

// WithSpeaker speaks every line after it is written.
func WithSpeaker(s core.Speaker) Option {
	return func(b *Bus) { b.speaker = s }
}

// WithPlain disables terminal styling, used when stdout is read by a program.
func WithPlain() Option {
	return func(b *Bus) { b.plain = true }
}

func WithBuffer(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.ch = make(chan item, n)
		}
	}
}

func NewBus(w io.Writer, name string, opts ...Option) *Bus {
	b := &Bus{
		w:    w,
		name: name,
		ch:   make(chan item, defaultBuffer),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start consumes lines until Shutdown. It keeps running after ctx is
// cancelled so the final shutdown line still reaches the user.
func (b *Bus) Start(ctx context.Context) error {
	defer close(b.done)
	for {
		select {
		case it := <-b.ch:
			b.write(it)
		case <-b.quit:
			for {
				select {
				case it := <-b.ch:
					b.write(it)
				default:
					return nil
				}
			}
		}
	}
}

// Shutdown stops accepting lines and waits for queued ones to be written.
func (b *Bus) Shutdown(ctx context.Context) error {
	b.quitOnce.Do(func() { close(b.quit) })
	<-b.done
	return nil
}

// Say queues text and returns once it was written and spoken.
func (b *Bus) Say(ctx context.Context, text string) error {
	it := item{ctx: ctx, source: "session", text: text, ack: make(chan struct{})}
	select {
	case b.ch <- it:
	case <-b.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-it.ack:
		return nil
	case <-b.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Publish queues text without waiting. It reports false when the line was
// dropped because the bus is closed or full.
func (b *Bus) Publish(ctx context.Context, source, text string) bool {
	select {
	case <-b.quit:
		return false
	default:
	}

	select {
	case b.ch <- item{ctx: context.WithoutCancel(ctx), source: source, text: text}:
		return true
	default:
		log.FromCtx(ctx).Warn().Str("source", source).Msg("output queue full, dropping line")
		return false
	}
}

func (b *Bus) write(it item) {
	if it.ack != nil {
		defer close(it.ack)
	}
	logger := log.FromCtx(it.ctx)

	raw := strings.TrimSpace(it.text)
	if raw == "" {
		return
	}
	// decoration-only markdown such as "---" or a lone image renders empty
	text := conv.MarkdownToSpeech([]byte(raw))
	if strings.TrimSpace(text) == "" {
		text = raw
	}

	prefix := b.name + ":"
	if !b.plain {
		prefix = ui.SpeakerStyle.Render(prefix)
	}
	if _, err := fmt.Fprintf(b.w, "%s %s\n", prefix, text); err != nil {
		logger.Error().Err(err).Str("source", it.source).Msg("failed to write output")
	}

	if b.speaker != nil {
		if err := b.speaker.Speak(it.ctx, text); err != nil {
			logger.Warn().Err(err).Str("source", it.source).Msg("speech failed")
		}
	}
}
