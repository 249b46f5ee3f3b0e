// Package telegram exposes the assistant to its owner over a Telegram bot.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/jarvis/internal/config"
	"github.com/sandevgo/jarvis/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const (
	pollTimeout = 10 * time.Second
	// Telegram clears a chat action after about five seconds
	typingEvery = 4 * time.Second
)

// Responder answers one utterance. session.Assistant satisfies it and
// serializes these turns with the terminal session.
type Responder interface {
	Respond(ctx context.Context, sessionID, utterance string) string
}

type Bot struct {
	api       *tele.Bot
	sender    *sender
	assistant Responder
	owner     *tele.User
	ctx       context.Context
}

func NewBot(ctx context.Context, cfg *config.TelegramConfig, assistant Responder) (*Bot, error) {
	api, err := tele.NewBot(tele.Settings{
		Token:  cfg.GetTelegramToken(),
		Poller: &tele.LongPoller{Timeout: pollTimeout},
		OnError: func(err error, c tele.Context) {
			log.FromCtx(ctx).Error().Err(err).Msg("telegram handler failed")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	b := &Bot{
		api:       api,
		sender:    newSender(api),
		assistant: assistant,
		owner:     &tele.User{ID: cfg.GetTelegramOwnerID()},
		ctx:       ctx,
	}
	api.Use(b.ownerOnly)
	api.Handle(tele.OnText, b.onText)
	return b, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("bot", b.api.Me.Username).Msg("telegram polling started")
	b.api.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.api.Stop()
	return nil
}

// Notify sends a monitor announcement to the owner.
func (b *Bot) Notify(ctx context.Context, text string) error {
	return b.sender.sendMarkdown(ctx, b.owner, text, true)
}

// ownerOnly drops updates from anyone but the configured owner.
func (b *Bot) ownerOnly(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if u := c.Sender(); u == nil || u.ID != b.owner.ID {
			ev := log.FromCtx(b.ctx).Warn()
			if u != nil {
				ev = ev.Int64("user_id", u.ID).Str("username", u.Username)
			}
			ev.Msg("ignoring message from stranger")
			return nil
		}
		return next(c)
	}
}

func (b *Bot) onText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if text == "" {
		return nil
	}

	ctx, cancel := context.WithCancel(b.ctx)
	defer cancel()
	go keepTyping(ctx, c)

	sessionID := "telegram-" + strconv.FormatInt(c.Chat().ID, 10)
	answer := b.assistant.Respond(ctx, sessionID, text)
	return b.sender.sendMarkdown(ctx, c.Chat(), answer, false)
}

// keepTyping shows the typing indicator until ctx ends.
func keepTyping(ctx context.Context, c tele.Context) {
	t := time.NewTicker(typingEvery)
	defer t.Stop()
	for {
		_ = c.Notify(tele.Typing)
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
