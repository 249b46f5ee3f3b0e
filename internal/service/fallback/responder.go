// Package fallback answers utterances that did not resolve to a function.
package fallback

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/jarvis/internal/core"
	"github.com/sandevgo/jarvis/internal/service/prompt"
	"github.com/sandevgo/jarvis/pkg/log"
	"github.com/sandevgo/jarvis/pkg/tokens"
)

const (
	ErrorReply  = "An error occurred while processing your request."
	NoDataReply = "Sorry, I couldn't find relevant data."
)

// hedges mark answers the model is unsure about.
var hedges = []string{
	"i don't know",
	"i do not know",
	"i'm not sure",
	"i am not sure",
	"i don't have access to real-time",
	"i do not have access to real-time",
	"as of my last update",
}

type Config struct {
	Temperature     float64
	TopP            float64
	MaxTokens       int
	SearchMaxTokens int
	// History window limits, non-positive disables the limit
	WindowTurns int
	TokenBudget int
}

func DefaultConfig() Config {
	return Config{
		Temperature:     0.7,
		TopP:            1,
		MaxTokens:       2048,
		SearchMaxTokens: 2048,
		WindowTurns:     20,
		TokenBudget:     3000,
	}
}

type Responder struct {
	provider  core.AIProvider
	history   core.HistoryRepository
	search    core.Searcher
	persona   string
	user      string
	assistant string
	cfg       Config
	now       func() time.Time
	count     tokens.Counter
}

type Option func(*Responder)

func WithClock(now func() time.Time) Option {
	return func(r *Responder) { r.now = now }
}

func WithCounter(c tokens.Counter) Option {
	return func(r *Responder) { r.count = c }
}

// WithSearch enables the search-augmented path.
func WithSearch(s core.Searcher) Option {
	return func(r *Responder) { r.search = s }
}

func NewResponder(
	provider core.AIProvider,
	history core.HistoryRepository,
	persona, user, assistant string,
	cfg Config,
	opts ...Option,
) *Responder {
	r := &Responder{
		provider:  provider,
		history:   history,
		persona:   persona,
		user:      user,
		assistant: assistant,
		cfg:       cfg,
		now:       time.Now,
		count:     tokens.Count,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Respond always returns displayable text. The conversation log is only
// extended when an answer was produced.
func (r *Responder) Respond(ctx context.Context, utterance string) string {
	return r.reply(ctx, utterance, true)
}

// Reply answers without recording the turn, for callers that record it
// themselves.
func (r *Responder) Reply(ctx context.Context, utterance string) string {
	return r.reply(ctx, utterance, false)
}

// SearchReply skips the first pass and answers from web results. The turn
// is not recorded.
func (r *Responder) SearchReply(ctx context.Context, query string) string {
	answer, err := r.searchAnswer(ctx, query)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("search answer failed")
		return ErrorReply
	}
	return answer
}

func (r *Responder) reply(ctx context.Context, utterance string, record bool) string {
	answer, err := r.answer(ctx, utterance, record)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("conversational answer failed")
		return ErrorReply
	}
	return answer
}

func (r *Responder) answer(ctx context.Context, utterance string, record bool) (string, error) {
	history, err := r.history.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}

	msgs := []core.Message{
		{Role: core.RoleSystem, Content: r.persona},
		{Role: core.RoleSystem, Content: prompt.RealtimeInformation(r.now())},
	}
	msgs = append(msgs, r.window(history)...)
	msgs = append(msgs, core.Message{Role: core.RoleUser, Content: utterance})

	resp, err := r.provider.Chat(ctx, core.ChatRequest{
		Messages:    msgs,
		Temperature: r.cfg.Temperature,
		MaxTokens:   r.cfg.MaxTokens,
		TopP:        r.cfg.TopP,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	answer := Clean(resp.Content)
	if NeedsSearch(answer) {
		log.FromCtx(ctx).Info().Msg("model unsure, escalating to web search")
		if answer, err = r.searchAnswer(ctx, utterance); err != nil {
			return "", err
		}
	}

	if !record {
		return answer, nil
	}
	if err := r.history.Append(ctx,
		core.Message{Role: core.RoleUser, Content: utterance},
		core.Message{Role: core.RoleAssistant, Content: answer},
	); err != nil {
		return "", fmt.Errorf("save history: %w", err)
	}
	return answer, nil
}

func (r *Responder) searchAnswer(ctx context.Context, query string) (string, error) {
	if r.search == nil {
		return NoDataReply, nil
	}

	results, err := r.search.Search(ctx, query)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("web search failed")
		return NoDataReply, nil
	}
	if strings.TrimSpace(results) == "" {
		return NoDataReply, nil
	}

	resp, err := r.provider.Chat(ctx, core.ChatRequest{
		Messages: []core.Message{
			{Role: core.RoleSystem, Content: prompt.SearchSystem(r.user, r.assistant)},
			{Role: core.RoleSystem, Content: prompt.SearchResults(query, results)},
			{Role: core.RoleSystem, Content: prompt.RealtimeInformation(r.now())},
			{Role: core.RoleUser, Content: query},
		},
		Temperature: r.cfg.Temperature,
		MaxTokens:   r.cfg.SearchMaxTokens,
		TopP:        r.cfg.TopP,
	})
	if err != nil {
		return "", fmt.Errorf("search completion: %w", err)
	}

	answer := Clean(resp.Content)
	if answer == "" {
		return NoDataReply, nil
	}
	return answer, nil
}

func (r *Responder) window(history []core.Message) []core.Message {
	turns := make([]core.Message, 0, len(history))
	for _, m := range history {
		if m.Role == core.RoleUser || m.Role == core.RoleAssistant {
			turns = append(turns, m)
		}
	}
	return tokens.Window(turns, func(m core.Message) string { return m.Content },
		r.count, r.cfg.TokenBudget, r.cfg.WindowTurns)
}

// Clean drops end-of-sequence markers and blank lines.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "</s>", "")
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, strings.TrimRight(line, " \t\r"))
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// NeedsSearch reports whether answer is empty or hedges.
func NeedsSearch(answer string) bool {
	if strings.TrimSpace(answer) == "" {
		return true
	}
	lower := strings.ToLower(strings.ReplaceAll(answer, "’", "'"))
	for _, h := range hedges {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}
