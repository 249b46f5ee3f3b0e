// Package intent turns an utterance into a function call decision.
package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/jarvis/internal/core"
	"github.com/sandevgo/jarvis/internal/service/prompt"
	"github.com/sandevgo/jarvis/internal/service/registry"
	"github.com/sandevgo/jarvis/pkg/log"
	"github.com/xeipuuv/gojsonschema"
)

var ErrEmptyUtterance = errors.New("empty utterance")

type Config struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
	// HistoryTurns is how many past turns precede the utterance
	HistoryTurns int
}

func DefaultConfig() Config {
	return Config{
		Temperature:  0.7,
		TopP:         1,
		MaxTokens:    1024,
		HistoryTurns: 4,
	}
}

type Resolver struct {
	provider core.AIProvider
	prompt   *prompt.Builder
	schema   *gojsonschema.Schema
	cfg      Config
	now      func() time.Time
}

type Option func(*Resolver)

// WithClock overrides the time source used for the prompt.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

func NewResolver(
	provider core.AIProvider,
	reg *registry.Registry,
	assistant string,
	cfg Config,
	opts ...Option,
) (*Resolver, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(reg.IntentSchema()))
	if err != nil {
		return nil, fmt.Errorf("compile intent schema: %w", err)
	}

	r := &Resolver{
		provider: provider,
		prompt:   prompt.NewBuilder(reg.Specs(), assistant),
		schema:   schema,
		cfg:      cfg,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve asks the model once, without retries. Transport errors are
// returned as is.
func (r *Resolver) Resolve(ctx context.Context, history []core.Message, utterance string) (core.IntentDecision, error) {
	if strings.TrimSpace(utterance) == "" {
		return nil, ErrEmptyUtterance
	}

	msgs := make([]core.Message, 0, r.cfg.HistoryTurns+2)
	msgs = append(msgs, core.Message{Role: core.RoleSystem, Content: r.prompt.Build(r.now())})
	msgs = append(msgs, recent(history, r.cfg.HistoryTurns)...)
	msgs = append(msgs, core.Message{Role: core.RoleUser, Content: utterance})

	resp, err := r.provider.Chat(ctx, core.ChatRequest{
		Messages:    msgs,
		Temperature: r.cfg.Temperature,
		MaxTokens:   r.cfg.MaxTokens,
		TopP:        r.cfg.TopP,
	})
	if err != nil {
		return nil, fmt.Errorf("intent completion: %w", err)
	}

	log.FromCtx(ctx).Debug().Str("raw", resp.Content).Msg("intent model replied")
	return r.Parse(resp.Content), nil
}

// Parse accepts only a JSON object with exactly the keys function and
// query. Anything else becomes a DirectReply carrying the raw text.
func (r *Resolver) Parse(raw string) core.IntentDecision {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "{") {
		return core.DirectReply{Text: raw}
	}

	res, err := r.schema.Validate(gojsonschema.NewStringLoader(text))
	if err != nil || !res.Valid() {
		return core.DirectReply{Text: raw}
	}

	var call struct {
		Function string  `json:"function"`
		Query    *string `json:"query"`
	}
	if err := json.Unmarshal([]byte(text), &call); err != nil {
		return core.DirectReply{Text: raw}
	}

	decision := core.FunctionCall{Function: call.Function}
	if call.Query != nil {
		decision.Argument = *call.Query
	}
	return decision
}

// recent keeps the last n user and assistant turns.
func recent(history []core.Message, n int) []core.Message {
	if n <= 0 {
		return nil
	}
	out := make([]core.Message, 0, n)
	for i := len(history) - 1; i >= 0 && len(out) < n; i-- {
		if history[i].Role == core.RoleSystem {
			continue
		}
		out = append(out, history[i])
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
