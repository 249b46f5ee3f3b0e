package fallback

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/jarvis/internal/core"
	"github.com/sandevgo/jarvis/pkg/tokens"
	"github.com/sandevgo/jarvis/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clock = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

func newResponder(p core.AIProvider, h core.HistoryRepository, opts ...Option) *Responder {
	opts = append([]Option{WithClock(clock), WithCounter(tokens.Estimate)}, opts...)
	return NewResponder(p, h, "PERSONA", "sir", "Jarvis", DefaultConfig(), opts...)
}

func TestRespond_Answer(t *testing.T) {
	p := test.Replies("Hello sir!</s>\n\n\nHow can I help?")
	h := test.NewHistory(
		core.Message{Role: core.RoleUser, Content: "earlier"},
		core.Message{Role: core.RoleAssistant, Content: "reply"},
	)

	out := newResponder(p, h).Respond(context.Background(), "hi there")
	assert.Equal(t, "Hello sir!\nHow can I help?", out)

	req := p.Requests()[0]
	assert.Equal(t, 0.7, req.Temperature)
	assert.Equal(t, 2048, req.MaxTokens)
	require.Len(t, req.Messages, 5)
	assert.Equal(t, core.Message{Role: core.RoleSystem, Content: "PERSONA"}, req.Messages[0])
	assert.Contains(t, req.Messages[1].Content, "Day: Saturday")
	assert.Equal(t, "earlier", req.Messages[2].Content)
	assert.Equal(t, core.Message{Role: core.RoleUser, Content: "hi there"}, req.Messages[4])

	assert.Equal(t, []core.Message{
		{Role: core.RoleUser, Content: "earlier"},
		{Role: core.RoleAssistant, Content: "reply"},
		{Role: core.RoleUser, Content: "hi there"},
		{Role: core.RoleAssistant, Content: "Hello sir!\nHow can I help?"},
	}, h.Messages())
}

func TestRespond_EscalatesToSearch(t *testing.T) {
	tests := []struct {
		name    string
		first   string
		results string
		err     error
		final   []string
		want    string
	}{
		{name: "hedge", first: "I'm not sure who won.", results: "Team A won 3-1", final: []string{"Team A won."}, want: "Team A won."},
		{name: "empty", first: "  ", results: "data", final: []string{"From the web."}, want: "From the web."},
		{name: "curly apostrophe", first: "I don’t know.", results: "data", final: []string{"Found it."}, want: "Found it."},
		{name: "search error", first: "I don't know", err: errors.New("offline"), want: NoDataReply},
		{name: "no results", first: "I don't know", results: "", want: NoDataReply},
		{name: "empty final", first: "I don't know", results: "data", final: []string{"</s>"}, want: NoDataReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := test.Replies(append([]string{tt.first}, tt.final...)...)
			h := test.NewHistory()
			s := &test.Searcher{Func: func(ctx context.Context, q string) (string, error) {
				return tt.results, tt.err
			}}

			out := newResponder(p, h, WithSearch(s)).Respond(context.Background(), "who won the match")
			assert.Equal(t, tt.want, out)
			assert.Equal(t, []string{"who won the match"}, s.Queries)

			msgs := h.Messages()
			require.Len(t, msgs, 2)
			assert.Equal(t, tt.want, msgs[1].Content)

			if len(tt.final) > 0 {
				reqs := p.Requests()
				require.Len(t, reqs, 2)
				assert.Contains(t, reqs[1].Messages[1].Content, "The search results for 'who won the match' are:")
				assert.Contains(t, reqs[1].Messages[1].Content, tt.results)
			}
		})
	}
}

func TestRespond_WithoutSearcher(t *testing.T) {
	out := newResponder(test.Replies("I don't know"), test.NewHistory()).Respond(context.Background(), "q")
	assert.Equal(t, NoDataReply, out)
}

func TestRespond_FailuresLeaveHistory(t *testing.T) {
	seed := core.Message{Role: core.RoleUser, Content: "old"}

	t.Run("llm error", func(t *testing.T) {
		h := test.NewHistory(seed)
		out := newResponder(test.Failing(errors.New("503")), h).Respond(context.Background(), "hello")
		assert.Equal(t, ErrorReply, out)
		assert.Equal(t, []core.Message{seed}, h.Messages())
	})

	t.Run("search pass error", func(t *testing.T) {
		h := test.NewHistory(seed)
		calls := 0
		p := &test.Provider{ChatFunc: func(ctx context.Context, req core.ChatRequest) (core.Message, error) {
			calls++
			if calls == 1 {
				return core.Message{Content: "I'm not sure"}, nil
			}
			return core.Message{}, errors.New("timeout")
		}}
		s := &test.Searcher{Func: func(ctx context.Context, q string) (string, error) { return "r", nil }}

		out := newResponder(p, h, WithSearch(s)).Respond(context.Background(), "hello")
		assert.Equal(t, ErrorReply, out)
		assert.Equal(t, []core.Message{seed}, h.Messages())
	})

	t.Run("history load error", func(t *testing.T) {
		h := test.NewHistory()
		h.LoadErr = errors.New("corrupted")
		p := test.Replies("unused")
		out := newResponder(p, h).Respond(context.Background(), "hello")
		assert.Equal(t, ErrorReply, out)
		assert.Empty(t, p.Requests())
	})
}

func TestRespond_HistoryWindow(t *testing.T) {
	var history []core.Message
	for i := 0; i < 50; i++ {
		history = append(history, core.Message{Role: core.RoleUser, Content: strings.Repeat("w", 400)})
	}
	history = append(history, core.Message{Role: core.RoleSystem, Content: "stale system"})

	p := test.Replies("ok")
	newResponder(p, test.NewHistory(history...)).Respond(context.Background(), "now")

	msgs := p.Requests()[0].Messages
	// persona + info + window + user; 3000 budget / (100+4) per turn = 28 turns, capped at 20
	assert.Len(t, msgs, 2+20+1)
	for _, m := range msgs[2 : len(msgs)-1] {
		assert.NotEqual(t, core.RoleSystem, m.Role)
	}
}

func TestNeedsSearch(t *testing.T) {
	assert.True(t, NeedsSearch(""))
	assert.True(t, NeedsSearch("Honestly, I DON'T KNOW that."))
	assert.False(t, NeedsSearch("Paris is the capital of France."))
}

func TestReply_DoesNotRecord(t *testing.T) {
	h := test.NewHistory()
	out := newResponder(test.Replies("Sure."), h).Reply(context.Background(), "tell me a joke")
	assert.Equal(t, "Sure.", out)
	assert.Empty(t, h.Messages())
}

func TestSearchReply(t *testing.T) {
	p := test.Replies("Bitcoin trades at 60k.")
	h := test.NewHistory()
	s := &test.Searcher{Func: func(ctx context.Context, q string) (string, error) { return "BTC 60,000 USD", nil }}

	out := newResponder(p, h, WithSearch(s)).SearchReply(context.Background(), "bitcoin price")
	assert.Equal(t, "Bitcoin trades at 60k.", out)
	assert.Equal(t, []string{"bitcoin price"}, s.Queries)
	assert.Empty(t, h.Messages())

	req := p.Requests()[0]
	require.Len(t, req.Messages, 4)
	assert.Contains(t, req.Messages[1].Content, "BTC 60,000 USD")

	failing := newResponder(test.Failing(errors.New("down")), h, WithSearch(s))
	assert.Equal(t, ErrorReply, failing.SearchReply(context.Background(), "bitcoin price"))
}
