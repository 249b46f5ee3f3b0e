package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sandevgo/jarvis/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAICompatible_Chat(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"function\": \"get_time\", \"query\": \"\"}"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAICompatible(OpenAICompatibleConfig{
		BaseURL:    srv.URL,
		APIKey:     "secret",
		Model:      "llama-3.1-8b-instant",
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
	})

	msg, err := p.Chat(context.Background(), core.ChatRequest{
		Messages:    []core.Message{{Role: core.RoleUser, Content: "what time is it"}},
		Temperature: 0.7,
		MaxTokens:   1024,
		TopP:        1,
	})
	require.NoError(t, err)
	assert.Equal(t, core.RoleAssistant, msg.Role)
	assert.Equal(t, `{"function": "get_time", "query": ""}`, msg.Content)

	assert.Equal(t, "llama-3.1-8b-instant", got["model"])
	assert.Equal(t, 0.7, got["temperature"])
	assert.Equal(t, float64(1024), got["max_tokens"])
	assert.Equal(t, float64(1), got["top_p"])
	assert.Equal(t, false, got["stream"])
}

func TestOpenAICompatible_ChatErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		errMsg string
	}{
		{name: "http error", status: http.StatusUnauthorized, body: `{"error":"bad key"}`, errMsg: "http 401"},
		{name: "empty choices", status: http.StatusOK, body: `{"choices":[]}`, errMsg: "empty choices"},
		{name: "broken json", status: http.StatusOK, body: `{"choices":`, errMsg: "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewCustomOpenAI(srv.URL, "", "m")
			_, err := p.Chat(context.Background(), core.ChatRequest{
				Messages: []core.Message{{Role: core.RoleUser, Content: "hi"}},
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestOpenAICompatible_Models(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"id":"llama-3.1-8b-instant","context_window":131072},{"id":"gpt","name":"GPT","context_length":8192}]}`))
	}))
	defer srv.Close()

	models, err := NewCustomOpenAI(srv.URL, "k", "m").Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.Model{
		{ID: "llama-3.1-8b-instant", Name: "llama-3.1-8b-instant", ContextLength: 131072},
		{ID: "gpt", Name: "GPT", ContextLength: 8192},
	}, models)
}

func TestDynamicProvider_SetModel(t *testing.T) {
	var built []string
	factory := func(ctx context.Context, model string) (core.AIProvider, error) {
		built = append(built, model)
		return NewCustomOpenAI("http://127.0.0.1:0", "", model), nil
	}

	d, err := NewDynamicProvider(context.Background(), factory, "first")
	require.NoError(t, err)
	assert.Equal(t, "first", d.GetModel())

	require.NoError(t, d.SetModel(context.Background(), "second"))
	assert.Equal(t, "second", d.GetModel())
	assert.Equal(t, []string{"first", "second"}, built)
}
