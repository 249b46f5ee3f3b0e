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

func TestAnthropic_ChatMovesSystemPrompt(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Good "},{"type":"tool_use"},{"type":"text","text":"evening."}]}`))
	}))
	defer srv.Close()

	a := NewAnthropic("key", "claude")
	a.baseURL = srv.URL

	msg, err := a.Chat(context.Background(), core.ChatRequest{
		Messages: []core.Message{
			{Role: core.RoleSystem, Content: "persona"},
			{Role: core.RoleSystem, Content: "realtime"},
			{Role: core.RoleUser, Content: "hello"},
		},
		Temperature: 0.7,
		TopP:        1,
	})
	require.NoError(t, err)
	assert.Equal(t, core.Message{Role: core.RoleAssistant, Content: "Good evening."}, msg)

	assert.Equal(t, "persona\n\nrealtime", got.System)
	assert.Equal(t, []anthropicMessage{{Role: core.RoleUser, Content: "hello"}}, got.Messages)
	assert.Equal(t, anthropicMaxTokens, got.MaxTokens)
	assert.Zero(t, got.TopP, "top_p 1 is not sent")
}

func TestAnthropic_ModelsPaginates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("after_id") == "" {
			_, _ = w.Write([]byte(`{"data":[{"id":"a","display_name":"A","type":"model"}],"has_more":true,"last_id":"a"}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"id":"b","display_name":"B","type":"model"}],"has_more":false}`))
	}))
	defer srv.Close()

	a := NewAnthropic("key", "claude")
	a.baseURL = srv.URL

	models, err := a.Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.Model{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}, models)
}

func TestOllama_ModelsFromTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3.2:3b","details":{"parameter_size":"3.2B"}},{"name":"qwen"}]}`))
	}))
	defer srv.Close()

	models, err := NewOllama(srv.URL, "", "llama3.2:3b").Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.Model{
		{ID: "llama3.2:3b", Name: "llama3.2:3b (3.2B)"},
		{ID: "qwen", Name: "qwen"},
	}, models)
}
