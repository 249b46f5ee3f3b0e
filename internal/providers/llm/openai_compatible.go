package llm

import (
	"context"
	"fmt"
	"maps"
	"net/http"

	"github.com/sandevgo/jarvis/internal/core"
)

// OpenAICompatible speaks the /v1/chat/completions dialect shared by
// Groq, OpenAI, OpenRouter, Ollama and self-hosted servers.
type OpenAICompatible struct {
	baseProvider
	authHeader   string
	authPrefix   string
	extraHeaders map[string]string
}

type OpenAICompatibleConfig struct {
	BaseURL      string
	APIKey       string
	Model        string
	AuthHeader   string // e.g., "Authorization"
	AuthPrefix   string // e.g., "Bearer "
	ExtraHeaders map[string]string
}

func NewOpenAICompatible(cfg OpenAICompatibleConfig) *OpenAICompatible {
	return &OpenAICompatible{
		baseProvider: newBaseProvider(cfg.BaseURL, cfg.APIKey, cfg.Model),
		authHeader:   cfg.AuthHeader,
		authPrefix:   cfg.AuthPrefix,
		extraHeaders: cfg.ExtraHeaders,
	}
}

// Zero sampling values are left out so the server default applies.
type chatCompletionRequest struct {
	Model       string         `json:"model"`
	Messages    []core.Message `json:"messages"`
	Stream      bool           `json:"stream"`
	Temperature float64        `json:"temperature,omitempty"`
	MaxTokens   int            `json:"max_tokens,omitempty"`
	TopP        float64        `json:"top_p,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message core.Message `json:"message"`
	} `json:"choices"`
}

func (o *OpenAICompatible) Chat(ctx context.Context, req core.ChatRequest) (core.Message, error) {
	body := chatCompletionRequest{
		Model:       o.model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		TopP:        req.TopP,
	}

	var result chatCompletionResponse
	if err := o.call(ctx, http.MethodPost, "/v1/chat/completions", body, o.headers(), &result); err != nil {
		return core.Message{}, err
	}
	if len(result.Choices) == 0 {
		return core.Message{}, fmt.Errorf("empty choices from %s", o.model)
	}

	msg := result.Choices[0].Message
	if msg.Role == "" {
		msg.Role = core.RoleAssistant
	}
	return msg, nil
}

func (o *OpenAICompatible) Models(ctx context.Context) ([]core.Model, error) {
	var result struct {
		Data []struct {
			ID            string `json:"id"`
			Name          string `json:"name"`
			ContextWindow int    `json:"context_window"`
			ContextLength int    `json:"context_length"`
		} `json:"data"`
	}
	if err := o.call(ctx, http.MethodGet, "/v1/models", nil, o.headers(), &result); err != nil {
		return nil, fmt.Errorf("fetch models: %w", err)
	}

	models := make([]core.Model, 0, len(result.Data))
	for _, m := range result.Data {
		model := core.Model{ID: m.ID, Name: m.Name, ContextLength: m.ContextLength}
		if model.Name == "" {
			model.Name = m.ID
		}
		// Groq reports context_window, OpenRouter context_length
		if model.ContextLength == 0 {
			model.ContextLength = m.ContextWindow
		}
		models = append(models, model)
	}
	return models, nil
}

func (o *OpenAICompatible) headers() map[string]string {
	headers := make(map[string]string, len(o.extraHeaders)+1)
	if o.authHeader != "" && o.apiKey != "" {
		headers[o.authHeader] = o.authPrefix + o.apiKey
	}
	maps.Copy(headers, o.extraHeaders)
	return headers
}
