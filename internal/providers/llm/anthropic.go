package llm

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/sandevgo/jarvis/internal/core"
)

const (
	anthropicBaseURL   = "https://api.anthropic.com"
	anthropicVersion   = "2023-06-01"
	anthropicMaxTokens = 4096
)

// Anthropic talks to the Messages API, which takes the system prompt
// outside the message list.
type Anthropic struct {
	baseProvider
}

func NewAnthropic(apiKey, model string) *Anthropic {
	return &Anthropic{
		baseProvider: newBaseProvider(anthropicBaseURL, apiKey, model),
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature,omitempty"`
	TopP        float64            `json:"top_p,omitempty"`
}

func (a *Anthropic) Chat(ctx context.Context, req core.ChatRequest) (core.Message, error) {
	body := anthropicRequest{
		Model:       a.model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if body.MaxTokens <= 0 {
		body.MaxTokens = anthropicMaxTokens
	}
	// top_p 1 is the default and may not be combined with temperature
	if req.TopP > 0 && req.TopP < 1 {
		body.TopP = req.TopP
	}

	var system []string
	for _, m := range req.Messages {
		if m.Role == core.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		body.Messages = append(body.Messages, anthropicMessage{Role: m.Role, Content: m.Content})
	}
	body.System = strings.Join(system, "\n\n")

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := a.call(ctx, http.MethodPost, "/v1/messages", body, &result); err != nil {
		return core.Message{}, err
	}

	var text strings.Builder
	for _, c := range result.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}
	return core.Message{Role: core.RoleAssistant, Content: text.String()}, nil
}

// Models follows the cursor until the API reports no more pages.
func (a *Anthropic) Models(ctx context.Context) ([]core.Model, error) {
	var (
		models  []core.Model
		afterID string
	)
	for {
		path := "/v1/models?limit=1000"
		if afterID != "" {
			path += "&after_id=" + url.QueryEscape(afterID)
		}

		var page struct {
			Data []struct {
				ID          string `json:"id"`
				DisplayName string `json:"display_name"`
				Type        string `json:"type"`
			} `json:"data"`
			HasMore bool   `json:"has_more"`
			LastID  string `json:"last_id"`
		}
		if err := a.call(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, err
		}

		for _, m := range page.Data {
			if m.Type == "model" {
				models = append(models, core.Model{ID: m.ID, Name: m.DisplayName})
			}
		}
		if !page.HasMore || page.LastID == "" {
			return models, nil
		}
		afterID = page.LastID
	}
}

func (a *Anthropic) call(ctx context.Context, method, path string, body, out any) error {
	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": anthropicVersion,
	}
	return a.baseProvider.call(ctx, method, path, body, headers, out)
}
