package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/jarvis/internal/config"
	"github.com/sandevgo/jarvis/internal/core"
	"github.com/sandevgo/jarvis/pkg/log"
)

// NewProvider creates the AIProvider selected in cfg, bound to model.
func NewProvider(ctx context.Context, cfg *config.ProviderConfig, model string) (core.AIProvider, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.Provider).
		Str("model", model).
		Msg("starting llm provider")

	var p core.AIProvider
	switch cfg.Provider {
	case config.ProviderGroq:
		p = NewGroq(cfg.GroqAPIKey, model)
	case config.ProviderOpenAI:
		p = NewOpenAI(cfg.OpenAIAPIKey, model)
	case config.ProviderAnthropic:
		p = NewAnthropic(cfg.AnthropicAPIKey, model)
	case config.ProviderOpenRouter:
		p = NewOpenRouter(cfg.OpenRouterAPIKey, model)
	case config.ProviderOllama:
		p = NewOllama(cfg.OllamaBaseURL, cfg.OllamaAPIKey, model)
	case config.ProviderCustom:
		p = NewCustomOpenAI(cfg.CustomOpenAIBaseURL, cfg.CustomOpenAIAPIKey, model)
	case config.ProviderGemini:
		return NewGemini(ctx, cfg.GeminiAPIKey, model)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}

	if cfg.RequestTimeout > 0 {
		setTimeout(p, cfg.RequestTimeout)
	}
	return p, nil
}
