package llm

import "github.com/sandevgo/jarvis/internal/core"

// Hosted endpoints that only differ in base URL and headers. Base URLs
// exclude the /v1 suffix.
const (
	groqBaseURL       = "https://api.groq.com/openai"
	openAIBaseURL     = "https://api.openai.com"
	openRouterBaseURL = "https://openrouter.ai/api"
)

// bearer is the config of an endpoint authenticated with a bearer token.
func bearer(baseURL, apiKey, model string) OpenAICompatibleConfig {
	return OpenAICompatibleConfig{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Model:      model,
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
	}
}

// Groq is the default provider for both the intent and the chat profile.
func NewGroq(apiKey, model string) *OpenAICompatible {
	return NewOpenAICompatible(bearer(groqBaseURL, apiKey, model))
}

func NewOpenAI(apiKey, model string) *OpenAICompatible {
	return NewOpenAICompatible(bearer(openAIBaseURL, apiKey, model))
}

// NewOpenRouter identifies the app to OpenRouter through its ranking headers.
func NewOpenRouter(apiKey, model string) *OpenAICompatible {
	cfg := bearer(openRouterBaseURL, apiKey, model)
	cfg.ExtraHeaders = map[string]string{
		"HTTP-Referer": core.JarvisRepositoryURL,
		"X-Title":      core.JarvisName,
	}
	return NewOpenAICompatible(cfg)
}

// NewCustomOpenAI targets any server implementing the OpenAI chat API.
func NewCustomOpenAI(baseURL, apiKey, model string) *OpenAICompatible {
	return NewOpenAICompatible(bearer(baseURL, apiKey, model))
}
