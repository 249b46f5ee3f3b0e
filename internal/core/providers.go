package core

import "context"

// ChatRequest is one completion request. Zero sampling values mean
// provider defaults.
type ChatRequest struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int
	TopP        float64
}

type AIProvider interface {
	Chat(ctx context.Context, req ChatRequest) (Message, error)
}

type ModelLister interface {
	Models(ctx context.Context) ([]Model, error)
}

// Searcher returns plain-text search results for a query.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Speaker turns text into audio.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}
