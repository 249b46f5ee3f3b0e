// Package test holds fakes shared by package tests.
package test

import (
	"context"
	"errors"
	"sync"

	"github.com/sandevgo/jarvis/internal/core"
)

var ErrNoReply = errors.New("no scripted reply left")

// Provider is a scriptable core.AIProvider that records every request.
type Provider struct {
	mu       sync.Mutex
	ChatFunc func(ctx context.Context, req core.ChatRequest) (core.Message, error)
	requests []core.ChatRequest
}

// Replies returns a Provider answering with texts in order.
func Replies(texts ...string) *Provider {
	var (
		mu   sync.Mutex
		next int
	)
	return &Provider{
		ChatFunc: func(ctx context.Context, req core.ChatRequest) (core.Message, error) {
			mu.Lock()
			defer mu.Unlock()
			if next >= len(texts) {
				return core.Message{}, ErrNoReply
			}
			text := texts[next]
			next++
			return core.Message{Role: core.RoleAssistant, Content: text}, nil
		},
	}
}

// Failing returns a Provider whose every call fails with err.
func Failing(err error) *Provider {
	return &Provider{
		ChatFunc: func(ctx context.Context, req core.ChatRequest) (core.Message, error) {
			return core.Message{}, err
		},
	}
}

func (p *Provider) Chat(ctx context.Context, req core.ChatRequest) (core.Message, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	fn := p.ChatFunc
	p.mu.Unlock()
	return fn(ctx, req)
}

func (p *Provider) Requests() []core.ChatRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]core.ChatRequest, len(p.requests))
	copy(out, p.requests)
	return out
}

// History is an in-memory core.HistoryRepository.
type History struct {
	mu        sync.Mutex
	messages  []core.Message
	LoadErr   error
	AppendErr error
}

func NewHistory(msgs ...core.Message) *History {
	return &History{messages: msgs}
}

func (h *History) Load(ctx context.Context) ([]core.Message, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.LoadErr != nil {
		return nil, h.LoadErr
	}
	out := make([]core.Message, len(h.messages))
	copy(out, h.messages)
	return out, nil
}

func (h *History) Append(ctx context.Context, msgs ...core.Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.AppendErr != nil {
		return h.AppendErr
	}
	h.messages = append(h.messages, msgs...)
	return nil
}

func (h *History) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = nil
	return nil
}

func (h *History) Messages() []core.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]core.Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Searcher is a core.Searcher with a func field.
type Searcher struct {
	mu      sync.Mutex
	Func    func(ctx context.Context, query string) (string, error)
	Queries []string
}

func (s *Searcher) Search(ctx context.Context, query string) (string, error) {
	s.mu.Lock()
	s.Queries = append(s.Queries, query)
	s.mu.Unlock()
	return s.Func(ctx, query)
}
