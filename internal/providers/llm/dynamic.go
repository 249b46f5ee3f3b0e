package llm

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sandevgo/jarvis/internal/core"
)

// Factory builds a provider bound to a model.
type Factory func(ctx context.Context, model string) (core.AIProvider, error)

// DynamicProvider lets the model be swapped at runtime without
// rebuilding the components holding the provider.
type DynamicProvider struct {
	factory Factory
	current atomic.Value
	mu      sync.RWMutex
	model   string
}

func NewDynamicProvider(ctx context.Context, factory Factory, model string) (*DynamicProvider, error) {
	d := &DynamicProvider{
		factory: factory,
		model:   model,
	}

	provider, err := factory(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial provider: %w", err)
	}

	d.current.Store(&provider)
	return d, nil
}

func (d *DynamicProvider) Chat(ctx context.Context, req core.ChatRequest) (core.Message, error) {
	provider := *d.current.Load().(*core.AIProvider)
	return provider.Chat(ctx, req)
}

func (d *DynamicProvider) Models(ctx context.Context) ([]core.Model, error) {
	provider := *d.current.Load().(*core.AIProvider)
	lister, ok := provider.(core.ModelLister)
	if !ok {
		return nil, fmt.Errorf("provider %T cannot list models", provider)
	}
	return lister.Models(ctx)
}

// GetModel (thread-safe)
func (d *DynamicProvider) GetModel() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.model
}

func (d *DynamicProvider) SetModel(ctx context.Context, model string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	provider, err := d.factory(ctx, model)
	if err != nil {
		return fmt.Errorf("switch to %s: %w", model, err)
	}

	d.current.Store(&provider)
	d.model = model
	return nil
}
