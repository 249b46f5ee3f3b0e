package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/jarvis/pkg/log"
	"golang.org/x/sync/errgroup"
)

// Provider is a named search backend.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) (string, error)
}

// Aggregator queries every provider concurrently and concatenates what
// came back, in provider order. It fails only when all providers fail.
type Aggregator struct {
	providers []Provider
}

func NewAggregator(providers ...Provider) *Aggregator {
	return &Aggregator{providers: providers}
}

func (a *Aggregator) Search(ctx context.Context, query string) (string, error) {
	if len(a.providers) == 0 {
		return "", errors.New("no search providers configured")
	}
	logger := log.FromCtx(ctx)

	outputs := make([]string, len(a.providers))
	errs := make([]error, len(a.providers))

	// failures stay per provider, the group itself never errors
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range a.providers {
		g.Go(func() error {
			out, err := p.Search(gctx, query)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", p.Name(), err)
				logger.Warn().Err(err).Str("provider", p.Name()).Msg("search provider failed")
				return nil
			}
			outputs[i] = strings.TrimSpace(out)
			return nil
		})
	}
	_ = g.Wait()

	var parts []string
	for _, out := range outputs {
		if out != "" {
			parts = append(parts, out)
		}
	}
	if len(parts) == 0 {
		if err := errors.Join(errs...); err != nil {
			return "", err
		}
		return "", ErrNoResults
	}
	return strings.Join(parts, "\n\n"), nil
}
