// Package srv runs long-lived components with a common lifecycle.
package srv

import (
	"context"

	"github.com/sandevgo/jarvis/pkg/log"
)

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// StartServices starts every service in its own goroutine. A failing
// Start is fatal.
func StartServices(ctx context.Context, services []Service) {
	logger := log.FromCtx(ctx)
	for _, service := range services {
		go func(service Service) {
			if err := service.Start(ctx); err != nil {
				logger.Fatal().Err(err).Msgf("%T failed to start", service)
			}
		}(service)
	}
}

// ShutdownServices waits for ctx to end, then shuts the services down in
// reverse order so later services can still use earlier ones.
func ShutdownServices(ctx context.Context, services []Service) {
	<-ctx.Done()
	logger := log.FromCtx(ctx)
	for i := len(services) - 1; i >= 0; i-- {
		service := services[i]
		if err := service.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msgf("%T failed to shutdown", service)
			continue
		}
		logger.Debug().Msgf("%T stopped", service)
	}
}
