// Package monitor runs the background watchers that speak up without
// being asked: battery level, charger plug state and removable drives.
package monitor

import (
	"context"
	"sync"

	"github.com/sandevgo/jarvis/pkg/log"
	"github.com/sourcegraph/conc"
)

// Publisher is the output bus.
type Publisher interface {
	Publish(ctx context.Context, source, text string) bool
}

// Notifier forwards announcements to a remote transport.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

type Monitor interface {
	Name() string
	Run(ctx context.Context, announce Announce)
}

// Announce delivers one line from a monitor.
type Announce func(ctx context.Context, source, text string)

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// Service runs every monitor until Shutdown.
type Service struct {
	monitors []Monitor
	out      Publisher
	notifier Notifier

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      conc.WaitGroup
	stopped bool
}

func NewService(out Publisher, monitors []Monitor, opts ...Option) *Service {
	s := &Service{out: out, monitors: monitors}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}

	ctx, s.cancel = context.WithCancel(ctx)
	for _, m := range s.monitors {
		logger := log.FromCtx(ctx).With().Str("monitor", m.Name()).Logger()
		mctx := logger.WithContext(ctx)
		s.wg.Go(func() {
			logger.Debug().Msg("monitor started")
			m.Run(mctx, s.announce)
			logger.Debug().Msg("monitor stopped")
		})
	}
	return nil
}

func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	if r := s.wg.WaitAndRecover(); r != nil {
		log.FromCtx(ctx).Error().Str("panic", r.String()).Msg("monitor panicked")
	}
	return nil
}

func (s *Service) announce(ctx context.Context, source, text string) {
	if text == "" {
		return
	}
	s.out.Publish(ctx, source, text)
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, text); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to forward announcement")
	}
}
