package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/jarvis/pkg/log"
)

type SessionConfig struct {
	InactivityTimeout time.Duration `env:"JARVIS_INACTIVITY_TIMEOUT" envDefault:"10s"`
	RequireWakeWord   bool          `env:"JARVIS_REQUIRE_WAKE_WORD" envDefault:"true"`
	// Number of past turns shown to the intent model
	IntentHistory int `env:"JARVIS_INTENT_HISTORY" envDefault:"4"`
}

func NewSessionConfig(ctx context.Context) *SessionConfig {
	c := &SessionConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Session config")
	}
	return c
}
