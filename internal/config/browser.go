package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/jarvis/pkg/log"
)

type BrowserConfig struct {
	// DevTools websocket of a running browser; a local one is launched when empty
	ControlURL string `env:"JARVIS_BROWSER_CONTROL_URL"`
	Headless   bool   `env:"JARVIS_BROWSER_HEADLESS" envDefault:"false"`
}

func NewBrowserConfig(ctx context.Context) *BrowserConfig {
	c := &BrowserConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Browser config")
	}
	return c
}
