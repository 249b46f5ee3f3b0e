package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/jarvis/pkg/log"
)

type SearchConfig struct {
	DuckDuckGoURL string `env:"JARVIS_DDG_URL" envDefault:"https://html.duckduckgo.com/html/"`
	// Empty disables the Wikipedia provider
	WikipediaURL  string        `env:"JARVIS_WIKIPEDIA_URL" envDefault:"https://en.wikipedia.org/w/api.php"`
	MaxResults    int           `env:"JARVIS_SEARCH_MAX_RESULTS" envDefault:"5"`
	Timeout       time.Duration `env:"JARVIS_SEARCH_TIMEOUT" envDefault:"15s"`
	FetchMaxChars int           `env:"JARVIS_FETCH_MAX_CHARS" envDefault:"4000"`
}

func NewSearchConfig(ctx context.Context) *SearchConfig {
	c := &SearchConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Search config")
	}
	return c
}
