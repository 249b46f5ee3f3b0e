package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/jarvis/pkg/log"
)

const (
	HistoryBackendJSON   = "json"
	HistoryBackendSQLite = "sqlite"
)

type AppConfig struct {
	RuntimePath   string `env:"JARVIS_RUNTIME_PATH" envDefault:".jarvis"`
	UserName      string `env:"JARVIS_USER_NAME" envDefault:"sir"`
	AssistantName string `env:"JARVIS_ASSISTANT_NAME" envDefault:"Jarvis"`

	// json keeps one shared log file, sqlite keeps one log per session
	HistoryBackend string `env:"JARVIS_HISTORY_BACKEND" envDefault:"json"`

	// External command gating startup, exit status 0 means authenticated
	AuthCommand string `env:"JARVIS_AUTH_COMMAND"`

	// Transport and background flags
	EnableTelegram bool `env:"JARVIS_ENABLE_TELEGRAM" envDefault:"false"`
	EnableMonitors bool `env:"JARVIS_ENABLE_MONITORS" envDefault:"true"`
	EnableBrowser  bool `env:"JARVIS_ENABLE_BROWSER" envDefault:"true"`

	// Context Management
	ContextWindowSize  int `env:"JARVIS_CONTEXT_WINDOW_SIZE" envDefault:"20"`
	HistoryTokenBudget int `env:"JARVIS_HISTORY_TOKEN_BUDGET" envDefault:"3000"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetPersonaPath() string {
	return filepath.Join(c.RuntimePath, "PERSONA.md")
}

func (c AppConfig) GetHistoryPath() string {
	return filepath.Join(c.RuntimePath, "history.json")
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "jarvis.db")
}

func (c AppConfig) GetMCPConfigPath() string {
	return filepath.Join(c.RuntimePath, "mcp_config.json")
}

func (c AppConfig) GetContextWindowSize() int {
	return c.ContextWindowSize
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}
