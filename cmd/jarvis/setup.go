package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sandevgo/jarvis/internal/config"
	"github.com/sandevgo/jarvis/internal/core"
	"github.com/sandevgo/jarvis/internal/providers/browser"
	"github.com/sandevgo/jarvis/internal/providers/llm"
	"github.com/sandevgo/jarvis/internal/providers/mcp"
	"github.com/sandevgo/jarvis/internal/providers/search"
	"github.com/sandevgo/jarvis/internal/providers/speech"
	"github.com/sandevgo/jarvis/internal/providers/sysinfo"
	"github.com/sandevgo/jarvis/internal/providers/tools"
	"github.com/sandevgo/jarvis/internal/service/command"
	"github.com/sandevgo/jarvis/internal/service/dialog"
	"github.com/sandevgo/jarvis/internal/service/dispatch"
	"github.com/sandevgo/jarvis/internal/service/fallback"
	"github.com/sandevgo/jarvis/internal/service/intent"
	"github.com/sandevgo/jarvis/internal/service/monitor"
	"github.com/sandevgo/jarvis/internal/service/prompt"
	"github.com/sandevgo/jarvis/internal/service/registry"
	"github.com/sandevgo/jarvis/internal/service/session"
	"github.com/sandevgo/jarvis/internal/storage/jsonlog"
	"github.com/sandevgo/jarvis/internal/storage/sqlite"
	"github.com/sandevgo/jarvis/internal/transport/cli"
	"github.com/sandevgo/jarvis/internal/transport/output"
	"github.com/sandevgo/jarvis/internal/transport/telegram"
	"github.com/sandevgo/jarvis/pkg/log"
	"github.com/sandevgo/jarvis/pkg/srv"
)

type configs struct {
	app      *config.AppConfig
	provider *config.ProviderConfig
	session  *config.SessionConfig
	search   *config.SearchConfig
	monitor  *config.MonitorConfig
	speech   *config.SpeechConfig
	browser  *config.BrowserConfig
}

func loadConfigs(ctx context.Context) *configs {
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to init env")
	}
	return &configs{
		app:      config.NewAppConfig(ctx),
		provider: config.NewProviderConfig(ctx),
		session:  config.NewSessionConfig(ctx),
		search:   config.NewSearchConfig(ctx),
		monitor:  config.NewMonitorConfig(ctx),
		speech:   config.NewSpeechConfig(ctx),
		browser:  config.NewBrowserConfig(ctx),
	}
}

// App is everything `jarvis start` runs. The bus is started first and
// shut down last so every goodbye line is written.
type App struct {
	Registry *registry.Registry
	Bus      *output.Bus
	Wake     *session.Wake
	Services []srv.Service
}

type startOptions struct {
	uiMode    bool
	interrupt func()
}

func NewApp(ctx context.Context, cfg *configs, opts startOptions) (*App, error) {
	logger := log.FromCtx(ctx)
	app := &App{}

	lines, err := dialog.Load(cfg.app.UserName, cfg.app.AssistantName)
	if err != nil {
		return nil, err
	}

	// 1. Storage
	history, sessionID, closer, err := initHistory(ctx, cfg.app)
	if err != nil {
		return nil, err
	}
	app.Services = append(app.Services, closer)

	// 2. LLM providers
	chatModel, err := llm.NewDynamicProvider(ctx, func(ctx context.Context, model string) (core.AIProvider, error) {
		return llm.NewProvider(ctx, cfg.provider, model)
	}, cfg.provider.ChatModel)
	if err != nil {
		return nil, err
	}
	intentModel, err := llm.NewProvider(ctx, cfg.provider, cfg.provider.IntentModel)
	if err != nil {
		return nil, err
	}

	// 3. Search
	searcher := newSearcher(cfg.search)

	// 4. Fallback responder
	persona, err := prompt.LoadPersona(cfg.app.GetPersonaPath(), cfg.app.UserName, cfg.app.AssistantName)
	if err != nil {
		return nil, err
	}
	fallbackCfg := fallback.DefaultConfig()
	fallbackCfg.WindowTurns = cfg.app.ContextWindowSize
	fallbackCfg.TokenBudget = cfg.app.HistoryTokenBudget
	responder := fallback.NewResponder(chatModel, history, persona,
		cfg.app.UserName, cfg.app.AssistantName, fallbackCfg, fallback.WithSearch(searcher))

	// 5. Function registry
	reg, services, err := newRegistry(ctx, cfg, lines, responder, searcher)
	if err != nil {
		return nil, err
	}
	app.Registry = reg
	app.Services = append(app.Services, services...)

	// 6. Intent resolution and dispatch
	intentCfg := intent.DefaultConfig()
	intentCfg.HistoryTurns = cfg.session.IntentHistory
	resolver, err := intent.NewResolver(intentModel, reg, cfg.app.AssistantName, intentCfg)
	if err != nil {
		return nil, err
	}

	router := command.New([]core.Command{
		command.NewFunctionsCommand(reg),
		command.NewHistoryCommand(history),
		command.NewClearCommand(history),
		command.NewModelCommand(cfg.provider.Provider, chatModel),
	})
	assistant := session.NewAssistant(resolver, dispatch.NewDispatcher(reg), responder, history,
		lines.Say(dialog.Apology), session.WithCommands(router))

	// 7. Terminal transport
	input, out, err := newInput(cfg.app, opts)
	if err != nil {
		return nil, err
	}
	app.Services = append(app.Services, input)

	speaker, err := speech.New(cfg.speech)
	if err != nil {
		return nil, err
	}
	var busOpts []output.Option
	if speaker != nil {
		busOpts = append(busOpts, output.WithSpeaker(speaker))
	}
	if opts.uiMode {
		busOpts = append(busOpts, output.WithPlain())
	}
	app.Bus = output.NewBus(out, cfg.app.AssistantName, busOpts...)

	// 8. Telegram and monitors
	var notifier monitor.Notifier
	if cfg.app.IsTelegramSelected() {
		bot, err := telegram.NewBot(log.With(ctx, "telegram"), config.NewTelegramConfig(ctx), assistant)
		if err != nil {
			return nil, err
		}
		app.Services = append(app.Services, bot)
		notifier = bot
	}
	if cfg.app.EnableMonitors {
		app.Services = append(app.Services, newMonitors(cfg.monitor, lines, app.Bus, notifier))
	}

	// 9. Session
	loopCfg := session.LoopConfig{
		SessionID:         sessionID,
		InactivityTimeout: cfg.session.InactivityTimeout,
	}
	if !cfg.session.RequireWakeWord {
		loopCfg.InactivityTimeout = 0
	}
	if opts.uiMode {
		loopCfg.RepromptKey = dialog.UIReprompt
	}
	loop := session.NewLoop(assistant, input, app.Bus, lines, loopCfg)
	app.Wake = session.NewWake(loop, input, app.Bus, lines, cfg.app.AssistantName, cfg.session.RequireWakeWord)

	logger.Info().
		Str("session", sessionID).
		Str("provider", cfg.provider.Provider).
		Str("chat_model", cfg.provider.ChatModel).
		Str("intent_model", cfg.provider.IntentModel).
		Msg("assistant ready")
	return app, nil
}

// newRegistry collects the local functions and the tools of every enabled
// MCP server. The returned services own the browser and the MCP clients.
func newRegistry(
	ctx context.Context,
	cfg *configs,
	lines *dialog.Book,
	conv tools.Conversation,
	searcher core.Searcher,
) (*registry.Registry, []srv.Service, error) {
	logger := log.FromCtx(ctx)
	var services []srv.Service

	builder := registry.NewBuilder()
	deps, err := toolDeps(cfg, lines, conv, searcher)
	if err != nil {
		return nil, nil, err
	}
	if cfg.app.EnableBrowser {
		ctrl := browser.NewController(cfg.browser)
		deps.Browser = ctrl
		services = append(services, ctrl)
	} else {
		logger.Debug().Msg("browser functions disabled")
	}
	if err := tools.Register(builder, deps); err != nil {
		return nil, nil, err
	}

	remote := mcp.NewService(mcp.NewFileStorage(cfg.app.GetMCPConfigPath()), mcp.NewPool(nil))
	if err := remote.Connect(log.With(ctx, "mcp")); err != nil {
		logger.Warn().Err(err).Msg("mcp tools unavailable")
	}
	remote.Register(ctx, builder)
	services = append(services, remote)

	reg, err := builder.Build()
	if err != nil {
		return nil, services, err
	}
	logger.Info().Int("functions", reg.Len()).Msg("function registry built")
	return reg, services, nil
}

// initHistory opens the conversation log. The returned service releases it.
func initHistory(ctx context.Context, cfg *config.AppConfig) (core.HistoryRepository, string, srv.Service, error) {
	switch cfg.HistoryBackend {
	case config.HistoryBackendSQLite:
		db, err := sqlite.NewDB(log.With(ctx, "sqlite"), cfg.GetDatabasePath())
		if err != nil {
			return nil, "", nil, err
		}
		s, err := sqlite.NewSessionLog(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, "", nil, err
		}
		return s, s.ID(), srv.NewCleanup(db.Close), nil
	case config.HistoryBackendJSON, "":
		l, err := jsonlog.Open(ctx, cfg.GetHistoryPath())
		if err != nil {
			return nil, "", nil, err
		}
		return l, uuid.NewString(), srv.NewCleanup(l.Close), nil
	}
	return nil, "", nil, fmt.Errorf("unknown history backend: %s", cfg.HistoryBackend)
}

func newSearcher(cfg *config.SearchConfig) *search.Aggregator {
	providers := []search.Provider{
		search.NewDuckDuckGo(cfg.DuckDuckGoURL, cfg.MaxResults, cfg.Timeout, nil),
	}
	if cfg.WikipediaURL != "" {
		providers = append(providers, search.NewWikipedia(cfg.WikipediaURL, cfg.MaxResults, cfg.Timeout, nil))
	}
	return search.NewAggregator(providers...)
}

func toolDeps(
	cfg *configs,
	lines *dialog.Book,
	conv tools.Conversation,
	searcher core.Searcher,
) (tools.Deps, error) {
	sites, err := tools.LoadSites()
	if err != nil {
		return tools.Deps{}, err
	}

	runner := tools.ExecRunner{}
	return tools.Deps{
		Chat:    tools.NewChat(conv),
		Search:  searcher,
		Fetcher: search.NewFetcher(cfg.search.Timeout, cfg.search.FetchMaxChars, nil),
		Web:     tools.NewWeb(tools.NewOpener(runner), sites),
		Apps:    tools.NewApps(runner),
		Power: tools.NewPower(
			sysinfo.NewPowerSupply(cfg.monitor.PowerSupplyPath),
			sysinfo.NewDrives(sysinfo.ProcMounts, cfg.monitor.MediaPaths),
			lines,
		),
		Clock: tools.NewClock(nil),
	}, nil
}

type inputService interface {
	session.Input
	srv.Service
}

func newInput(cfg *config.AppConfig, opts startOptions) (inputService, io.Writer, error) {
	if opts.uiMode {
		return cli.NewStdin(os.Stdin, os.Stdout), os.Stdout, nil
	}
	rl, err := cli.NewReadLine(cfg, cli.WithInterrupt(opts.interrupt))
	if err != nil {
		return nil, nil, err
	}
	return rl, rl.Stdout(), nil
}

func newMonitors(cfg *config.MonitorConfig, lines *dialog.Book, bus *output.Bus, notifier monitor.Notifier) *monitor.Service {
	battery := sysinfo.NewPowerSupply(cfg.PowerSupplyPath)
	monitors := []monitor.Monitor{
		monitor.NewBattery(battery, lines, cfg.BatteryInitialDelay, cfg.BatteryInterval),
		monitor.NewPlug(battery, lines, cfg.PlugInterval),
		monitor.NewDrives(sysinfo.NewDrives(sysinfo.ProcMounts, cfg.MediaPaths), lines, cfg.DriveInterval),
	}

	var opts []monitor.Option
	if notifier != nil {
		opts = append(opts, monitor.WithNotifier(notifier))
	}
	return monitor.NewService(bus, monitors, opts...)
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
