package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/jarvis/internal/providers/tools"
	"github.com/sandevgo/jarvis/internal/service/auth"
	"github.com/sandevgo/jarvis/pkg/log"
	"github.com/sandevgo/jarvis/pkg/srv"
	"github.com/spf13/cobra"
)

var uiMode bool

var startCmd = &cobra.Command{
	Use:          "start",
	Short:        "Start the assistant",
	Long:         `Runs the voice assistant session in the terminal together with the configured background services (Telegram, monitors, MCP servers).`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// In UI mode stdout belongs to the host application
		var flushLog func()
		if uiMode {
			ctx, flushLog = setupLoggerTo(ctx, os.Stderr)
		} else {
			ctx, flushLog = setupLogger(ctx)
		}
		defer flushLog()

		logger := log.FromCtx(ctx)
		cfg := loadConfigs(ctx)

		gate := auth.NewGate(cfg.app.AuthCommand, tools.ExecRunner{})
		if err := gate.Check(ctx); err != nil {
			logger.Error().Err(err).Msg("authentication failed")
			fmt.Fprintln(os.Stderr, "Authentication failed. Exiting.")
			return err
		}

		logger.Info().Bool("ui_mode", uiMode).Msg("starting jarvis")

		app, err := NewApp(ctx, cfg, startOptions{uiMode: uiMode, interrupt: stop})
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}

		// The bus outlives every other service so shutdown lines are written
		go func() {
			_ = app.Bus.Start(ctx)
		}()
		srv.StartServices(ctx, app.Services)

		runErr := app.Wake.Run(ctx)

		stop()
		srv.ShutdownServices(ctx, app.Services)
		_ = app.Bus.Shutdown(ctx)

		logger.Info().Msg("jarvis has been shut down gracefully")
		return runErr
	},
}

func init() {
	startCmd.Flags().BoolVar(&uiMode, "ui-mode", false, "read lines from stdin and write plain output for a host UI")
	rootCmd.AddCommand(startCmd)
}
