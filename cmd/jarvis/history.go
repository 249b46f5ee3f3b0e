package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sandevgo/jarvis/internal/config"
	"github.com/sandevgo/jarvis/internal/core"
	"github.com/sandevgo/jarvis/internal/service/ui"
	"github.com/sandevgo/jarvis/internal/storage/jsonlog"
	"github.com/sandevgo/jarvis/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

var clearHistory bool

var historyCmd = &cobra.Command{
	Use:          "history",
	Short:        "Print or clear the conversation log",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLoggerTo(cmd.Context(), os.Stderr)
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}
		cfg := config.NewAppConfig(ctx)

		repo, closeRepo, err := openHistory(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = closeRepo() }()

		if clearHistory {
			if err := repo.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Conversation log cleared.")
			return nil
		}

		msgs, err := repo.Load(ctx)
		if err != nil {
			return err
		}
		printHistory(cmd.OutOrStdout(), msgs, cfg)
		return nil
	},
}

// openHistory opens the log `jarvis start` writes to. For sqlite that is
// the most recent session.
func openHistory(ctx context.Context, cfg *config.AppConfig) (core.HistoryRepository, func() error, error) {
	if cfg.HistoryBackend != config.HistoryBackendSQLite {
		l, err := jsonlog.Open(ctx, cfg.GetHistoryPath())
		if err != nil {
			return nil, nil, err
		}
		return l, l.Close, nil
	}

	db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
	if err != nil {
		return nil, nil, err
	}
	s, err := sqlite.LatestSessionLog(ctx, db)
	if err != nil {
		_ = db.Close()
		if errors.Is(err, sqlite.ErrNoSession) {
			return nil, nil, errors.New("no conversation recorded yet")
		}
		return nil, nil, err
	}
	return s, db.Close, nil
}

func printHistory(w io.Writer, msgs []core.Message, cfg *config.AppConfig) {
	if len(msgs) == 0 {
		fmt.Fprintln(w, "The conversation log is empty.")
		return
	}
	for _, m := range msgs {
		speaker := cfg.UserName
		if m.Role == core.RoleAssistant {
			speaker = cfg.AssistantName
		}
		fmt.Fprintf(w, "%s %s\n", ui.SpeakerStyle.Render(speaker+":"), m.Content)
	}
}

func init() {
	historyCmd.Flags().BoolVar(&clearHistory, "clear", false, "clear the conversation log")
	rootCmd.AddCommand(historyCmd)
}
