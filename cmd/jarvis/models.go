package main

import (
	"fmt"
	"os"

	"github.com/sandevgo/jarvis/internal/config"
	"github.com/sandevgo/jarvis/internal/core"
	"github.com/sandevgo/jarvis/internal/providers/llm"
	"github.com/sandevgo/jarvis/internal/service/ui"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:          "models",
	Short:        "List the models offered by the configured provider",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLoggerTo(cmd.Context(), os.Stderr)
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}
		cfg := config.NewProviderConfig(ctx)

		provider, err := llm.NewProvider(ctx, cfg, cfg.ChatModel)
		if err != nil {
			return err
		}
		lister, ok := provider.(core.ModelLister)
		if !ok {
			return fmt.Errorf("provider %s cannot list models", cfg.Provider)
		}
		models, err := lister.Models(ctx)
		if err != nil {
			return fmt.Errorf("list models: %w", err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, ui.CategoryStyle.Render(cfg.Provider))
		for _, m := range models {
			mark := " "
			if m.ID == cfg.ChatModel || m.ID == cfg.IntentModel {
				mark = "*"
			}
			fmt.Fprintf(w, "%s %s\n", mark, m.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
