package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/jarvis/internal/config"
	"github.com/sandevgo/jarvis/internal/service/installer"
	"github.com/sandevgo/jarvis/pkg/log"
	"github.com/spf13/cobra"
)

var forceInstall bool

var installCmd = &cobra.Command{
	Use:          "install",
	Short:        "Create the runtime directory and its .env file",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		root := config.GetRuntimePath()
		envPath := filepath.Join(root, ".env")
		if _, err := os.Stat(envPath); err == nil && !forceInstall {
			return fmt.Errorf("%s already exists, rerun with --force to overwrite it", envPath)
		}

		state, err := installer.RunWizard(root)
		if errors.Is(err, installer.ErrInterrupted) {
			fmt.Fprintln(cmd.OutOrStdout(), "Installation cancelled, nothing was written.")
			return nil
		}
		if err != nil {
			return err
		}

		logger := log.FromCtx(ctx)
		// make the new values visible to anything started from this process
		if err := godotenv.Overload(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("reload .env")
		}

		logger.Info().
			Str("path", root).
			Str("provider", state.Provider()).
			Bool("telegram", state.TelegramSelected()).
			Msg("runtime directory ready")
		fmt.Fprintln(cmd.OutOrStdout(), "Done. Start the assistant with 'jarvis start'.")
		return nil
	},
}

func init() {
	installCmd.Flags().BoolVar(&forceInstall, "force", false, "overwrite an existing .env")
	rootCmd.AddCommand(installCmd)
}
