package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sandevgo/jarvis/internal/core"
	"github.com/sandevgo/jarvis/internal/service/dialog"
	"github.com/sandevgo/jarvis/internal/service/registry"
	"github.com/sandevgo/jarvis/internal/service/ui"
	"github.com/spf13/cobra"
)

var functionsCmd = &cobra.Command{
	Use:          "functions",
	Short:        "List the functions the assistant can call",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLoggerTo(cmd.Context(), os.Stderr)
		defer flushLog()

		cfg := loadConfigs(ctx)
		lines, err := dialog.Load(cfg.app.UserName, cfg.app.AssistantName)
		if err != nil {
			return err
		}

		// Listing never calls a function, so chat has no conversation behind it
		reg, services, err := newRegistry(ctx, cfg, lines, nil, newSearcher(cfg.search))
		defer func() {
			for _, s := range services {
				_ = s.Shutdown(ctx)
			}
		}()
		if err != nil {
			return err
		}

		printFunctions(cmd.OutOrStdout(), reg)
		return nil
	},
}

func printFunctions(w io.Writer, reg *registry.Registry) {
	var (
		order  []string
		groups = make(map[string][]core.FunctionSpec)
	)
	for _, s := range reg.Specs() {
		if _, ok := groups[s.Category]; !ok {
			order = append(order, s.Category)
		}
		groups[s.Category] = append(groups[s.Category], s)
	}

	for _, category := range order {
		fmt.Fprintln(w, ui.CategoryStyle.Render(category))
		for _, s := range groups[category] {
			fmt.Fprintf(w, "  %-24s %s\n", s.Name, ui.DescStyle.Render(s.Description))
		}
		fmt.Fprintln(w)
	}
}

func init() {
	rootCmd.AddCommand(functionsCmd)
}
