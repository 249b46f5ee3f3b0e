package main

import (
	"context"
	"io"
	"os"

	"github.com/sandevgo/jarvis/internal/config"
	"github.com/sandevgo/jarvis/internal/core"
	"github.com/sandevgo/jarvis/internal/service/ui"
	"github.com/sandevgo/jarvis/pkg/log"
	"github.com/spf13/cobra"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "jarvis",
	Short: "Jarvis, a personal voice assistant",
	Long: "Jarvis turns what you say into function calls and answers everything else in conversation.\n" +
		"Run 'jarvis install' once, then 'jarvis start'.",
	Version: core.JarvisVersion,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	styleHelp(rootCmd)
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	return setupLoggerTo(ctx, os.Stdout)
}

// setupLoggerTo is used by commands whose stdout is their result.
func setupLoggerTo(ctx context.Context, out io.Writer) (context.Context, func()) {
	return log.NewContextWithLoggerTo(ctx, out, debug || config.IsDebug())
}

const helpTemplate = `{{with .Long}}{{StyleDesc .}}
{{end}}
{{StyleTitle "USAGE"}}
  {{StyleUsage .UseLine}}{{if .HasAvailableSubCommands}}
  {{StyleUsage (print .CommandPath " [command]")}}{{end}}
{{if .HasAvailableSubCommands}}
{{StyleTitle "COMMANDS"}}{{range .Commands}}{{if .IsAvailableCommand}}
  {{rpad .Name .NamePadding}} {{StyleDesc .Short}}{{end}}{{end}}
{{end}}{{if .HasAvailableLocalFlags}}
{{StyleTitle "FLAGS"}}
{{StyleFlag (.LocalFlags.FlagUsages | trimTrailingWhitespaces)}}
{{end}}{{if .HasAvailableInheritedFlags}}
{{StyleTitle "GLOBAL FLAGS"}}
{{StyleFlag (.InheritedFlags.FlagUsages | trimTrailingWhitespaces)}}
{{end}}`

func styleHelp(cmd *cobra.Command) {
	for name, style := range map[string]func(...string) string{
		"StyleTitle": ui.TitleStyle.Render,
		"StyleUsage": ui.UsageStyle.Render,
		"StyleFlag":  ui.FlagStyle.Render,
		"StyleDesc":  ui.DescStyle.Render,
	} {
		cobra.AddTemplateFunc(name, func(s string) string { return style(s) })
	}
	cmd.SetHelpTemplate(helpTemplate)
}
