package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	tea "github.com/charmbracelet/bubbletea"
	fs "github.com/sandevgo/jarvis/configs"
	"github.com/sandevgo/jarvis/internal/config"
	"github.com/sandevgo/jarvis/internal/providers/mcp"
	envfile "github.com/sandevgo/jarvis/pkg/env"
)

// SaveEnvStep writes the collected configuration to .env file
type SaveEnvStep struct {
	root  string
	err   error
	saved bool
}

func NewSaveEnvStep(root string) Step {
	return &SaveEnvStep{root: root}
}

func (s *SaveEnvStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved {
		return nil, nil
	}

	if err := SaveEnv(s.root, state.EnvVars); err != nil {
		s.err = err
		return s, nil
	}

	s.saved = true
	return nil, nil
}

func (s *SaveEnvStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.saved {
		return "Configuration saved successfully!\n"
	}
	return "Saving configuration...\n"
}

// SaveEnv validates vars against the config structs and writes them to
// root/.env. An existing file is never overwritten.
func SaveEnv(root string, vars map[string]string) error {
	if err := os.MkdirAll(root, 0755); err != nil {
		return fmt.Errorf("failed to create runtime directory: %w", err)
	}

	envPath := filepath.Join(root, ".env")
	if _, err := os.Stat(envPath); err == nil {
		return fmt.Errorf(".env file already exists at %s", envPath)
	}

	environment := make(map[string]string, len(vars)+1)
	for k, v := range vars {
		environment[k] = v
	}
	environment["JARVIS_RUNTIME_PATH"] = root

	opts := env.Options{Environment: environment}
	app := &config.AppConfig{}
	provider := &config.ProviderConfig{}
	sections := []any{app, provider}
	if environment[keyTelegram] == "true" {
		sections = append(sections, &config.TelegramConfig{})
	}

	var content strings.Builder
	for _, section := range sections {
		if err := env.ParseWithOptions(section, opts); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		lines, err := envfile.MarshalEnv(section)
		if err != nil {
			return err
		}
		content.WriteString(lines)
	}

	if err := os.WriteFile(envPath, []byte(content.String()), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", envPath, err)
	}
	return nil
}

// InitializeFilesStep writes the persona and an empty MCP config to the
// runtime directory.
type InitializeFilesStep struct {
	root string
	err  error
	done bool
}

func NewInitializeFilesStep(root string) Step {
	return &InitializeFilesStep{root: root}
}

func (s *InitializeFilesStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *InitializeFilesStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.done {
		return nil, nil
	}
	if err := InitializeFiles(context.Background(), s.root); err != nil {
		s.err = err
		return s, nil
	}
	s.done = true
	return nil, nil
}

func (s *InitializeFilesStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.done {
		return "Runtime files initialized successfully!\n"
	}
	return "Initializing runtime files...\n"
}

// InitializeFiles keeps files the user already edited.
func InitializeFiles(ctx context.Context, root string) error {
	if err := os.MkdirAll(root, 0755); err != nil {
		return fmt.Errorf("failed to create runtime directory: %w", err)
	}

	persona := filepath.Join(root, "PERSONA.md")
	if _, err := os.Stat(persona); os.IsNotExist(err) {
		data, err := fs.FS.ReadFile("persona.md")
		if err != nil {
			return fmt.Errorf("failed to read embedded persona: %w", err)
		}
		if err := os.WriteFile(persona, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", persona, err)
		}
	}

	// Load writes an empty server list when the file is missing
	if _, err := mcp.NewFileStorage(filepath.Join(root, "mcp_config.json")).Load(ctx); err != nil {
		return err
	}
	return nil
}
