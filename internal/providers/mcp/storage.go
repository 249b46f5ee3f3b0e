package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/sandevgo/jarvis/pkg/log"
)

// FileStorage reads and writes mcp_config.json.
type FileStorage struct {
	path string
	mu   sync.RWMutex
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Load parses the config file. A missing file is replaced by an empty
// config written next to the runtime files; a missing directory is an error.
func (s *FileStorage) Load(ctx context.Context) (*Config, error) {
	s.mu.RLock()
	data, err := os.ReadFile(s.path)
	s.mu.RUnlock()

	switch {
	case errors.Is(err, os.ErrNotExist):
		if _, dirErr := os.Stat(filepath.Dir(s.path)); dirErr != nil {
			return nil, fmt.Errorf("mcp config directory: %w", dirErr)
		}
		cfg := &Config{MCPServers: map[string]ServerConfig{}}
		log.FromCtx(ctx).Info().Str("path", s.path).Msg("creating empty mcp config")
		return cfg, s.Save(ctx, cfg)
	case err != nil:
		return nil, fmt.Errorf("read mcp config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(s.path), err)
	}
	if cfg.MCPServers == nil {
		cfg.MCPServers = map[string]ServerConfig{}
	}
	return &cfg, nil
}

// Save replaces the config file via a temp file in the same directory.
func (s *FileStorage) Save(_ context.Context, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".mcp_config-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Validate reports every enabled server whose entry names no transport.
func (c *Config) Validate() error {
	names := make([]string, 0, len(c.MCPServers))
	for name := range c.MCPServers {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		srv := c.MCPServers[name]
		if srv.Disabled {
			continue
		}
		if _, err := srv.GetTransport(); err != nil {
			errs = append(errs, fmt.Errorf("server %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
