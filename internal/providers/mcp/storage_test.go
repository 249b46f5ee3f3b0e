package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage_LoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp_config.json")
	s := NewFileStorage(path)

	cfg, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cfg.MCPServers)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestFileStorage_LoadMissingDir(t *testing.T) {
	s := NewFileStorage(filepath.Join(t.TempDir(), "missing", "mcp_config.json"))

	_, err := s.Load(context.Background())
	assert.Error(t, err)
}

func TestFileStorage_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp_config.json")
	s := NewFileStorage(path)
	ctx := context.Background()

	want := &Config{MCPServers: map[string]ServerConfig{
		"files": {Command: "mcp-files", Args: []string{"--root", "/tmp"}},
		"web":   {URL: "http://localhost:9000/mcp", Type: "sse", Headers: map[string]string{"X-Key": "k"}},
	}}
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStorage_LoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp_config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewFileStorage(path).Load(context.Background())
	assert.Error(t, err)
}

func TestServerConfig_GetTransport(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServerConfig
		want    TransportType
		wantErr bool
	}{
		{name: "http", cfg: ServerConfig{URL: "http://x"}, want: TransportHTTP},
		{name: "sse", cfg: ServerConfig{URL: "http://x", Type: "sse"}, want: TransportSSE},
		{name: "stdio", cfg: ServerConfig{Command: "srv"}, want: TransportStdio},
		{name: "url wins", cfg: ServerConfig{URL: "http://x", Command: "srv"}, want: TransportHTTP},
		{name: "empty", cfg: ServerConfig{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.GetTransport()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{MCPServers: map[string]ServerConfig{
		"ok":      {Command: "srv"},
		"off":     {Disabled: true},
		"broken":  {},
		"broken2": {Args: []string{"x"}},
	}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `server "broken"`)
	assert.Contains(t, err.Error(), `server "broken2"`)
	assert.NotContains(t, err.Error(), `"off"`)

	assert.NoError(t, (&Config{}).Validate())
}

func TestFileStorage_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStorage(filepath.Join(dir, "mcp_config.json"))
	require.NoError(t, s.Save(context.Background(), &Config{MCPServers: map[string]ServerConfig{}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mcp_config.json", entries[0].Name())
}

func TestEnvList(t *testing.T) {
	assert.Equal(t, []string{"A=1", "B=two"}, envList(map[string]string{"B": "two", "A": "1"}))
	assert.Empty(t, envList(nil))
}
