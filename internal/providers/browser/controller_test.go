package browser

import (
	"context"
	"testing"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/sandevgo/jarvis/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_ShutdownWithoutConnect(t *testing.T) {
	c := NewController(&config.BrowserConfig{})
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestController_Tabs(t *testing.T) {
	if _, ok := launcher.LookPath(); !ok {
		t.Skip("no chromium binary available")
	}
	ctx := context.Background()
	c := NewController(&config.BrowserConfig{Headless: true})
	defer func() { _ = c.Shutdown(ctx) }()

	out, err := c.NewTab(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Opened a new tab.", out)

	out, err = c.Refresh(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Page refreshed.", out)

	out, err = c.CloseTab(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Tab closed.", out)
}
