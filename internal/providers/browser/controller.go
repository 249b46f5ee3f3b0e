// Package browser drives a Chromium tab over the DevTools protocol.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sandevgo/jarvis/internal/config"
	"github.com/sandevgo/jarvis/pkg/log"
)

var ErrNoTab = errors.New("no open browser tab")

// Controller attaches to the browser lazily on first use. It keeps track
// of the tab it last opened or switched to.
type Controller struct {
	cfg *config.BrowserConfig

	mu       sync.Mutex
	browser  *rod.Browser
	page     *rod.Page
	launched *launcher.Launcher
}

func NewController(cfg *config.BrowserConfig) *Controller {
	return &Controller{cfg: cfg}
}

func (c *Controller) Start(ctx context.Context) error {
	return nil
}

// Shutdown closes a browser this process launched and only disconnects
// from one it attached to.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browser == nil {
		return nil
	}
	var err error
	if c.launched != nil {
		err = c.browser.Close()
		c.launched.Cleanup()
		c.launched = nil
	}
	c.browser = nil
	c.page = nil
	return err
}

func (c *Controller) connect(ctx context.Context) error {
	if c.browser != nil {
		if _, err := c.browser.Version(); err == nil {
			return nil
		}
		log.FromCtx(ctx).Warn().Msg("stale browser connection, reconnecting")
		c.browser = nil
		c.page = nil
	}

	controlURL := strings.TrimSpace(c.cfg.ControlURL)
	if controlURL == "" {
		l := launcher.New().Headless(c.cfg.Headless)
		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("launch browser: %w", err)
		}
		controlURL = u
		c.launched = l
	}

	// detached from the turn context, the connection outlives this call
	b := rod.New().ControlURL(controlURL).Context(context.WithoutCancel(ctx))
	if err := b.Connect(); err != nil {
		return fmt.Errorf("connect to browser: %w", err)
	}
	c.browser = b
	log.FromCtx(ctx).Info().Str("control_url", controlURL).Msg("browser connected")
	return nil
}

func (c *Controller) current(ctx context.Context) (*rod.Page, error) {
	if err := c.connect(ctx); err != nil {
		return nil, err
	}
	if c.page != nil {
		return c.page.Context(ctx), nil
	}

	pages, err := c.browser.Pages()
	if err != nil {
		return nil, fmt.Errorf("list tabs: %w", err)
	}
	if len(pages) == 0 {
		return nil, ErrNoTab
	}
	c.page = pages[len(pages)-1]
	return c.page.Context(ctx), nil
}

// NewTab opens url, or a blank page when url is empty.
func (c *Controller) NewTab(ctx context.Context, url string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.connect(ctx); err != nil {
		return "", err
	}
	target := strings.TrimSpace(url)
	if target == "" {
		target = "about:blank"
	}

	page, err := c.browser.Page(proto.TargetCreateTarget{URL: target})
	if err != nil {
		return "", fmt.Errorf("open tab: %w", err)
	}
	if _, err := page.Activate(); err != nil {
		log.FromCtx(ctx).Debug().Err(err).Msg("failed to focus new tab")
	}
	c.page = page

	if target == "about:blank" {
		return "Opened a new tab.", nil
	}
	return fmt.Sprintf("Opened %s in a new tab.", target), nil
}

func (c *Controller) Refresh(ctx context.Context, _ string) (string, error) {
	return c.onPage(ctx, "Page refreshed.", func(p *rod.Page) error { return p.Reload() })
}

func (c *Controller) Back(ctx context.Context, _ string) (string, error) {
	return c.onPage(ctx, "Went back.", func(p *rod.Page) error { return p.NavigateBack() })
}

func (c *Controller) Forward(ctx context.Context, _ string) (string, error) {
	return c.onPage(ctx, "Went forward.", func(p *rod.Page) error { return p.NavigateForward() })
}

func (c *Controller) CloseTab(ctx context.Context, _ string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	page, err := c.current(ctx)
	if err != nil {
		return "", err
	}
	if err := page.Close(); err != nil {
		return "", fmt.Errorf("close tab: %w", err)
	}
	c.page = nil
	return "Tab closed.", nil
}

func (c *Controller) onPage(ctx context.Context, done string, fn func(*rod.Page) error) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	page, err := c.current(ctx)
	if err != nil {
		return "", err
	}
	if err := fn(page); err != nil {
		return "", err
	}
	return done, nil
}
