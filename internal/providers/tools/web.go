package tools

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sandevgo/jarvis/configs"
	"gopkg.in/yaml.v3"
)

// LoadSites reads the spoken-name to host aliases.
func LoadSites() (map[string]string, error) {
	data, err := configs.FS.ReadFile("websites.yaml")
	if err != nil {
		return nil, fmt.Errorf("read websites: %w", err)
	}
	sites := make(map[string]string)
	if err := yaml.Unmarshal(data, &sites); err != nil {
		return nil, fmt.Errorf("parse websites: %w", err)
	}
	return sites, nil
}

type Web struct {
	opener *Opener
	sites  map[string]string
}

func NewWeb(opener *Opener, sites map[string]string) *Web {
	return &Web{opener: opener, sites: sites}
}

// OpenWebsite accepts an alias ("youtube"), a host ("go.dev") or a bare
// name, which is tried as www.<name>.com.
func (w *Web) OpenWebsite(ctx context.Context, query string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(query))
	if name == "" {
		return "", fmt.Errorf("which website should I open?")
	}
	target := w.resolve(name)
	if err := w.opener.Open(ctx, target); err != nil {
		return "", err
	}
	return fmt.Sprintf("Opening %s.", titleCase(name)), nil
}

func (w *Web) resolve(name string) string {
	if strings.Contains(name, "://") {
		return name
	}
	if host, ok := w.sites[name]; ok {
		return "https://" + host
	}
	if strings.Contains(name, ".") && !strings.Contains(name, " ") {
		return "https://" + name
	}
	return "https://www." + strings.ReplaceAll(name, " ", "") + ".com"
}

func (w *Web) GoogleSearch(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("what should I search for?")
	}
	if err := w.opener.Open(ctx, "https://www.google.com/search?q="+url.QueryEscape(query)); err != nil {
		return "", err
	}
	return fmt.Sprintf("Searching Google for %s.", query), nil
}

func (w *Web) YouTubeSearch(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("what should I look for on YouTube?")
	}
	if err := w.opener.Open(ctx, "https://www.youtube.com/results?search_query="+url.QueryEscape(query)); err != nil {
		return "", err
	}
	return fmt.Sprintf("Searching YouTube for %s.", query), nil
}
