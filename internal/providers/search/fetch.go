package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/inbucket/html2text"
	"github.com/sandevgo/jarvis/internal/core"
	"github.com/sandevgo/jarvis/pkg/retry"
)

// Fetcher downloads a page and returns it as readable text.
type Fetcher struct {
	client   *http.Client
	retrier  *retry.Retrier
	maxChars int
}

func NewFetcher(timeout time.Duration, maxChars int, retryCfg *retry.Config) *Fetcher {
	if retryCfg == nil {
		retryCfg = defaultRetryConfig()
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		retrier:  retry.NewRetrier(retryCfg),
		maxChars: maxChars,
	}
}

// Fetch accepts bare hosts ("example.com") as well as full URLs.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	target, err := normalizeURL(rawURL)
	if err != nil {
		return "", err
	}

	var body string
	err = f.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", core.JarvisUserAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to fetch url: %w", err)
		}
		defer resp.Body.Close()

		if err := retry.HTTPStatus(resp); err != nil {
			return err
		}

		body, err = html2text.FromReader(io.LimitReader(resp.Body, maxResponseSize), html2text.Options{
			OmitLinks:    true,
			PrettyTables: true,
		})
		if err != nil {
			return fmt.Errorf("failed to read body: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	body = strings.TrimSpace(body)
	if f.maxChars > 0 {
		if r := []rune(body); len(r) > f.maxChars {
			body = string(r[:f.maxChars])
		}
	}
	return body, nil
}

func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("url is required")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid url %q: missing host", raw)
	}
	return u.String(), nil
}
