// Package search answers free-text queries from the web.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sandevgo/jarvis/pkg/retry"
	"golang.org/x/net/html"
)

const (
	maxResponseSize  = 1 << 20
	browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

var ErrNoResults = errors.New("no results")

type Result struct {
	Title   string
	URL     string
	Snippet string
}

// DuckDuckGo scrapes the keyless HTML endpoint.
type DuckDuckGo struct {
	client     *http.Client
	baseURL    string
	maxResults int
	retrier    *retry.Retrier
}

func NewDuckDuckGo(baseURL string, maxResults int, timeout time.Duration, retryCfg *retry.Config) *DuckDuckGo {
	if retryCfg == nil {
		retryCfg = defaultRetryConfig()
	}
	return &DuckDuckGo{
		client:     &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		maxResults: maxResults,
		retrier:    retry.NewRetrier(retryCfg),
	}
}

func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// Search returns the results as plain text, one block per result.
func (d *DuckDuckGo) Search(ctx context.Context, query string) (string, error) {
	results, err := d.Results(ctx, query)
	if err != nil {
		return "", err
	}
	return Format(results), nil
}

func (d *DuckDuckGo) Results(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query is required")
	}

	var results []Result
	err := d.retrier.Do(ctx, func() error {
		u := d.baseURL + "?q=" + url.QueryEscape(query)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", browserUserAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		req.Header.Set("Accept-Language", "en-US,en;q=0.5")

		resp, err := d.client.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if err := retry.HTTPStatus(resp); err != nil {
			return err
		}

		doc, err := html.Parse(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return fmt.Errorf("failed to parse HTML: %w", err)
		}
		results = parseDuckDuckGo(doc, d.maxResults)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	return results, nil
}

func parseDuckDuckGo(doc *html.Node, max int) []Result {
	var results []Result

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(results) >= max {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "result") && !hasClass(n, "result--ad") {
			if r := extractResult(n); r.URL != "" && r.Title != "" {
				results = append(results, r)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return results
}

func extractResult(n *html.Node) Result {
	var r Result

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			switch {
			case hasClass(n, "result__a"):
				r.URL = attr(n, "href")
				r.Title = textContent(n)
			case hasClass(n, "result__snippet"):
				r.Snippet = textContent(n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	r.URL = unwrapRedirect(r.URL)
	return r
}

// unwrapRedirect turns "//duckduckgo.com/l/?uddg=<target>&..." into target.
func unwrapRedirect(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || !strings.HasSuffix(u.Host, "duckduckgo.com") || u.Path != "/l/" {
		return raw
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return raw
}

func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Format renders results the way they are injected into the answer prompt.
func Format(results []Result) string {
	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "Title: %s\n", r.Title)
		if r.Snippet != "" {
			fmt.Fprintf(&sb, "Description: %s\n", r.Snippet)
		}
		fmt.Fprintf(&sb, "URL: %s\n", r.URL)
	}
	return sb.String()
}

func defaultRetryConfig() *retry.Config {
	return &retry.Config{
		MaxRetries:    2,
		BackoffFactor: 2,
		InitialDelay:  300 * time.Millisecond,
		MaxDelay:      3 * time.Second,
		Jitter:        50 * time.Millisecond,
	}
}
