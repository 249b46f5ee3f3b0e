package search

import (
	"context"
	"encoding/json"
	"errors"
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

// Wikipedia queries the MediaWiki search API. Snippets come back as HTML
// fragments and are flattened to text.
type Wikipedia struct {
	client     *http.Client
	apiURL     string
	pageURL    string
	maxResults int
	retrier    *retry.Retrier
}

func NewWikipedia(apiURL string, maxResults int, timeout time.Duration, retryCfg *retry.Config) *Wikipedia {
	if retryCfg == nil {
		retryCfg = defaultRetryConfig()
	}
	page := "https://en.wikipedia.org/wiki/"
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		page = u.Scheme + "://" + u.Host + "/wiki/"
	}
	return &Wikipedia{
		client:     &http.Client{Timeout: timeout},
		apiURL:     apiURL,
		pageURL:    page,
		maxResults: maxResults,
		retrier:    retry.NewRetrier(retryCfg),
	}
}

func (w *Wikipedia) Name() string { return "wikipedia" }

type wikiResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

func (w *Wikipedia) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.New("query is required")
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("format", "json")
	params.Set("srsearch", query)
	params.Set("srlimit", fmt.Sprint(w.maxResults))

	var payload wikiResponse
	err := w.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.apiURL+"?"+params.Encode(), nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", core.JarvisUserAgent)

		resp, err := w.client.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if err := retry.HTTPStatus(resp); err != nil {
			return err
		}
		return json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&payload)
	})
	if err != nil {
		return "", err
	}

	results := make([]Result, 0, len(payload.Query.Search))
	for _, s := range payload.Query.Search {
		snippet, err := html2text.FromString(s.Snippet, html2text.Options{TextOnly: true})
		if err != nil {
			snippet = s.Snippet
		}
		results = append(results, Result{
			Title:   s.Title,
			URL:     w.pageURL + url.PathEscape(strings.ReplaceAll(s.Title, " ", "_")),
			Snippet: strings.Join(strings.Fields(snippet), " "),
		})
	}
	if len(results) == 0 {
		return "", ErrNoResults
	}
	return Format(results), nil
}
