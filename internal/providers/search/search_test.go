package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sandevgo/jarvis/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = &retry.Config{
	MaxRetries:    1,
	BackoffFactor: 1,
	InitialDelay:  time.Millisecond,
	MaxDelay:      time.Millisecond,
}

const ddgPage = `<html><body>
<div class="result results_links result--ad"><a class="result__a" href="https://ads.example">Ad</a></div>
<div class="result results_links">
  <h2><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2F&amp;rut=abc">The Go
  Programming Language</a></h2>
  <a class="result__snippet" href="#">Go is an <b>open source</b> language.</a>
</div>
<div class="result results_links">
  <a class="result__a" href="https://pkg.go.dev">Go Packages</a>
</div>
<div class="result results_links">
  <a class="result__a" href="https://example.com/third">Third</a>
</div>
</body></html>`

func TestDuckDuckGo_Results(t *testing.T) {
	var gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotUA = r.UserAgent()
		fmt.Fprint(w, ddgPage)
	}))
	defer srv.Close()

	d := NewDuckDuckGo(srv.URL+"/html/", 2, time.Second, fastRetry)
	results, err := d.Results(context.Background(), "  golang  ")
	require.NoError(t, err)

	assert.Equal(t, "golang", gotQuery)
	assert.Contains(t, gotUA, "Mozilla")
	assert.Equal(t, []Result{
		{Title: "The Go Programming Language", URL: "https://go.dev/", Snippet: "Go is an open source language."},
		{Title: "Go Packages", URL: "https://pkg.go.dev"},
	}, results)

	text, err := d.Search(context.Background(), "golang")
	require.NoError(t, err)
	assert.Equal(t, "Title: The Go Programming Language\n"+
		"Description: Go is an open source language.\n"+
		"URL: https://go.dev/\n"+
		"\n"+
		"Title: Go Packages\n"+
		"URL: https://pkg.go.dev\n", text)
}

func TestDuckDuckGo_Errors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("q") == "empty" {
			fmt.Fprint(w, "<html><body>nothing</body></html>")
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	d := NewDuckDuckGo(srv.URL, 5, time.Second, fastRetry)

	_, err := d.Search(context.Background(), "empty")
	assert.ErrorIs(t, err, ErrNoResults)

	hits.Store(0)
	_, err = d.Search(context.Background(), "down")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 503")
	assert.Equal(t, int32(2), hits.Load(), "one retry")

	_, err = d.Search(context.Background(), "   ")
	assert.Error(t, err)
}

func TestWikipedia_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "query", r.URL.Query().Get("action"))
		assert.Equal(t, "alan turing", r.URL.Query().Get("srsearch"))
		assert.Equal(t, "3", r.URL.Query().Get("srlimit"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"query":{"search":[{"title":"Alan Turing","snippet":"<span class=\"searchmatch\">Alan</span> Mathison Turing was an English mathematician"}]}}`)
	}))
	defer srv.Close()

	w := NewWikipedia(srv.URL+"/w/api.php", 3, time.Second, fastRetry)
	out, err := w.Search(context.Background(), "alan turing")
	require.NoError(t, err)
	assert.Contains(t, out, "Title: Alan Turing\n")
	assert.Contains(t, out, "Description: Alan Mathison Turing was an English mathematician\n")
	assert.Contains(t, out, "URL: "+srv.URL+"/wiki/Alan_Turing\n")
}

type stubProvider struct {
	name  string
	out   string
	err   error
	delay time.Duration
}

func (s stubProvider) Name() string { return s.name }

func (s stubProvider) Search(ctx context.Context, query string) (string, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.out, s.err
}

func TestAggregator(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps provider order", func(t *testing.T) {
		a := NewAggregator(
			stubProvider{name: "slow", out: "first", delay: 20 * time.Millisecond},
			stubProvider{name: "fast", out: "second\n"},
		)
		out, err := a.Search(ctx, "q")
		require.NoError(t, err)
		assert.Equal(t, "first\n\nsecond", out)
	})

	t.Run("partial failure", func(t *testing.T) {
		a := NewAggregator(
			stubProvider{name: "broken", err: errors.New("boom")},
			stubProvider{name: "ok", out: "result"},
		)
		out, err := a.Search(ctx, "q")
		require.NoError(t, err)
		assert.Equal(t, "result", out)
	})

	t.Run("all fail", func(t *testing.T) {
		a := NewAggregator(
			stubProvider{name: "a", err: errors.New("boom")},
			stubProvider{name: "b", err: ErrNoResults},
		)
		_, err := a.Search(ctx, "q")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "a: boom")
		assert.ErrorIs(t, err, ErrNoResults)
	})

	t.Run("all empty", func(t *testing.T) {
		_, err := NewAggregator(stubProvider{name: "a"}).Search(ctx, "q")
		assert.ErrorIs(t, err, ErrNoResults)
	})

	t.Run("no providers", func(t *testing.T) {
		_, err := NewAggregator().Search(ctx, "q")
		assert.Error(t, err)
	})
}

func TestFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, `<html><body><h1>Test Page</h1><p>Hello World</p></body></html>`)
		}
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, 0, fastRetry)

	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, body, "Test Page")
	assert.Contains(t, body, "Hello World")

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")

	short := NewFetcher(time.Second, 5, fastRetry)
	body, err = short.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, []rune(body), 5)
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "example.com", want: "https://example.com"},
		{in: " http://example.com/a?b=c ", want: "http://example.com/a?b=c"},
		{in: "", wantErr: true},
		{in: "ftp://example.com", wantErr: true},
		{in: "https://", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnwrapRedirect(t *testing.T) {
	assert.Equal(t, "https://go.dev/", unwrapRedirect("//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2F&rut=x"))
	assert.Equal(t, "https://example.com", unwrapRedirect("https://example.com"))
	assert.True(t, strings.HasPrefix(unwrapRedirect("//duckduckgo.com/other"), "//duckduckgo.com"))
}
