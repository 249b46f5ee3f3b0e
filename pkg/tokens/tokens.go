// Package tokens estimates prompt sizes and trims conversation windows.
package tokens

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// perMessageOverhead approximates role and separator tokens.
const perMessageOverhead = 4

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
)

func getTokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			tk = enc
		}
	})
	return tk
}

// Counter counts tokens in text.
type Counter func(text string) int

// Count uses cl100k_base and falls back to Estimate when the encoding
// cannot be loaded.
func Count(text string) int {
	if text == "" {
		return 0
	}
	if enc := getTokenizer(); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return Estimate(text)
}

// Estimate assumes roughly four characters per token.
func Estimate(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}

// Window returns the newest suffix of items that fits into budget tokens
// and holds at most maxItems entries. Non-positive limits are ignored.
func Window[T any](items []T, text func(T) string, count Counter, budget, maxItems int) []T {
	start := len(items)
	used := 0
	for i := len(items) - 1; i >= 0; i-- {
		if maxItems > 0 && len(items)-i > maxItems {
			break
		}
		cost := count(text(items[i])) + perMessageOverhead
		if budget > 0 && used+cost > budget {
			break
		}
		used += cost
		start = i
	}
	return items[start:]
}
