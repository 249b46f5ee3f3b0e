package registry

import (
	"context"
	"strings"
)

// Result is the tagged outcome of a collaborator call.
type Result struct {
	ok   bool
	text string
}

func Ok(text string) Result {
	return Result{ok: true, text: text}
}

func Err(text string) Result {
	return Result{ok: false, text: text}
}

func (r Result) IsOk() bool {
	return r.ok
}

func (r Result) Text() string {
	return r.text
}

// Handler is the registry's calling convention for collaborators.
type Handler func(ctx context.Context, query string) Result

// FromError adapts a collaborator using Go error returns.
func FromError(fn func(ctx context.Context, query string) (string, error)) Handler {
	return func(ctx context.Context, query string) Result {
		out, err := fn(ctx, query)
		if err != nil {
			return Err(err.Error())
		}
		return Ok(out)
	}
}

// Classify adapts a collaborator that reports failures inside its
// returned text. The text is kept verbatim, only the tag is inferred.
func Classify(fn func(ctx context.Context, query string) string) Handler {
	return func(ctx context.Context, query string) Result {
		out := fn(ctx, query)
		if LooksLikeError(out) {
			return Err(out)
		}
		return Ok(out)
	}
}

var errorPrefixes = []string{
	"error",
	"failed",
	"failure",
	"sorry",
	"unable",
	"could not",
	"couldn't",
	"cannot",
	"an error occurred",
	"exception",
}

// LooksLikeError reports whether a collaborator string reads like a failure.
func LooksLikeError(text string) bool {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return false
	}
	for _, p := range errorPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
