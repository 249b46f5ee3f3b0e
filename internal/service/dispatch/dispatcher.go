// Package dispatch executes resolved function calls against the registry.
package dispatch

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/sandevgo/jarvis/internal/core"
	"github.com/sandevgo/jarvis/internal/service/registry"
	"github.com/sandevgo/jarvis/pkg/log"
)

const (
	maxOutputRunes = 2000
	emptyOutput    = "Done."
)

type Dispatcher struct {
	registry *registry.Registry
	mu       sync.Mutex
}

func NewDispatcher(reg *registry.Registry) *Dispatcher {
	return &Dispatcher{registry: reg}
}

// Dispatch never panics and never fails; every outcome is carried in
// the returned DispatchResult.
func (d *Dispatcher) Dispatch(ctx context.Context, name, argument string) core.DispatchResult {
	logger := log.FromCtx(ctx).With().Str("function", name).Logger()

	fn, ok := d.registry.Lookup(name)
	if !ok {
		logger.Warn().Msg("model named an unknown function")
		return core.DispatchResult{
			Success: false,
			Output:  fmt.Sprintf("Function '%s' not found.", name),
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	res := d.invoke(ctx, fn, argument)

	// failure text is shown as the collaborator wrote it
	out := res.Text()
	switch {
	case strings.TrimSpace(out) == "" && res.IsOk():
		out = emptyOutput
	case strings.TrimSpace(out) == "":
		out = fmt.Sprintf("Function '%s' failed.", name)
	case res.IsOk():
		out = truncate(out)
	}

	logger.Info().
		Bool("success", res.IsOk()).
		Dur("took", time.Since(start)).
		Msg("function executed")

	return core.DispatchResult{Success: res.IsOk(), Output: out}
}

func (d *Dispatcher) invoke(ctx context.Context, fn registry.Function, argument string) (res registry.Result) {
	defer func() {
		if r := recover(); r != nil {
			log.FromCtx(ctx).Error().
				Str("function", fn.Spec.Name).
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("function panicked")
			res = registry.Err(fmt.Sprintf("Function '%s' failed: %v", fn.Spec.Name, r))
		}
	}()
	return fn.Handler(ctx, argument)
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxOutputRunes {
		return s
	}
	return string(runes[:maxOutputRunes]) + "\n... (output truncated)"
}
