package dispatch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sandevgo/jarvis/internal/core"
	"github.com/sandevgo/jarvis/internal/service/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, fns map[string]registry.Handler) *Dispatcher {
	t.Helper()
	b := registry.NewBuilder()
	for name, h := range fns {
		require.NoError(t, b.Register(core.FunctionSpec{Name: name}, h))
	}
	r, err := b.Build()
	require.NoError(t, err)
	return NewDispatcher(r)
}

func TestDispatch(t *testing.T) {
	var gotArg string
	d := build(t, map[string]registry.Handler{
		"echo": func(ctx context.Context, q string) registry.Result {
			gotArg = q
			return registry.Ok("echo: " + q)
		},
		"fails": registry.Classify(func(ctx context.Context, q string) string {
			return "Error: device not connected"
		}),
		"panics": func(ctx context.Context, q string) registry.Result {
			panic("nil pointer in collaborator")
		},
		"silent": func(ctx context.Context, q string) registry.Result {
			return registry.Ok("")
		},
		"silent_failure": registry.FromError(func(ctx context.Context, q string) (string, error) {
			return "", errors.New("")
		}),
	})
	ctx := context.Background()

	tests := []struct {
		name        string
		fn          string
		arg         string
		wantSuccess bool
		wantOutput  string
		contains    []string
	}{
		{name: "registered", fn: "echo", arg: " Y ", wantSuccess: true, wantOutput: "echo:  Y "},
		{name: "unknown", fn: "totally_unknown_fn", arg: "x", wantOutput: "Function 'totally_unknown_fn' not found."},
		{name: "case sensitive", fn: "ECHO", arg: "x", wantOutput: "Function 'ECHO' not found."},
		{name: "error string passed verbatim", fn: "fails", wantOutput: "Error: device not connected"},
		{name: "panic recovered", fn: "panics", contains: []string{"panics", "nil pointer in collaborator"}},
		{name: "empty ok output", fn: "silent", wantSuccess: true, wantOutput: "Done."},
		{name: "empty failure output", fn: "silent_failure", wantOutput: "Function 'silent_failure' failed."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res core.DispatchResult
			require.NotPanics(t, func() {
				res = d.Dispatch(ctx, tt.fn, tt.arg)
			})
			assert.Equal(t, tt.wantSuccess, res.Success)
			if tt.wantOutput != "" {
				assert.Equal(t, tt.wantOutput, res.Output)
			}
			for _, c := range tt.contains {
				assert.Contains(t, res.Output, c)
			}
		})
	}
	assert.Equal(t, " Y ", gotArg)
}

func TestDispatch_TruncatesOutput(t *testing.T) {
	long := strings.Repeat("x", maxOutputRunes+50)
	d := build(t, map[string]registry.Handler{
		"long": func(ctx context.Context, q string) registry.Result { return registry.Ok(long) },
	})

	res := d.Dispatch(context.Background(), "long", "")
	assert.True(t, res.Success)
	assert.True(t, strings.HasSuffix(res.Output, "(output truncated)"))
	assert.Less(t, len(res.Output), len(long))
}

func TestDispatch_Serialized(t *testing.T) {
	var running, peak atomic.Int32
	d := build(t, map[string]registry.Handler{
		"slow": func(ctx context.Context, q string) registry.Result {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
			return registry.Ok("done")
		},
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Dispatch(context.Background(), "slow", "")
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), peak.Load())
}

func TestDispatch_FailureTextNotTruncated(t *testing.T) {
	long := "Error: " + strings.Repeat("y", maxOutputRunes+50)
	d := build(t, map[string]registry.Handler{
		"verbose": func(ctx context.Context, q string) registry.Result { return registry.Err(long) },
	})

	res := d.Dispatch(context.Background(), "verbose", "")
	assert.False(t, res.Success)
	assert.Equal(t, long, res.Output)
}
