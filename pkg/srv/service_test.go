package srv

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	started []string
	stopped []string
}

type named struct {
	name string
	rec  *recorder
	err  error
}

func (n named) Start(ctx context.Context) error {
	n.rec.mu.Lock()
	defer n.rec.mu.Unlock()
	n.rec.started = append(n.rec.started, n.name)
	return nil
}

func (n named) Shutdown(ctx context.Context) error {
	n.rec.mu.Lock()
	defer n.rec.mu.Unlock()
	n.rec.stopped = append(n.rec.stopped, n.name)
	return n.err
}

func TestServices_ShutdownInReverseOrder(t *testing.T) {
	rec := &recorder{}
	services := []Service{
		named{name: "log", rec: rec},
		named{name: "mcp", rec: rec, err: errors.New("broken pipe")},
		named{name: "monitors", rec: rec},
	}

	ctx, cancel := context.WithCancel(context.Background())
	StartServices(ctx, services)
	require.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return len(rec.started) == 3
	}, time.Second, time.Millisecond)

	cancel()
	ShutdownServices(ctx, services)

	assert.Equal(t, []string{"monitors", "mcp", "log"}, rec.stopped, "a failing shutdown does not stop the rest")
}

func TestCleanup_RunsOnce(t *testing.T) {
	calls := 0
	s := NewCleanup(func() error {
		calls++
		return nil
	})

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Shutdown(context.Background()))
	require.NoError(t, s.Shutdown(context.Background()))
	assert.Equal(t, 1, calls)

	assert.NoError(t, NewCleanup(nil).Shutdown(context.Background()))
}
