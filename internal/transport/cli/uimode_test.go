package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStdin_PromptsPerRead(t *testing.T) {
	var out syncBuffer
	in := NewStdin(strings.NewReader("open youtube\n\nexit\n"), &out)
	ctx := context.Background()

	line, err := in.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "open youtube", line)
	assert.Equal(t, "__UI_EXPECTING_INPUT_START__:Please provide input:\n", out.String())

	line, err = in.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", line)

	line, err = in.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "exit", line)

	_, err = in.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
	_, err = in.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)

	assert.Equal(t, 4, strings.Count(out.String(), UIPromptMarker))
}

func TestPump_TimeoutKeepsLine(t *testing.T) {
	pr, pw := io.Pipe()
	var out syncBuffer
	in := NewStdin(pr, &out)
	defer func() {
		_ = pw.Close()
		_ = in.Shutdown(context.Background())
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	_, err := in.Next(ctx)
	cancel()
	require.ErrorIs(t, err, context.DeadlineExceeded)

	go func() { _, _ = pw.Write([]byte("hello jarvis\n")) }()

	line, err := in.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello jarvis", line)
	assert.Equal(t, 1, strings.Count(out.String(), UIPromptMarker), "the outstanding read is reused")
}

func TestPump_ReadError(t *testing.T) {
	boom := errors.New("device gone")
	p := newPump(func() (string, error) { return "", boom })

	_, err := p.Next(context.Background())
	assert.ErrorIs(t, err, boom)
	_, err = p.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestPump_CloseStopsIdleGoroutine(t *testing.T) {
	p := newPump(func() (string, error) { return "x", nil })

	line, err := p.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x", line)

	p.Close()
	for range p.lines {
	}
}
