package jsonlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sandevgo/jarvis/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_AppendLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "history.json")

	l, err := Open(ctx, path)
	require.NoError(t, err)
	defer l.Close()

	msgs, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, msgs, "missing file reads as empty log")

	require.NoError(t, l.Append(ctx, core.Message{Role: core.RoleUser, Content: "hello"}))
	require.NoError(t, l.Append(ctx, core.Message{Role: core.RoleAssistant, Content: "hi"}))

	msgs, err = l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Message{
		{Role: core.RoleUser, Content: "hello"},
		{Role: core.RoleAssistant, Content: "hi"},
	}, msgs)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n    {\n        \"role\": \"user\",\n        \"content\": \"hello\"\n    },\n    {\n        \"role\": \"assistant\",\n        \"content\": \"hi\"\n    }\n]", string(data))

	require.NoError(t, l.Clear(ctx))
	msgs, err = l.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestLog_SingleWriter(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.json")

	first, err := Open(ctx, path)
	require.NoError(t, err)

	_, err = Open(ctx, path)
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, first.Close())

	second, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestLog_Corrupted(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	l, err := Open(ctx, path)
	require.NoError(t, err)
	defer l.Close()

	_, err = l.Load(ctx)
	assert.Error(t, err)
	assert.Error(t, l.Append(ctx, core.Message{Role: core.RoleUser, Content: "x"}), "corrupted log must not be overwritten")
}
