// Package jsonlog stores the conversation as a pretty-printed JSON array
// of {role, content} objects, rewritten in full on every change.
package jsonlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/sandevgo/jarvis/internal/core"
	"github.com/sandevgo/jarvis/pkg/log"
)

var ErrLocked = errors.New("conversation log is in use by another session")

// Log is single-writer: Open takes an exclusive lock file next to the log
// and holds it until Close.
type Log struct {
	path string
	lock *flock.Flock
	mu   sync.Mutex
}

func Open(ctx context.Context, path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	log.FromCtx(ctx).Debug().Str("path", path).Msg("conversation log opened")
	return &Log{path: path, lock: lock}, nil
}

func (l *Log) Path() string {
	return l.path
}

func (l *Log) Load(ctx context.Context) ([]core.Message, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read()
}

func (l *Log) Append(ctx context.Context, msgs ...core.Message) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := l.read()
	if err != nil {
		return err
	}
	return l.write(append(current, msgs...))
}

func (l *Log) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.write([]core.Message{})
}

// Close releases the lock file.
func (l *Log) Close() error {
	return l.lock.Unlock()
}

func (l *Log) read() ([]core.Message, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []core.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read conversation log: %w", err)
	}
	if len(data) == 0 {
		return []core.Message{}, nil
	}

	var msgs []core.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("decode conversation log %s: %w", l.path, err)
	}
	return msgs, nil
}

// write replaces the file atomically through a temp file and rename.
func (l *Log) write(msgs []core.Message) error {
	data, err := json.MarshalIndent(msgs, "", "    ")
	if err != nil {
		return fmt.Errorf("encode conversation log: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), filepath.Base(l.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp log: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp log: %w", err)
	}

	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("replace conversation log: %w", err)
	}
	return nil
}
