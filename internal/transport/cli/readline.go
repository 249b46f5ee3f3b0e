// Package cli provides the terminal inputs: an interactive readline prompt
// and a plain stdin reader for UI mode.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/sandevgo/jarvis/internal/config"
)

// ReadLine is the interactive terminal input, standing in for speech
// recognition.
type ReadLine struct {
	rl          *readline.Instance
	pump        *pump
	onInterrupt func()
}

type ReadLineOption func(*ReadLine)

// WithInterrupt is called when Ctrl+C is pressed on an empty line. The
// terminal is in raw mode, so no SIGINT reaches the process.
func WithInterrupt(fn func()) ReadLineOption {
	return func(r *ReadLine) { r.onInterrupt = fn }
}

func NewReadLine(cfg *config.AppConfig, opts ...ReadLineOption) (*ReadLine, error) {
	if err := os.MkdirAll(cfg.GetRuntimePath(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     filepath.Join(cfg.GetRuntimePath(), "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	r := &ReadLine{rl: rl}
	for _, opt := range opts {
		opt(r)
	}
	r.pump = newPump(r.read)
	return r, nil
}

func (r *ReadLine) read() (string, error) {
	for {
		line, err := r.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				if r.onInterrupt != nil {
					r.onInterrupt()
				}
				return "", io.EOF
			}
			continue
		}
		return line, err
	}
}

func (r *ReadLine) Next(ctx context.Context) (string, error) {
	return r.pump.Next(ctx)
}

// Stdout writes above the prompt without corrupting it.
func (r *ReadLine) Stdout() io.Writer {
	return r.rl.Stdout()
}

func (r *ReadLine) Start(ctx context.Context) error {
	return nil
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	r.pump.Close()
	return r.rl.Close()
}
