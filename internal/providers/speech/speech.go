// Package speech speaks lines through an external TTS program.
package speech

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sandevgo/jarvis/internal/config"
	"github.com/sandevgo/jarvis/internal/core"
)

var ErrNoCommand = errors.New("tts command is empty")

// Command runs the configured program with the text as its last argument,
// e.g. "espeak-ng -s 160".
type Command struct {
	name string
	args []string
}

func NewCommand(command string) (*Command, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, ErrNoCommand
	}
	return &Command{name: fields[0], args: fields[1:]}, nil
}

func (c *Command) Speak(ctx context.Context, text string) error {
	args := append(append([]string(nil), c.args...), text)
	out, err := exec.CommandContext(ctx, c.name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", c.name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// New returns nil when speech is disabled.
func New(cfg *config.SpeechConfig) (core.Speaker, error) {
	if strings.TrimSpace(cfg.TTSCommand) == "" {
		return nil, nil
	}
	cmd, err := NewCommand(cfg.TTSCommand)
	if err != nil {
		return nil, err
	}
	if _, err := exec.LookPath(cmd.name); err != nil {
		return nil, fmt.Errorf("tts command not found: %w", err)
	}
	return cmd, nil
}
