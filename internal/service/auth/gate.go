// Package auth runs the optional startup check that decides whether the
// assistant may start at all.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/jarvis/pkg/log"
)

var ErrDenied = errors.New("authentication failed")

// Runner executes the check command and returns its output. A non-nil
// error means a non-zero exit status or a command that could not start.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type Gate struct {
	command []string
	runner  Runner
}

// NewGate splits command on whitespace. An empty command disables the gate.
func NewGate(command string, runner Runner) *Gate {
	return &Gate{command: strings.Fields(command), runner: runner}
}

func (g *Gate) Enabled() bool {
	return len(g.command) > 0
}

// Check returns ErrDenied unless the command exits with status 0.
func (g *Gate) Check(ctx context.Context) error {
	if !g.Enabled() {
		return nil
	}

	logger := log.FromCtx(ctx)
	logger.Info().Str("command", g.command[0]).Msg("running authentication check")

	out, err := g.runner.Run(ctx, g.command[0], g.command[1:]...)
	if err != nil {
		logger.Warn().Err(err).Str("output", strings.TrimSpace(string(out))).Msg("authentication check failed")
		return fmt.Errorf("%w: %v", ErrDenied, err)
	}

	logger.Info().Msg("authenticated")
	return nil
}
