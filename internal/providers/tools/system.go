// Package tools implements the collaborators the assistant can call.
package tools

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Runner starts programs. Tests replace it with a recorder.
type Runner interface {
	// Start launches a program without waiting for it.
	Start(ctx context.Context, name string, args ...string) error
	// Run waits for the program and returns its combined output.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type ExecRunner struct{}

func (ExecRunner) Start(ctx context.Context, name string, args ...string) error {
	// not bound to ctx, the program outlives the turn
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Opener hands a URL to the desktop's default handler.
type Opener struct {
	runner Runner
	goos   string
}

func NewOpener(r Runner) *Opener {
	return &Opener{runner: r, goos: runtime.GOOS}
}

func (o *Opener) Open(ctx context.Context, target string) error {
	var err error
	switch o.goos {
	case "darwin":
		err = o.runner.Start(ctx, "open", target)
	case "windows":
		err = o.runner.Start(ctx, "rundll32", "url.dll,FileProtocolHandler", target)
	default:
		err = o.runner.Start(ctx, "xdg-open", target)
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	return nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
