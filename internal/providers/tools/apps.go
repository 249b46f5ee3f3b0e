package tools

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Apps starts and stops desktop programs by name.
type Apps struct {
	runner Runner
	goos   string
}

func NewApps(r Runner) *Apps {
	return &Apps{runner: r, goos: runtime.GOOS}
}

func (a *Apps) Open(ctx context.Context, query string) (string, error) {
	name := appName(query)
	if name == "" {
		return "", fmt.Errorf("which application should I open?")
	}

	var err error
	switch a.goos {
	case "darwin":
		err = a.runner.Start(ctx, "open", "-a", name)
	case "windows":
		err = a.runner.Start(ctx, "cmd", "/C", "start", "", name)
	default:
		err = a.runner.Start(ctx, name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", name, err)
	}
	return fmt.Sprintf("Opening %s.", titleCase(name)), nil
}

func (a *Apps) Close(ctx context.Context, query string) (string, error) {
	name := appName(query)
	if name == "" {
		return "", fmt.Errorf("which application should I close?")
	}

	var err error
	switch a.goos {
	case "windows":
		_, err = a.runner.Run(ctx, "taskkill", "/IM", name+".exe", "/F")
	default:
		_, err = a.runner.Run(ctx, "pkill", "-i", "-x", name)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", fmt.Errorf("%s is not running", titleCase(name))
		}
		return "", fmt.Errorf("failed to close %s: %w", name, err)
	}
	return fmt.Sprintf("Closed %s.", titleCase(name)), nil
}

func appName(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
