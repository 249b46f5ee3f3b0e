package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

const (
	UIPromptMarker = "__UI_EXPECTING_INPUT_START__"
	UIPrompt       = "Please provide input:"
)

// Stdin reads plain lines for a desktop shell driving the process. Each
// read is announced on w as "__UI_EXPECTING_INPUT_START__:<prompt>".
type Stdin struct {
	pump *pump
}

func NewStdin(r io.Reader, w io.Writer) *Stdin {
	sc := bufio.NewScanner(r)
	return &Stdin{pump: newPump(func() (string, error) {
		if _, err := fmt.Fprintf(w, "%s:%s\n", UIPromptMarker, UIPrompt); err != nil {
			return "", err
		}
		if sc.Scan() {
			return sc.Text(), nil
		}
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	})}
}

func (s *Stdin) Next(ctx context.Context) (string, error) {
	return s.pump.Next(ctx)
}

func (s *Stdin) Start(ctx context.Context) error {
	return nil
}

func (s *Stdin) Shutdown(ctx context.Context) error {
	s.pump.Close()
	return nil
}
