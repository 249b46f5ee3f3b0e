package cli

import (
	"context"
	"errors"
	"io"
	"sync"
)

type result struct {
	text string
	err  error
}

// pump reads one line per request on its own goroutine. A Next call that
// times out leaves its request outstanding, so the line is handed to the
// following call instead of being lost. Next is not safe for concurrent use.
type pump struct {
	read func() (string, error)

	want  chan struct{}
	lines chan result
	quit  chan struct{}

	startOnce sync.Once
	closeOnce sync.Once
	pending   bool
}

func newPump(read func() (string, error)) *pump {
	return &pump{
		read:  read,
		want:  make(chan struct{}),
		lines: make(chan result),
		quit:  make(chan struct{}),
	}
}

func (p *pump) Next(ctx context.Context) (string, error) {
	p.startOnce.Do(func() { go p.run() })

	if !p.pending {
		select {
		case p.want <- struct{}{}:
			p.pending = true
		case res, ok := <-p.lines:
			return p.deliver(res, ok)
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	select {
	case res, ok := <-p.lines:
		return p.deliver(res, ok)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (p *pump) deliver(res result, ok bool) (string, error) {
	p.pending = false
	if !ok {
		return "", io.EOF
	}
	return res.text, res.err
}

func (p *pump) run() {
	defer close(p.lines)
	for {
		select {
		case <-p.want:
		case <-p.quit:
			return
		}

		text, err := p.read()
		if errors.Is(err, io.EOF) {
			return
		}
		select {
		case p.lines <- result{text: text, err: err}:
		case <-p.quit:
			return
		}
		if err != nil {
			return
		}
	}
}

func (p *pump) Close() {
	p.closeOnce.Do(func() { close(p.quit) })
}
