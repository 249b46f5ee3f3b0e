package srv

import "context"

// cleanup runs fn once on Shutdown and has nothing to start.
type cleanup struct {
	fn func() error
}

func NewCleanup(fn func() error) Service {
	return &cleanup{fn: fn}
}

func (c *cleanup) Start(ctx context.Context) error {
	return nil
}

func (c *cleanup) Shutdown(ctx context.Context) error {
	if c.fn == nil {
		return nil
	}
	fn := c.fn
	c.fn = nil
	return fn()
}
