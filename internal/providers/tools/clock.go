package tools

import (
	"context"
	"time"
)

type Clock struct {
	now func() time.Time
}

func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

func (c *Clock) Time(ctx context.Context, _ string) (string, error) {
	return c.now().Format("It is 3:04 PM on Monday, 2 January 2006."), nil
}
