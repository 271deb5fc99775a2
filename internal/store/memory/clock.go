package memory

import (
	"sync"
	"time"
)

// clock hands out strictly increasing UTC timestamps at microsecond
// precision, matching what Postgres stores for timestamptz.
type clock struct {
	mu     sync.Mutex
	last   time.Time
	source func() time.Time
}

func newClock(now func() time.Time) *clock {
	if now == nil {
		now = time.Now
	}
	return &clock{source: now}
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.source().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}
