package testutil

import (
	"sync"
	"time"

	"folio-go/internal/folio"
)

// Epoch is the instant every test clock starts at.
var Epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// Clock is a manually driven folio.Clock. With a non-zero step each call to
// Now moves it forward, so consecutive saves get distinct added_at values.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

var _ folio.Clock = (*Clock)(nil)

// NewClock returns a clock frozen at Epoch.
func NewClock() *Clock {
	return &Clock{now: Epoch}
}

// NewSteppingClock returns a clock starting at Epoch that advances by step
// after every reading.
func NewSteppingClock(step time.Duration) *Clock {
	return &Clock{now: Epoch, step: step}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
