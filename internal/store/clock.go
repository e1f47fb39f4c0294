package store

import "sync/atomic"

// Clock hands out the logical version stamped on each published state.
type Clock interface {
	Next() int64
}

// LogicalClock is a monotonic counter. The zero value starts at 0 and its
// first Next returns 1. Safe for concurrent use, so one clock may be shared
// by several stores to get a global order across them.
type LogicalClock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *LogicalClock {
	return &LogicalClock{}
}

// NewClockAt creates a clock that resumes after start.
func NewClockAt(start int64) *LogicalClock {
	c := &LogicalClock{}
	c.seq.Store(start)
	return c
}

// Next returns the next version.
func (c *LogicalClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last version handed out.
func (c *LogicalClock) Current() int64 {
	return c.seq.Load()
}
