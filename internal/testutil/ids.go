package testutil

import (
	"fmt"
	"sync"
)

// SequenceIDs returns predetermined ids in order, then "<prefix>-N" once
// the list runs out. Safe for concurrent use.
type SequenceIDs struct {
	mu     sync.Mutex
	prefix string
	ids    []string
	n      int
}

// NewSequenceIDs creates a generator yielding ids, then prefix-based ids.
// An empty prefix means "store".
func NewSequenceIDs(prefix string, ids ...string) *SequenceIDs {
	if prefix == "" {
		prefix = "store"
	}
	return &SequenceIDs{prefix: prefix, ids: ids}
}

// Generate returns the next id.
func (g *SequenceIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.n++
	if g.n <= len(g.ids) {
		return g.ids[g.n-1]
	}
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Collector accumulates values from concurrent callers, e.g. events
// delivered to an observer or states seen by a listener.
type Collector[T any] struct {
	mu    sync.Mutex
	items []T
}

// Add appends v.
func (c *Collector[T]) Add(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, v)
}

// All returns a copy of everything collected so far.
func (c *Collector[T]) All() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of collected values.
func (c *Collector[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
