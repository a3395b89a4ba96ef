package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates slide ids "<prefix>-1", "<prefix>-2", ...
// It satisfies engine.IDGenerator and never runs out.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDs creates a generator. An empty prefix defaults to "slide".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "slide"
	}
	return &SequentialIDs{prefix: prefix}
}

// Generate returns the next id.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
