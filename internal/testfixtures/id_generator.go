package testfixtures

import (
	"fmt"
	"sync"
)

// IDGenerator hands out sequential "prefix-N" identifiers so tests can
// predict the IDs a service will assign.
type IDGenerator struct {
	mu      sync.Mutex
	prefix  string
	counter uint64
}

// NewIDGenerator constructs a generator with the given prefix, defaulting
// to "id" when prefix is empty.
func NewIDGenerator(prefix string) *IDGenerator {
	g := &IDGenerator{prefix: prefix}
	if prefix == "" {
		g.prefix = "id"
	}
	return g
}

// Next returns the next identifier in the sequence, starting at prefix-1.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("%s-%d", g.prefix, g.counter)
}

// NextFunc adapts the generator to the func() string shape services take as
// a dependency. A nil generator yields empty identifiers.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}
