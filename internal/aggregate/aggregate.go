// Package aggregate collects matches produced by concurrent file searches.
package aggregate

import (
	"sync"

	"github.com/o3rg/o3rg/internal/types"
)

// Collector is a thread-safe, append-only sink for FileMatches. Records from
// one file stay contiguous and in line order; the order between files is
// whatever order the workers finish in.
type Collector struct {
	mu      sync.Mutex
	matches []types.FileMatches
	drained bool
}

// New returns an empty Collector.
func New() *Collector {
	return &Collector{}
}

// Record appends every match found in path. It panics if called after Drain.
func (c *Collector) Record(path string, ms []types.Match) {
	if len(ms) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drained {
		panic("aggregate: Record after Drain")
	}
	for _, m := range ms {
		c.matches = append(c.matches, types.FileMatches{Match: m, Path: path})
	}
}

// Len returns the number of matches recorded so far.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.matches)
}

// Drain hands over the collected matches. It may be called once, after every
// Record has returned.
func (c *Collector) Drain() []types.FileMatches {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drained {
		panic("aggregate: Drain called twice")
	}
	out := c.matches
	c.matches = nil
	c.drained = true
	return out
}
