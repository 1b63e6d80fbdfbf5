// Package staging implements the per-side, single-slot, most-recent-wins
// frame cell described in §4.E: push overwrites, take atomically empties,
// no fairness, no queueing.
package staging

import (
	"sync"
	"sync/atomic"

	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

// Cell holds at most one DecodedFrame for one camera side.
type Cell struct {
	mutex   sync.Mutex
	frame   *smartscope.DecodedFrame
	nextID  uint64
}

// Push overwrites any previous content and assigns a monotonic frame id.
func (c *Cell) Push(frame smartscope.DecodedFrame) uint64 {
	id := atomic.AddUint64(&c.nextID, 1)

	c.mutex.Lock()
	f := frame
	c.frame = &f
	c.mutex.Unlock()

	return id
}

// TakeLatest atomically removes and returns the current content, if any.
func (c *Cell) TakeLatest() (smartscope.DecodedFrame, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.frame == nil {
		return smartscope.DecodedFrame{}, false
	}

	f := *c.frame
	c.frame = nil
	return f, true
}

// Peek returns the current content without removing it, used by the
// Stereo Pairer which must retain the older side on a failed match.
func (c *Cell) Peek() (smartscope.DecodedFrame, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.frame == nil {
		return smartscope.DecodedFrame{}, false
	}
	return *c.frame, true
}

// Clear empties the cell, used when tearing down a camera side.
func (c *Cell) Clear() {
	c.mutex.Lock()
	c.frame = nil
	c.mutex.Unlock()
}
