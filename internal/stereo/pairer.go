// Package stereo implements the timestamp-matched stereo pairer: the only
// place in the pipeline that performs temporal matching (§4.F).
package stereo

import (
	"time"

	"github.com/smartscope-embedded/smartscope/internal/smartscope"
	"github.com/smartscope-embedded/smartscope/internal/staging"
)

// Pairer reads the left and right staging cells and emits PairedFrames
// when both sides fall within the pairing window.
type Pairer struct {
	Left  *staging.Cell
	Right *staging.Cell

	// WindowMS is PAIR_WINDOW_MS; §3 defaults to 50.
	WindowMS int64
}

// New allocates a Pairer over the given per-side cells.
func New(left, right *staging.Cell, windowMS int64) *Pairer {
	return &Pairer{Left: left, Right: right, WindowMS: windowMS}
}

// Tick attempts one pairing pass. It reports ok=false when no pair could
// be emitted this tick, either because one side is empty or because the
// two latest frames fall outside the pairing window — in which case the
// older of the two is retained and the younger discarded, per §4.F, so
// skew cannot grow unbounded.
func (p *Pairer) Tick() (smartscope.PairedFrames, bool) {
	left, hasLeft := p.Left.Peek()
	right, hasRight := p.Right.Peek()

	if !hasLeft || !hasRight {
		return smartscope.PairedFrames{}, false
	}

	windowNs := p.WindowMS * int64(time.Millisecond)
	skew := left.SourceTimestampNs - right.SourceTimestampNs
	if skew < 0 {
		skew = -skew
	}

	if skew <= windowNs {
		p.Left.TakeLatest()
		p.Right.TakeLatest()

		// OQ1: the pair's reported timestamp anchors on the left frame.
		return smartscope.PairedFrames{Left: left, Right: right}, true
	}

	// discard the younger side, keep the older one for the next tick.
	if left.SourceTimestampNs < right.SourceTimestampNs {
		p.Right.TakeLatest()
	} else {
		p.Left.TakeLatest()
	}

	return smartscope.PairedFrames{}, false
}
