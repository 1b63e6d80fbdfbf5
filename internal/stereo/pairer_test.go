package stereo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartscope-embedded/smartscope/internal/smartscope"
	"github.com/smartscope-embedded/smartscope/internal/staging"
)

func TestTickReturnsFalseWhenOneSideEmpty(t *testing.T) {
	left := &staging.Cell{}
	right := &staging.Cell{}
	left.Push(smartscope.DecodedFrame{SourceTimestampNs: 0})

	p := New(left, right, 50)

	_, ok := p.Tick()
	require.False(t, ok)
}

func TestTickPairsFramesWithinWindow(t *testing.T) {
	left := &staging.Cell{}
	right := &staging.Cell{}
	left.Push(smartscope.DecodedFrame{Side: smartscope.SideLeft, SourceTimestampNs: 1_000_000})
	right.Push(smartscope.DecodedFrame{Side: smartscope.SideRight, SourceTimestampNs: 1_010_000})

	p := New(left, right, 50)

	pair, ok := p.Tick()
	require.True(t, ok)
	require.Equal(t, smartscope.SideLeft, pair.Left.Side)
	require.Equal(t, smartscope.SideRight, pair.Right.Side)

	_, hasLeft := left.Peek()
	_, hasRight := right.Peek()
	require.False(t, hasLeft)
	require.False(t, hasRight)
}

func TestTickDiscardsYoungerFrameOutsideWindow(t *testing.T) {
	left := &staging.Cell{}
	right := &staging.Cell{}

	windowNs := int64(50) * 1_000_000
	left.Push(smartscope.DecodedFrame{SourceTimestampNs: 0})
	right.Push(smartscope.DecodedFrame{SourceTimestampNs: windowNs * 3})

	p := New(left, right, 50)

	_, ok := p.Tick()
	require.False(t, ok)

	leftFrame, hasLeft := left.Peek()
	_, hasRight := right.Peek()
	require.True(t, hasLeft)
	require.False(t, hasRight)
	require.Equal(t, int64(0), leftFrame.SourceTimestampNs)
}

func TestTickRetainsOlderRightFrameWhenLeftIsYounger(t *testing.T) {
	left := &staging.Cell{}
	right := &staging.Cell{}

	windowNs := int64(50) * 1_000_000
	left.Push(smartscope.DecodedFrame{SourceTimestampNs: windowNs * 3})
	right.Push(smartscope.DecodedFrame{SourceTimestampNs: 0})

	p := New(left, right, 50)

	_, ok := p.Tick()
	require.False(t, ok)

	_, hasLeft := left.Peek()
	rightFrame, hasRight := right.Peek()
	require.False(t, hasLeft)
	require.True(t, hasRight)
	require.Equal(t, int64(0), rightFrame.SourceTimestampNs)
}
