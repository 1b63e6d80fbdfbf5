package staging

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

func TestCellPushOverwritesPreviousContent(t *testing.T) {
	var c Cell

	c.Push(smartscope.DecodedFrame{Width: 1})
	c.Push(smartscope.DecodedFrame{Width: 2})

	frame, ok := c.TakeLatest()
	require.True(t, ok)
	require.Equal(t, 2, frame.Width)
}

func TestCellTakeLatestEmptiesCell(t *testing.T) {
	var c Cell
	c.Push(smartscope.DecodedFrame{Width: 1})

	_, ok := c.TakeLatest()
	require.True(t, ok)

	_, ok = c.TakeLatest()
	require.False(t, ok)
}

func TestCellPeekDoesNotRemove(t *testing.T) {
	var c Cell
	c.Push(smartscope.DecodedFrame{Width: 5})

	frame, ok := c.Peek()
	require.True(t, ok)
	require.Equal(t, 5, frame.Width)

	frame, ok = c.TakeLatest()
	require.True(t, ok)
	require.Equal(t, 5, frame.Width)
}

func TestCellClearEmptiesCell(t *testing.T) {
	var c Cell
	c.Push(smartscope.DecodedFrame{Width: 1})
	c.Clear()

	_, ok := c.TakeLatest()
	require.False(t, ok)
}

func TestCellPushAssignsMonotonicIDs(t *testing.T) {
	var c Cell

	id1 := c.Push(smartscope.DecodedFrame{})
	id2 := c.Push(smartscope.DecodedFrame{})

	require.Greater(t, id2, id1)
}
