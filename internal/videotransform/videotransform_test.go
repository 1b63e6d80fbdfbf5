package videotransform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

func solidFrame(w, h int, v byte) smartscope.DecodedFrame {
	b := make([]byte, w*h*3)
	for i := range b {
		b[i] = v
	}
	return smartscope.DecodedFrame{Width: w, Height: h, Bytes: b}
}

func TestApplyIdentityReturnsCopy(t *testing.T) {
	frame := solidFrame(4, 4, 7)

	out, err := Apply(frame, smartscope.VideoTransform{})
	require.NoError(t, err)
	require.Equal(t, frame.Bytes, out.Bytes)

	out.Bytes[0] = 255
	require.NotEqual(t, frame.Bytes[0], out.Bytes[0])
}

func TestApplyRotation90SwapsDimensions(t *testing.T) {
	frame := solidFrame(8, 4, 1)

	out, err := Apply(frame, smartscope.VideoTransform{RotationDeg: 90})
	require.NoError(t, err)
	require.Equal(t, 4, out.Width)
	require.Equal(t, 8, out.Height)
}

func TestApplyInvertFlipsBytes(t *testing.T) {
	frame := solidFrame(2, 2, 0)

	out, err := Apply(frame, smartscope.VideoTransform{Invert: true})
	require.NoError(t, err)
	for _, b := range out.Bytes {
		require.Equal(t, byte(255), b)
	}
}
