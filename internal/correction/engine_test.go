package correction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

func TestCalibrationHashStableAndSensitive(t *testing.T) {
	a := Calibration{Left: smartscope.CameraIntrinsics{FX: 800, FY: 800, CX: 640, CY: 360}}
	b := a

	require.Equal(t, a.Hash(), b.Hash())

	b.Left.FX = 801
	require.NotEqual(t, a.Hash(), b.Hash())
}

func TestEngineBuildIsIdempotentPerKey(t *testing.T) {
	calib := Calibration{
		Left: smartscope.CameraIntrinsics{FX: 800, FY: 800, CX: 32, CY: 24, Dist: [5]float64{0, 0, 0, 0, 0}},
	}
	size := smartscope.Size{Width: 64, Height: 48}

	e := NewEngine()
	defer e.Close()

	require.NoError(t, e.Build(size, smartscope.CorrectionUndistort, calib))
	require.NoError(t, e.Build(size, smartscope.CorrectionUndistort, calib))

	_, ok := e.Describe(smartscope.SideSingle, size, smartscope.CorrectionUndistort, calib)
	require.True(t, ok)
}

func TestEngineApplyRejectsSizeMismatch(t *testing.T) {
	calib := Calibration{
		Left: smartscope.CameraIntrinsics{FX: 800, FY: 800, CX: 32, CY: 24, Dist: [5]float64{0, 0, 0, 0, 0}},
	}
	size := smartscope.Size{Width: 64, Height: 48}

	e := NewEngine()
	defer e.Close()
	require.NoError(t, e.Build(size, smartscope.CorrectionUndistort, calib))

	wrongSized := smartscope.DecodedFrame{
		Side:   smartscope.SideSingle,
		Width:  32,
		Height: 24,
		Bytes:  make([]byte, 32*24*3),
	}

	_, err := e.Apply(smartscope.SideSingle, smartscope.CorrectionUndistort, calib, wrongSized)
	require.Error(t, err)

	var sErr *smartscope.Error
	require.ErrorAs(t, err, &sErr)
	require.Equal(t, smartscope.ErrSizeMismatch, sErr.Kind)
}

// TestUndistortMapIsIdentityWithZeroDistortion asserts the geometric
// property that makes the identity-rotation requirement observable: with
// zero distortion coefficients and rectRotation=identity, the undistort map
// must be the identity mapping (every pixel maps to itself). Passing the
// camera matrix itself as the rotation argument — instead of identity —
// corrupts this mapping even with zero distortion, since it's no longer a
// true rotation and multiplies normalized coordinates incorrectly.
func TestUndistortMapIsIdentityWithZeroDistortion(t *testing.T) {
	calib := Calibration{
		Left: smartscope.CameraIntrinsics{FX: 800, FY: 750, CX: 32, CY: 24, Dist: [5]float64{0, 0, 0, 0, 0}},
	}
	size := smartscope.Size{Width: 64, Height: 48}

	e := NewEngine()
	defer e.Close()
	require.NoError(t, e.Build(size, smartscope.CorrectionUndistort, calib))

	tables, ok := e.Describe(smartscope.SideSingle, size, smartscope.CorrectionUndistort, calib)
	require.True(t, ok)

	for _, pt := range [][2]int{{0, 0}, {32, 24}, {63, 47}} {
		x, y := pt[0], pt[1]
		require.InDelta(t, float64(x), float64(tables.MapX[y][x]), 0.5, "mapX at (%d,%d)", x, y)
		require.InDelta(t, float64(y), float64(tables.MapY[y][x]), 0.5, "mapY at (%d,%d)", x, y)
	}
}
