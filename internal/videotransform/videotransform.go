// Package videotransform applies the user-facing rotate/flip/invert
// composition to an already-corrected frame, per §4.H. The composition
// itself is stateless; state (current rotation/flip/invert) lives in the
// caller (the façade).
package videotransform

import (
	"os"

	"gocv.io/x/gocv"

	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

// rgaDevicePath is the Rockchip 2D raster graphics accelerator device node;
// its presence means rotation/flip could be offloaded to hardware instead
// of gocv's software path, though Apply itself always takes the software
// path regardless.
const rgaDevicePath = "/dev/rga"

// RGAAvailable reports whether the Rockchip RGA hardware accelerator is
// present on this device.
func RGAAvailable() bool {
	_, err := os.Stat(rgaDevicePath)
	return err == nil
}

// Apply composes rotation, horizontal/vertical flip and photometric invert
// onto frame, in that order, and returns a new DecodedFrame. A zero-value
// transform is the identity and returns frame unchanged (aside from a
// defensive copy).
func Apply(frame smartscope.DecodedFrame, t smartscope.VideoTransform) (smartscope.DecodedFrame, error) {
	if t == (smartscope.VideoTransform{}) {
		out := make([]byte, len(frame.Bytes))
		copy(out, frame.Bytes)
		frame.Bytes = out
		return frame, nil
	}

	mat, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC3, frame.Bytes)
	if err != nil {
		return smartscope.DecodedFrame{}, smartscope.NewError("videotransform.Apply", smartscope.ErrSizeMismatch, err)
	}
	defer mat.Close()

	rotated := gocv.NewMat()
	defer rotated.Close()

	switch ((t.RotationDeg % 360) + 360) % 360 {
	case 90:
		gocv.Rotate(mat, &rotated, gocv.Rotate90Clockwise)
	case 180:
		gocv.Rotate(mat, &rotated, gocv.Rotate180Clockwise)
	case 270:
		gocv.Rotate(mat, &rotated, gocv.Rotate90CounterClockwise)
	default:
		mat.CopyTo(&rotated)
	}

	flipped := gocv.NewMat()
	defer flipped.Close()

	switch {
	case t.FlipHorizontal && t.FlipVertical:
		gocv.Flip(rotated, &flipped, -1)
	case t.FlipHorizontal:
		gocv.Flip(rotated, &flipped, 1)
	case t.FlipVertical:
		gocv.Flip(rotated, &flipped, 0)
	default:
		rotated.CopyTo(&flipped)
	}

	final := &flipped
	inverted := gocv.NewMat()
	defer inverted.Close()
	if t.Invert {
		gocv.BitwiseNot(flipped, &inverted)
		final = &inverted
	}

	out := make([]byte, final.Total()*final.Channels())
	copy(out, final.ToBytes())

	return smartscope.DecodedFrame{
		Side:              frame.Side,
		Width:             final.Cols(),
		Height:            final.Rows(),
		Bytes:             out,
		SourceTimestampNs: frame.SourceTimestampNs,
	}, nil
}
