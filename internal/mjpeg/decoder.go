// Package mjpeg decodes MJPEG RawFrames into RGB888 DecodedFrames using a
// cached per-reader gocv Mat, mirroring §4.D's "stateful, single-threaded,
// cache the decompressor" requirement.
package mjpeg

import (
	"time"

	"gocv.io/x/gocv"

	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

// Decoder is a per-camera-side, single-threaded JPEG decompressor. It is
// not safe for concurrent use across goroutines; one Decoder belongs to
// exactly one Capture Reader.
type Decoder struct {
	side  smartscope.CameraSide
	scratch gocv.Mat
}

// New allocates a Decoder for one camera side.
func New(side smartscope.CameraSide) *Decoder {
	return &Decoder{
		side:    side,
		scratch: gocv.NewMat(),
	}
}

// Close releases the cached Mat.
func (d *Decoder) Close() {
	d.scratch.Close()
}

// Decode turns a RawFrame (bytes are a JPEG stream) into an RGB888
// DecodedFrame. On header mismatch it returns a wrapped ErrDecode and the
// caller is expected to drop the frame, per §4.D.
func (d *Decoder) Decode(raw smartscope.RawFrame) (smartscope.DecodedFrame, error) {
	start := time.Now()

	mat, err := gocv.IMDecode(raw.Bytes, gocv.IMReadColor)
	if err != nil {
		return smartscope.DecodedFrame{}, smartscope.NewError("mjpeg.Decode", smartscope.ErrDecode, err)
	}
	defer mat.Close()

	if mat.Empty() {
		return smartscope.DecodedFrame{}, smartscope.NewError("mjpeg.Decode", smartscope.ErrDecode, errEmptyFrame{})
	}

	// reuse the cached scratch Mat across calls instead of reallocating a
	// conversion buffer for every frame.
	gocv.CvtColor(mat, &d.scratch, gocv.ColorBGRToRGB)

	out := make([]byte, d.scratch.Total()*d.scratch.Channels())
	copy(out, d.scratch.ToBytes())

	return smartscope.DecodedFrame{
		Side:              raw.Side,
		Width:             d.scratch.Cols(),
		Height:            d.scratch.Rows(),
		Bytes:             out,
		SourceTimestampNs: raw.MonotonicTimestamp,
		DecodeDurationNs:  time.Since(start).Nanoseconds(),
	}, nil
}

type errEmptyFrame struct{}

func (errEmptyFrame) Error() string { return "decoded empty frame" }
