package smartscope

// PixelFormat is the wire pixel format negotiated with a V4L2 device or
// produced by a pipeline stage.
type PixelFormat int

// pixel formats.
const (
	PixelFormatMJPEG PixelFormat = iota
	PixelFormatYUYV
	PixelFormatRGB888
	PixelFormatBGR888
)

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatYUYV:
		return "yuyv"
	case PixelFormatRGB888:
		return "rgb888"
	case PixelFormatBGR888:
		return "bgr888"
	default:
		return "mjpeg"
	}
}

// BytesPerPixel returns 0 for compressed formats (MJPEG), where the size
// law of §8 invariant 4 does not apply.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelFormatRGB888, PixelFormatBGR888:
		return 3
	case PixelFormatYUYV:
		return 2
	default:
		return 0
	}
}

// StreamConfig is the requested capture configuration; the driver may
// negotiate a nearby size, which becomes the effective size downstream.
type StreamConfig struct {
	Width          int
	Height         int
	PixelFormat    PixelFormat
	FPS            int
	ReadIntervalMS int
}

// RawFrame is a single capture-reader output, owned by Frame Staging until
// overwritten.
type RawFrame struct {
	Side               CameraSide
	Width              int
	Height             int
	Format             PixelFormat
	Bytes              []byte
	MonotonicTimestamp int64 // nanoseconds
	FrameID            uint64
}

// DecodedFrame is always RGB888, exclusively owned by whatever consumed
// the matching RawFrame.
type DecodedFrame struct {
	Side               CameraSide
	Width              int
	Height             int
	Bytes              []byte
	SourceTimestampNs  int64
	DecodeDurationNs   int64
}

// Format is always RGB888 for a DecodedFrame; kept as a method rather than
// a field so the zero value can't claim a different format.
func (DecodedFrame) Format() PixelFormat { return PixelFormatRGB888 }

// PairWindowDefaultMS is the default stereo pairing tolerance.
const PairWindowDefaultMS = 50

// PairedFrames is a timestamp-matched stereo pair; the invariant
// |left.ts-right.ts| <= PAIR_WINDOW_MS is enforced by the Stereo Pairer
// before one is emitted.
type PairedFrames struct {
	Left  DecodedFrame
	Right DecodedFrame
}
