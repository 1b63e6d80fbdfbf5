// Package capture opens a V4L2 node exclusively, negotiates a pixel
// format/resolution/fps close to the requested StreamConfig, and exposes
// a blocking read of RawFrames.
package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/vladimirvivien/go4vl/device"
	"github.com/vladimirvivien/go4vl/v4l2"

	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

var fourCCByFormat = map[smartscope.PixelFormat]v4l2.FourCCType{
	smartscope.PixelFormatMJPEG:  v4l2.PixelFmtMJPEG,
	smartscope.PixelFormatYUYV:   v4l2.PixelFmtYUYV,
	smartscope.PixelFormatRGB888: v4l2.PixelFmtRGB24,
}

// Reader owns one exclusively-opened V4L2 device and turns its driver
// buffers into smartscope.RawFrame values.
type Reader struct {
	Side smartscope.CameraSide

	dev       *device.Device
	frameIDs  uint64
	effective smartscope.Size
	format    smartscope.PixelFormat
}

// Open negotiates the closest available (format, size, fps) to cfg and
// starts streaming. Fatal conditions (device gone, permission denied)
// are reported wrapped in smartscope.ErrDeviceNotFound /
// ErrDeviceOperationFailed so the Mode Controller can trigger
// re-enumeration.
func Open(ctx context.Context, path string, side smartscope.CameraSide, cfg smartscope.StreamConfig) (*Reader, error) {
	fourcc, ok := fourCCByFormat[cfg.PixelFormat]
	if !ok {
		fourcc = v4l2.PixelFmtMJPEG
	}

	dev, err := device.Open(path,
		device.WithPixFormat(v4l2.PixFormat{
			Width:       uint32(cfg.Width),
			Height:      uint32(cfg.Height),
			PixelFormat: fourcc,
			Field:       v4l2.FieldNone,
		}),
		device.WithFPS(uint32(cfg.FPS)),
		device.WithBufferSize(4),
	)
	if err != nil {
		return nil, smartscope.NewError("capture.Open", smartscope.ErrDeviceNotFound, err)
	}

	if err := dev.Start(ctx); err != nil {
		dev.Close()
		return nil, smartscope.NewError("capture.Open", smartscope.ErrDeviceOperationFailed, err)
	}

	negotiated := dev.GetPixFormat()

	return &Reader{
		Side:      side,
		dev:       dev,
		effective: smartscope.Size{Width: int(negotiated.Width), Height: int(negotiated.Height)},
		format:    cfg.PixelFormat,
	}, nil
}

// EffectiveSize returns the driver-negotiated size, which may differ from
// the requested StreamConfig.
func (r *Reader) EffectiveSize() smartscope.Size {
	return r.effective
}

// ReadFrame blocks until a driver buffer is available or timeout elapses,
// returning a retriable timeout error (wrapped ErrTimeout) rather than a
// fatal one when the device simply had nothing ready.
func (r *Reader) ReadFrame(timeout time.Duration) (smartscope.RawFrame, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	select {
	case frame, ok := <-r.dev.GetOutput():
		if !ok {
			return smartscope.RawFrame{}, smartscope.NewError("capture.ReadFrame", smartscope.ErrDeviceLost, fmt.Errorf("device stream closed"))
		}

		id := r.frameIDs
		r.frameIDs++

		return smartscope.RawFrame{
			Side:               r.Side,
			Width:              r.effective.Width,
			Height:             r.effective.Height,
			Format:             r.format,
			Bytes:              append([]byte(nil), frame...),
			MonotonicTimestamp: time.Now().UnixNano(),
			FrameID:            id,
		}, nil

	case <-ctx.Done():
		return smartscope.RawFrame{}, smartscope.NewError("capture.ReadFrame", smartscope.ErrTimeout, ctx.Err())
	}
}

// Close stops streaming and releases the device.
func (r *Reader) Close() error {
	return r.dev.Close()
}
