// Package cameramode owns the process-wide camera-mode state machine: it
// watches the Hotplug Monitor and starts/stops Capture Readers, MJPEG
// Decoders and the Stereo Pairer in response to transitions, per §4.K.
package cameramode

import (
	"context"
	"sync"
	"time"

	"github.com/smartscope-embedded/smartscope/internal/capture"
	"github.com/smartscope-embedded/smartscope/internal/conf"
	"github.com/smartscope-embedded/smartscope/internal/hotplug"
	"github.com/smartscope-embedded/smartscope/internal/mjpeg"
	"github.com/smartscope-embedded/smartscope/internal/smartscope"
	"github.com/smartscope-embedded/smartscope/internal/staging"
	"github.com/smartscope-embedded/smartscope/internal/stereo"
)

type side struct {
	reader  *capture.Reader
	decoder *mjpeg.Decoder
	cell    *staging.Cell
	cancel  context.CancelFunc
}

// Controller is the single writer of the capability snapshot.
type Controller struct {
	monitor      *hotplug.Monitor
	cameras      conf.CamerasConf
	pairWindowMS int64

	mutex sync.RWMutex

	mode  smartscope.CameraMode
	left  *side
	right *side
	one   *side
	pairer *stereo.Pairer

	LeftCell, RightCell, SingleCell *staging.Cell

	wg sync.WaitGroup
}

// New allocates a Controller bound to monitor, not yet running.
func New(monitor *hotplug.Monitor, cameras conf.CamerasConf, pairWindowMS int64) *Controller {
	return &Controller{
		monitor:      monitor,
		cameras:      cameras,
		pairWindowMS: pairWindowMS,
		mode:       smartscope.ModeNoCamera,
		LeftCell:   &staging.Cell{},
		RightCell:  &staging.Cell{},
		SingleCell: &staging.Cell{},
	}
}

// Snapshot returns the current read-mostly capability state.
func (c *Controller) Snapshot() smartscope.CapabilitySnapshot {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return smartscope.CapabilitySnapshot{
		Mode:           c.mode,
		CameraCount:    c.cameraCount(),
		LeftConnected:  c.left != nil,
		RightConnected: c.right != nil,
		UpdatedAt:      time.Now(),
	}
}

func (c *Controller) cameraCount() int {
	n := 0
	if c.left != nil {
		n++
	}
	if c.right != nil {
		n++
	}
	if c.one != nil {
		n++
	}
	return n
}

// Pairer returns the active stereo pairer, if the controller is currently
// in Stereo mode.
func (c *Controller) Pairer() (*stereo.Pairer, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.pairer, c.pairer != nil
}

// sideFor resolves which active side's reader to route a camera-parameter
// request to.
func (c *Controller) sideFor(cameraSide smartscope.CameraSide) (*side, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	switch cameraSide {
	case smartscope.SideLeft:
		return c.left, c.left != nil && c.left.reader != nil
	case smartscope.SideRight:
		return c.right, c.right != nil && c.right.reader != nil
	default:
		return c.one, c.one != nil && c.one.reader != nil
	}
}

// GetParameter reads a V4L2 control's current value from the active
// reader bound to cameraSide.
func (c *Controller) GetParameter(cameraSide smartscope.CameraSide, param smartscope.CameraParameter) (smartscope.ParameterRange, error) {
	s, ok := c.sideFor(cameraSide)
	if !ok {
		return smartscope.ParameterRange{}, smartscope.NewError("cameramode.GetParameter", smartscope.ErrDeviceNotFound, nil)
	}
	return s.reader.GetParameterRange(param)
}

// SetParameter writes a V4L2 control's value on the active reader bound
// to cameraSide.
func (c *Controller) SetParameter(cameraSide smartscope.CameraSide, param smartscope.CameraParameter, value int32) error {
	s, ok := c.sideFor(cameraSide)
	if !ok {
		return smartscope.NewError("cameramode.SetParameter", smartscope.ErrDeviceNotFound, nil)
	}
	return s.reader.SetParameter(param, value)
}

// ResetParameter restores a control to the driver's reported default on
// the active reader bound to cameraSide.
func (c *Controller) ResetParameter(cameraSide smartscope.CameraSide, param smartscope.CameraParameter) error {
	s, ok := c.sideFor(cameraSide)
	if !ok {
		return smartscope.NewError("cameramode.ResetParameter", smartscope.ErrDeviceNotFound, nil)
	}
	return s.reader.ResetParameter(param)
}

// Run applies the monitor's current snapshot once, then reacts to every
// subsequent change until ctx is canceled.
func (c *Controller) Run(ctx context.Context) {
	c.transition(ctx, c.monitor.Current())

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.teardown()
				return
			case <-c.monitor.Watch():
				c.transition(ctx, c.monitor.Current())
			}
		}
	}()
}

// Close waits for the Run goroutine and every reader goroutine it started
// to exit.
func (c *Controller) Close() {
	c.wg.Wait()
}

func (c *Controller) transition(ctx context.Context, snap hotplug.Snapshot) {
	c.mutex.Lock()
	if snap.Mode == c.mode {
		c.mutex.Unlock()
		return
	}
	c.mutex.Unlock()

	c.teardown()

	switch snap.Mode {
	case smartscope.ModeNoCamera:
		c.setMode(smartscope.ModeNoCamera, nil, nil, nil, nil)

	case smartscope.ModeSingle:
		dev := snap.Left
		if dev == nil {
			dev = snap.Right
		}
		if dev == nil && len(snap.Devices) > 0 {
			dev = &snap.Devices[0]
		}
		if dev == nil {
			c.setMode(smartscope.ModeNoCamera, nil, nil, nil, nil)
			return
		}

		one := c.startSide(ctx, smartscope.SideSingle, dev.PrimaryPath, c.cameras.Single)
		c.setMode(smartscope.ModeSingle, nil, nil, one, nil)

	case smartscope.ModeStereo:
		if snap.Left == nil || snap.Right == nil {
			c.setMode(smartscope.ModeNoCamera, nil, nil, nil, nil)
			return
		}

		left := c.startSide(ctx, smartscope.SideLeft, snap.Left.PrimaryPath, c.cameras.Left)
		right := c.startSide(ctx, smartscope.SideRight, snap.Right.PrimaryPath, c.cameras.Right)
		pairer := stereo.New(left.cell, right.cell, c.pairWindowMS)
		c.setMode(smartscope.ModeStereo, left, right, nil, pairer)
	}
}

func (c *Controller) setMode(mode smartscope.CameraMode, left, right, one *side, pairer *stereo.Pairer) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.mode = mode
	c.left = left
	c.right = right
	c.one = one
	c.pairer = pairer

	switch {
	case left != nil:
		c.LeftCell = left.cell
	default:
		c.LeftCell.Clear()
	}
	switch {
	case right != nil:
		c.RightCell = right.cell
	default:
		c.RightCell.Clear()
	}
	switch {
	case one != nil:
		c.SingleCell = one.cell
	default:
		c.SingleCell.Clear()
	}
}

func (c *Controller) startSide(ctx context.Context, cameraSide smartscope.CameraSide, path string, cfg conf.CameraConf) *side {
	sideCtx, cancel := context.WithCancel(ctx)

	cell := &staging.Cell{}
	s := &side{cell: cell, cancel: cancel}

	streamCfg := smartscope.StreamConfig{
		Width:      cfg.Resolution.Width,
		Height:     cfg.Resolution.Height,
		PixelFormat: smartscope.PixelFormatMJPEG,
		FPS:        cfg.FrameRate,
	}

	reader, err := capture.Open(sideCtx, path, cameraSide, streamCfg)
	if err != nil {
		return s
	}
	decoder := mjpeg.New(cameraSide)

	s.reader = reader
	s.decoder = decoder

	c.wg.Add(1)
	go c.readLoop(sideCtx, s)

	return s
}

func (c *Controller) readLoop(ctx context.Context, s *side) {
	defer c.wg.Done()
	defer func() {
		if s.decoder != nil {
			s.decoder.Close()
		}
		if s.reader != nil {
			s.reader.Close()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		raw, err := s.reader.ReadFrame(2 * time.Second)
		if err != nil {
			continue
		}

		decoded, err := s.decoder.Decode(raw)
		if err != nil {
			continue
		}

		s.cell.Push(decoded)
	}
}

func (c *Controller) teardown() {
	c.mutex.Lock()
	left, right, one := c.left, c.right, c.one
	c.mutex.Unlock()

	for _, s := range []*side{left, right, one} {
		if s != nil && s.cancel != nil {
			s.cancel()
		}
	}
}
