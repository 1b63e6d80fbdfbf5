package abi

import (
	"github.com/smartscope-embedded/smartscope/internal/smartscope"
	"github.com/smartscope-embedded/smartscope/internal/staging"
	"github.com/smartscope-embedded/smartscope/internal/videotransform"
)

// Frame is the pull-model frame handed back to a C caller: a snapshot of
// a DecodedFrame after correction and video-transform have been applied.
type Frame struct {
	Width       int
	Height      int
	Bytes       []byte
	TimestampNs int64
}

// Snapshot returns the current capability state (mode, connected sides).
func (f *Facade) Snapshot() smartscope.CapabilitySnapshot {
	return f.controller.Snapshot()
}

// GetFrame pulls the latest frame for one camera side, applying
// correction (if calibration has been loaded) and the current video
// transform before returning it. Returns ok=false if no frame is
// currently staged for that side.
func (f *Facade) GetFrame(side smartscope.CameraSide) (Frame, bool, error) {
	if !f.cameraRunning.Load() {
		return Frame{}, false, nil
	}

	cell := f.cellForSide(side)
	if cell == nil {
		return Frame{}, false, nil
	}

	decoded, ok := cell.TakeLatest()
	if !ok {
		return Frame{}, false, nil
	}

	final, err := f.correctAndTransform(side, decoded)
	if err != nil {
		return Frame{}, false, err
	}

	return Frame{
		Width:       final.Width,
		Height:      final.Height,
		Bytes:       final.Bytes,
		TimestampNs: final.SourceTimestampNs,
	}, true, nil
}

func (f *Facade) cellForSide(side smartscope.CameraSide) *staging.Cell {
	switch side {
	case smartscope.SideLeft:
		return f.controller.LeftCell
	case smartscope.SideRight:
		return f.controller.RightCell
	default:
		return f.controller.SingleCell
	}
}

func (f *Facade) correctAndTransform(side smartscope.CameraSide, frame smartscope.DecodedFrame) (smartscope.DecodedFrame, error) {
	corrected, err := f.applyCorrection(side, frame)
	if err != nil {
		return smartscope.DecodedFrame{}, err
	}

	f.transformMutex.Lock()
	t := f.transform
	f.transformMutex.Unlock()

	return videotransform.Apply(corrected, t)
}

func (f *Facade) applyCorrection(side smartscope.CameraSide, frame smartscope.DecodedFrame) (smartscope.DecodedFrame, error) {
	f.calibMutex.RLock()
	calib := f.calib
	correctionType := f.correctionType
	f.calibMutex.RUnlock()

	if !calib.Left.Valid() {
		return frame, nil
	}

	return f.engine.Apply(side, correctionType, calib, frame)
}

// GetPairedFrames pulls a timestamp-matched stereo pair, if the
// controller is currently bound in stereo mode and a pair is ready.
func (f *Facade) GetPairedFrames() (left Frame, right Frame, ok bool, err error) {
	if !f.cameraRunning.Load() {
		return Frame{}, Frame{}, false, nil
	}

	pairer, active := f.controller.Pairer()
	if !active {
		return Frame{}, Frame{}, false, nil
	}

	paired, got := pairer.Tick()
	if !got {
		return Frame{}, Frame{}, false, nil
	}

	leftFinal, err := f.correctAndTransform(smartscope.SideLeft, paired.Left)
	if err != nil {
		return Frame{}, Frame{}, false, err
	}
	rightFinal, err := f.correctAndTransform(smartscope.SideRight, paired.Right)
	if err != nil {
		return Frame{}, Frame{}, false, err
	}

	return Frame{Width: leftFinal.Width, Height: leftFinal.Height, Bytes: leftFinal.Bytes, TimestampNs: leftFinal.SourceTimestampNs},
		Frame{Width: rightFinal.Width, Height: rightFinal.Height, Bytes: rightFinal.Bytes, TimestampNs: rightFinal.SourceTimestampNs},
		true, nil
}
