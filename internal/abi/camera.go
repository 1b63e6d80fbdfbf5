package abi

import "github.com/smartscope-embedded/smartscope/internal/smartscope"

// StartCamera resumes frame delivery through GetFrame/GetPairedFrames. The
// camera-mode controller itself always runs (it must keep reacting to
// hotplug events regardless), so this only gates the pull-model getters —
// there is no separate device-level start/stop here, matching §4.K's
// always-on reaction to the hotplug monitor.
func (f *Facade) StartCamera() error {
	f.cameraRunning.Store(true)
	return nil
}

// StopCamera pauses frame delivery; GetFrame/GetPairedFrames report no
// frame available until StartCamera is called again.
func (f *Facade) StopCamera() error {
	f.cameraRunning.Store(false)
	return nil
}

// IsCameraRunning reports whether frame delivery is currently enabled.
func (f *Facade) IsCameraRunning() bool {
	return f.cameraRunning.Load()
}

// CameraMode returns the controller's current derived camera mode.
func (f *Facade) CameraMode() smartscope.CameraMode {
	return f.controller.Snapshot().Mode
}

// ProcessCameraFrames is a no-op pump: capture, decode and staging already
// run continuously on their own per-side goroutines started by the
// camera-mode controller, so there is nothing for a caller to drive here.
// It exists only so a caller written against a classic pull-and-pump loop
// has something to call each tick.
func (f *Facade) ProcessCameraFrames() error {
	return nil
}
