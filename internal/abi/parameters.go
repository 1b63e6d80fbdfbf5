package abi

import (
	"fmt"

	"github.com/smartscope-embedded/smartscope/internal/correction"
	"github.com/smartscope-embedded/smartscope/internal/smartscope"
	"github.com/smartscope-embedded/smartscope/internal/videotransform"
)

// GetParameter reads a V4L2 control's current value and bounds for the
// given camera side.
func (f *Facade) GetParameter(side smartscope.CameraSide, param smartscope.CameraParameter) (smartscope.ParameterRange, error) {
	return f.controller.GetParameter(side, param)
}

// SetParameter writes a V4L2 control's value for the given camera side.
func (f *Facade) SetParameter(side smartscope.CameraSide, param smartscope.CameraParameter, value int32) error {
	return f.controller.SetParameter(side, param, value)
}

// ResetParameter restores a control to the driver's reported default for
// the given camera side.
func (f *Facade) ResetParameter(side smartscope.CameraSide, param smartscope.CameraParameter) error {
	return f.controller.ResetParameter(side, param)
}

// GetParameterValue reads just a V4L2 control's current value, discarding
// the rest of its range — the shape spec.md §6's `get_{side}_camera_parameter`
// needs, as opposed to GetParameter's full `{min,max,step,default,current}`.
func (f *Facade) GetParameterValue(side smartscope.CameraSide, param smartscope.CameraParameter) (int32, error) {
	r, err := f.GetParameter(side, param)
	if err != nil {
		return 0, err
	}
	return r.Current, nil
}

// SetVideoTransform replaces the façade's current transform state wholesale.
func (f *Facade) SetVideoTransform(t smartscope.VideoTransform) {
	f.transformMutex.Lock()
	f.transform = t
	f.transformMutex.Unlock()
}

// VideoTransform returns the façade's current transform state.
func (f *Facade) VideoTransform() smartscope.VideoTransform {
	f.transformMutex.Lock()
	defer f.transformMutex.Unlock()
	return f.transform
}

// RotateVideo advances the current transform's rotation by 90 degrees.
func (f *Facade) RotateVideo() {
	f.transformMutex.Lock()
	f.transform.ApplyRotation()
	f.transformMutex.Unlock()
}

// SetRotation sets the transform's rotation directly, normalized to [0,360).
func (f *Facade) SetRotation(deg int) {
	f.transformMutex.Lock()
	f.transform.SetRotation(deg)
	f.transformMutex.Unlock()
}

// SetFlip sets the transform's flip flags.
func (f *Facade) SetFlip(horizontal, vertical bool) {
	f.transformMutex.Lock()
	f.transform.FlipHorizontal = horizontal
	f.transform.FlipVertical = vertical
	f.transformMutex.Unlock()
}

// SetInvert sets the transform's photometric invert flag.
func (f *Facade) SetInvert(invert bool) {
	f.transformMutex.Lock()
	f.transform.Invert = invert
	f.transformMutex.Unlock()
}

// ResetVideoTransform returns the transform to identity.
func (f *Facade) ResetVideoTransform() {
	f.transformMutex.Lock()
	f.transform.Reset()
	f.transformMutex.Unlock()
}

// RGAAvailable reports whether the Rockchip hardware 2D accelerator is
// present on this device.
func (f *Facade) RGAAvailable() bool {
	return videotransform.RGAAvailable()
}

// LoadCalibration parses intrinsics/extrinsics files and installs them,
// switching the correction type based on whether extrinsics were supplied.
func (f *Facade) LoadCalibration(leftIntrinsicsPath, rightIntrinsicsPath, extrinsicsPath string) error {
	left, err := correction.LoadIntrinsics(leftIntrinsicsPath)
	if err != nil {
		return err
	}

	calib := correction.Calibration{Left: left}
	correctionType := smartscope.CorrectionUndistort

	if rightIntrinsicsPath != "" {
		right, err := correction.LoadIntrinsics(rightIntrinsicsPath)
		if err != nil {
			return err
		}
		calib.Right = right

		if extrinsicsPath == "" {
			return smartscope.NewError("abi.LoadCalibration", smartscope.ErrConfig, fmt.Errorf("right intrinsics given without extrinsics"))
		}
		ext, err := correction.LoadExtrinsics(extrinsicsPath)
		if err != nil {
			return err
		}
		calib.Ext = ext
		correctionType = smartscope.CorrectionStereoRectify
	}

	f.calibMutex.Lock()
	f.calib = calib
	f.correctionType = correctionType
	f.calibMutex.Unlock()

	return nil
}
