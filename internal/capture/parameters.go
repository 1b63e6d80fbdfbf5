package capture

import (
	"github.com/vladimirvivien/go4vl/v4l2"

	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

// controlIDByParameter maps the façade's parameter enum to V4L2 control
// ids; the original Rust usb-camera crate exercises exactly this set.
var controlIDByParameter = map[smartscope.CameraParameter]v4l2.CtrlID{
	smartscope.ParamBrightness:   v4l2.CtrlBrightness,
	smartscope.ParamContrast:     v4l2.CtrlContrast,
	smartscope.ParamSaturation:   v4l2.CtrlSaturation,
	smartscope.ParamHue:          v4l2.CtrlHue,
	smartscope.ParamWhiteBalance: v4l2.CtrlWhiteBalanceTemperature,
	smartscope.ParamGamma:        v4l2.CtrlGamma,
	smartscope.ParamGain:         v4l2.CtrlGain,
	smartscope.ParamExposure:     v4l2.CtrlExposureAbsolute,
}

// GetParameter reads a control's current value.
func (r *Reader) GetParameter(p smartscope.CameraParameter) (int32, error) {
	id, ok := controlIDByParameter[p]
	if !ok {
		return 0, smartscope.NewError("capture.GetParameter", smartscope.ErrDeviceOperationFailed, errUnknownParameter(p))
	}

	ctrl, err := r.dev.GetControl(id)
	if err != nil {
		return 0, smartscope.NewError("capture.GetParameter", smartscope.ErrDeviceOperationFailed, err)
	}

	return int32(ctrl.Value), nil
}

// SetParameter writes a control's value.
func (r *Reader) SetParameter(p smartscope.CameraParameter, value int32) error {
	id, ok := controlIDByParameter[p]
	if !ok {
		return smartscope.NewError("capture.SetParameter", smartscope.ErrDeviceOperationFailed, errUnknownParameter(p))
	}

	err := r.dev.SetControl(v4l2.CtrlValue{ID: id, Value: int32(value)})
	if err != nil {
		return smartscope.NewError("capture.SetParameter", smartscope.ErrDeviceOperationFailed, err)
	}

	return nil
}

// GetParameterRange returns the driver's reported {min,max,step,default,current}.
func (r *Reader) GetParameterRange(p smartscope.CameraParameter) (smartscope.ParameterRange, error) {
	id, ok := controlIDByParameter[p]
	if !ok {
		return smartscope.ParameterRange{}, smartscope.NewError("capture.GetParameterRange", smartscope.ErrDeviceOperationFailed, errUnknownParameter(p))
	}

	info, err := r.dev.QueryControl(id)
	if err != nil {
		return smartscope.ParameterRange{}, smartscope.NewError("capture.GetParameterRange", smartscope.ErrDeviceOperationFailed, err)
	}

	current, err := r.GetParameter(p)
	if err != nil {
		return smartscope.ParameterRange{}, err
	}

	return smartscope.ParameterRange{
		Min:     int32(info.Minimum),
		Max:     int32(info.Maximum),
		Step:    int32(info.Step),
		Default: int32(info.Default),
		Current: current,
	}, nil
}

// ResetParameter restores a control to the driver's reported default.
func (r *Reader) ResetParameter(p smartscope.CameraParameter) error {
	rng, err := r.GetParameterRange(p)
	if err != nil {
		return err
	}
	return r.SetParameter(p, rng.Default)
}

type unknownParameterError struct {
	p smartscope.CameraParameter
}

func (e unknownParameterError) Error() string {
	return "unknown camera parameter"
}

func errUnknownParameter(p smartscope.CameraParameter) error {
	return unknownParameterError{p: p}
}
