package main

/*
#include <stdint.h>

typedef struct {
	int32_t min;
	int32_t max;
	int32_t step;
	int32_t deflt;
	int32_t current;
} smartscope_parameter_range_t;
*/
import "C"

import (
	"github.com/smartscope-embedded/smartscope/internal/abi"
	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

func setParameter(side smartscope.CameraSide, property C.int, value C.int) C.int {
	f, status := facade()
	if f == nil {
		return status
	}
	if err := f.SetParameter(side, smartscope.CameraParameter(property), int32(value)); err != nil {
		return C.int(abi.StatusError)
	}
	return C.int(abi.StatusSuccess)
}

func getParameter(side smartscope.CameraSide, property C.int, out *C.int32_t) C.int {
	if out == nil {
		return C.int(abi.StatusNullPointer)
	}
	f, status := facade()
	if f == nil {
		return status
	}
	v, err := f.GetParameterValue(side, smartscope.CameraParameter(property))
	if err != nil {
		return C.int(abi.StatusError)
	}
	*out = C.int32_t(v)
	return C.int(abi.StatusSuccess)
}

func getParameterRange(side smartscope.CameraSide, property C.int, out *C.smartscope_parameter_range_t) C.int {
	if out == nil {
		return C.int(abi.StatusNullPointer)
	}
	f, status := facade()
	if f == nil {
		return status
	}
	r, err := f.GetParameter(side, smartscope.CameraParameter(property))
	if err != nil {
		return C.int(abi.StatusError)
	}
	out.min = C.int32_t(r.Min)
	out.max = C.int32_t(r.Max)
	out.step = C.int32_t(r.Step)
	out.deflt = C.int32_t(r.Default)
	out.current = C.int32_t(r.Current)
	return C.int(abi.StatusSuccess)
}

func resetParameter(side smartscope.CameraSide, property C.int) C.int {
	f, status := facade()
	if f == nil {
		return status
	}
	if err := f.ResetParameter(side, smartscope.CameraParameter(property)); err != nil {
		return C.int(abi.StatusError)
	}
	return C.int(abi.StatusSuccess)
}

//export smartscope_set_left_camera_parameter
func smartscope_set_left_camera_parameter(property, value C.int) C.int {
	return setParameter(smartscope.SideLeft, property, value)
}

//export smartscope_get_left_camera_parameter
func smartscope_get_left_camera_parameter(property C.int, out *C.int32_t) C.int {
	return getParameter(smartscope.SideLeft, property, out)
}

//export smartscope_get_left_camera_parameter_range
func smartscope_get_left_camera_parameter_range(property C.int, out *C.smartscope_parameter_range_t) C.int {
	return getParameterRange(smartscope.SideLeft, property, out)
}

//export smartscope_reset_left_camera_parameter
func smartscope_reset_left_camera_parameter(property C.int) C.int {
	return resetParameter(smartscope.SideLeft, property)
}

//export smartscope_set_right_camera_parameter
func smartscope_set_right_camera_parameter(property, value C.int) C.int {
	return setParameter(smartscope.SideRight, property, value)
}

//export smartscope_get_right_camera_parameter
func smartscope_get_right_camera_parameter(property C.int, out *C.int32_t) C.int {
	return getParameter(smartscope.SideRight, property, out)
}

//export smartscope_get_right_camera_parameter_range
func smartscope_get_right_camera_parameter_range(property C.int, out *C.smartscope_parameter_range_t) C.int {
	return getParameterRange(smartscope.SideRight, property, out)
}

//export smartscope_reset_right_camera_parameter
func smartscope_reset_right_camera_parameter(property C.int) C.int {
	return resetParameter(smartscope.SideRight, property)
}

//export smartscope_set_single_camera_parameter
func smartscope_set_single_camera_parameter(property, value C.int) C.int {
	return setParameter(smartscope.SideSingle, property, value)
}

//export smartscope_get_single_camera_parameter
func smartscope_get_single_camera_parameter(property C.int, out *C.int32_t) C.int {
	return getParameter(smartscope.SideSingle, property, out)
}

//export smartscope_get_single_camera_parameter_range
func smartscope_get_single_camera_parameter_range(property C.int, out *C.smartscope_parameter_range_t) C.int {
	return getParameterRange(smartscope.SideSingle, property, out)
}

//export smartscope_reset_single_camera_parameter
func smartscope_reset_single_camera_parameter(property C.int) C.int {
	return resetParameter(smartscope.SideSingle, property)
}
