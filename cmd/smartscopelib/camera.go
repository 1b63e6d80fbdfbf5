package main

/*
#include <stdint.h>

typedef struct {
	uint32_t mode;
	int32_t  camera_count;
	int32_t  left_connected;
	int32_t  right_connected;
	int64_t  updated_at_unix_ns;
} smartscope_camera_status_t;
*/
import "C"

import (
	"unsafe"

	"github.com/smartscope-embedded/smartscope/internal/abi"
	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

//export smartscope_start_camera
func smartscope_start_camera() C.int {
	f, status := facade()
	if f == nil {
		return status
	}
	if err := f.StartCamera(); err != nil {
		return C.int(abi.StatusError)
	}
	return C.int(abi.StatusSuccess)
}

//export smartscope_stop_camera
func smartscope_stop_camera() C.int {
	f, status := facade()
	if f == nil {
		return status
	}
	if err := f.StopCamera(); err != nil {
		return C.int(abi.StatusError)
	}
	return C.int(abi.StatusSuccess)
}

//export smartscope_process_camera_frames
func smartscope_process_camera_frames() C.int {
	f, status := facade()
	if f == nil {
		return status
	}
	if err := f.ProcessCameraFrames(); err != nil {
		return C.int(abi.StatusError)
	}
	return C.int(abi.StatusSuccess)
}

//export smartscope_get_left_frame
func smartscope_get_left_frame(outPtr *unsafe.Pointer, outLen *C.int, outWidth, outHeight *C.int, outTimestampNs *C.longlong) C.int {
	return getNamedSideFrame(sideFromC(1), outPtr, outLen, outWidth, outHeight, outTimestampNs)
}

//export smartscope_get_right_frame
func smartscope_get_right_frame(outPtr *unsafe.Pointer, outLen *C.int, outWidth, outHeight *C.int, outTimestampNs *C.longlong) C.int {
	return getNamedSideFrame(sideFromC(2), outPtr, outLen, outWidth, outHeight, outTimestampNs)
}

//export smartscope_get_single_frame
func smartscope_get_single_frame(outPtr *unsafe.Pointer, outLen *C.int, outWidth, outHeight *C.int, outTimestampNs *C.longlong) C.int {
	return getNamedSideFrame(sideFromC(0), outPtr, outLen, outWidth, outHeight, outTimestampNs)
}

func getNamedSideFrame(side smartscope.CameraSide, outPtr *unsafe.Pointer, outLen *C.int, outWidth, outHeight *C.int, outTimestampNs *C.longlong) C.int {
	if outPtr == nil || outLen == nil || outWidth == nil || outHeight == nil || outTimestampNs == nil {
		return C.int(abi.StatusNullPointer)
	}

	f, status := facade()
	if f == nil {
		return status
	}

	return getFrameInto(f, side, outPtr, outLen, outWidth, outHeight, outTimestampNs)
}

//export smartscope_get_camera_status
func smartscope_get_camera_status(out *C.smartscope_camera_status_t) C.int {
	if out == nil {
		return C.int(abi.StatusNullPointer)
	}

	f, status := facade()
	if f == nil {
		return status
	}

	snap := f.Snapshot()
	out.mode = C.uint32_t(snap.Mode)
	out.camera_count = C.int32_t(snap.CameraCount)
	out.left_connected = C.int32_t(boolToInt(snap.LeftConnected))
	out.right_connected = C.int32_t(boolToInt(snap.RightConnected))
	out.updated_at_unix_ns = C.int64_t(snap.UpdatedAt.UnixNano())

	return C.int(abi.StatusSuccess)
}

//export smartscope_get_camera_mode
func smartscope_get_camera_mode() C.uint32_t {
	f, status := facade()
	if f == nil {
		_ = status
		return 0
	}
	return C.uint32_t(f.CameraMode())
}

//export smartscope_is_camera_running
func smartscope_is_camera_running() C.int {
	f, status := facade()
	if f == nil {
		_ = status
		return 0
	}
	return C.int(boolToInt(f.IsCameraRunning()))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
