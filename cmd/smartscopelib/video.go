package main

import "C"

import "github.com/smartscope-embedded/smartscope/internal/abi"

//export smartscope_video_apply_rotation
func smartscope_video_apply_rotation() C.int {
	f, status := facade()
	if f == nil {
		return status
	}
	f.RotateVideo()
	return C.int(abi.StatusSuccess)
}

//export smartscope_video_set_rotation
func smartscope_video_set_rotation(degrees C.int) C.int {
	f, status := facade()
	if f == nil {
		return status
	}
	f.SetRotation(int(degrees))
	return C.int(abi.StatusSuccess)
}

//export smartscope_video_toggle_flip_horizontal
func smartscope_video_toggle_flip_horizontal() C.int {
	f, status := facade()
	if f == nil {
		return status
	}
	t := f.VideoTransform()
	f.SetFlip(!t.FlipHorizontal, t.FlipVertical)
	return C.int(abi.StatusSuccess)
}

//export smartscope_video_toggle_flip_vertical
func smartscope_video_toggle_flip_vertical() C.int {
	f, status := facade()
	if f == nil {
		return status
	}
	t := f.VideoTransform()
	f.SetFlip(t.FlipHorizontal, !t.FlipVertical)
	return C.int(abi.StatusSuccess)
}

//export smartscope_video_toggle_invert
func smartscope_video_toggle_invert() C.int {
	f, status := facade()
	if f == nil {
		return status
	}
	t := f.VideoTransform()
	f.SetInvert(!t.Invert)
	return C.int(abi.StatusSuccess)
}

//export smartscope_video_reset_transforms
func smartscope_video_reset_transforms() C.int {
	f, status := facade()
	if f == nil {
		return status
	}
	f.ResetVideoTransform()
	return C.int(abi.StatusSuccess)
}

//export smartscope_video_get_rotation
func smartscope_video_get_rotation() C.int {
	f, status := facade()
	if f == nil {
		_ = status
		return 0
	}
	return C.int(f.VideoTransform().RotationDeg)
}

//export smartscope_video_get_flip_horizontal
func smartscope_video_get_flip_horizontal() C.int {
	f, status := facade()
	if f == nil {
		_ = status
		return 0
	}
	return C.int(boolToInt(f.VideoTransform().FlipHorizontal))
}

//export smartscope_video_get_flip_vertical
func smartscope_video_get_flip_vertical() C.int {
	f, status := facade()
	if f == nil {
		_ = status
		return 0
	}
	return C.int(boolToInt(f.VideoTransform().FlipVertical))
}

//export smartscope_video_get_invert
func smartscope_video_get_invert() C.int {
	f, status := facade()
	if f == nil {
		_ = status
		return 0
	}
	return C.int(boolToInt(f.VideoTransform().Invert))
}

//export smartscope_video_is_rga_available
func smartscope_video_is_rga_available() C.int {
	f, status := facade()
	if f == nil {
		_ = status
		return 0
	}
	return C.int(boolToInt(f.RGAAvailable()))
}
