package main

import "C"

import "github.com/smartscope-embedded/smartscope/internal/abi"

// screen_recorder_init/shutdown bookend a recording session on top of the
// same recorder.Dispatcher the façade already constructed at
// smartscope_init; there is no separate subprocess-pool lifecycle to stand
// up or tear down here, only the active-recording state.

//export smartscope_screen_recorder_init
func smartscope_screen_recorder_init() C.int {
	_, status := facade()
	return status
}

//export smartscope_screen_recorder_shutdown
func smartscope_screen_recorder_shutdown() C.int {
	f, status := facade()
	if f == nil {
		return status
	}
	if f.RecordingActive() {
		if err := f.StopRecording(); err != nil {
			return C.int(abi.StatusError)
		}
	}
	return C.int(abi.StatusSuccess)
}

//export smartscope_screen_recorder_set_dimensions
func smartscope_screen_recorder_set_dimensions(width, height C.int) C.int {
	f, status := facade()
	if f == nil {
		return status
	}
	f.SetRecordingDimensions(int(width), int(height))
	return C.int(abi.StatusSuccess)
}

//export smartscope_screen_recorder_set_fps
func smartscope_screen_recorder_set_fps(fps C.int) C.int {
	f, status := facade()
	if f == nil {
		return status
	}
	f.SetRecordingFPS(int(fps))
	return C.int(abi.StatusSuccess)
}

//export smartscope_screen_recorder_start
func smartscope_screen_recorder_start(mode *C.char, outPath *C.char, outPathLen C.int) C.int {
	if mode == nil || outPath == nil {
		return C.int(abi.StatusNullPointer)
	}

	f, status := facade()
	if f == nil {
		return status
	}

	path, err := f.StartRecording(C.GoString(mode))
	if err != nil {
		return C.int(abi.StatusIOError)
	}

	if copyCString(path, outPath, outPathLen) < 0 {
		return C.int(abi.StatusError)
	}

	return C.int(abi.StatusSuccess)
}

//export smartscope_screen_recorder_stop
func smartscope_screen_recorder_stop() C.int {
	f, status := facade()
	if f == nil {
		return status
	}
	if err := f.StopRecording(); err != nil {
		return C.int(abi.StatusError)
	}
	return C.int(abi.StatusSuccess)
}

//export smartscope_screen_recorder_is_recording
func smartscope_screen_recorder_is_recording() C.int {
	f, status := facade()
	if f == nil {
		_ = status
		return 0
	}
	return C.int(boolToInt(f.RecordingActive()))
}

//export smartscope_screen_recorder_elapsed_seconds
func smartscope_screen_recorder_elapsed_seconds() C.double {
	f, status := facade()
	if f == nil {
		_ = status
		return 0
	}
	return C.double(f.RecordingElapsed().Seconds())
}

//export smartscope_screen_recorder_get_output_path
func smartscope_screen_recorder_get_output_path() *C.char {
	f, status := facade()
	if f == nil {
		_ = status
		return nil
	}
	path := f.RecordingOutputPath()
	if path == "" {
		return nil
	}
	return C.CString(path)
}

//export smartscope_screen_recorder_get_backend_name
func smartscope_screen_recorder_get_backend_name() *C.char {
	f, status := facade()
	if f == nil {
		_ = status
		return C.CString("none")
	}
	return C.CString(f.RecordingBackend())
}

//export smartscope_screen_recorder_get_last_error
func smartscope_screen_recorder_get_last_error() *C.char {
	f, status := facade()
	if f == nil {
		_ = status
		return nil
	}
	err := f.RecordingLastError()
	if err == nil {
		return nil
	}
	return C.CString(err.Error())
}
