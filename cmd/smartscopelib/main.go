// Command smartscopelib builds as a C shared library (-buildmode=c-shared)
// re-exporting internal/abi.Facade as flat C functions, per §4.L.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/smartscope-embedded/smartscope/internal/abi"
	"github.com/smartscope-embedded/smartscope/internal/conf"
	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

var (
	globalMutex  sync.Mutex
	globalFacade *abi.Facade
	globalPath   string

	// scratch holds the last frame copied out for each side, kept alive
	// across the cgo boundary until the next call for that side overwrites
	// it (the pull model's single-buffer contract, §4.L).
	scratchMutex sync.Mutex
	scratch      = map[smartscope.CameraSide][]byte{}
)

//export smartscope_init
func smartscope_init(confPath *C.char) C.int {
	if confPath == nil {
		return C.int(abi.StatusNullPointer)
	}

	globalMutex.Lock()
	defer globalMutex.Unlock()

	if globalFacade != nil {
		return C.int(abi.StatusSuccess)
	}

	path := C.GoString(confPath)

	c, _, err := conf.Load(path)
	if err != nil {
		return C.int(abi.StatusConfigError)
	}

	f, err := abi.New(c, path, nil)
	if err != nil {
		return C.int(abi.StatusError)
	}

	globalFacade = f
	globalPath = path
	return C.int(abi.StatusSuccess)
}

//export smartscope_shutdown
func smartscope_shutdown() {
	globalMutex.Lock()
	defer globalMutex.Unlock()

	if globalFacade != nil {
		globalFacade.Close()
		globalFacade = nil
		globalPath = ""
	}
}

//export smartscope_is_initialized
func smartscope_is_initialized() C.int {
	globalMutex.Lock()
	defer globalMutex.Unlock()
	if globalFacade != nil {
		return 1
	}
	return 0
}

//export smartscope_get_version
func smartscope_get_version() *C.char {
	return C.CString(abi.Version)
}

//export smartscope_free_string
func smartscope_free_string(s *C.char) {
	C.free(unsafe.Pointer(s))
}

func facade() (*abi.Facade, C.int) {
	globalMutex.Lock()
	f := globalFacade
	globalMutex.Unlock()

	if f == nil {
		return nil, C.int(abi.StatusNotFound)
	}
	return f, C.int(abi.StatusSuccess)
}

func currentPath() string {
	globalMutex.Lock()
	defer globalMutex.Unlock()
	return globalPath
}

// sideFromC maps the C caller's 0/1/2 side enum onto smartscope.CameraSide.
func sideFromC(side C.int) smartscope.CameraSide {
	switch side {
	case 1:
		return smartscope.SideLeft
	case 2:
		return smartscope.SideRight
	default:
		return smartscope.SideSingle
	}
}

//export smartscope_get_frame
func smartscope_get_frame(side C.int, outPtr *unsafe.Pointer, outLen *C.int, outWidth, outHeight *C.int, outTimestampNs *C.longlong) C.int {
	if outPtr == nil || outLen == nil || outWidth == nil || outHeight == nil || outTimestampNs == nil {
		return C.int(abi.StatusNullPointer)
	}

	f, status := facade()
	if f == nil {
		return status
	}

	cameraSide := sideFromC(side)
	return getFrameInto(f, cameraSide, outPtr, outLen, outWidth, outHeight, outTimestampNs)
}

func getFrameInto(f *abi.Facade, cameraSide smartscope.CameraSide, outPtr *unsafe.Pointer, outLen *C.int, outWidth, outHeight *C.int, outTimestampNs *C.longlong) C.int {
	frame, ok, err := f.GetFrame(cameraSide)
	if err != nil {
		return C.int(abi.StatusError)
	}
	if !ok {
		*outLen = 0
		return C.int(abi.StatusNotFound)
	}

	scratchMutex.Lock()
	scratch[cameraSide] = frame.Bytes
	buf := scratch[cameraSide]
	scratchMutex.Unlock()

	*outPtr = unsafe.Pointer(&buf[0])
	*outLen = C.int(len(buf))
	*outWidth = C.int(frame.Width)
	*outHeight = C.int(frame.Height)
	*outTimestampNs = C.longlong(frame.TimestampNs)

	return C.int(abi.StatusSuccess)
}

//export smartscope_load_calibration
func smartscope_load_calibration(leftIntrinsicsPath, rightIntrinsicsPath, extrinsicsPath *C.char) C.int {
	if leftIntrinsicsPath == nil {
		return C.int(abi.StatusNullPointer)
	}

	f, status := facade()
	if f == nil {
		return status
	}

	var right, ext string
	if rightIntrinsicsPath != nil {
		right = C.GoString(rightIntrinsicsPath)
	}
	if extrinsicsPath != nil {
		ext = C.GoString(extrinsicsPath)
	}

	if err := f.LoadCalibration(C.GoString(leftIntrinsicsPath), right, ext); err != nil {
		return C.int(abi.StatusConfigError)
	}

	return C.int(abi.StatusSuccess)
}

func copyCString(s string, dst *C.char, dstLen C.int) int {
	if int(dstLen) <= len(s) {
		return -1
	}

	buf := unsafe.Slice((*byte)(unsafe.Pointer(dst)), int(dstLen))
	n := copy(buf, s)
	buf[n] = 0

	return n
}

func main() {}
