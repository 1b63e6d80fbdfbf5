package main

/*
#include <stdint.h>
#include <stdlib.h>

typedef struct {
	float   left;
	float   top;
	float   right;
	float   bottom;
	float   confidence;
	int32_t class_id;
} smartscope_detection_t;

typedef void (*smartscope_json_callback_t)(void* ctx, const char* json);
typedef void (*smartscope_raw_callback_t)(void* ctx, const smartscope_detection_t* detections, int count);

static inline void smartscope_call_json_callback(smartscope_json_callback_t cb, void* ctx, const char* json) {
	if (cb) cb(ctx, json);
}
static inline void smartscope_call_raw_callback(smartscope_raw_callback_t cb, void* ctx, const smartscope_detection_t* detections, int count) {
	if (cb) cb(ctx, detections, count);
}
*/
import "C"

import (
	"unsafe"

	"github.com/smartscope-embedded/smartscope/internal/abi"
	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

//export smartscope_ai_init
func smartscope_ai_init(modelPath, classNamesPath *C.char, numWorkers C.int) C.int {
	if modelPath == nil {
		return C.int(abi.StatusNullPointer)
	}

	f, status := facade()
	if f == nil {
		return status
	}

	var classNames string
	if classNamesPath != nil {
		classNames = C.GoString(classNamesPath)
	}

	if err := f.InitInference(C.GoString(modelPath), classNames, int(numWorkers)); err != nil {
		return C.int(abi.StatusConfigError)
	}
	return C.int(abi.StatusSuccess)
}

//export smartscope_ai_shutdown
func smartscope_ai_shutdown() C.int {
	f, status := facade()
	if f == nil {
		return status
	}
	if err := f.ShutdownInference(); err != nil {
		return C.int(abi.StatusError)
	}
	return C.int(abi.StatusSuccess)
}

//export smartscope_ai_set_enabled
func smartscope_ai_set_enabled(enabled C.int) C.int {
	f, status := facade()
	if f == nil {
		return status
	}
	if err := f.SetInferenceEnabled(enabled != 0); err != nil {
		return C.int(abi.StatusNotFound)
	}
	return C.int(abi.StatusSuccess)
}

//export smartscope_ai_is_enabled
func smartscope_ai_is_enabled() C.int {
	f, status := facade()
	if f == nil {
		_ = status
		return 0
	}
	return C.int(boolToInt(f.InferenceEnabled()))
}

//export smartscope_ai_submit_rgb888
func smartscope_ai_submit_rgb888(width, height C.int, data unsafe.Pointer, length C.int) C.int {
	if data == nil {
		return C.int(abi.StatusNullPointer)
	}

	f, status := facade()
	if f == nil {
		return status
	}

	buf := C.GoBytes(data, length)
	frame := smartscope.DecodedFrame{Width: int(width), Height: int(height), Bytes: buf}

	if err := f.SubmitInference(smartscope.SideSingle, frame); err != nil {
		return C.int(abi.StatusError)
	}
	return C.int(abi.StatusSuccess)
}

//export smartscope_ai_try_get_latest_result
func smartscope_ai_try_get_latest_result(out *C.smartscope_detection_t, max C.int) C.int {
	if out == nil || max <= 0 {
		return -1
	}

	f, status := facade()
	if f == nil {
		_ = status
		return -1
	}

	result, ok, err := f.TryGetLatestDetections()
	if err != nil || !ok {
		return -1
	}

	dets := abi.OriginalCoordDetections(result)
	n := len(dets)
	if n > int(max) {
		n = int(max)
	}

	slice := unsafe.Slice(out, int(max))
	for i := 0; i < n; i++ {
		d := dets[i]
		slice[i] = C.smartscope_detection_t{
			left:       C.float(d.Box.Left),
			top:        C.float(d.Box.Top),
			right:      C.float(d.Box.Right),
			bottom:     C.float(d.Box.Bottom),
			confidence: C.float(d.Confidence),
			class_id:   C.int32_t(d.ClassID),
		}
	}

	return C.int(n)
}

//export smartscope_ai_register_result_callback
func smartscope_ai_register_result_callback(ctx unsafe.Pointer, cb C.smartscope_json_callback_t, maxFPS C.int) C.int {
	f, status := facade()
	if f == nil {
		return status
	}

	err := f.RegisterCallback(abi.EventDetectionsChanged, int(maxFPS), func(value interface{}) {
		j, ok := value.(string)
		if !ok {
			return
		}
		cJSON := C.CString(j)
		defer C.free(unsafe.Pointer(cJSON))
		C.smartscope_call_json_callback(cb, ctx, cJSON)
	})
	if err != nil {
		return C.int(abi.StatusError)
	}
	return C.int(abi.StatusSuccess)
}

//export smartscope_ai_unregister_result_callback
func smartscope_ai_unregister_result_callback() C.int {
	f, status := facade()
	if f == nil {
		return status
	}
	f.UnregisterCallback(abi.EventDetectionsChanged)
	return C.int(abi.StatusSuccess)
}

//export smartscope_ai_register_result_callback_raw
func smartscope_ai_register_result_callback_raw(ctx unsafe.Pointer, cb C.smartscope_raw_callback_t, maxFPS C.int) C.int {
	f, status := facade()
	if f == nil {
		return status
	}

	err := f.RegisterCallback(abi.EventDetectionsRaw, int(maxFPS), func(value interface{}) {
		result, ok := value.(smartscope.InferenceResult)
		if !ok {
			return
		}
		dets := abi.OriginalCoordDetections(result)
		if len(dets) == 0 {
			C.smartscope_call_raw_callback(cb, ctx, nil, 0)
			return
		}

		cDets := make([]C.smartscope_detection_t, len(dets))
		for i, d := range dets {
			cDets[i] = C.smartscope_detection_t{
				left:       C.float(d.Box.Left),
				top:        C.float(d.Box.Top),
				right:      C.float(d.Box.Right),
				bottom:     C.float(d.Box.Bottom),
				confidence: C.float(d.Confidence),
				class_id:   C.int32_t(d.ClassID),
			}
		}
		C.smartscope_call_raw_callback(cb, ctx, &cDets[0], C.int(len(cDets)))
	})
	if err != nil {
		return C.int(abi.StatusError)
	}
	return C.int(abi.StatusSuccess)
}

//export smartscope_ai_unregister_result_callback_raw
func smartscope_ai_unregister_result_callback_raw() C.int {
	f, status := facade()
	if f == nil {
		return status
	}
	f.UnregisterCallback(abi.EventDetectionsRaw)
	return C.int(abi.StatusSuccess)
}
