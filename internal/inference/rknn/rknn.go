//go:build linux && arm64

// Package rknn binds one independent librknnrt YOLOv8 model instance per
// Model value — never a session shared across goroutines, matching the
// measured bottleneck the pool design works around (§4.I).
package rknn

// #cgo LDFLAGS: -lrknnrt
// #include <stdlib.h>
// #include "rknn_wrapper.h"
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"
)

// Rect is a detection box in model-input pixel coordinates.
type Rect struct {
	Left, Top, Right, Bottom int32
}

// Detection is one raw postprocessed YOLOv8 output.
type Detection struct {
	Box        Rect
	Confidence float32
	ClassID    int32
}

// Image is an RGB888 frame ready for inference, already letterboxed to the
// model's square input by the caller.
type Image struct {
	Width, Height int
	Data          []byte
}

// Model owns exactly one librknnrt context. It is not safe for concurrent
// use; the pool gives every worker goroutine its own Model.
type Model struct {
	ctx    C.rknn_app_context_t
	closed bool
}

// Open loads a model file into a fresh librknnrt context.
func Open(modelPath string) (*Model, error) {
	cPath := C.CString(modelPath)
	defer C.free(unsafe.Pointer(cPath))

	m := &Model{}
	if rc := C.init_yolov8_model_wrapper(cPath, &m.ctx); rc != 0 {
		return nil, fmt.Errorf("rknn: init_yolov8_model_wrapper failed: rc=%d", int(rc))
	}

	if err := InitPostProcess(); err != nil {
		C.release_yolov8_model_wrapper(&m.ctx)
		return nil, err
	}

	runtime.SetFinalizer(m, (*Model).Close)
	return m, nil
}

// Close releases the model's NPU context. Safe to call more than once.
func (m *Model) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	runtime.SetFinalizer(m, nil)

	DeinitPostProcess()

	if rc := C.release_yolov8_model_wrapper(&m.ctx); rc != 0 {
		return fmt.Errorf("rknn: release_yolov8_model_wrapper failed: rc=%d", int(rc))
	}
	return nil
}

// Infer runs preprocess→inference→postprocess on img and returns the raw
// detections, capped at the wrapper's fixed-size result list.
func (m *Model) Infer(img Image) ([]Detection, error) {
	if m.closed {
		return nil, fmt.Errorf("rknn: model closed")
	}

	cImg := C.image_buffer_t{
		width:        C.int32_t(img.Width),
		height:       C.int32_t(img.Height),
		width_stride: C.int32_t(img.Width),
		height_stride: C.int32_t(img.Height),
		format:       0,
		size:         C.int32_t(len(img.Data)),
		fd:           -1,
	}
	if len(img.Data) > 0 {
		cImg.virt_addr = (*C.uint8_t)(unsafe.Pointer(&img.Data[0]))
	}

	var results C.object_detect_result_list_t
	if rc := C.inference_yolov8_model_wrapper(&m.ctx, &cImg, &results); rc != 0 {
		return nil, fmt.Errorf("rknn: inference_yolov8_model_wrapper failed: rc=%d", int(rc))
	}

	count := int(results.count)
	out := make([]Detection, 0, count)
	for i := 0; i < count; i++ {
		r := results.results[i]
		out = append(out, Detection{
			Box: Rect{
				Left:   int32(r.bbox.left),
				Top:    int32(r.bbox.top),
				Right:  int32(r.bbox.right),
				Bottom: int32(r.bbox.bottom),
			},
			Confidence: float32(r.prop),
			ClassID:    int32(r.cls_id),
		})
	}
	return out, nil
}

// InitPostProcess loads the label/anchor tables the wrapper's postprocess
// step needs; it must run once before the first Model is opened.
func InitPostProcess() error {
	if rc := C.init_post_process_wrapper(); rc != 0 {
		return fmt.Errorf("rknn: init_post_process_wrapper failed: rc=%d", int(rc))
	}
	return nil
}

// DeinitPostProcess releases what InitPostProcess loaded.
func DeinitPostProcess() {
	C.deinit_post_process_wrapper()
}

// ClassName looks up the wrapper's built-in COCO-like label for clsID.
func ClassName(clsID int32) string {
	return C.GoString(C.coco_cls_to_name_wrapper(C.int32_t(clsID)))
}
