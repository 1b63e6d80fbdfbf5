// Package inference runs the YOLOv8 NPU worker pool: a bounded task queue,
// N independently-opened model instances, and the submit / latest-result /
// blocking contracts of §4.I.
package inference

// Image is an RGB888 frame, already letterboxed to the model's square
// input, ready to hand to a Detector.
type Image struct {
	Width, Height int
	Data          []byte
}

// RawDetection is one postprocessed detection in model-input coordinates,
// before the letterbox transform is inverted.
type RawDetection struct {
	Left, Top, Right, Bottom int32
	Confidence               float32
	ClassID                  int32
}

// Detector is one independent NPU model instance. The pool hands every
// worker goroutine its own Detector; none is ever shared.
type Detector interface {
	Infer(img Image) ([]RawDetection, error)
	Close() error
}
