package smartscope

// MaxDetections bounds a single inference result, per §3.
const MaxDetections = 128

// BBox is a detection bounding box in the model-input frame; the
// preprocessor's letterbox transform is what a consumer inverts to map
// back to the original image (§4.I).
type BBox struct {
	Left, Top, Right, Bottom float32
}

// Detection is one YOLOv8 postprocessing output after NMS.
type Detection struct {
	Box        BBox
	Confidence float32
	ClassID    int32
}

// LetterboxTransform records how a source image was resized and padded
// into the model's square input, so bounding boxes can be mapped back.
type LetterboxTransform struct {
	XPad, YPad float32
	Scale      float32
}

// Invert maps a detection's box from model-input coordinates back to the
// original image the letterbox was built from.
func (t LetterboxTransform) Invert(b BBox) BBox {
	if t.Scale == 0 {
		return b
	}
	return BBox{
		Left:   (b.Left - t.XPad) / t.Scale,
		Top:    (b.Top - t.YPad) / t.Scale,
		Right:  (b.Right - t.XPad) / t.Scale,
		Bottom: (b.Bottom - t.YPad) / t.Scale,
	}
}

// ClassCatalog is the ordered class-id to name table shipped alongside a
// model file — never hardcoded (open question #3).
type ClassCatalog []string

// Name returns the class name for an id, or "" if out of range.
func (c ClassCatalog) Name(id int32) string {
	if id < 0 || int(id) >= len(c) {
		return ""
	}
	return c[id]
}

// InferenceResult is what a worker produces for one submitted task.
type InferenceResult struct {
	TaskID     uint64
	Detections []Detection
	Transform  LetterboxTransform
	Err        error
}

// InferenceTask is one unit of work submitted to the NPU pool.
type InferenceTask struct {
	TaskID uint64
	Width  int
	Height int
	Image  []byte // RGB888, Width*Height*3 bytes

	reply chan InferenceResult
}

// NewInferenceTask allocates a task with its one-shot reply channel ready.
func NewInferenceTask(id uint64, width, height int, image []byte) *InferenceTask {
	return &InferenceTask{
		TaskID: id,
		Width:  width,
		Height: height,
		Image:  image,
		reply:  make(chan InferenceResult, 1),
	}
}

// Reply delivers the task's single result. Safe to call at most once.
func (t *InferenceTask) Reply(r InferenceResult) {
	t.reply <- r
}

// Wait blocks for the task's result.
func (t *InferenceTask) Wait() InferenceResult {
	return <-t.reply
}

// WaitChan exposes the one-shot reply channel for select-based waiting.
func (t *InferenceTask) WaitChan() <-chan InferenceResult {
	return t.reply
}
