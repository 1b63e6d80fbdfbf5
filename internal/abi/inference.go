package abi

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/smartscope-embedded/smartscope/internal/inference"
	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

// SubmitInference enqueues a decoded frame for detection on the NPU worker
// pool, returning immediately. Letterboxing happens inside the pool's own
// preprocessor, next to the code that records the resulting transform on
// the InferenceResult. A no-op if the pool was not enabled at startup.
func (f *Facade) SubmitInference(side smartscope.CameraSide, frame smartscope.DecodedFrame) error {
	if f.pool == nil {
		return nil
	}

	task := smartscope.NewInferenceTask(0, frame.Width, frame.Height, frame.Bytes)
	f.pool.Submit(task)

	return nil
}

// TryGetLatestDetections returns the most recently completed inference
// result without blocking.
func (f *Facade) TryGetLatestDetections() (smartscope.InferenceResult, bool, error) {
	if f.pool == nil {
		return smartscope.InferenceResult{}, false, smartscope.NewError("abi.TryGetLatestDetections", smartscope.ErrNotInitialized, fmt.Errorf("inference disabled"))
	}
	r, ok := f.pool.TryGetLatestResult()
	return r, ok, nil
}

// InferenceBlocking submits frame and blocks for its own result up to
// timeout; the pool letterboxes frame internally before inference.
func (f *Facade) InferenceBlocking(frame smartscope.DecodedFrame, timeout time.Duration) (smartscope.InferenceResult, error) {
	if f.pool == nil {
		return smartscope.InferenceResult{}, smartscope.NewError("abi.InferenceBlocking", smartscope.ErrNotInitialized, fmt.Errorf("inference disabled"))
	}

	return f.pool.InferenceBlocking(frame.Width, frame.Height, frame.Bytes, timeout)
}

// SetInferenceEnabled toggles the worker pool's atomic gate.
func (f *Facade) SetInferenceEnabled(enabled bool) error {
	if f.pool == nil {
		return smartscope.NewError("abi.SetInferenceEnabled", smartscope.ErrNotInitialized, fmt.Errorf("inference disabled"))
	}
	f.pool.SetEnabled(enabled)
	return nil
}

// InferenceEnabled reports the worker pool's current gate state.
func (f *Facade) InferenceEnabled() bool {
	return f.pool != nil && f.pool.Enabled()
}

// InitInference lazily constructs the NPU worker pool, overriding the
// model/class-names paths and worker count from the loaded configuration.
// Fails with ErrConfig if the pool is already running; callers must
// ShutdownInference first to reconfigure it.
func (f *Facade) InitInference(modelPath, classNamesPath string, numWorkers int) error {
	if f.pool != nil {
		return smartscope.NewError("abi.InitInference", smartscope.ErrConfig, fmt.Errorf("inference pool already running"))
	}

	c := f.Conf().Inference
	c.ModelPath = modelPath
	c.ClassNamesPath = classNamesPath
	if numWorkers > 0 {
		c.NumWorkers = numWorkers
	}
	c.Enabled = true

	pool, err := inference.NewNPUService(c)
	if err != nil {
		return err
	}
	f.pool = pool

	return nil
}

// ShutdownInference stops and releases the NPU worker pool. A no-op if no
// pool is running.
func (f *Facade) ShutdownInference() error {
	if f.pool == nil {
		return nil
	}
	f.pool.Close()
	f.pool = nil
	return nil
}

// detectionJSON is the wire shape spec.md §6 defines for the JSON result
// callback and TryGetLatestDetectionsJSON.
type detectionJSON struct {
	Left       float32 `json:"left"`
	Top        float32 `json:"top"`
	Right      float32 `json:"right"`
	Bottom     float32 `json:"bottom"`
	Confidence float32 `json:"confidence"`
	ClassID    int32   `json:"class_id"`
}

// OriginalCoordDetections maps a result's detections from model-input
// coordinates back to the source frame via its recorded letterbox
// transform.
func OriginalCoordDetections(result smartscope.InferenceResult) []smartscope.Detection {
	out := make([]smartscope.Detection, len(result.Detections))
	for i, d := range result.Detections {
		d.Box = result.Transform.Invert(d.Box)
		out[i] = d
	}
	return out
}

func detectionsToJSON(dets []smartscope.Detection) (string, error) {
	out := make([]detectionJSON, len(dets))
	for i, d := range dets {
		out[i] = detectionJSON{
			Left: d.Box.Left, Top: d.Box.Top, Right: d.Box.Right, Bottom: d.Box.Bottom,
			Confidence: d.Confidence, ClassID: d.ClassID,
		}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", smartscope.NewError("abi.detectionsToJSON", smartscope.ErrIO, err)
	}
	return string(b), nil
}

// TryGetLatestDetectionsJSON returns the most recently completed inference
// result's detections, mapped back to source-frame coordinates and
// JSON-encoded.
func (f *Facade) TryGetLatestDetectionsJSON() (string, bool, error) {
	result, ok, err := f.TryGetLatestDetections()
	if err != nil || !ok {
		return "", ok, err
	}
	j, err := detectionsToJSON(OriginalCoordDetections(result))
	return j, true, err
}
