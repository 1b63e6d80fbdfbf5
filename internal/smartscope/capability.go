package smartscope

import "time"

// CapabilitySnapshot is read-mostly, single-writer state owned by the
// Camera Mode Controller and read by the façade and event callbacks.
type CapabilitySnapshot struct {
	Mode          CameraMode
	CameraCount   int
	LeftConnected bool
	RightConnected bool
	UpdatedAt     time.Time
}

// VideoTransform is the rotate/flip/invert composition state owned by the
// C ABI façade and applied after correction.
type VideoTransform struct {
	RotationDeg    int
	FlipHorizontal bool
	FlipVertical   bool
	Invert         bool
}

// ApplyRotation advances rotation by 90 degrees modulo 360, per §4.H.
func (t *VideoTransform) ApplyRotation() {
	t.RotationDeg = (t.RotationDeg + 90) % 360
}

// SetRotation sets the rotation directly; repeated identical calls are
// observationally equivalent to one (§8 round-trip property).
func (t *VideoTransform) SetRotation(deg int) {
	t.RotationDeg = ((deg % 360) + 360) % 360
}

// Reset returns the transform to identity — a left zero for the group.
func (t *VideoTransform) Reset() {
	*t = VideoTransform{}
}

// CameraParameter enumerates the V4L2 controls exposed through the façade.
type CameraParameter int

// camera parameters.
const (
	ParamBrightness CameraParameter = iota
	ParamContrast
	ParamSaturation
	ParamHue
	ParamWhiteBalance
	ParamGamma
	ParamGain
	ParamExposure
)

// ParameterRange mirrors a V4L2 QueryControl reply.
type ParameterRange struct {
	Min     int32
	Max     int32
	Step    int32
	Default int32
	Current int32
}

// WorkerStats are per-worker inference counters exposed through the
// façade for observability, grounded on the teacher's stats package
// pattern of plain counters rather than a metrics client.
type WorkerStats struct {
	TasksRun      int64
	TasksFailed   int64
	LastLatencyNs int64
}
