package smartscope

// CorrectionType selects which map generation path the Correction Engine
// runs: a plain per-camera undistort, or a full stereo rectification that
// additionally aligns epipolar lines between the two cameras.
type CorrectionType int

// correction types.
const (
	CorrectionUndistort CorrectionType = iota
	CorrectionStereoRectify
)

// CameraIntrinsics is a pinhole camera matrix plus the 5-coefficient
// Brown-Conrady distortion model (k1,k2,p1,p2,k3) — the only lens model
// this system supports.
type CameraIntrinsics struct {
	FX, FY float64
	CX, CY float64
	Dist   [5]float64 // k1,k2,p1,p2,k3
}

// Valid reports whether the intrinsics satisfy §4.G's validation rule:
// positive focal lengths and principal points.
func (c CameraIntrinsics) Valid() bool {
	return c.FX > 0 && c.FY > 0 && c.CX > 0 && c.CY > 0
}

// StereoExtrinsics is the rotation/translation between the left and right
// camera frames, used only when rectifying.
type StereoExtrinsics struct {
	R [3][3]float64
	T [3]float64
}

// RemapTables are the precomputed per-pixel source-coordinate maps used by
// a bilinear resample. Undistort always has one pair per camera; rectify
// additionally fuses rectification into a second pair. Cached by
// (size, correction type, calibration hash) and rebuilt only on change.
type RemapTables struct {
	Size           Size
	CorrectionType CorrectionType
	CalibrationKey string

	MapX [][]float32
	MapY [][]float32

	// ROI is the valid-pixel region after rectification; zero-value means
	// the whole frame (undistort-only maps never crop).
	ROI Rect
}

// Size is a frame's effective width/height, renegotiated by the driver and
// used as one axis of the remap-table cache key.
type Size struct {
	Width  int
	Height int
}

// Rect is an integer pixel rectangle, left/top inclusive, right/bottom
// exclusive.
type Rect struct {
	Left, Top, Right, Bottom int
}
