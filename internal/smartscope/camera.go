package smartscope

import "strings"

// CameraSide identifies which physical camera a frame or reader belongs to.
type CameraSide int

// camera sides.
const (
	SideSingle CameraSide = iota
	SideLeft
	SideRight
)

func (s CameraSide) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "single"
	}
}

// CameraMode is the tagged variant derived from the currently enumerated
// device set. It is a total, idempotent function of that set — see
// DeriveCameraMode.
type CameraMode int

// camera modes.
const (
	ModeNoCamera CameraMode = iota
	ModeSingle
	ModeStereo
)

func (m CameraMode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeStereo:
		return "stereo"
	default:
		return "none"
	}
}

// CameraDevice is an enumerated V4L2 capture node group sharing one
// physical camera's displayed name.
type CameraDevice struct {
	Name              string
	PrimaryPath       string
	SiblingVideoPaths []string
	MediaPath         string
	Description       string
}

// hdmiNameSubstrings are excluded from enumeration, case-insensitively.
var hdmiNameSubstrings = []string{"hdmi", "rk_hdmirx"}

// IsHDMIReceiver reports whether a device's displayed name marks it as an
// HDMI capture node, which must never be enumerated as a camera.
func IsHDMIReceiver(name string) bool {
	lower := strings.ToLower(name)
	for _, sub := range hdmiNameSubstrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

// DeriveCameraMode implements §3's CameraMode derivation: zero non-HDMI
// devices → NoCamera; one → Single; two that match left/right keyword
// sets → Stereo; more than two → Stereo if a left and a right match, else
// Single with the first match.
func DeriveCameraMode(devices []CameraDevice, leftKeywords, rightKeywords []string) (CameraMode, *CameraDevice, *CameraDevice) {
	if len(devices) == 0 {
		return ModeNoCamera, nil, nil
	}

	var left, right *CameraDevice
	for i := range devices {
		d := &devices[i]
		if left == nil && matchesKeywords(d.Name, leftKeywords) {
			left = d
			continue
		}
		if right == nil && matchesKeywords(d.Name, rightKeywords) {
			right = d
		}
	}

	if left != nil && right != nil {
		return ModeStereo, left, right
	}

	if len(devices) == 1 {
		return ModeSingle, &devices[0], nil
	}

	// two or more, no matching pair: single with the first match, or the
	// first device if no keyword matched at all.
	if left != nil {
		return ModeSingle, left, nil
	}
	if right != nil {
		return ModeSingle, right, nil
	}
	return ModeSingle, &devices[0], nil
}

func matchesKeywords(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
