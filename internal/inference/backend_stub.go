//go:build !(linux && arm64)

package inference

import "fmt"

// newHardwareDetector reports unavailability on platforms without the
// board's librknnrt. The NPU pool fails construction with this error when
// asked to open a real model outside the target hardware.
func newHardwareDetector(modelPath string) (Detector, error) {
	return nil, fmt.Errorf("inference: NPU backend unavailable on this platform (model %q)", modelPath)
}
