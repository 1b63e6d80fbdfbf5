//go:build linux && arm64

package inference

import "github.com/smartscope-embedded/smartscope/internal/inference/rknn"

// newHardwareDetector opens one independent librknnrt model instance.
func newHardwareDetector(modelPath string) (Detector, error) {
	m, err := rknn.Open(modelPath)
	if err != nil {
		return nil, err
	}
	return &rknnDetector{m: m}, nil
}

type rknnDetector struct {
	m *rknn.Model
}

func (d *rknnDetector) Infer(img Image) ([]RawDetection, error) {
	raw, err := d.m.Infer(rknn.Image{Width: img.Width, Height: img.Height, Data: img.Data})
	if err != nil {
		return nil, err
	}

	out := make([]RawDetection, len(raw))
	for i, r := range raw {
		out[i] = RawDetection{
			Left:       r.Box.Left,
			Top:        r.Box.Top,
			Right:      r.Box.Right,
			Bottom:     r.Box.Bottom,
			Confidence: r.Confidence,
			ClassID:    r.ClassID,
		}
	}
	return out, nil
}

func (d *rknnDetector) Close() error {
	return d.m.Close()
}
