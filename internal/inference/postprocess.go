package inference

import (
	"sort"

	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

// Postprocess applies the score threshold and per-class NMS the conf
// layer configures, then caps the survivors at smartscope.MaxDetections.
// The NPU wrapper's own postprocess step already runs a vendor-tuned NMS;
// this pass re-applies the operator's configured thresholds on top so
// score_threshold/iou_threshold in the configuration are not dead knobs.
func Postprocess(raw []RawDetection, scoreThreshold, iouThreshold float64) []smartscope.Detection {
	kept := make([]RawDetection, 0, len(raw))
	for _, d := range raw {
		if float64(d.Confidence) >= scoreThreshold {
			kept = append(kept, d)
		}
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].Confidence > kept[j].Confidence })

	suppressed := make([]bool, len(kept))
	out := make([]smartscope.Detection, 0, smartscope.MaxDetections)

	for i := range kept {
		if suppressed[i] {
			continue
		}
		if len(out) >= smartscope.MaxDetections {
			break
		}

		a := kept[i]
		out = append(out, smartscope.Detection{
			Box: smartscope.BBox{
				Left:   float32(a.Left),
				Top:    float32(a.Top),
				Right:  float32(a.Right),
				Bottom: float32(a.Bottom),
			},
			Confidence: a.Confidence,
			ClassID:    a.ClassID,
		})

		for j := i + 1; j < len(kept); j++ {
			if suppressed[j] || kept[j].ClassID != a.ClassID {
				continue
			}
			if iou(a, kept[j]) > iouThreshold {
				suppressed[j] = true
			}
		}
	}

	return out
}

func iou(a, b RawDetection) float64 {
	interLeft := maxInt32(a.Left, b.Left)
	interTop := maxInt32(a.Top, b.Top)
	interRight := minInt32(a.Right, b.Right)
	interBottom := minInt32(a.Bottom, b.Bottom)

	interW := interRight - interLeft
	interH := interBottom - interTop
	if interW <= 0 || interH <= 0 {
		return 0
	}

	interArea := float64(interW) * float64(interH)
	areaA := float64(a.Right-a.Left) * float64(a.Bottom-a.Top)
	areaB := float64(b.Right-b.Left) * float64(b.Bottom-b.Top)
	union := areaA + areaB - interArea
	if union <= 0 {
		return 0
	}

	return interArea / union
}

func maxInt32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func minInt32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
