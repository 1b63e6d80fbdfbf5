package inference

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

// DefaultModelSize is the square input side YOLOv8 is run at when the
// configuration doesn't override it.
const DefaultModelSize = 640

// letterboxFill is the gray padding color used around the resized image,
// matching the reference preprocessor's (114,114,114).
var letterboxFill = color.RGBA{R: 114, G: 114, B: 114, A: 0}

// Letterbox area-preserving-resizes an RGB888 frame into a modelSize ×
// modelSize square, padding with letterboxFill and centering the content,
// per §4.I.
func Letterbox(frame smartscope.DecodedFrame, modelSize int) (Image, smartscope.LetterboxTransform, error) {
	src, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC3, frame.Bytes)
	if err != nil {
		return Image{}, smartscope.LetterboxTransform{}, smartscope.NewError("inference.Letterbox", smartscope.ErrDecode, err)
	}
	defer src.Close()

	scale := float32(modelSize) / float32(frame.Width)
	if alt := float32(modelSize) / float32(frame.Height); alt < scale {
		scale = alt
	}

	resizedW := int(float32(frame.Width) * scale)
	resizedH := int(float32(frame.Height) * scale)

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(src, &resized, image.Pt(resizedW, resizedH), 0, 0, gocv.InterpolationArea)

	xPad := (modelSize - resizedW) / 2
	yPad := (modelSize - resizedH) / 2

	canvas := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(
		float64(letterboxFill.B), float64(letterboxFill.G), float64(letterboxFill.R), 0),
		modelSize, modelSize, gocv.MatTypeCV8UC3)
	defer canvas.Close()

	roi := canvas.Region(image.Rect(xPad, yPad, xPad+resizedW, yPad+resizedH))
	resized.CopyTo(&roi)
	roi.Close()

	out := make([]byte, canvas.Total()*canvas.Channels())
	copy(out, canvas.ToBytes())

	return Image{Width: modelSize, Height: modelSize, Data: out},
		smartscope.LetterboxTransform{XPad: float32(xPad), YPad: float32(yPad), Scale: scale},
		nil
}
