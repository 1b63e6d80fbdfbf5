package correction

import (
	"image"
	"math"

	"gocv.io/x/gocv"

	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

func mathFloat64bits(f float64) uint64 {
	return math.Float64bits(f)
}

// cameraMatrix builds the 3x3 pinhole camera matrix K from intrinsics.
func cameraMatrix(intr smartscope.CameraIntrinsics) gocv.Mat {
	m := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	m.SetDoubleAt(0, 0, intr.FX)
	m.SetDoubleAt(0, 1, 0)
	m.SetDoubleAt(0, 2, intr.CX)
	m.SetDoubleAt(1, 0, 0)
	m.SetDoubleAt(1, 1, intr.FY)
	m.SetDoubleAt(1, 2, intr.CY)
	m.SetDoubleAt(2, 0, 0)
	m.SetDoubleAt(2, 1, 0)
	m.SetDoubleAt(2, 2, 1)
	return m
}

// distCoeffs builds the 1x5 distortion coefficient row vector.
func distCoeffs(intr smartscope.CameraIntrinsics) gocv.Mat {
	m := gocv.NewMatWithSize(1, 5, gocv.MatTypeCV64F)
	for i, v := range intr.Dist {
		m.SetDoubleAt(0, i, v)
	}
	return m
}

// identity3x3 builds the 3x3 identity rotation used for plain undistortion,
// where the output frame is not reprojected into a rectified stereo pair.
func identity3x3() gocv.Mat {
	m := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v := 0.0
			if i == j {
				v = 1.0
			}
			m.SetDoubleAt(i, j, v)
		}
	}
	return m
}

// initUndistortMap builds the x/y remap tables for one camera. rectRotation
// is the identity for plain undistortion, or StereoRectify's R1/R2 for
// stereo mode. newCameraMatrix is k for plain undistortion, or
// StereoRectify's 3x4 P1/P2 projection matrix for stereo mode — passing K
// back in for the stereo case would undo the rectifying reprojection that
// aligns epipolar lines between the two views.
func initUndistortMap(k, dist, rectRotation, newCameraMatrix gocv.Mat, size smartscope.Size) (gocv.Mat, gocv.Mat, error) {
	mapX := gocv.NewMat()
	mapY := gocv.NewMat()

	gocv.InitUndistortRectifyMap(k, dist, rectRotation, newCameraMatrix,
		image.Pt(size.Width, size.Height), gocv.MatTypeCV32F, &mapX, &mapY)

	return mapX, mapY, nil
}

// stereoRectify computes the rectification rotations and projections for a
// calibrated stereo pair, with zero-disparity alignment (alpha=0: crop to
// valid pixels only, no black borders).
func stereoRectify(leftK, leftD, rightK, rightD gocv.Mat, size smartscope.Size, ext smartscope.StereoExtrinsics) (r1, r2, p1, p2 gocv.Mat, roi1, roi2 smartscope.Rect, err error) {
	rMat := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rMat.SetDoubleAt(i, j, ext.R[i][j])
		}
	}
	defer rMat.Close()

	tMat := gocv.NewMatWithSize(3, 1, gocv.MatTypeCV64F)
	for i := 0; i < 3; i++ {
		tMat.SetDoubleAt(i, 0, ext.T[i])
	}
	defer tMat.Close()

	r1 = gocv.NewMat()
	r2 = gocv.NewMat()
	p1 = gocv.NewMat()
	p2 = gocv.NewMat()
	q := gocv.NewMat()
	defer q.Close()

	imgSize := image.Pt(size.Width, size.Height)

	// CALIB_ZERO_DISPARITY: aligns the principal points of both rectified
	// views on the same row, matching the original corrector's behavior.
	const calibZeroDisparity = 0x400

	var validROI1, validROI2 image.Rectangle
	gocv.StereoRectify(leftK, leftD, rightK, rightD, imgSize, rMat, tMat,
		&r1, &r2, &p1, &p2, &q, calibZeroDisparity, 0, imgSize, &validROI1, &validROI2)

	roi1 = smartscope.Rect{Left: validROI1.Min.X, Top: validROI1.Min.Y, Right: validROI1.Max.X, Bottom: validROI1.Max.Y}
	roi2 = smartscope.Rect{Left: validROI2.Min.X, Top: validROI2.Min.Y, Right: validROI2.Max.X, Bottom: validROI2.Max.Y}

	return r1, r2, p1, p2, roi1, roi2, nil
}
