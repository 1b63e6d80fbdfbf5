// Package correction builds and applies undistort / stereo-rectify remap
// tables, per §4.G. Maps are cached by (size, correction type, calibration
// hash) and rebuilt only on change.
package correction

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"image/color"
	"sync"

	"gocv.io/x/gocv"

	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

// Calibration is the full parsed calibration set for one or two cameras.
type Calibration struct {
	Left  smartscope.CameraIntrinsics
	Right smartscope.CameraIntrinsics
	Ext   smartscope.StereoExtrinsics
}

// Hash is the calibration's cache key component.
func (c Calibration) Hash() string {
	h := sha256.New()
	for _, v := range []float64{
		c.Left.FX, c.Left.FY, c.Left.CX, c.Left.CY,
		c.Left.Dist[0], c.Left.Dist[1], c.Left.Dist[2], c.Left.Dist[3], c.Left.Dist[4],
		c.Right.FX, c.Right.FY, c.Right.CX, c.Right.CY,
		c.Right.Dist[0], c.Right.Dist[1], c.Right.Dist[2], c.Right.Dist[3], c.Right.Dist[4],
	} {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], float64bits(v))
		h.Write(buf[:])
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], float64bits(c.Ext.R[i][j]))
			h.Write(buf[:])
		}
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], float64bits(c.Ext.T[i]))
		h.Write(buf[:])
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

func float64bits(f float64) uint64 {
	return mathFloat64bits(f)
}

type cacheKey struct {
	size           smartscope.Size
	correctionType smartscope.CorrectionType
	calibHash      string
}

// pairMaps holds the compiled gocv remap matrices for one camera side.
type pairMaps struct {
	mapX, mapY gocv.Mat
	roi        smartscope.Rect
}

// Engine builds and caches remap tables and applies them to frames.
type Engine struct {
	mutex sync.Mutex
	cache map[cacheKey]map[smartscope.CameraSide]*pairMaps
}

// NewEngine allocates an empty Engine.
func NewEngine() *Engine {
	return &Engine{cache: make(map[cacheKey]map[smartscope.CameraSide]*pairMaps)}
}

// Build returns the cached maps for (size, correctionType, calib), building
// them if this is the first request for that key.
func (e *Engine) Build(size smartscope.Size, correctionType smartscope.CorrectionType, calib Calibration) error {
	key := cacheKey{size: size, correctionType: correctionType, calibHash: calib.Hash()}

	e.mutex.Lock()
	defer e.mutex.Unlock()

	if _, ok := e.cache[key]; ok {
		return nil
	}

	sides, err := buildMaps(size, correctionType, calib)
	if err != nil {
		return err
	}

	e.cache[key] = sides
	return nil
}

// Apply performs bilinear remap into a new buffer with constant-zero
// fill. Maps are looked up by the frame's own size and built on first
// use, so a frame whose size differs from an earlier Build is not
// rejected. It fails with ErrSizeMismatch only when no maps exist for
// side or frame.Bytes does not hold Width*Height RGB888 pixels.
func (e *Engine) Apply(side smartscope.CameraSide, correctionType smartscope.CorrectionType, calib Calibration, frame smartscope.DecodedFrame) (smartscope.DecodedFrame, error) {
	size := smartscope.Size{Width: frame.Width, Height: frame.Height}
	key := cacheKey{size: size, correctionType: correctionType, calibHash: calib.Hash()}

	e.mutex.Lock()
	sides, ok := e.cache[key]
	e.mutex.Unlock()

	if !ok {
		if err := e.Build(size, correctionType, calib); err != nil {
			return smartscope.DecodedFrame{}, err
		}
		e.mutex.Lock()
		sides = e.cache[key]
		e.mutex.Unlock()
	}

	maps, ok := sides[side]
	if !ok {
		return smartscope.DecodedFrame{}, smartscope.NewError("correction.Apply", smartscope.ErrSizeMismatch,
			fmt.Errorf("no maps built for side %s", side))
	}

	src, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC3, frame.Bytes)
	if err != nil {
		return smartscope.DecodedFrame{}, smartscope.NewError("correction.Apply", smartscope.ErrSizeMismatch, err)
	}
	defer src.Close()

	if src.Cols() != maps.mapX.Cols() || src.Rows() != maps.mapX.Rows() {
		return smartscope.DecodedFrame{}, smartscope.NewError("correction.Apply", smartscope.ErrSizeMismatch,
			fmt.Errorf("frame %dx%d does not match map size %dx%d", src.Cols(), src.Rows(), maps.mapX.Cols(), maps.mapX.Rows()))
	}

	dst := gocv.NewMat()
	defer dst.Close()

	gocv.Remap(src, &dst, &maps.mapX, &maps.mapY, gocv.InterpolationLinear, gocv.BorderConstant, color.RGBA{})

	out := make([]byte, dst.Total()*dst.Channels())
	copy(out, dst.ToBytes())

	return smartscope.DecodedFrame{
		Side:              frame.Side,
		Width:             dst.Cols(),
		Height:            dst.Rows(),
		Bytes:             out,
		SourceTimestampNs: frame.SourceTimestampNs,
	}, nil
}

// Describe returns the exported summary of one side's built maps, for
// status/debug reporting. ok is false if nothing has been built yet for
// that key.
func (e *Engine) Describe(side smartscope.CameraSide, size smartscope.Size, correctionType smartscope.CorrectionType, calib Calibration) (smartscope.RemapTables, bool) {
	key := cacheKey{size: size, correctionType: correctionType, calibHash: calib.Hash()}

	e.mutex.Lock()
	defer e.mutex.Unlock()

	sides, ok := e.cache[key]
	if !ok {
		return smartscope.RemapTables{}, false
	}
	maps, ok := sides[side]
	if !ok {
		return smartscope.RemapTables{}, false
	}

	return smartscope.RemapTables{
		Size:           size,
		CorrectionType: correctionType,
		CalibrationKey: key.calibHash,
		MapX:           matToFloat32Rows(maps.mapX),
		MapY:           matToFloat32Rows(maps.mapY),
		ROI:            maps.roi,
	}, true
}

func matToFloat32Rows(m gocv.Mat) [][]float32 {
	rows := m.Rows()
	cols := m.Cols()
	out := make([][]float32, rows)
	for r := 0; r < rows; r++ {
		row := make([]float32, cols)
		for c := 0; c < cols; c++ {
			row[c] = m.GetFloatAt(r, c)
		}
		out[r] = row
	}
	return out
}

// Close releases every cached gocv Mat.
func (e *Engine) Close() {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	for _, sides := range e.cache {
		for _, m := range sides {
			m.mapX.Close()
			m.mapY.Close()
		}
	}
	e.cache = make(map[cacheKey]map[smartscope.CameraSide]*pairMaps)
}

func buildMaps(size smartscope.Size, correctionType smartscope.CorrectionType, calib Calibration) (map[smartscope.CameraSide]*pairMaps, error) {
	out := make(map[smartscope.CameraSide]*pairMaps)

	leftK := cameraMatrix(calib.Left)
	defer leftK.Close()
	leftD := distCoeffs(calib.Left)
	defer leftD.Close()

	if correctionType == smartscope.CorrectionUndistort {
		identity := identity3x3()
		defer identity.Close()

		mapX, mapY, err := initUndistortMap(leftK, leftD, identity, leftK, size)
		if err != nil {
			return nil, err
		}
		out[smartscope.SideSingle] = &pairMaps{mapX: mapX, mapY: mapY}
		out[smartscope.SideLeft] = &pairMaps{mapX: mapX, mapY: mapY}
		return out, nil
	}

	rightK := cameraMatrix(calib.Right)
	defer rightK.Close()
	rightD := distCoeffs(calib.Right)
	defer rightD.Close()

	r1, r2, p1, p2, roi1, roi2, err := stereoRectify(leftK, leftD, rightK, rightD, size, calib.Ext)
	if err != nil {
		return nil, err
	}
	defer r1.Close()
	defer r2.Close()
	defer p1.Close()
	defer p2.Close()

	// the rectified projection matrices p1/p2, not the original camera
	// matrices, are the "new camera matrix" here — they carry the
	// reprojection that aligns epipolar lines across the pair.
	leftMapX, leftMapY, err := initUndistortMap(leftK, leftD, r1, p1, size)
	if err != nil {
		return nil, err
	}
	rightMapX, rightMapY, err := initUndistortMap(rightK, rightD, r2, p2, size)
	if err != nil {
		return nil, err
	}

	out[smartscope.SideLeft] = &pairMaps{mapX: leftMapX, mapY: leftMapY, roi: roi1}
	out[smartscope.SideRight] = &pairMaps{mapX: rightMapX, mapY: rightMapY, roi: roi2}

	return out, nil
}
