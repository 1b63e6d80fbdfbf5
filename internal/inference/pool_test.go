package inference

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeDetector struct {
	detections []RawDetection
	err        error
	closed     bool
}

func (f *fakeDetector) Infer(Image) ([]RawDetection, error) {
	return f.detections, f.err
}

func (f *fakeDetector) Close() error {
	f.closed = true
	return nil
}

func fakeFactory(detections []RawDetection, err error) DetectorFactory {
	return func() (Detector, error) {
		return &fakeDetector{detections: detections, err: err}, nil
	}
}

func TestPoolSubmitAndBlockingRoundTrip(t *testing.T) {
	dets := []RawDetection{{Left: 0, Top: 0, Right: 10, Bottom: 10, Confidence: 0.9, ClassID: 1}}

	p, err := NewPool(fakeFactory(dets, nil), 2, 4, 0.25, 0.5)
	require.NoError(t, err)
	defer p.Close()

	result, err := p.InferenceBlocking(64, 64, make([]byte, 64*64*3), time.Second)
	require.NoError(t, err)
	require.Len(t, result.Detections, 1)
	require.Equal(t, int32(1), result.Detections[0].ClassID)
}

func TestPoolResultCarriesLetterboxTransform(t *testing.T) {
	dets := []RawDetection{{Left: 0, Top: 0, Right: 10, Bottom: 10, Confidence: 0.9, ClassID: 1}}

	p, err := NewPool(fakeFactory(dets, nil), 1, 4, 0.25, 0.5)
	require.NoError(t, err)
	defer p.Close()

	// a non-square source frame forces a non-trivial (xPad,yPad,scale).
	result, err := p.InferenceBlocking(320, 640, make([]byte, 320*640*3), time.Second)
	require.NoError(t, err)

	require.NotZero(t, result.Transform.Scale)
	require.Greater(t, result.Transform.XPad, float32(0))
	require.Equal(t, float32(0), result.Transform.YPad)

	box := result.Detections[0].Box
	inverted := result.Transform.Invert(box)
	require.InDelta(t, float64((box.Left-result.Transform.XPad)/result.Transform.Scale), float64(inverted.Left), 0.001)
}

func TestPoolTryGetLatestResultAfterSubmit(t *testing.T) {
	dets := []RawDetection{{Left: 0, Top: 0, Right: 5, Bottom: 5, Confidence: 0.8, ClassID: 2}}
	p, err := NewPool(fakeFactory(dets, nil), 1, 4, 0.1, 0.5)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.InferenceBlocking(32, 32, make([]byte, 32*32*3), time.Second)
	require.NoError(t, err)

	result, ok := p.TryGetLatestResult()
	require.True(t, ok)
	require.Len(t, result.Detections, 1)
}

func TestPoolDisabledGateSkipsSubmitAndLatest(t *testing.T) {
	p, err := NewPool(fakeFactory(nil, nil), 1, 4, 0, 0.5)
	require.NoError(t, err)
	defer p.Close()

	p.SetEnabled(false)
	require.False(t, p.Enabled())

	_, ok := p.TryGetLatestResult()
	require.False(t, ok)
}

func TestPoolConstructionFailsIfAnyWorkerFailsToOpen(t *testing.T) {
	calls := 0
	factory := func() (Detector, error) {
		calls++
		if calls == 2 {
			return nil, errBoom{}
		}
		return &fakeDetector{}, nil
	}

	_, err := NewPool(factory, 3, 4, 0, 0.5)
	require.Error(t, err)
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
