package abi

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/smartscope-embedded/smartscope/internal/conf"
	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

func testConf(t *testing.T) *conf.Conf {
	t.Helper()
	c := &conf.Conf{
		PollIntervalMS: 1000,
		PairWindowMS:   50,
		Storage: conf.StorageConf{
			Location:         "internal",
			InternalBasePath: t.TempDir(),
		},
		Inference: conf.InferenceConf{
			Enabled: false,
		},
	}
	return c
}

func newTestFacade(t *testing.T) *Facade {
	t.Helper()
	f, err := New(testConf(t), "", nil)
	require.NoError(t, err)
	t.Cleanup(f.Close)
	return f
}

func TestNewStartsInNoCameraMode(t *testing.T) {
	f := newTestFacade(t)
	require.Equal(t, smartscope.ModeNoCamera, f.Snapshot().Mode)
}

func TestGetFrameWithNoCameraReturnsNotOK(t *testing.T) {
	f := newTestFacade(t)
	frame, ok, err := f.GetFrame(smartscope.SideSingle)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, Frame{}, frame)
}

func TestVideoTransformRoundTrip(t *testing.T) {
	f := newTestFacade(t)

	f.SetRotation(90)
	f.SetFlip(true, false)
	f.SetInvert(true)

	transform := f.VideoTransform()
	require.Equal(t, 90, transform.RotationDeg)
	require.True(t, transform.FlipHorizontal)
	require.False(t, transform.FlipVertical)
	require.True(t, transform.Invert)

	f.ResetVideoTransform()
	require.Equal(t, smartscope.VideoTransform{}, f.VideoTransform())
}

func TestRotateVideoAdvancesBy90(t *testing.T) {
	f := newTestFacade(t)
	f.RotateVideo()
	require.Equal(t, 90, f.VideoTransform().RotationDeg)
	f.RotateVideo()
	require.Equal(t, 180, f.VideoTransform().RotationDeg)
}

func TestResolveSessionPathCreatesDirectory(t *testing.T) {
	f := newTestFacade(t)

	path, err := f.ResolveSessionPath(smartscope.CategoryPictures, "single")
	require.NoError(t, err)
	require.NotEmpty(t, path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestInferenceDisabledReturnsNotInitialized(t *testing.T) {
	f := newTestFacade(t)

	err := f.SubmitInference(smartscope.SideSingle, smartscope.DecodedFrame{Width: 4, Height: 4, Bytes: make([]byte, 4*4*3)})
	require.Error(t, err)

	_, _, err = f.TryGetLatestDetections()
	require.Error(t, err)

	_, err = f.InferenceBlocking(smartscope.DecodedFrame{Width: 4, Height: 4, Bytes: make([]byte, 4*4*3)}, time.Millisecond)
	require.Error(t, err)

	require.False(t, f.InferenceEnabled())
}

func TestRegisterCallbackFiresAndUnregisterStops(t *testing.T) {
	f := newTestFacade(t)

	var fires atomic.Int64
	err := f.RegisterCallback(EventCapabilityChanged, 100, func(value interface{}) {
		fires.Add(1)
	})
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	require.GreaterOrEqual(t, fires.Load(), int64(1))

	f.UnregisterCallback(EventCapabilityChanged)
	observed := fires.Load()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, observed, fires.Load())
}

func TestRegisterCallbackUnknownKindFails(t *testing.T) {
	f := newTestFacade(t)
	err := f.RegisterCallback(EventKind("bogus"), 10, func(interface{}) {})
	require.Error(t, err)
}

func TestStorageSettersMutateConfAndResolver(t *testing.T) {
	f := newTestFacade(t)

	newBase := t.TempDir()
	f.SetInternalBasePath(newBase)
	require.Equal(t, newBase, f.Conf().Storage.InternalBasePath)
	require.Equal(t, newBase, f.resolver.Location.InternalBasePath)

	f.SetExternalDevice("/dev/sda1")
	require.Equal(t, "/dev/sda1", f.Conf().Storage.ExternalDevice)
	require.Equal(t, "/dev/sda1", f.resolver.Location.ExternalDevicePath)

	f.SetExternalRelativePath("scope")
	require.Equal(t, "scope", f.Conf().Storage.ExternalRelativePath)

	f.SetAutoRecover(true)
	require.True(t, f.Conf().Storage.AutoRecover)

	require.NoError(t, f.SetStorageLocation("external"))
	require.Equal(t, smartscope.StorageExternal, f.resolver.Location.Kind)

	require.Error(t, f.SetStorageLocation("nonsense"))
}

func TestStorageConfigJSONRoundTrips(t *testing.T) {
	f := newTestFacade(t)

	j, err := f.StorageConfigJSON()
	require.NoError(t, err)
	require.Contains(t, j, `"location":"internal"`)
}

func TestListExternalStoragesJSONIsAnArray(t *testing.T) {
	f := newTestFacade(t)

	mountsPath := t.TempDir() + "/mounts"
	require.NoError(t, os.WriteFile(mountsPath, []byte("rootfs / rootfs rw 0 0\n"), 0o644))
	f.resolver.MountsPath = mountsPath
	f.resolver.ByLabelDir = t.TempDir()

	j, err := f.ListExternalStoragesJSON()
	require.NoError(t, err)
	require.Equal(t, "[]", j)
}

func TestInitInferenceRejectsBadModelPath(t *testing.T) {
	f := newTestFacade(t)

	err := f.InitInference(t.TempDir()+"/does-not-exist.rknn", "", 1)
	require.Error(t, err)

	require.NoError(t, f.ShutdownInference())
}

func TestStatusForMapsErrorKinds(t *testing.T) {
	require.Equal(t, StatusSuccess, statusFor(nil))
	require.Equal(t, StatusConfigError, statusFor(smartscope.NewError("op", smartscope.ErrConfig, fmt.Errorf("x"))))
	require.Equal(t, StatusNotFound, statusFor(smartscope.NewError("op", smartscope.ErrDeviceNotFound, fmt.Errorf("x"))))
	require.Equal(t, StatusIOError, statusFor(smartscope.NewError("op", smartscope.ErrIO, fmt.Errorf("x"))))
	require.Equal(t, StatusTimeout, statusFor(smartscope.NewError("op", smartscope.ErrTimeout, nil)))
	require.Equal(t, StatusError, statusFor(fmt.Errorf("plain")))
}
