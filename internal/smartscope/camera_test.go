package smartscope

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsHDMIReceiverMatchesCaseInsensitively(t *testing.T) {
	require.True(t, IsHDMIReceiver("HDMI to CSI bridge"))
	require.True(t, IsHDMIReceiver("rk_hdmirx"))
	require.False(t, IsHDMIReceiver("USB2.0 Camera"))
}

func TestDeriveCameraModeNoDevices(t *testing.T) {
	mode, left, right := DeriveCameraMode(nil, nil, nil)
	require.Equal(t, ModeNoCamera, mode)
	require.Nil(t, left)
	require.Nil(t, right)
}

func TestDeriveCameraModeSingleDevice(t *testing.T) {
	devices := []CameraDevice{{Name: "USB Camera"}}
	mode, left, right := DeriveCameraMode(devices, []string{"left"}, []string{"right"})
	require.Equal(t, ModeSingle, mode)
	require.NotNil(t, left)
	require.Nil(t, right)
}

func TestDeriveCameraModeStereoPair(t *testing.T) {
	devices := []CameraDevice{
		{Name: "cameraL endoscope"},
		{Name: "cameraR endoscope"},
	}
	mode, left, right := DeriveCameraMode(devices, []string{"cameral"}, []string{"camerar"})
	require.Equal(t, ModeStereo, mode)
	require.Equal(t, "cameraL endoscope", left.Name)
	require.Equal(t, "cameraR endoscope", right.Name)
}

func TestDeriveCameraModeMoreThanTwoWithoutPairPicksFirstMatch(t *testing.T) {
	devices := []CameraDevice{
		{Name: "unrelated webcam"},
		{Name: "cameraL scope"},
		{Name: "another webcam"},
	}
	mode, left, right := DeriveCameraMode(devices, []string{"cameral"}, []string{"camerar"})
	require.Equal(t, ModeSingle, mode)
	require.Equal(t, "cameraL scope", left.Name)
	require.Nil(t, right)
}

func TestDeriveCameraModeMoreThanTwoNoMatchPicksFirstDevice(t *testing.T) {
	devices := []CameraDevice{
		{Name: "unrelated webcam one"},
		{Name: "unrelated webcam two"},
		{Name: "unrelated webcam three"},
	}
	mode, left, right := DeriveCameraMode(devices, []string{"cameral"}, []string{"camerar"})
	require.Equal(t, ModeSingle, mode)
	require.Equal(t, "unrelated webcam one", left.Name)
	require.Nil(t, right)
}

func TestVideoTransformApplyRotationWrapsAt360(t *testing.T) {
	var transform VideoTransform
	for i := 0; i < 4; i++ {
		transform.ApplyRotation()
	}
	require.Equal(t, 0, transform.RotationDeg)
}

func TestVideoTransformSetRotationNormalizesNegative(t *testing.T) {
	var transform VideoTransform
	transform.SetRotation(-90)
	require.Equal(t, 270, transform.RotationDeg)
}

func TestVideoTransformResetReturnsToIdentity(t *testing.T) {
	transform := VideoTransform{RotationDeg: 180, FlipHorizontal: true, Invert: true}
	transform.Reset()
	require.Equal(t, VideoTransform{}, transform)
}
