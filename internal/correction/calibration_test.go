package correction

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadIntrinsics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "camera0_intrinsics.dat")
	content := "intrinsic:\n" +
		"800.0, 0.0, 640.0,\n" +
		"0.0, 800.0, 360.0,\n" +
		"0.0, 0.0, 1.0,\n" +
		"distortion:\n" +
		"-0.1 0.02 0.001 -0.002 0.0003\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	intr, err := LoadIntrinsics(path)
	require.NoError(t, err)
	require.Equal(t, 800.0, intr.FX)
	require.Equal(t, 800.0, intr.FY)
	require.Equal(t, 640.0, intr.CX)
	require.Equal(t, 360.0, intr.CY)
	require.Equal(t, [5]float64{-0.1, 0.02, 0.001, -0.002, 0.0003}, intr.Dist)
}

func TestLoadIntrinsicsRejectsNonPositiveFocalLength(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "camera0_intrinsics.dat")
	content := "intrinsic:\n0 0 640\n0 0 360\n0 0 1\ndistortion:\n0 0 0 0 0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadIntrinsics(path)
	require.Error(t, err)
}

func TestLoadIntrinsicsMissingHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "camera0_intrinsics.dat")
	require.NoError(t, os.WriteFile(path, []byte("nonsense\n"), 0o644))

	_, err := LoadIntrinsics(path)
	require.Error(t, err)
}

func TestLoadIntrinsicsRejectsTooManyDistortionCoefficients(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "camera0_intrinsics.dat")
	content := "intrinsic:\n" +
		"800.0, 0.0, 640.0,\n" +
		"0.0, 800.0, 360.0,\n" +
		"0.0, 0.0, 1.0,\n" +
		"distortion:\n" +
		"-0.1 0.02 0.001 -0.002 0.0003 0.5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadIntrinsics(path)
	require.Error(t, err)
}

func TestLoadIntrinsicsRejectsTooFewIntrinsicValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "camera0_intrinsics.dat")
	content := "intrinsic:\n" +
		"800.0, 0.0, 640.0,\n" +
		"0.0, 800.0, 360.0,\n" +
		"distortion:\n" +
		"-0.1 0.02 0.001 -0.002 0.0003\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadIntrinsics(path)
	require.Error(t, err)
}

func TestLoadExtrinsics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "camera1_rot_trans.dat")
	content := "R:\n1 0 0\n0 1 0\n0 0 1\n" +
		"T:\n-60.0 0.0 0.0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	ext, err := LoadExtrinsics(path)
	require.NoError(t, err)
	require.Equal(t, [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, ext.R)
	require.Equal(t, [3]float64{-60, 0, 0}, ext.T)
}
