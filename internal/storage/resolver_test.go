package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

func TestResolverInternalLocation(t *testing.T) {
	dir := t.TempDir()
	r := &Resolver{Location: smartscope.StorageLocation{
		Kind:             smartscope.StorageInternal,
		InternalBasePath: dir,
	}}

	path, err := r.Resolve(smartscope.CategoryScreenshots, "single", mustParseTime(t, "2026-01-02T03:04:05Z"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "Screenshots", "2026-01-02", "2026-01-02_03-04-05_single"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestResolverExternalFallsBackWhenMissingAndAutoRecover(t *testing.T) {
	internalDir := t.TempDir()
	scratch := t.TempDir()

	r := &Resolver{
		Location: smartscope.StorageLocation{
			Kind:               smartscope.StorageExternal,
			ExternalDevicePath: "/dev/sdz1",
			InternalBasePath:   internalDir,
			AutoRecover:        true,
		},
		MountsPath: filepath.Join(scratch, "mounts"),
		ByLabelDir: filepath.Join(scratch, "by-label"),
	}
	require.NoError(t, os.WriteFile(r.MountsPath, []byte(""), 0o644))
	require.NoError(t, os.MkdirAll(r.ByLabelDir, 0o755))

	path, err := r.Resolve(smartscope.CategoryVideos, "stereo", mustParseTime(t, "2026-01-02T03:04:05Z"))
	require.NoError(t, err)
	require.Contains(t, path, internalDir)
}

func TestResolverExternalMissingWithoutAutoRecoverReturnsEmpty(t *testing.T) {
	scratch := t.TempDir()

	r := &Resolver{
		Location: smartscope.StorageLocation{
			Kind:               smartscope.StorageExternal,
			ExternalDevicePath: "/dev/sdz1",
			AutoRecover:        false,
		},
		MountsPath: filepath.Join(scratch, "mounts"),
		ByLabelDir: filepath.Join(scratch, "by-label"),
	}
	require.NoError(t, os.WriteFile(r.MountsPath, []byte(""), 0o644))
	require.NoError(t, os.MkdirAll(r.ByLabelDir, 0o755))

	path, err := r.Resolve(smartscope.CategoryPictures, "single", mustParseTime(t, "2026-01-02T03:04:05Z"))
	require.NoError(t, err)
	require.Equal(t, "", path)
}
