package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	c, found, err := Load(path)
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, 1000, c.PollIntervalMS)
	require.Equal(t, 50, c.PairWindowMS)
	require.Equal(t, "internal", c.Storage.Location)
}

func TestLoadMalformedFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	c, found, err := Load(path)
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, 6, c.Inference.NumWorkers)
}

func TestLoadValidFileRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")

	c := &Conf{}
	c.setDefaults()
	c.PairWindowMS = 75
	require.NoError(t, c.Save(path))

	loaded, found, err := Load(path)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 75, loaded.PairWindowMS)
}

func TestValidateRejectsNonPositivePairWindow(t *testing.T) {
	c := &Conf{}
	c.setDefaults()
	c.PairWindowMS = 0
	require.Error(t, c.Validate())
}

func TestValidateRejectsUnknownStorageLocation(t *testing.T) {
	c := &Conf{}
	c.setDefaults()
	c.Storage.Location = "nowhere"
	require.Error(t, c.Validate())
}

func TestCloneProducesIndependentCopy(t *testing.T) {
	c := &Conf{}
	c.setDefaults()

	cloned, err := c.Clone()
	require.NoError(t, err)

	cloned.PairWindowMS = 999
	require.NotEqual(t, c.PairWindowMS, cloned.PairWindowMS)
}

func TestEqualComparesByJSONContent(t *testing.T) {
	a := &Conf{}
	a.setDefaults()
	b, err := a.Clone()
	require.NoError(t, err)

	eq, err := a.Equal(b)
	require.NoError(t, err)
	require.True(t, eq)

	b.PairWindowMS = a.PairWindowMS + 1
	eq, err = a.Equal(b)
	require.NoError(t, err)
	require.False(t, eq)
}
