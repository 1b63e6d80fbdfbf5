package hotplug

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

func TestNewStartsWithZeroSnapshot(t *testing.T) {
	m := New(20*time.Millisecond, nil, nil)
	require.Equal(t, smartscope.ModeNoCamera, m.Current().Mode)
}

func TestStartPublishesInitialSnapshotOnNoCameraHost(t *testing.T) {
	m := New(20*time.Millisecond, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.Start(ctx)
	defer m.Close()

	time.Sleep(60 * time.Millisecond)

	snap := m.Current()
	require.Equal(t, smartscope.ModeNoCamera, snap.Mode)
	require.Empty(t, snap.Devices)
}

func TestCloseJoinsPollingGoroutine(t *testing.T) {
	m := New(10*time.Millisecond, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)

	cancel()
	m.Close()

	// Close must return promptly after the goroutine has joined; a second
	// Close-like wait on done would hang forever if the goroutine leaked.
	select {
	case <-m.done:
	default:
		t.Fatal("run goroutine did not signal done")
	}
}

func TestWatchDoesNotSignalWhenSnapshotIsUnchanged(t *testing.T) {
	m := New(5*time.Millisecond, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.Start(ctx)
	defer m.Close()

	// drain the initial signal, if any
	select {
	case <-m.Watch():
	case <-time.After(30 * time.Millisecond):
	}

	// on a camera-less host repeated polls see an identical empty snapshot,
	// so no further signal should arrive.
	select {
	case <-m.Watch():
		t.Fatal("unexpected signal for unchanged snapshot")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSameSnapshotDetectsModeAndDeviceChanges(t *testing.T) {
	a := Snapshot{Mode: smartscope.ModeNoCamera}
	b := Snapshot{Mode: smartscope.ModeSingle}
	require.False(t, sameSnapshot(a, b))

	dev := smartscope.CameraDevice{PrimaryPath: "/dev/video0"}
	c := Snapshot{Mode: smartscope.ModeSingle, Devices: []smartscope.CameraDevice{dev}}
	require.False(t, sameSnapshot(b, c))
	require.True(t, sameSnapshot(c, c))
}

func TestSamePathHandlesNilEndpoints(t *testing.T) {
	dev := &smartscope.CameraDevice{PrimaryPath: "/dev/video0"}
	require.True(t, samePath(nil, nil))
	require.False(t, samePath(nil, dev))
	require.False(t, samePath(dev, nil))
	require.True(t, samePath(dev, dev))
}
