package cameramode

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/smartscope-embedded/smartscope/internal/conf"
	"github.com/smartscope-embedded/smartscope/internal/hotplug"
	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

func TestControllerStartsInNoCameraMode(t *testing.T) {
	monitor := hotplug.New(50*time.Millisecond, nil, nil)
	ctrl := New(monitor, conf.CamerasConf{}, 50)

	require.Equal(t, smartscope.ModeNoCamera, ctrl.Snapshot().Mode)
}

func TestControllerRunIsIdempotentOnNoCameraHost(t *testing.T) {
	monitor := hotplug.New(20*time.Millisecond, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	monitor.Start(ctx)
	defer monitor.Close()

	ctrl := New(monitor, conf.CamerasConf{}, 50)
	ctrl.Run(ctx)

	time.Sleep(100 * time.Millisecond)

	snap := ctrl.Snapshot()
	require.Equal(t, smartscope.ModeNoCamera, snap.Mode)
	require.Equal(t, 0, snap.CameraCount)

	cancel()
	ctrl.Close()
}
