// Package hotplug polls the device enumerator at a fixed cadence and
// publishes camera-mode transitions on a watch channel. No backlog: only
// the latest snapshot matters.
package hotplug

import (
	"context"
	"sync"
	"time"

	"github.com/smartscope-embedded/smartscope/internal/devices"
	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

// Snapshot is one published enumeration result.
type Snapshot struct {
	Mode    smartscope.CameraMode
	Left    *smartscope.CameraDevice
	Right   *smartscope.CameraDevice
	Devices []smartscope.CameraDevice
}

// Monitor runs the enumerate-compare-publish loop on its own goroutine.
type Monitor struct {
	pollInterval  time.Duration
	leftKeywords  []string
	rightKeywords []string

	mutex   sync.Mutex
	signal  chan struct{}
	current Snapshot

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New allocates a Monitor. It does not start polling until Start is called.
func New(pollInterval time.Duration, leftKeywords, rightKeywords []string) *Monitor {
	return &Monitor{
		pollInterval:  pollInterval,
		leftKeywords:  leftKeywords,
		rightKeywords: rightKeywords,
		signal:        make(chan struct{}, 1),
		done:          make(chan struct{}),
	}
}

// Start launches the polling goroutine.
func (m *Monitor) Start(ctx context.Context) {
	m.ctx, m.cancel = context.WithCancel(ctx)
	go m.run()
}

// Close stops the polling goroutine and joins it.
func (m *Monitor) Close() {
	if m.cancel != nil {
		m.cancel()
	}
	<-m.done
}

// Watch returns a channel that receives a notification whenever the
// published snapshot changes. It is never closed while the monitor runs.
func (m *Monitor) Watch() <-chan struct{} {
	return m.signal
}

// Current returns the most recently published snapshot.
func (m *Monitor) Current() Snapshot {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.current
}

func (m *Monitor) run() {
	defer close(m.done)

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	m.poll()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.poll()
		}
	}
}

func (m *Monitor) poll() {
	found, err := devices.Enumerate()
	if err != nil {
		return
	}

	mode, left, right := smartscope.DeriveCameraMode(found, m.leftKeywords, m.rightKeywords)

	next := Snapshot{Mode: mode, Left: left, Right: right, Devices: found}

	m.mutex.Lock()
	changed := !sameSnapshot(m.current, next)
	m.current = next
	m.mutex.Unlock()

	if changed {
		select {
		case m.signal <- struct{}{}:
		default:
		}
	}
}

func sameSnapshot(a, b Snapshot) bool {
	if a.Mode != b.Mode || len(a.Devices) != len(b.Devices) {
		return false
	}
	if !samePath(a.Left, b.Left) || !samePath(a.Right, b.Right) {
		return false
	}
	for i := range a.Devices {
		if a.Devices[i].PrimaryPath != b.Devices[i].PrimaryPath {
			return false
		}
	}
	return true
}

func samePath(a, b *smartscope.CameraDevice) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.PrimaryPath == b.PrimaryPath
}
