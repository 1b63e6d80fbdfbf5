// Package events runs the optional polling callback sidecars of §4.N: one
// private goroutine per registered callback, firing only when its
// getter's content actually changed.
package events

import (
	"bytes"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Getter fetches the current value a callback watches. Returning an error
// skips that poll tick without firing.
type Getter func() (interface{}, error)

// Callback is invoked with the new value when Getter's result changed
// since the last fire.
type Callback func(value interface{})

// Registration owns one callback's private polling goroutine.
type Registration struct {
	enabled atomic.Bool

	getter   Getter
	callback Callback
	interval time.Duration

	lastJSON []byte
	mutex    sync.Mutex

	cancel chan struct{}
	done   chan struct{}
}

// Register starts a new sidecar polling at 1/maxFPS cadence. At most one
// registration per kind is meant to be active at a time; callers are
// responsible for calling Unregister on the previous one before
// registering a replacement of the same kind.
func Register(getter Getter, callback Callback, maxFPS int) *Registration {
	if maxFPS <= 0 {
		maxFPS = 1
	}

	r := &Registration{
		getter:   getter,
		callback: callback,
		interval: time.Second / time.Duration(maxFPS),
		cancel:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	r.enabled.Store(true)

	go r.run()

	return r
}

// SetEnabled toggles whether poll ticks are allowed to fire. Disabling
// does not stop the polling goroutine, only its side effects.
func (r *Registration) SetEnabled(enabled bool) {
	r.enabled.Store(enabled)
}

// Unregister stops the polling goroutine and joins it.
func (r *Registration) Unregister() {
	close(r.cancel)
	<-r.done
}

func (r *Registration) run() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.cancel:
			return
		case <-ticker.C:
			r.tick()
		}
	}
}

func (r *Registration) tick() {
	if !r.enabled.Load() {
		return
	}

	value, err := r.getter()
	if err != nil {
		return
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return
	}

	r.mutex.Lock()
	changed := !bytes.Equal(r.lastJSON, encoded)
	if changed {
		r.lastJSON = encoded
	}
	r.mutex.Unlock()

	if changed {
		r.callback(value)
	}
}
