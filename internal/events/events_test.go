package events

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegisterFiresOnlyOnChange(t *testing.T) {
	var counter atomic.Int64
	var fires atomic.Int64

	getter := func() (interface{}, error) {
		return counter.Load() / 3, nil
	}
	callback := func(value interface{}) {
		fires.Add(1)
	}

	r := Register(getter, callback, 200)
	defer r.Unregister()

	for i := 0; i < 15; i++ {
		counter.Add(1)
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(20 * time.Millisecond)

	require.Less(t, fires.Load(), int64(15))
	require.Greater(t, fires.Load(), int64(0))
}

func TestRegisterSetEnabledSuppressesCallback(t *testing.T) {
	var fires atomic.Int64

	getter := func() (interface{}, error) {
		return time.Now().UnixNano(), nil
	}
	callback := func(value interface{}) {
		fires.Add(1)
	}

	r := Register(getter, callback, 100)
	defer r.Unregister()

	r.SetEnabled(false)
	time.Sleep(50 * time.Millisecond)

	require.Equal(t, int64(0), fires.Load())
}

func TestUnregisterStopsPolling(t *testing.T) {
	var fires atomic.Int64

	getter := func() (interface{}, error) {
		return time.Now().UnixNano(), nil
	}
	callback := func(value interface{}) {
		fires.Add(1)
	}

	r := Register(getter, callback, 200)
	time.Sleep(20 * time.Millisecond)
	r.Unregister()

	observed := fires.Load()
	time.Sleep(30 * time.Millisecond)

	require.Equal(t, observed, fires.Load())
}

func TestGetterErrorSkipsTick(t *testing.T) {
	var fires atomic.Int64

	gotErr := func() (interface{}, error) {
		return nil, errFake
	}
	callback := func(value interface{}) {
		fires.Add(1)
	}

	r := Register(gotErr, callback, 200)
	defer r.Unregister()

	time.Sleep(30 * time.Millisecond)

	require.Equal(t, int64(0), fires.Load())
}

var errFake = fakeErr{}

type fakeErr struct{}

func (fakeErr) Error() string { return "fake" }
