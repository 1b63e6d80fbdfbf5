package externalcmd

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCmdRunsToCompletionAndCallsOnExit(t *testing.T) {
	pool := NewPool()

	var exitErr atomic.Value
	exitErr.Store(error(nil))
	done := make(chan struct{})

	c := NewCmd(pool, "/bin/sh", []string{"-c", "exit 0"}, false, func(err error) {
		exitErr.Store(err)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("onExit was never called")
	}

	c.Close()
	pool.Close()
}

func TestCmdCloseTerminatesWithoutCallingOnExit(t *testing.T) {
	pool := NewPool()

	called := atomic.Bool{}
	c := NewCmd(pool, "/bin/sh", []string{"-c", "sleep 30"}, false, func(error) {
		called.Store(true)
	})

	time.Sleep(100 * time.Millisecond)
	c.Close()
	pool.Close()

	require.False(t, called.Load())
}

func TestCmdRestartRelaunchesAfterExit(t *testing.T) {
	pool := NewPool()

	var runs atomic.Int32
	c := NewCmd(pool, "/bin/sh", []string{"-c", "exit 1"}, true, func(error) {
		runs.Add(1)
	})

	require.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, 5*time.Second, 10*time.Millisecond)

	c.Close()
	pool.Close()
}

func TestCmdDoneClosesAfterExplicitClose(t *testing.T) {
	pool := NewPool()
	defer pool.Close()

	c := NewCmd(pool, "/bin/sh", []string{"-c", "sleep 30"}, false, nil)

	select {
	case <-c.Done():
		t.Fatal("Done closed before Close was called")
	case <-time.After(100 * time.Millisecond):
	}

	c.Close()

	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done did not close after Close")
	}
}

func TestPoolCloseWaitsForSupervisedCommand(t *testing.T) {
	pool := NewPool()

	c := NewCmd(pool, "/bin/sh", []string{"-c", "sleep 30"}, false, nil)

	closed := make(chan struct{})
	go func() {
		pool.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Pool.Close returned before the command was asked to stop")
	case <-time.After(100 * time.Millisecond):
	}

	c.Close()

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Pool.Close did not return after Close")
	}
}
