// Package externalcmd supervises external-process subprocesses: it starts
// a command, restarts it on exit if configured to, and terminates it
// cleanly when asked to close. It is the ambient building block for any
// component that hands a frame off to a process SmartScope does not
// control the lifecycle of internally (§4.M's recorder backend).
package externalcmd

import (
	"time"
)

// restartPause is how long run waits before relaunching a restart-enabled
// command after it exits on its own.
const restartPause = 2 * time.Second

// Environment is a name-to-value map. Cmd does not read it: arguments
// are passed to exec unchanged, with no substitution.
type Environment map[string]string

// Cmd supervises one external process under a Pool.
type Cmd struct {
	pool    *Pool
	name    string
	args    []string
	restart bool
	onExit  func(error)

	// in
	terminate chan struct{}
	// out
	done chan struct{}
}

// NewCmd starts name with args under pool's supervision and returns
// immediately; the process runs on its own goroutine. onExit, if non-nil,
// is called every time the process exits on its own (error is nil on a
// clean exit) — it is never called for an exit caused by Close.
func NewCmd(pool *Pool, name string, args []string, restart bool, onExit func(error)) *Cmd {
	c := &Cmd{
		pool:      pool,
		name:      name,
		args:      args,
		restart:   restart,
		onExit:    onExit,
		terminate: make(chan struct{}),
		done:      make(chan struct{}),
	}

	pool.wg.Add(1)
	go c.run()

	return c
}

// Close requests the process terminate. It doesn't wait for the process to
// exit; use Done or Pool.Close to wait for that.
func (c *Cmd) Close() {
	close(c.terminate)
}

// Done returns a channel that closes once this Cmd's goroutine has
// returned. That happens only after Close: a process that exits on its
// own with restart false leaves the goroutine waiting for Close.
func (c *Cmd) Done() <-chan struct{} {
	return c.done
}

func (c *Cmd) run() {
	defer c.pool.wg.Done()
	defer close(c.done)

	for {
		terminated, err := c.runOnce()
		if terminated {
			return
		}

		if c.onExit != nil {
			c.onExit(err)
		}

		if !c.restart {
			<-c.terminate
			return
		}

		select {
		case <-time.After(restartPause):
		case <-c.terminate:
			return
		}
	}
}
