// Package recorder dispatches the external screen-recording subprocess
// (wf-recorder or ffmpeg), per §4.M. The recorder's own lifecycle and
// encoding pipeline are a collaborator reached only through exec, never
// specified here.
package recorder

import (
	"fmt"
	"os/exec"
	"sync"
	"time"

	"code.cloudfoundry.org/bytefmt"
	shellquote "github.com/kballard/go-shellquote"

	"github.com/smartscope-embedded/smartscope/internal/externalcmd"
	"github.com/smartscope-embedded/smartscope/internal/logger"
	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

// backend is the probed recorder binary.
type backend int

const (
	backendNone backend = iota
	backendWfRecorder
	backendFFmpeg
)

func (b backend) String() string {
	switch b {
	case backendWfRecorder:
		return "wf-recorder"
	case backendFFmpeg:
		return "ffmpeg"
	default:
		return "none"
	}
}

// openDisplayDelay is how long start() waits for the subprocess to attach
// to the display before reporting recording as active.
const openDisplayDelay = 3 * time.Second

// Dispatcher starts and stops the external recorder subprocess, supervised
// through externalcmd so its lifecycle (start, terminate, exit handling)
// follows the same pattern the rest of the codebase uses for subprocesses
// it doesn't control internally.
type Dispatcher struct {
	Log logger.Writer

	backend   backend
	extraArgs []string

	dimsMutex     sync.Mutex
	width, height int
	fps           int

	pool *externalcmd.Pool

	mutex     sync.Mutex
	cmd       *externalcmd.Cmd
	active    bool
	outPath   string
	startedAt time.Time
	lastErr   error
}

// NewDispatcher probes PATH for wf-recorder, then ffmpeg. Neither being
// present is acceptable; start() then always fails with ErrIO.
func NewDispatcher(log logger.Writer, extraArgs string) (*Dispatcher, error) {
	args, err := shellquote.Split(extraArgs)
	if err != nil {
		return nil, smartscope.NewError("recorder.NewDispatcher", smartscope.ErrConfig, err)
	}

	d := &Dispatcher{Log: log, extraArgs: args, fps: 30, pool: externalcmd.NewPool()}

	if _, err := exec.LookPath("wf-recorder"); err == nil {
		d.backend = backendWfRecorder
		return d, nil
	}
	if _, err := exec.LookPath("ffmpeg"); err == nil {
		d.backend = backendFFmpeg
		return d, nil
	}

	d.backend = backendNone
	return d, nil
}

// Start launches the subprocess writing to outputPath, waiting
// openDisplayDelay before reporting success.
func (d *Dispatcher) Start(outputPath string) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.backend == backendNone {
		return smartscope.NewError("recorder.Start", smartscope.ErrIO, fmt.Errorf("no recorder backend on PATH"))
	}
	if d.active {
		return smartscope.NewError("recorder.Start", smartscope.ErrAlreadyInitialized, fmt.Errorf("recording already active"))
	}

	args := d.commandArgs(outputPath)
	cmd := externalcmd.NewCmd(d.pool, d.backend.String(), args, false, func(err error) {
		d.mutex.Lock()
		d.lastErr = err
		d.mutex.Unlock()
		if d.Log != nil && err != nil {
			d.Log.Log(logger.Warn, "recorder %s exited unexpectedly: %v", d.backend, err)
		}
	})

	d.cmd = cmd
	d.outPath = outputPath
	d.startedAt = time.Now()
	d.lastErr = nil

	time.Sleep(openDisplayDelay)
	d.active = true

	return nil
}

// SetDimensions configures the capture frame size applied by the next
// Start call. Zero leaves the backend's own default in effect.
func (d *Dispatcher) SetDimensions(width, height int) {
	d.dimsMutex.Lock()
	defer d.dimsMutex.Unlock()
	d.width, d.height = width, height
}

// SetFPS configures the capture frame rate applied by the next Start call.
func (d *Dispatcher) SetFPS(fps int) {
	d.dimsMutex.Lock()
	defer d.dimsMutex.Unlock()
	if fps > 0 {
		d.fps = fps
	}
}

// commandArgs builds hardware-safe defaults (30fps unless SetFPS changed
// it; yuv420p and ultrafast on the ffmpeg backend) plus whatever extra
// args the configuration supplies.
func (d *Dispatcher) commandArgs(outputPath string) []string {
	d.dimsMutex.Lock()
	width, height, fps := d.width, d.height, d.fps
	d.dimsMutex.Unlock()
	if fps <= 0 {
		fps = 30
	}

	fpsStr := fmt.Sprintf("%d", fps)

	var args []string
	switch d.backend {
	case backendWfRecorder:
		args = []string{"-r", fpsStr, "-f", outputPath}
		if width > 0 && height > 0 {
			args = append([]string{"-g", fmt.Sprintf("%dx%d", width, height)}, args...)
		}
	case backendFFmpeg:
		args = []string{"-f", "v4l2", "-framerate", fpsStr}
		if width > 0 && height > 0 {
			args = append(args, "-video_size", fmt.Sprintf("%dx%d", width, height))
		}
		args = append(args,
			"-pix_fmt", "yuv420p",
			"-preset", "ultrafast",
			"-i", "/dev/video0",
			outputPath,
		)
	}
	return append(args, d.extraArgs...)
}

// Stop requests termination and detaches a joiner goroutine that waits for
// exit and logs the output size; Stop itself returns promptly.
func (d *Dispatcher) Stop() error {
	d.mutex.Lock()
	cmd := d.cmd
	outPath := d.outPath
	active := d.active
	d.mutex.Unlock()

	if !active || cmd == nil {
		return smartscope.NewError("recorder.Stop", smartscope.ErrNotInitialized, fmt.Errorf("no active recording"))
	}

	cmd.Close()
	go d.join(cmd, outPath)

	d.mutex.Lock()
	d.active = false
	d.cmd = nil
	d.mutex.Unlock()

	return nil
}

func (d *Dispatcher) join(cmd *externalcmd.Cmd, outPath string) {
	<-cmd.Done()

	if d.Log == nil {
		return
	}

	if info, err := statSize(outPath); err == nil {
		d.Log.Log(logger.Info, "recording %s closed, size %s", outPath, bytefmt.ByteSize(info))
	}
}

// Close releases the Dispatcher's externalcmd.Pool. Callers must Stop any
// active recording first.
func (d *Dispatcher) Close() {
	d.pool.Close()
}

// Active reports whether a recording is currently running.
func (d *Dispatcher) Active() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.active
}

// Backend reports the probed backend name, or "none".
func (d *Dispatcher) Backend() string {
	return d.backend.String()
}

// OutputPath returns the path of the active recording, or the most recently
// stopped one if none is active.
func (d *Dispatcher) OutputPath() string {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.outPath
}

// Elapsed returns how long the current recording has been running. Zero if
// no recording is active.
func (d *Dispatcher) Elapsed() time.Duration {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if !d.active {
		return 0
	}
	return time.Since(d.startedAt)
}

// LastError returns the error the most recent recording exited with, or nil
// if it hasn't exited yet or exited cleanly.
func (d *Dispatcher) LastError() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.lastErr
}
