// Package abi is the single process-wide façade the C-shared entry point
// and the CLI both call through, per §4.L. It owns every long-lived
// subsystem (camera mode, correction, inference, storage, recording) and
// exposes a narrow, allocation-free surface suited to being re-exported as
// flat C functions: integer/pointer in, integer error code out.
package abi

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/smartscope-embedded/smartscope/internal/cameramode"
	"github.com/smartscope-embedded/smartscope/internal/conf"
	"github.com/smartscope-embedded/smartscope/internal/confwatcher"
	"github.com/smartscope-embedded/smartscope/internal/correction"
	"github.com/smartscope-embedded/smartscope/internal/events"
	"github.com/smartscope-embedded/smartscope/internal/hotplug"
	"github.com/smartscope-embedded/smartscope/internal/inference"
	"github.com/smartscope-embedded/smartscope/internal/logger"
	"github.com/smartscope-embedded/smartscope/internal/recorder"
	"github.com/smartscope-embedded/smartscope/internal/smartscope"
	"github.com/smartscope-embedded/smartscope/internal/storage"
	"github.com/smartscope-embedded/smartscope/internal/videotransform"
)

// Status is the error-code enum every exported call reduces to, matching
// §4.L's C caller contract.
type Status int32

// status codes.
const (
	StatusSuccess      Status = 0
	StatusError        Status = -1
	StatusNullPointer  Status = -2
	StatusConfigError  Status = -3
	StatusNotFound     Status = -4
	StatusIOError      Status = -5
	StatusTimeout      Status = -6
)

func statusFor(err error) Status {
	if err == nil {
		return StatusSuccess
	}

	var sErr *smartscope.Error
	if asSmartscopeError(err, &sErr) {
		switch sErr.Kind {
		case smartscope.ErrConfig, smartscope.ErrParameterParse:
			return StatusConfigError
		case smartscope.ErrDeviceNotFound, smartscope.ErrNotInitialized:
			return StatusNotFound
		case smartscope.ErrIO, smartscope.ErrDeviceLost, smartscope.ErrDeviceOperationFailed:
			return StatusIOError
		case smartscope.ErrTimeout:
			return StatusTimeout
		}
	}

	return StatusError
}

func asSmartscopeError(err error, target **smartscope.Error) bool {
	for err != nil {
		if se, ok := err.(*smartscope.Error); ok {
			*target = se
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Facade is the process-wide singleton wiring every subsystem together.
// The zero value is not usable; build one with New.
type Facade struct {
	Log logger.Writer

	confMutex sync.RWMutex
	conf      *conf.Conf
	confPath  string

	transformMutex sync.Mutex
	transform      smartscope.VideoTransform

	calibMutex sync.RWMutex
	calib      correction.Calibration

	correctionType smartscope.CorrectionType

	monitor    *hotplug.Monitor
	controller *cameramode.Controller
	engine     *correction.Engine
	pool       *inference.Pool
	resolver   *storage.Resolver
	recorder   *recorder.Dispatcher

	// cameraRunning gates GetFrame/GetPairedFrames: the camera-mode
	// controller always runs (it reacts to hotplug regardless). New sets
	// it, so frames are delivered from startup; a C caller that called
	// StopCamera sees no frames until StartCamera is called again.
	cameraRunning atomic.Bool

	confWatcherMutex sync.Mutex
	confWatcher      *confwatcher.ConfWatcher

	eventsMutex sync.Mutex
	activeEvent map[string]*events.Registration

	ctx    context.Context
	cancel context.CancelFunc
}

// New builds and starts a Facade from a loaded configuration. It is the
// only place in the process that constructs the long-lived subsystems.
func New(c *conf.Conf, confPath string, log logger.Writer) (*Facade, error) {
	f := &Facade{
		Log:         log,
		conf:        c,
		confPath:    confPath,
		activeEvent: make(map[string]*events.Registration),
	}

	f.ctx, f.cancel = context.WithCancel(context.Background())

	f.monitor = hotplug.New(time.Duration(c.PollIntervalMS)*time.Millisecond, c.Cameras.Left.SearchKeywords, c.Cameras.Right.SearchKeywords)
	f.monitor.Start(f.ctx)

	f.controller = cameramode.New(f.monitor, c.Cameras, int64(c.PairWindowMS))
	f.controller.Run(f.ctx)

	f.engine = correction.NewEngine()

	f.resolver = storage.NewResolver(storageLocationFromConf(c.Storage))

	rec, err := recorder.NewDispatcher(log, c.Recorder.ExtraArgs)
	if err != nil {
		f.Close()
		return nil, err
	}
	f.recorder = rec

	if c.Inference.Enabled {
		pool, err := inference.NewNPUService(c.Inference)
		if err != nil {
			f.Close()
			return nil, err
		}
		f.pool = pool
	}

	f.cameraRunning.Store(true)

	if c.EnableConfigHotReload {
		_ = f.EnableConfigHotReload(confPath) //nolint:errcheck
	}

	return f, nil
}

func storageLocationFromConf(c conf.StorageConf) smartscope.StorageLocation {
	kind := smartscope.StorageInternal
	if c.Location == "external" {
		kind = smartscope.StorageExternal
	}
	return smartscope.StorageLocation{
		Kind:                 kind,
		InternalBasePath:     c.InternalBasePath,
		ExternalDevicePath:   c.ExternalDevice,
		ExternalRelativePath: c.ExternalRelativePath,
		AutoRecover:          c.AutoRecover,
	}
}

// Close tears down every subsystem the Facade owns. Safe to call once.
func (f *Facade) Close() {
	if f.cancel != nil {
		f.cancel()
	}
	if f.controller != nil {
		f.controller.Close()
	}
	if f.monitor != nil {
		f.monitor.Close()
	}
	if f.pool != nil {
		f.pool.Close()
	}
	if f.engine != nil {
		f.engine.Close()
	}
	if f.recorder != nil {
		if f.recorder.Active() {
			f.recorder.Stop()
		}
		f.recorder.Close()
	}
	f.DisableConfigHotReload()

	f.eventsMutex.Lock()
	for _, r := range f.activeEvent {
		r.Unregister()
	}
	f.activeEvent = make(map[string]*events.Registration)
	f.eventsMutex.Unlock()
}

// Conf returns a snapshot of the current configuration document.
func (f *Facade) Conf() conf.Conf {
	f.confMutex.RLock()
	defer f.confMutex.RUnlock()
	return *f.conf
}

// ReloadConf atomically swaps the configuration document, validating it
// first. It does not restart subsystems bound at New time (camera
// bindings, the inference pool) — callers wanting those changes to take
// effect must restart the process.
func (f *Facade) ReloadConf(c *conf.Conf) error {
	if err := c.Validate(); err != nil {
		return smartscope.NewError("abi.ReloadConf", smartscope.ErrConfig, err)
	}

	f.confMutex.Lock()
	f.conf = c
	f.confMutex.Unlock()

	return nil
}
