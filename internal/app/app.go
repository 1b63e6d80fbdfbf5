// Package app contains the top-level process struct: configuration
// loading, signal handling and hot-reload, modeled directly on the
// teacher's internal/core.Core.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/smartscope-embedded/smartscope/internal/abi"
	"github.com/smartscope-embedded/smartscope/internal/conf"
	"github.com/smartscope-embedded/smartscope/internal/confwatcher"
	"github.com/smartscope-embedded/smartscope/internal/debugserver"
	"github.com/smartscope-embedded/smartscope/internal/logger"
	"github.com/smartscope-embedded/smartscope/internal/rlimit"
)

var version = "v0.0.0"

var defaultConfPath = "smartscope.json"

var cli struct {
	Version  bool   `help:"print version"`
	Confpath string `arg:"" default:""`
}

// App is the running process: configuration, logging, the façade and the
// optional debug sidecar.
type App struct {
	ctx       context.Context
	ctxCancel func()

	confPath string
	conf     *conf.Conf
	logger   *logger.Logger

	facade      *abi.Facade
	debugServer *debugserver.Server
	confWatcher *confwatcher.ConfWatcher

	done chan struct{}
}

// New parses args, loads configuration and starts the process. Returns
// ok=false if startup failed; the caller should os.Exit(1) in that case.
func New(args []string) (*App, bool) {
	parser, err := kong.New(&cli,
		kong.Description("SmartScope "+version),
		kong.UsageOnError(),
	)
	if err != nil {
		panic(err)
	}

	_, err = parser.Parse(args)
	parser.FatalIfErrorf(err)

	if cli.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	confPath := cli.Confpath
	if confPath == "" {
		confPath = defaultConfPath
	}

	ctx, ctxCancel := context.WithCancel(context.Background())

	a := &App{
		ctx:       ctx,
		ctxCancel: ctxCancel,
		confPath:  confPath,
		done:      make(chan struct{}),
	}

	c, found, err := conf.Load(confPath)
	if err != nil {
		fmt.Printf("ERR: %s\n", err)
		return nil, false
	}
	a.conf = c

	if err := a.createResources(found); err != nil {
		if a.logger != nil {
			a.Log(logger.Error, "%s", err)
		} else {
			fmt.Printf("ERR: %s\n", err)
		}
		a.closeResources()
		return nil, false
	}

	go a.run()

	return a, true
}

// Close stops the process and waits for it to exit.
func (a *App) Close() {
	a.ctxCancel()
	<-a.done
}

// Wait blocks until the process exits.
func (a *App) Wait() {
	<-a.done
}

// Log implements logger.Writer.
func (a *App) Log(level logger.Level, format string, args ...interface{}) {
	a.logger.Log(level, format, args...)
}

func (a *App) createResources(found bool) error {
	if a.logger == nil {
		l, err := logger.New(logger.Level(a.conf.LogLevel), []logger.Destination(a.conf.LogDestinations), false, a.conf.LogFile, "smartscope")
		if err != nil {
			return err
		}
		a.logger = l
	}

	abspath, _ := filepath.Abs(a.confPath)
	if found {
		a.Log(logger.Info, "configuration loaded from %s", abspath)
	} else {
		a.Log(logger.Warn, "configuration file not found at %s, using defaults", abspath)
	}

	rlimit.Raise() //nolint:errcheck

	f, err := abi.New(a.conf, a.confPath, a.logger)
	if err != nil {
		return err
	}
	a.facade = f

	if a.conf.Debug.Enabled {
		a.debugServer = &debugserver.Server{
			Address: a.conf.Debug.Address,
			Status:  a.facade,
			Parent:  a,
		}
		if err := a.debugServer.Initialize(); err != nil {
			return err
		}
	}

	if a.conf.EnableConfigHotReload {
		w, err := confwatcher.New(a.confPath)
		if err == nil {
			a.confWatcher = w
		}
	}

	return nil
}

func (a *App) closeResources() {
	if a.confWatcher != nil {
		a.confWatcher.Close()
		a.confWatcher = nil
	}
	if a.debugServer != nil {
		a.debugServer.Close()
		a.debugServer = nil
	}
	if a.facade != nil {
		a.facade.Close()
		a.facade = nil
	}
	if a.logger != nil {
		a.logger.Close()
	}
}

func (a *App) run() {
	defer close(a.done)

	confChanged := make(chan struct{})
	if a.confWatcher != nil {
		confChanged = a.confWatcher.Watch()
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

outer:
	for {
		select {
		case <-confChanged:
			a.Log(logger.Info, "reloading configuration (file changed)")

			newConf, _, err := conf.Load(a.confPath)
			if err != nil {
				a.Log(logger.Error, "%s", err)
				break outer
			}

			if err := a.facade.ReloadConf(newConf); err != nil {
				a.Log(logger.Error, "%s", err)
				break outer
			}
			a.conf = newConf

		case <-interrupt:
			a.Log(logger.Info, "shutting down gracefully")
			break outer

		case <-a.ctx.Done():
			break outer
		}
	}

	a.ctxCancel()
	a.closeResources()
}

// Facade exposes the process's façade, for a CLI front-end to drive
// manually.
func (a *App) Facade() *abi.Facade {
	return a.facade
}
