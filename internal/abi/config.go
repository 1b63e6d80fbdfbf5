package abi

import (
	"github.com/smartscope-embedded/smartscope/internal/conf"
	"github.com/smartscope-embedded/smartscope/internal/confwatcher"
	"github.com/smartscope-embedded/smartscope/internal/logger"
	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

// Version is the façade's reported build version, surfaced through
// get_version().
const Version = "v0.1.0"

// LoadConfig reloads the configuration document from path and installs it,
// following the same missing/malformed-file-falls-back-to-defaults
// contract as startup.
func (f *Facade) LoadConfig(path string) error {
	c, _, err := conf.Load(path)
	if err != nil {
		return smartscope.NewError("abi.LoadConfig", smartscope.ErrConfig, err)
	}
	if err := f.ReloadConf(c); err != nil {
		return err
	}

	f.confMutex.Lock()
	f.confPath = path
	f.confMutex.Unlock()

	return nil
}

// SaveConfig writes the current configuration document to path.
func (f *Facade) SaveConfig(path string) error {
	c := f.Conf()
	if err := c.Save(path); err != nil {
		return smartscope.NewError("abi.SaveConfig", smartscope.ErrIO, err)
	}
	return nil
}

// EnableConfigHotReload starts watching path for changes, reloading and
// installing the configuration on every write. Replaces any watcher
// already running.
func (f *Facade) EnableConfigHotReload(path string) error {
	w, err := confwatcher.New(path)
	if err != nil {
		return smartscope.NewError("abi.EnableConfigHotReload", smartscope.ErrIO, err)
	}

	f.confWatcherMutex.Lock()
	prev := f.confWatcher
	f.confWatcher = w
	f.confWatcherMutex.Unlock()

	if prev != nil {
		prev.Close()
	}

	go f.watchConf(w, path)

	return nil
}

// DisableConfigHotReload stops the active watcher, if any. Safe to call
// when hot reload was never enabled.
func (f *Facade) DisableConfigHotReload() {
	f.confWatcherMutex.Lock()
	w := f.confWatcher
	f.confWatcher = nil
	f.confWatcherMutex.Unlock()

	if w != nil {
		w.Close()
	}
}

func (f *Facade) watchConf(w *confwatcher.ConfWatcher, path string) {
	for range w.Watch() {
		c, _, err := conf.Load(path)
		if err != nil {
			if f.Log != nil {
				f.Log.Log(logger.Warn, "config hot-reload: %s", err)
			}
			continue
		}
		if err := f.ReloadConf(c); err != nil && f.Log != nil {
			f.Log.Log(logger.Warn, "config hot-reload: %s", err)
		}
	}
}
