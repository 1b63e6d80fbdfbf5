package abi

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/smartscope-embedded/smartscope/internal/conf"
	"github.com/smartscope-embedded/smartscope/internal/smartscope"
	"github.com/smartscope-embedded/smartscope/internal/storage"
)

// ResolveSessionPath creates and returns a writable session directory for
// category/mode, falling back from external to internal storage when
// configured to auto-recover. An empty path with a nil error means
// external storage was unreachable and auto-recovery is disabled.
func (f *Facade) ResolveSessionPath(category smartscope.SessionCategory, mode string) (string, error) {
	return f.resolver.Resolve(category, mode, time.Now())
}

// StartRecording resolves a session path under CategoryVideos and starts
// the external recorder subprocess writing into it.
func (f *Facade) StartRecording(mode string) (string, error) {
	path, err := f.ResolveSessionPath(smartscope.CategoryVideos, mode)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", smartscope.NewError("abi.StartRecording", smartscope.ErrIO, fmt.Errorf("no writable storage location"))
	}

	outputPath := path + ".mp4"
	if err := f.recorder.Start(outputPath); err != nil {
		return "", err
	}

	return outputPath, nil
}

// StopRecording stops the active recording, if any.
func (f *Facade) StopRecording() error {
	return f.recorder.Stop()
}

// RecordingActive reports whether a recording is currently running.
func (f *Facade) RecordingActive() bool {
	return f.recorder.Active()
}

// RecordingOutputPath returns the active (or most recently stopped)
// recording's output path.
func (f *Facade) RecordingOutputPath() string {
	return f.recorder.OutputPath()
}

// RecordingElapsed returns how long the active recording has been running.
func (f *Facade) RecordingElapsed() time.Duration {
	return f.recorder.Elapsed()
}

// RecordingLastError returns the error the most recent recording exited
// with, or nil.
func (f *Facade) RecordingLastError() error {
	return f.recorder.LastError()
}

// RecordingBackend reports the probed recorder binary name, or "none".
func (f *Facade) RecordingBackend() string {
	return f.recorder.Backend()
}

// SetRecordingDimensions configures the capture frame size used by the next
// StartRecording call.
func (f *Facade) SetRecordingDimensions(width, height int) {
	f.recorder.SetDimensions(width, height)
}

// SetRecordingFPS configures the capture frame rate used by the next
// StartRecording call.
func (f *Facade) SetRecordingFPS(fps int) {
	f.recorder.SetFPS(fps)
}

// mountEntryJSON is the wire shape for ListExternalStoragesJSON, independent
// of smartscope.MountEntry's internal field names.
type mountEntryJSON struct {
	DevicePath string `json:"device_path"`
	MountPoint string `json:"mount_point"`
	FSType     string `json:"fs_type"`
	Label      string `json:"label"`
}

// ListExternalStoragesJSON enumerates removable storage currently visible
// in the kernel mount table, as a JSON array.
func (f *Facade) ListExternalStoragesJSON() (string, error) {
	entries, err := storage.RemovableMounts(f.resolver.MountsPath, f.resolver.ByLabelDir)
	if err != nil {
		return "", err
	}

	out := make([]mountEntryJSON, len(entries))
	for i, e := range entries {
		out[i] = mountEntryJSON{DevicePath: e.DevicePath, MountPoint: e.MountPoint, FSType: e.FSType, Label: e.Label}
	}

	b, err := json.Marshal(out)
	if err != nil {
		return "", smartscope.NewError("abi.ListExternalStoragesJSON", smartscope.ErrIO, err)
	}
	return string(b), nil
}

// StorageConfigJSON returns the current storage-resolver configuration.
func (f *Facade) StorageConfigJSON() (string, error) {
	b, err := json.Marshal(f.Conf().Storage)
	if err != nil {
		return "", smartscope.NewError("abi.StorageConfigJSON", smartscope.ErrIO, err)
	}
	return string(b), nil
}

// storageMutate applies mutate to both the persisted configuration and the
// live Resolver, so a change takes effect on the very next ResolveSessionPath
// call rather than only after a reload.
func (f *Facade) storageMutate(mutate func(*conf.StorageConf)) {
	f.confMutex.Lock()
	mutate(&f.conf.Storage)
	loc := storageLocationFromConf(f.conf.Storage)
	f.confMutex.Unlock()

	f.resolver.Location = loc
}

// SetStorageLocation switches between "internal" and "external" storage.
func (f *Facade) SetStorageLocation(location string) error {
	if location != "internal" && location != "external" {
		return smartscope.NewError("abi.SetStorageLocation", smartscope.ErrConfig, fmt.Errorf("unknown storage location %q", location))
	}
	f.storageMutate(func(c *conf.StorageConf) { c.Location = location })
	return nil
}

// SetExternalDevice updates the device path or label matched against the
// kernel mount table when resolving external storage.
func (f *Facade) SetExternalDevice(device string) {
	f.storageMutate(func(c *conf.StorageConf) { c.ExternalDevice = device })
}

// SetInternalBasePath updates the filesystem root used for internal storage.
func (f *Facade) SetInternalBasePath(path string) {
	f.storageMutate(func(c *conf.StorageConf) { c.InternalBasePath = path })
}

// SetExternalRelativePath updates the subdirectory created under an external
// mount point.
func (f *Facade) SetExternalRelativePath(path string) {
	f.storageMutate(func(c *conf.StorageConf) { c.ExternalRelativePath = path })
}

// SetAutoRecover toggles falling back to internal storage when the
// configured external device cannot be found.
func (f *Facade) SetAutoRecover(enabled bool) {
	f.storageMutate(func(c *conf.StorageConf) { c.AutoRecover = enabled })
}
