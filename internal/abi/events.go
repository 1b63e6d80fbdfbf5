package abi

import (
	"fmt"

	"github.com/smartscope-embedded/smartscope/internal/events"
	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

// EventKind names the one callback kind allowed active at a time, per
// §4.N.
type EventKind string

// event kinds.
const (
	EventCapabilityChanged    EventKind = "capability_changed"
	EventDetectionsChanged    EventKind = "detections_changed"
	EventDetectionsRaw        EventKind = "detections_raw"
	EventStorageListChanged   EventKind = "storage_list_changed"
	EventStorageConfigChanged EventKind = "storage_config_changed"
)

// RegisterCallback starts a polling sidecar of the given kind at maxFPS,
// replacing any previously registered callback of the same kind.
func (f *Facade) RegisterCallback(kind EventKind, maxFPS int, callback func(value interface{})) error {
	getter, err := f.getterFor(kind)
	if err != nil {
		return err
	}

	reg := events.Register(getter, callback, maxFPS)

	f.eventsMutex.Lock()
	if prev, ok := f.activeEvent[string(kind)]; ok {
		prev.Unregister()
	}
	f.activeEvent[string(kind)] = reg
	f.eventsMutex.Unlock()

	return nil
}

// UnregisterCallback stops and joins a previously registered callback of
// the given kind. A no-op if none is active.
func (f *Facade) UnregisterCallback(kind EventKind) {
	f.eventsMutex.Lock()
	reg, ok := f.activeEvent[string(kind)]
	if ok {
		delete(f.activeEvent, string(kind))
	}
	f.eventsMutex.Unlock()

	if ok {
		reg.Unregister()
	}
}

func (f *Facade) getterFor(kind EventKind) (events.Getter, error) {
	switch kind {
	case EventCapabilityChanged:
		return func() (interface{}, error) {
			return f.Snapshot(), nil
		}, nil

	case EventDetectionsChanged:
		return func() (interface{}, error) {
			j, ok, err := f.TryGetLatestDetectionsJSON()
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("no result yet")
			}
			return j, nil
		}, nil

	case EventDetectionsRaw:
		return func() (interface{}, error) {
			result, ok, err := f.TryGetLatestDetections()
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("no result yet")
			}
			return result, nil
		}, nil

	case EventStorageListChanged:
		return func() (interface{}, error) {
			return f.ListExternalStoragesJSON()
		}, nil

	case EventStorageConfigChanged:
		return func() (interface{}, error) {
			return f.StorageConfigJSON()
		}, nil

	default:
		return nil, smartscope.NewError("abi.getterFor", smartscope.ErrConfig, fmt.Errorf("unknown event kind %q", kind))
	}
}
