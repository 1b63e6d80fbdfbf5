package main

/*
#include <stdlib.h>

typedef void (*smartscope_list_callback_t)(void* ctx, const char* json);
typedef void (*smartscope_config_callback_t)(void* ctx, const char* json);

static inline void smartscope_call_list_callback(smartscope_list_callback_t cb, void* ctx, const char* json) {
	if (cb) cb(ctx, json);
}
static inline void smartscope_call_config_callback(smartscope_config_callback_t cb, void* ctx, const char* json) {
	if (cb) cb(ctx, json);
}
*/
import "C"

import (
	"unsafe"

	"github.com/smartscope-embedded/smartscope/internal/abi"
	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

//export smartscope_list_external_storages_json
func smartscope_list_external_storages_json() *C.char {
	f, status := facade()
	if f == nil {
		_ = status
		return nil
	}
	j, err := f.ListExternalStoragesJSON()
	if err != nil {
		return nil
	}
	return C.CString(j)
}

//export smartscope_storage_get_config_json
func smartscope_storage_get_config_json() *C.char {
	f, status := facade()
	if f == nil {
		_ = status
		return nil
	}
	j, err := f.StorageConfigJSON()
	if err != nil {
		return nil
	}
	return C.CString(j)
}

//export smartscope_storage_set_location
func smartscope_storage_set_location(location C.int) C.int {
	f, status := facade()
	if f == nil {
		return status
	}
	name := "internal"
	if location != 0 {
		name = "external"
	}
	if err := f.SetStorageLocation(name); err != nil {
		return C.int(abi.StatusConfigError)
	}
	return C.int(abi.StatusSuccess)
}

//export smartscope_storage_set_external_device
func smartscope_storage_set_external_device(path *C.char) C.int {
	if path == nil {
		return C.int(abi.StatusNullPointer)
	}
	f, status := facade()
	if f == nil {
		return status
	}
	f.SetExternalDevice(C.GoString(path))
	return C.int(abi.StatusSuccess)
}

//export smartscope_storage_set_internal_base_path
func smartscope_storage_set_internal_base_path(path *C.char) C.int {
	if path == nil {
		return C.int(abi.StatusNullPointer)
	}
	f, status := facade()
	if f == nil {
		return status
	}
	f.SetInternalBasePath(C.GoString(path))
	return C.int(abi.StatusSuccess)
}

//export smartscope_storage_set_external_relative_path
func smartscope_storage_set_external_relative_path(path *C.char) C.int {
	if path == nil {
		return C.int(abi.StatusNullPointer)
	}
	f, status := facade()
	if f == nil {
		return status
	}
	f.SetExternalRelativePath(C.GoString(path))
	return C.int(abi.StatusSuccess)
}

//export smartscope_storage_set_auto_recover
func smartscope_storage_set_auto_recover(enabled C.int) C.int {
	f, status := facade()
	if f == nil {
		return status
	}
	f.SetAutoRecover(enabled != 0)
	return C.int(abi.StatusSuccess)
}

func resolveSessionPath(category smartscope.SessionCategory, displayMode *C.char) *C.char {
	f, status := facade()
	if f == nil {
		_ = status
		return nil
	}

	var mode string
	if displayMode != nil {
		mode = C.GoString(displayMode)
	}

	path, err := f.ResolveSessionPath(category, mode)
	if err != nil || path == "" {
		return nil
	}
	return C.CString(path)
}

//export smartscope_storage_resolve_screenshot_session_path
func smartscope_storage_resolve_screenshot_session_path(displayMode *C.char) *C.char {
	return resolveSessionPath(smartscope.CategoryScreenshots, displayMode)
}

//export smartscope_storage_resolve_capture_session_path
func smartscope_storage_resolve_capture_session_path(displayMode *C.char) *C.char {
	return resolveSessionPath(smartscope.CategoryPictures, displayMode)
}

//export smartscope_storage_resolve_video_session_path
func smartscope_storage_resolve_video_session_path(displayMode *C.char) *C.char {
	return resolveSessionPath(smartscope.CategoryVideos, displayMode)
}

//export smartscope_storage_register_callbacks
func smartscope_storage_register_callbacks(ctx unsafe.Pointer, listCB C.smartscope_list_callback_t, cfgCB C.smartscope_config_callback_t, maxFPS C.int) C.int {
	f, status := facade()
	if f == nil {
		return status
	}

	if err := f.RegisterCallback(abi.EventStorageListChanged, int(maxFPS), func(value interface{}) {
		j, ok := value.(string)
		if !ok {
			return
		}
		cJSON := C.CString(j)
		defer C.free(unsafe.Pointer(cJSON))
		C.smartscope_call_list_callback(listCB, ctx, cJSON)
	}); err != nil {
		return C.int(abi.StatusError)
	}

	if err := f.RegisterCallback(abi.EventStorageConfigChanged, int(maxFPS), func(value interface{}) {
		j, ok := value.(string)
		if !ok {
			return
		}
		cJSON := C.CString(j)
		defer C.free(unsafe.Pointer(cJSON))
		C.smartscope_call_config_callback(cfgCB, ctx, cJSON)
	}); err != nil {
		return C.int(abi.StatusError)
	}

	return C.int(abi.StatusSuccess)
}

//export smartscope_storage_unregister_callbacks
func smartscope_storage_unregister_callbacks() C.int {
	f, status := facade()
	if f == nil {
		return status
	}
	f.UnregisterCallback(abi.EventStorageListChanged)
	f.UnregisterCallback(abi.EventStorageConfigChanged)
	return C.int(abi.StatusSuccess)
}
