package main

import "C"

import "github.com/smartscope-embedded/smartscope/internal/abi"

//export smartscope_load_config
func smartscope_load_config(path *C.char) C.int {
	if path == nil {
		return C.int(abi.StatusNullPointer)
	}

	f, status := facade()
	if f == nil {
		return status
	}

	if err := f.LoadConfig(C.GoString(path)); err != nil {
		return C.int(abi.StatusConfigError)
	}
	return C.int(abi.StatusSuccess)
}

//export smartscope_save_config
func smartscope_save_config(path *C.char) C.int {
	if path == nil {
		return C.int(abi.StatusNullPointer)
	}

	f, status := facade()
	if f == nil {
		return status
	}

	savePath := C.GoString(path)
	if savePath == "" {
		savePath = currentPath()
	}

	if err := f.SaveConfig(savePath); err != nil {
		return C.int(abi.StatusIOError)
	}
	return C.int(abi.StatusSuccess)
}

//export smartscope_enable_config_hot_reload
func smartscope_enable_config_hot_reload(path *C.char) C.int {
	f, status := facade()
	if f == nil {
		return status
	}

	watchPath := currentPath()
	if path != nil {
		watchPath = C.GoString(path)
	}

	if err := f.EnableConfigHotReload(watchPath); err != nil {
		return C.int(abi.StatusError)
	}
	return C.int(abi.StatusSuccess)
}
