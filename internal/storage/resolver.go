package storage

import (
	"os"
	"path/filepath"
	"time"

	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

// Resolver resolves session directories against a configured storage
// location, falling back from external to internal on a missing device
// when auto-recovery is enabled.
type Resolver struct {
	Location smartscope.StorageLocation

	// MountsPath and ByLabelDir are overridable for testing; they default
	// to /proc/mounts and /dev/disk/by-label.
	MountsPath string
	ByLabelDir string
}

// NewResolver builds a Resolver for loc using the real kernel mount table.
func NewResolver(loc smartscope.StorageLocation) *Resolver {
	return &Resolver{
		Location:   loc,
		MountsPath: "/proc/mounts",
		ByLabelDir: "/dev/disk/by-label",
	}
}

// Resolve returns a created, ready-to-write session directory for the
// given category and display mode, or "" if External was requested, the
// device could not be found, and AutoRecover is false.
func (r *Resolver) Resolve(category smartscope.SessionCategory, mode string, at time.Time) (string, error) {
	base, err := r.resolveBase()
	if err != nil {
		return "", err
	}
	if base == "" {
		return "", nil
	}

	path := SessionPath(base, category.String(), mode, at)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", smartscope.NewError("storage.Resolve", smartscope.ErrIO, err)
	}

	return path, nil
}

func (r *Resolver) resolveBase() (string, error) {
	if r.Location.Kind == smartscope.StorageInternal {
		return r.Location.InternalBasePath, nil
	}

	mount, found, err := r.findExternalMount()
	if err != nil {
		return "", err
	}
	if found {
		return filepath.Join(mount.MountPoint, r.Location.ExternalRelativePath), nil
	}

	if r.Location.AutoRecover {
		return r.Location.InternalBasePath, nil
	}

	return "", nil
}

func (r *Resolver) findExternalMount() (smartscope.MountEntry, bool, error) {
	mounts, err := RemovableMounts(r.MountsPath, r.ByLabelDir)
	if err != nil {
		return smartscope.MountEntry{}, false, err
	}

	for _, m := range mounts {
		if m.DevicePath == r.Location.ExternalDevicePath || m.Label == r.Location.ExternalDevicePath {
			return m, true, nil
		}
	}

	return smartscope.MountEntry{}, false, nil
}
