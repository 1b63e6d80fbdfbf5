// Package storage resolves where screenshots, pictures and videos get
// written: enumerating removable mounts from the kernel's mount table,
// resolving device labels, and formatting session paths, per §4.J.
package storage

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

var removableDevicePrefixes = []string{"/dev/sd", "/dev/mmcblk", "/dev/hd", "/dev/vd"}

var removableMountPointPrefixes = []string{"/media/", "/run/media/", "/mnt/"}

var allowedFSTypes = map[string]bool{
	"vfat": true, "exfat": true, "ntfs": true, "ntfs3": true,
	"ext2": true, "ext3": true, "ext4": true, "f2fs": true,
}

// ReadMounts parses a /proc/mounts-formatted file into raw entries.
func ReadMounts(path string) ([]smartscope.MountEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, smartscope.NewError("storage.ReadMounts", smartscope.ErrIO, err)
	}
	defer f.Close()

	var entries []smartscope.MountEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		entries = append(entries, smartscope.MountEntry{
			DevicePath: fields[0],
			MountPoint: unescapeMountField(fields[1]),
			FSType:     fields[2],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, smartscope.NewError("storage.ReadMounts", smartscope.ErrIO, err)
	}

	return entries, nil
}

// unescapeMountField reverses the octal escaping the kernel applies to
// spaces, tabs and backslashes in /proc/mounts fields.
func unescapeMountField(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) {
			if v, ok := parseOctal3(s[i+1 : i+4]); ok {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func parseOctal3(s string) (int, bool) {
	if len(s) != 3 {
		return 0, false
	}
	v := 0
	for _, c := range s {
		if c < '0' || c > '7' {
			return 0, false
		}
		v = v*8 + int(c-'0')
	}
	return v, true
}

// RemovableMounts filters ReadMounts' output to removable-looking entries
// by device-path prefix, mount-point prefix, and filesystem-type
// whitelist, then resolves each one's label via the by-label directory.
func RemovableMounts(mountsPath, byLabelDir string) ([]smartscope.MountEntry, error) {
	all, err := ReadMounts(mountsPath)
	if err != nil {
		return nil, err
	}

	labels := resolveLabels(byLabelDir)

	var out []smartscope.MountEntry
	for _, m := range all {
		if !isRemovable(m) {
			continue
		}
		m.Label = labels[m.DevicePath]
		out = append(out, m)
	}
	return out, nil
}

func isRemovable(m smartscope.MountEntry) bool {
	if !allowedFSTypes[m.FSType] {
		return false
	}

	devOK := false
	for _, p := range removableDevicePrefixes {
		if strings.HasPrefix(m.DevicePath, p) {
			devOK = true
			break
		}
	}
	if !devOK {
		return false
	}

	for _, p := range removableMountPointPrefixes {
		if strings.HasPrefix(m.MountPoint, p) {
			return true
		}
	}
	return false
}

// resolveLabels reads byLabelDir (normally /dev/disk/by-label) and builds a
// device-path → label map, normalizing relative symlink targets to
// absolute device paths.
func resolveLabels(byLabelDir string) map[string]string {
	out := make(map[string]string)

	entries, err := os.ReadDir(byLabelDir)
	if err != nil {
		return out
	}

	for _, e := range entries {
		linkPath := filepath.Join(byLabelDir, e.Name())
		target, err := os.Readlink(linkPath)
		if err != nil {
			continue
		}
		if !filepath.IsAbs(target) {
			target = filepath.Clean(filepath.Join(byLabelDir, target))
		}
		out[target] = e.Name()
	}

	return out
}
