// Package devices enumerates V4L2 capture nodes and groups them by the
// physical camera they belong to.
package devices

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/vladimirvivien/go4vl/device"

	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

// Enumerate walks /dev/video* nodes, opens each long enough to read its
// V4L2 capability record, and groups nodes that share the same bus
// location (the same physical camera exposes several /dev/videoN nodes:
// one for capture, others for metadata/control). HDMI receiver nodes are
// excluded by name, per §4.A.
func Enumerate() ([]smartscope.CameraDevice, error) {
	paths, err := filepath.Glob("/dev/video*")
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	type group struct {
		name  string
		bus   string
		paths []string
	}

	var groups []*group
	byBus := make(map[string]*group)

	for _, path := range paths {
		name, bus, ok := probe(path)
		if !ok {
			continue
		}
		if smartscope.IsHDMIReceiver(name) {
			continue
		}

		g, exists := byBus[bus]
		if !exists {
			g = &group{name: name, bus: bus}
			byBus[bus] = g
			groups = append(groups, g)
		}
		g.paths = append(g.paths, path)
	}

	out := make([]smartscope.CameraDevice, 0, len(groups))
	for _, g := range groups {
		out = append(out, smartscope.CameraDevice{
			Name:              g.name,
			PrimaryPath:       g.paths[0],
			SiblingVideoPaths: g.paths,
			Description:       g.name,
		})
	}

	return out, nil
}

// probe opens path just long enough to read its displayed name and bus
// location, and reports whether it advertises video-capture capability.
func probe(path string) (name string, busInfo string, isCaptureNode bool) {
	dev, err := device.Open(path)
	if err != nil {
		return "", "", false
	}
	defer dev.Close()

	cap := dev.Capability()
	if !cap.IsVideoCaptureSupported() {
		return "", "", false
	}

	return strings.TrimSpace(cap.Card), strings.TrimSpace(cap.BusInfo), true
}
