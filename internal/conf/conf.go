// Package conf contains the configuration schema and its JSON load/save,
// modeled on the teacher's keyed-document configuration with validation,
// defaults-on-missing-file, and environment overrides.
package conf

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/smartscope-embedded/smartscope/internal/conf/env"
	"github.com/smartscope-embedded/smartscope/internal/conf/jsonwrapper"
	"github.com/smartscope-embedded/smartscope/internal/logger"
)

// Resolution is a requested capture size; the driver may negotiate a
// nearby size, which becomes the effective size for the rest of the
// pipeline.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CameraConf is one side's capture configuration.
type CameraConf struct {
	SearchKeywords []string       `json:"search_keywords"`
	Format         string         `json:"format"`
	FrameRate      int            `json:"frame_rate"`
	Resolution     Resolution     `json:"resolution"`
}

// CamerasConf groups the three possible camera bindings; Single is used
// for whichever device is bound in single-camera mode, including one that
// matched Left's or Right's keywords.
type CamerasConf struct {
	Left   CameraConf `json:"left"`
	Right  CameraConf `json:"right"`
	Single CameraConf `json:"single"`
}

// StorageConf is the persisted storage-resolver configuration.
type StorageConf struct {
	Location             string `json:"location"` // "internal" | "external"
	InternalBasePath     string `json:"internal_base_path"`
	ExternalDevice       string `json:"external_device"`
	ExternalRelativePath string `json:"external_relative_path"`
	AutoRecover          bool   `json:"auto_recover"`
}

// InferenceConf configures the NPU worker pool at startup.
type InferenceConf struct {
	ModelPath      string `json:"model_path"`
	ClassNamesPath string `json:"class_names_path"`
	NumWorkers     int    `json:"num_workers"`
	QueueCapacity  int    `json:"queue_capacity"`
	ScoreThreshold float64 `json:"score_threshold"`
	IOUThreshold   float64 `json:"iou_threshold"`
	Enabled        bool    `json:"enabled"`
}

// RecorderConf configures the external recorder subprocess dispatcher.
type RecorderConf struct {
	ExtraArgs string `json:"extra_args"`
}

// DebugServerConf configures the optional gin+pprof developer sidecar.
type DebugServerConf struct {
	Enabled bool   `json:"enabled"`
	Address string `json:"address"`
}

// Conf is the full SmartScope configuration document.
type Conf struct {
	LogLevel              LogLevel        `json:"log_level"`
	LogDestinations       LogDestinations `json:"log_destinations"`
	LogFile               string          `json:"log_file"`
	EnableConfigHotReload bool            `json:"enable_config_hot_reload"`

	PollIntervalMS int            `json:"poll_interval_ms"`
	PairWindowMS   int            `json:"pair_window_ms"`

	Cameras   CamerasConf     `json:"camera"`
	Storage   StorageConf     `json:"storage"`
	Inference InferenceConf   `json:"inference"`
	Recorder  RecorderConf    `json:"recorder"`
	Debug     DebugServerConf `json:"debug_server"`
}

func (conf *Conf) setDefaults() {
	conf.LogLevel = LogLevel(logger.Info)
	conf.LogDestinations = LogDestinations{logger.DestinationStdout}
	conf.LogFile = "smartscope.log"
	conf.EnableConfigHotReload = true

	conf.PollIntervalMS = 1000
	conf.PairWindowMS = 50

	conf.Cameras.Left = CameraConf{
		SearchKeywords: []string{"cameraL", "left"},
		Format:         "mjpeg",
		FrameRate:      30,
		Resolution:     Resolution{Width: 1280, Height: 720},
	}
	conf.Cameras.Right = CameraConf{
		SearchKeywords: []string{"cameraR", "right"},
		Format:         "mjpeg",
		FrameRate:      30,
		Resolution:     Resolution{Width: 1280, Height: 720},
	}
	conf.Cameras.Single = CameraConf{
		SearchKeywords: []string{},
		Format:         "mjpeg",
		FrameRate:      30,
		Resolution:     Resolution{Width: 1280, Height: 720},
	}

	conf.Storage = StorageConf{
		Location:         "internal",
		InternalBasePath: "/var/lib/smartscope/storage",
		AutoRecover:      true,
	}

	conf.Inference = InferenceConf{
		NumWorkers:     6,
		QueueCapacity:  64,
		ScoreThreshold: 0.25,
		IOUThreshold:   0.45,
		Enabled:        true,
	}

	conf.Debug.Address = ":9997"
}

// Load reads the configuration document at fpath, applying environment
// overrides afterward. A missing or malformed file is not fatal: defaults
// are used and written back to disk, matching §6's "must not fail the
// process" requirement.
func Load(fpath string) (*Conf, bool, error) {
	conf := &Conf{}

	found, err := conf.loadFromFile(fpath)
	if err != nil {
		return nil, false, err
	}

	err = env.Load("SMARTSCOPE", conf)
	if err != nil {
		return nil, false, fmt.Errorf("error parsing environment variables: %w", err)
	}

	err = conf.Validate()
	if err != nil {
		return nil, false, err
	}

	return conf, found, nil
}

func (conf *Conf) loadFromFile(fpath string) (bool, error) {
	byts, err := os.ReadFile(fpath)
	if err != nil {
		if os.IsNotExist(err) {
			conf.setDefaults()
			conf.Save(fpath) //nolint:errcheck
			return false, nil
		}
		return false, err
	}

	err = jsonwrapper.Unmarshal(byts, conf)
	if err != nil {
		conf.setDefaults()
		conf.Save(fpath) //nolint:errcheck
		return false, nil //nolint:nilerr
	}

	return true, nil
}

// Validate checks cross-field invariants that the wire types alone cannot
// enforce.
func (conf *Conf) Validate() error {
	if conf.PairWindowMS <= 0 {
		return fmt.Errorf("pair_window_ms must be positive")
	}
	if conf.PollIntervalMS <= 0 {
		return fmt.Errorf("poll_interval_ms must be positive")
	}
	if conf.Inference.NumWorkers <= 0 {
		return fmt.Errorf("inference.num_workers must be positive")
	}
	if conf.Inference.QueueCapacity <= 0 {
		return fmt.Errorf("inference.queue_capacity must be positive")
	}
	switch conf.Storage.Location {
	case "internal", "external":
	default:
		return fmt.Errorf("storage.location must be 'internal' or 'external'")
	}
	return nil
}

// Clone returns a deep copy via a JSON marshal/unmarshal round-trip,
// matching the teacher's approach for configuration snapshots handed to
// hot-reload comparisons.
func (conf *Conf) Clone() (*Conf, error) {
	byts, err := jsonMarshal(conf)
	if err != nil {
		return nil, err
	}

	cloned := &Conf{}
	err = jsonwrapper.Unmarshal(byts, cloned)
	if err != nil {
		return nil, err
	}

	return cloned, nil
}

// Equal reports whether two configurations marshal identically, the same
// byte-equality test the teacher's hot-reload comparisons use.
func (conf *Conf) Equal(other *Conf) (bool, error) {
	a, err := jsonMarshal(conf)
	if err != nil {
		return false, err
	}
	b, err := jsonMarshal(other)
	if err != nil {
		return false, err
	}
	return string(a) == string(b), nil
}

// Save writes the configuration document to fpath.
func (conf *Conf) Save(fpath string) error {
	byts, err := jsonMarshalIndent(conf)
	if err != nil {
		return err
	}
	return os.WriteFile(fpath, byts, 0o644)
}

func jsonMarshal(conf *Conf) ([]byte, error) {
	return json.Marshal(conf)
}

func jsonMarshalIndent(conf *Conf) ([]byte, error) {
	return json.MarshalIndent(conf, "", "  ")
}
