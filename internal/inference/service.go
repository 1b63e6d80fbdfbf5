package inference

import "github.com/smartscope-embedded/smartscope/internal/conf"

// NewNPUService opens the configured model once per worker and starts the
// pool, wiring the configuration's thresholds straight through.
func NewNPUService(c conf.InferenceConf) (*Pool, error) {
	factory := func() (Detector, error) {
		return newHardwareDetector(c.ModelPath)
	}
	return NewPool(factory, c.NumWorkers, c.QueueCapacity, c.ScoreThreshold, c.IOUThreshold)
}
