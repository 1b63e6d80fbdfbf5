package abi

// debugStatus is the JSON payload /status in the debug sidecar serves.
type debugStatus struct {
	Capability interface{} `json:"capability"`
	Transform  interface{} `json:"transform"`
	Recording  bool        `json:"recording_active"`
	Inference  *inferenceStatus `json:"inference,omitempty"`
}

type inferenceStatus struct {
	Enabled bool  `json:"enabled"`
	Dropped uint64 `json:"dropped"`
	Workers []workerStatus `json:"workers"`
}

type workerStatus struct {
	TasksRun      int64 `json:"tasks_run"`
	TasksFailed   int64 `json:"tasks_failed"`
	LastLatencyNs int64 `json:"last_latency_ns"`
}

// DebugStatus implements debugserver.StatusProvider.
func (f *Facade) DebugStatus() interface{} {
	status := debugStatus{
		Capability: f.Snapshot(),
		Transform:  f.VideoTransform(),
		Recording:  f.RecordingActive(),
	}

	if f.pool != nil {
		workers := make([]workerStatus, 0)
		for _, w := range f.pool.Stats.Snapshot() {
			workers = append(workers, workerStatus{
				TasksRun:      w.TasksRun,
				TasksFailed:   w.TasksFailed,
				LastLatencyNs: w.LastLatencyNs,
			})
		}

		status.Inference = &inferenceStatus{
			Enabled: f.pool.Enabled(),
			Dropped: f.pool.DroppedCount(),
			Workers: workers,
		}
	}

	return status
}
