// Package stats contains the inference pool's per-worker counters.
package stats

import "sync/atomic"

func ptrInt64() *int64 {
	v := int64(0)
	return &v
}

// WorkerCounters holds one worker's running totals.
type WorkerCounters struct {
	// use pointers to avoid a crash on 32bit platforms
	// https://github.com/golang/go/issues/9959
	TasksRun      *int64
	TasksFailed   *int64
	LastLatencyNs *int64
}

func newWorkerCounters() *WorkerCounters {
	return &WorkerCounters{
		TasksRun:      ptrInt64(),
		TasksFailed:   ptrInt64(),
		LastLatencyNs: ptrInt64(),
	}
}

// RecordSuccess increments the run counter and records the latency of the
// task that just completed.
func (c *WorkerCounters) RecordSuccess(latencyNs int64) {
	atomic.AddInt64(c.TasksRun, 1)
	atomic.StoreInt64(c.LastLatencyNs, latencyNs)
}

// RecordFailure increments both the run and failure counters.
func (c *WorkerCounters) RecordFailure() {
	atomic.AddInt64(c.TasksRun, 1)
	atomic.AddInt64(c.TasksFailed, 1)
}

// Snapshot is a point-in-time read of a worker's counters.
type Snapshot struct {
	TasksRun      int64
	TasksFailed   int64
	LastLatencyNs int64
}

// Snapshot reads the counters without blocking concurrent writers.
func (c *WorkerCounters) Snapshot() Snapshot {
	return Snapshot{
		TasksRun:      atomic.LoadInt64(c.TasksRun),
		TasksFailed:   atomic.LoadInt64(c.TasksFailed),
		LastLatencyNs: atomic.LoadInt64(c.LastLatencyNs),
	}
}

// Pool holds one WorkerCounters per worker in the NPU pool.
type Pool struct {
	Workers []*WorkerCounters
}

// New allocates a Pool sized for numWorkers.
func New(numWorkers int) *Pool {
	p := &Pool{Workers: make([]*WorkerCounters, numWorkers)}
	for i := range p.Workers {
		p.Workers[i] = newWorkerCounters()
	}
	return p
}

// Snapshot returns one Snapshot per worker, in worker-index order.
func (p *Pool) Snapshot() []Snapshot {
	out := make([]Snapshot, len(p.Workers))
	for i, w := range p.Workers {
		out[i] = w.Snapshot()
	}
	return out
}
