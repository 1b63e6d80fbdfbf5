package inference

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/smartscope-embedded/smartscope/internal/smartscope"
	"github.com/smartscope-embedded/smartscope/internal/stats"
)

// DetectorFactory builds one independent model instance; the pool calls it
// once per worker so no Detector is ever shared across goroutines.
type DetectorFactory func() (Detector, error)

// Pool is the bounded-queue, N-worker NPU inference service of §4.I.
type Pool struct {
	ScoreThreshold float64
	IOUThreshold   float64

	// ModelSize is the square side each submitted frame is letterboxed to
	// before inference; DefaultModelSize when unset.
	ModelSize int

	queue   chan *smartscope.InferenceTask
	workers []*worker

	enabled atomic.Bool
	latest  atomic.Pointer[smartscope.InferenceResult]

	dropped atomic.Uint64
	counter atomic.Uint64

	Stats *stats.Pool

	closeOnce sync.Once
	done      chan struct{}
}

type worker struct {
	detector Detector
}

// NewPool opens numWorkers independent Detectors via factory and starts
// their goroutines. If any worker fails to open its model, the whole pool
// construction fails and every Detector opened so far is closed, per
// §4.I's "failed model init fails the whole service" rule.
func NewPool(factory DetectorFactory, numWorkers, queueCapacity int, scoreThreshold, iouThreshold float64) (*Pool, error) {
	p := &Pool{
		ScoreThreshold: scoreThreshold,
		IOUThreshold:   iouThreshold,
		ModelSize:      DefaultModelSize,
		queue:          make(chan *smartscope.InferenceTask, queueCapacity),
		Stats:          stats.New(numWorkers),
		done:           make(chan struct{}),
	}
	p.enabled.Store(true)

	for i := 0; i < numWorkers; i++ {
		det, err := factory()
		if err != nil {
			for _, w := range p.workers {
				w.detector.Close()
			}
			return nil, smartscope.NewError("inference.NewPool", smartscope.ErrInferenceInit, err)
		}
		p.workers = append(p.workers, &worker{detector: det})
	}

	for i, w := range p.workers {
		go p.run(i, w)
	}

	return p, nil
}

// Submit enqueues image for inference. If the queue is full, the oldest
// queued task is dropped to make room (§4.I's submit contract). Submit
// never blocks and always succeeds, including when the gate is disabled
// (in which case the task is dropped immediately, reader gets no reply).
func (p *Pool) Submit(task *smartscope.InferenceTask) {
	if !p.enabled.Load() {
		return
	}

	for {
		select {
		case p.queue <- task:
			p.counter.Add(1)
			return
		default:
		}

		select {
		case <-p.queue:
			p.dropped.Add(1)
		default:
			return
		}
	}
}

// TryGetLatestResult returns the most recently completed result, if any,
// without blocking.
func (p *Pool) TryGetLatestResult() (smartscope.InferenceResult, bool) {
	if !p.enabled.Load() {
		return smartscope.InferenceResult{}, false
	}
	r := p.latest.Load()
	if r == nil {
		return smartscope.InferenceResult{}, false
	}
	return *r, true
}

// InferenceBlocking submits image and blocks for its own result, up to
// timeout, for callers that must have an answer for this exact image.
func (p *Pool) InferenceBlocking(width, height int, image []byte, timeout time.Duration) (smartscope.InferenceResult, error) {
	id := p.counter.Add(1)
	task := smartscope.NewInferenceTask(id, width, height, image)

	p.Submit(task)

	select {
	case r := <-task.WaitChan():
		return r, nil
	case <-time.After(timeout):
		return smartscope.InferenceResult{}, smartscope.NewError("inference.InferenceBlocking", smartscope.ErrTimeout, nil)
	}
}

// SetEnabled toggles the atomic gate; disabling never tears down workers.
func (p *Pool) SetEnabled(enabled bool) {
	p.enabled.Store(enabled)
}

// Enabled reports the current gate state.
func (p *Pool) Enabled() bool {
	return p.enabled.Load()
}

// DroppedCount reports how many queued tasks were dropped for overflow.
func (p *Pool) DroppedCount() uint64 {
	return p.dropped.Load()
}

// Close stops every worker and releases its Detector. Safe to call once.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		for _, w := range p.workers {
			w.detector.Close()
		}
	})
}

func (p *Pool) run(index int, w *worker) {
	for {
		select {
		case <-p.done:
			return
		case task, ok := <-p.queue:
			if !ok {
				return
			}
			p.process(index, w, task)
		}
	}
}

func (p *Pool) process(index int, w *worker, task *smartscope.InferenceTask) {
	start := time.Now()

	// letterbox here, in the preprocessor, so the resulting transform lives
	// next to the detections it applies to instead of being recomputed or
	// discarded by the caller.
	frame := smartscope.DecodedFrame{Width: task.Width, Height: task.Height, Bytes: task.Image}
	letterboxed, transform, err := Letterbox(frame, p.modelSize())
	if err != nil {
		p.Stats.Workers[index].RecordFailure()
		result := smartscope.InferenceResult{TaskID: task.TaskID, Err: err}
		task.Reply(result)
		return
	}

	raw, err := w.detector.Infer(Image{Width: letterboxed.Width, Height: letterboxed.Height, Data: letterboxed.Data})

	latency := time.Since(start)

	if err != nil {
		p.Stats.Workers[index].RecordFailure()
		result := smartscope.InferenceResult{TaskID: task.TaskID, Err: err}
		task.Reply(result)
		return
	}

	p.Stats.Workers[index].RecordSuccess(latency.Nanoseconds())

	detections := Postprocess(raw, p.ScoreThreshold, p.IOUThreshold)
	result := smartscope.InferenceResult{TaskID: task.TaskID, Detections: detections, Transform: transform}

	if p.enabled.Load() {
		p.latest.Store(&result)
	}

	task.Reply(result)
}

func (p *Pool) modelSize() int {
	if p.ModelSize <= 0 {
		return DefaultModelSize
	}
	return p.ModelSize
}
