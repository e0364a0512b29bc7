package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/headingkit/internal/config"
)

var (
	// ErrQueueFull is returned by Submit when no queue slot is free.
	ErrQueueFull = errors.New("job queue is full")

	// ErrStopped is returned by Submit once the pipeline has been stopped.
	ErrStopped = errors.New("pipeline stopped")
)

const cleanupInterval = 5 * time.Minute

// Stats is a point-in-time view of the pipeline.
type Stats struct {
	QueueDepth   int `json:"queue_depth"`
	MaxQueueSize int `json:"max_queue_size"`
	Workers      int `json:"workers"`
	ActiveJobs   int `json:"active_jobs"`
	StoredJobs   int `json:"stored_jobs"`
}

// Orchestrator feeds submitted batch jobs to a fixed set of workers and
// evicts finished jobs once their TTL passes.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	log   *slog.Logger
	cfg   config.PipelineConfig

	mu      sync.Mutex
	active  int
	stopped bool

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.PipelineConfig, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		log:   log,
		cfg:   cfg,
	}
}

// Start launches the workers and the job store janitor.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for id := range o.cfg.WorkerCount {
		o.wg.Add(1)
		go o.work(workerCtx, id)
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				if n := o.jobs.Cleanup(); n > 0 {
					o.log.Debug("evicted expired jobs", "count", n)
				}
			}
		}
	}()
}

func (o *Orchestrator) work(ctx context.Context, id int) {
	defer o.wg.Done()
	w := NewWorker(o.log.With("worker", id), o.cfg.MaxConcurrentDocs)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-o.queue:
			if !ok {
				return
			}
			o.track(1)
			w.Process(ctx, job)
			o.track(-1)
		}
	}
}

func (o *Orchestrator) track(delta int) {
	o.mu.Lock()
	o.active += delta
	o.mu.Unlock()
}

// Stop cancels in-flight jobs and waits for the workers to exit. It is safe
// to call more than once.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		if o.cancel != nil {
			o.cancel()
		}
		o.mu.Lock()
		o.stopped = true
		close(o.queue)
		o.mu.Unlock()
		o.wg.Wait()
	})
}

// Submit stores job and queues it. A full queue or a stopped pipeline fails
// the job immediately; it stays retrievable so callers can see why.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		job.SetStatus(StatusFailed, "stopped")
		return ErrStopped
	}
	select {
	case o.queue <- job:
		o.log.Info("job queued", "job_id", job.ID, "documents", len(job.Documents()))
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		o.log.Warn("job rejected", "job_id", job.ID, "queue_size", o.cfg.MaxQueueSize)
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID, or nil once it is unknown or evicted.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns the number of jobs waiting for a worker.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats reports queue and worker usage.
func (o *Orchestrator) Stats() Stats {
	o.mu.Lock()
	active := o.active
	o.mu.Unlock()
	return Stats{
		QueueDepth:   len(o.queue),
		MaxQueueSize: o.cfg.MaxQueueSize,
		Workers:      o.cfg.WorkerCount,
		ActiveJobs:   active,
		StoredJobs:   o.jobs.Len(),
	}
}
