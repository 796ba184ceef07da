package jobs

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clipfile/clipper/pkg/log"
)

// Executor runs one job's full pipeline. It receives a snapshot of the job
// and a progress callback, and returns the path of the rendered artifact on
// success. It is never invoked twice concurrently for the same job id.
type Executor func(ctx context.Context, job ClipJob, progress func(int)) (outputPath string, err error)

// Queue is a bounded worker pool over uploaded jobs. Uploads enqueue, a
// fixed number of workers execute, pollers read snapshots. Per job id the
// executing worker is the only writer, so readers never observe a percent
// decrease except the failure sentinel.
type Queue struct {
	workerCount int
	store       Store

	mu         sync.RWMutex
	jobs       map[string]*ClipJob
	started    bool
	pendingIDs chan string
	stopCh     chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

func NewQueue(workerCount int, store Store) *Queue {
	if workerCount <= 0 {
		workerCount = 1
	}
	q := &Queue{
		workerCount: workerCount,
		store:       store,
		jobs:        make(map[string]*ClipJob),
		pendingIDs:  make(chan string, 1024),
		stopCh:      make(chan struct{}),
	}
	q.hydrateFromStore(context.Background())
	return q
}

// NewID returns a fresh opaque job id. Ids are generated per upload, so
// no two uploads can collide.
func NewID() string {
	return uuid.NewString()
}

// Enqueue registers a job for an uploaded video already stored at
// inputPath and dispatches it to the workers.
func (q *Queue) Enqueue(id, inputPath string) *ClipJob {
	now := time.Now()
	job := &ClipJob{
		ID:        id,
		Status:    StatusPending,
		Progress:  ProgressCreated,
		InputPath: inputPath,
		CreatedAt: now,
		UpdatedAt: now,
	}

	q.mu.Lock()
	q.jobs[job.ID] = job
	started := q.started
	snapshot := cloneJob(job)
	q.mu.Unlock()

	q.persistJob(snapshot)
	if started {
		q.dispatch(job.ID)
	}
	return snapshot
}

// Get returns a snapshot of the job, or false for an unknown id.
func (q *Queue) Get(id string) (*ClipJob, bool) {
	q.mu.RLock()
	job, ok := q.jobs[id]
	q.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return cloneJob(job), true
}

// Progress returns the job's percent. Unknown ids read as 0, the same as
// a job that has not moved past creation.
func (q *Queue) Progress(id string) int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	job, ok := q.jobs[id]
	if !ok {
		return 0
	}
	return job.Progress
}

// List returns job snapshots, newest first.
func (q *Queue) List() []*ClipJob {
	q.mu.RLock()
	ret := make([]*ClipJob, 0, len(q.jobs))
	for _, job := range q.jobs {
		ret = append(ret, cloneJob(job))
	}
	q.mu.RUnlock()

	sort.Slice(ret, func(i, j int) bool {
		return ret[i].CreatedAt.After(ret[j].CreatedAt)
	})
	return ret
}

// Start launches the workers and re-dispatches jobs left pending by a
// previous run.
func (q *Queue) Start(exec Executor) {
	q.mu.Lock()
	if q.started {
		q.mu.Unlock()
		return
	}
	q.started = true

	pending := make([]string, 0)
	for id, job := range q.jobs {
		if job.Status == StatusPending {
			pending = append(pending, id)
		}
	}
	q.mu.Unlock()

	for _, id := range pending {
		q.dispatch(id)
	}

	for range q.workerCount {
		q.wg.Add(1)
		go q.worker(exec)
	}
}

// Stop drains the workers. In-flight jobs finish; pending ones stay queued
// in the store for the next run.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() {
		close(q.stopCh)
		q.wg.Wait()
	})
}

// UpdateProgress advances a job's percent. Regressions are dropped so
// pollers only ever see the value grow until a terminal state.
func (q *Queue) UpdateProgress(id string, percent int) {
	q.mu.Lock()
	job, ok := q.jobs[id]
	if !ok || job.Status.Terminal() || percent <= job.Progress {
		q.mu.Unlock()
		return
	}
	job.Progress = percent
	job.UpdatedAt = time.Now()
	snapshot := cloneJob(job)
	q.mu.Unlock()

	q.persistJob(snapshot)
}

// PruneTerminalBefore removes finished jobs last touched before the cutoff
// and returns the removed snapshots so the caller can delete artifacts.
func (q *Queue) PruneTerminalBefore(cutoff time.Time) []*ClipJob {
	q.mu.Lock()
	removed := make([]*ClipJob, 0)
	for id, job := range q.jobs {
		if job.Status.Terminal() && job.UpdatedAt.Before(cutoff) {
			removed = append(removed, cloneJob(job))
			delete(q.jobs, id)
		}
	}
	q.mu.Unlock()

	for _, job := range removed {
		if q.store == nil {
			continue
		}
		if err := q.store.DeleteJob(context.Background(), job.ID); err != nil {
			log.Error("Failed to delete pruned job %s from store: %v", job.ID, err)
		}
	}
	return removed
}

func (q *Queue) worker(exec Executor) {
	defer q.wg.Done()

	for {
		select {
		case <-q.stopCh:
			return
		case id := <-q.pendingIDs:
			job, ok := q.markRunning(id)
			if !ok {
				continue
			}

			outputPath, err := exec(context.Background(), *job, func(percent int) {
				q.UpdateProgress(id, percent)
			})
			if err != nil {
				log.Error("Job %s failed: %v", id, err)
				q.markFailed(id, err)
				continue
			}
			q.markSuccess(id, outputPath)
		}
	}
}

func (q *Queue) dispatch(id string) {
	select {
	case q.pendingIDs <- id:
	default:
		go func() { q.pendingIDs <- id }()
	}
}

func (q *Queue) markRunning(id string) (*ClipJob, bool) {
	q.mu.Lock()
	job, ok := q.jobs[id]
	if !ok || job.Status != StatusPending {
		q.mu.Unlock()
		return nil, false
	}
	job.Status = StatusRunning
	job.Progress = ProgressStarted
	job.UpdatedAt = time.Now()
	snapshot := cloneJob(job)
	q.mu.Unlock()

	q.persistJob(snapshot)
	return snapshot, true
}

func (q *Queue) markSuccess(id, outputPath string) {
	q.mu.Lock()
	job, ok := q.jobs[id]
	if !ok {
		q.mu.Unlock()
		return
	}
	job.Status = StatusSuccess
	job.Progress = ProgressDone
	job.OutputPath = outputPath
	job.Error = ""
	job.UpdatedAt = time.Now()
	snapshot := cloneJob(job)
	q.mu.Unlock()

	q.persistJob(snapshot)
}

func (q *Queue) markFailed(id string, err error) {
	q.mu.Lock()
	job, ok := q.jobs[id]
	if !ok {
		q.mu.Unlock()
		return
	}
	job.Status = StatusFailed
	job.Progress = ProgressFailed
	if err != nil {
		job.Error = err.Error()
	}
	job.UpdatedAt = time.Now()
	snapshot := cloneJob(job)
	q.mu.Unlock()

	q.persistJob(snapshot)
}

// hydrateFromStore reloads persisted jobs. Jobs caught mid-run by a crash
// go back to pending with their progress reset; the source upload is still
// on disk, so re-running the pipeline from the top is safe.
func (q *Queue) hydrateFromStore(ctx context.Context) {
	if q.store == nil {
		return
	}
	loaded, err := q.store.LoadJobs(ctx)
	if err != nil {
		log.Error("Failed to load jobs from store: %v", err)
		return
	}

	now := time.Now()
	toPersist := make([]*ClipJob, 0)
	q.mu.Lock()
	for _, raw := range loaded {
		if raw == nil || raw.ID == "" {
			continue
		}
		job := cloneJob(raw)
		if job.Status == StatusRunning {
			job.Status = StatusPending
			job.Progress = ProgressCreated
			job.UpdatedAt = now
			toPersist = append(toPersist, cloneJob(job))
		}
		q.jobs[job.ID] = job
	}
	q.mu.Unlock()

	for _, job := range toPersist {
		q.persistJob(job)
	}
}

func (q *Queue) persistJob(job *ClipJob) {
	if q.store == nil || job == nil {
		return
	}
	if err := q.store.UpsertJob(context.Background(), job); err != nil {
		log.Error("Failed to persist job %s: %v", job.ID, err)
	}
}

func cloneJob(job *ClipJob) *ClipJob {
	if job == nil {
		return nil
	}
	tmp := *job
	return &tmp
}
