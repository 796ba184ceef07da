package jobs

import (
	"context"
	"sync"
)

// MemoryStore keeps job records in a process-local map. State does not
// survive restarts; it backs tests and the default zero-config deployment.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*ClipJob
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*ClipJob)}
}

func (s *MemoryStore) LoadJobs(context.Context) ([]*ClipJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ret := make([]*ClipJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		ret = append(ret, cloneJob(job))
	}
	return ret, nil
}

func (s *MemoryStore) UpsertJob(_ context.Context, job *ClipJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = cloneJob(job)
	return nil
}

func (s *MemoryStore) DeleteJob(_ context.Context, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, jobID)
	return nil
}
