package jobs

import "context"

// Store persists job records so progress survives restarts. Implementations
// are swappable: an in-memory map for single-process runs and tests, sqlite
// for durable deployments.
type Store interface {
	LoadJobs(ctx context.Context) ([]*ClipJob, error)
	UpsertJob(ctx context.Context, job *ClipJob) error
	DeleteJob(ctx context.Context, jobID string) error
}
