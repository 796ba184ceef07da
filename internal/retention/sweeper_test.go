package retention

import (
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipfile/clipper/internal/jobs"
)

type fakePruner struct {
	jobs   []*jobs.ClipJob
	cutoff time.Time
}

func (f *fakePruner) PruneTerminalBefore(cutoff time.Time) []*jobs.ClipJob {
	f.cutoff = cutoff
	return f.jobs
}

type fakeRemover struct {
	removed []string
	err     error
}

func (f *fakeRemover) RemoveJobFiles(jobID string) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, jobID)
	return nil
}

func TestSweep_RemovesArtifactsOfPrunedJobs(t *testing.T) {
	pruner := &fakePruner{jobs: []*jobs.ClipJob{
		{ID: "job-a", Status: jobs.StatusSuccess},
		{ID: "job-b", Status: jobs.StatusFailed},
	}}
	remover := &fakeRemover{}

	NewSweeper(pruner, remover, 24*time.Hour).Sweep()

	assert.Equal(t, []string{"job-a", "job-b"}, remover.removed)
	// Cutoff reflects the TTL, with some slack for the clock read.
	assert.WithinDuration(t, time.Now().Add(-24*time.Hour), pruner.cutoff, time.Minute)
}

func TestSweep_RemovalErrorDoesNotAbortThePass(t *testing.T) {
	pruner := &fakePruner{jobs: []*jobs.ClipJob{{ID: "job-a"}}}
	remover := &fakeRemover{err: errors.New("device busy")}

	// Must not panic; the failed removal is logged and skipped.
	NewSweeper(pruner, remover, time.Hour).Sweep()
	assert.Empty(t, remover.removed)
}

func TestSchedule_RegistersCronEntry(t *testing.T) {
	s := NewSweeper(&fakePruner{}, &fakeRemover{}, time.Hour)
	c := cron.New()

	require.NoError(t, s.Schedule(c, "0 * * * *"))
	assert.Len(t, c.Entries(), 1)

	require.Error(t, s.Schedule(c, "not a cron expr"))
}
