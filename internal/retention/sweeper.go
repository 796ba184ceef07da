package retention

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/clipfile/clipper/internal/jobs"
	"github.com/clipfile/clipper/pkg/log"
)

type jobPruner interface {
	PruneTerminalBefore(cutoff time.Time) []*jobs.ClipJob
}

type artifactRemover interface {
	RemoveJobFiles(jobID string) error
}

// Sweeper enforces the retention policy: terminal jobs older than the TTL
// are dropped from the queue and their on-disk artifacts deleted. Running
// and pending jobs are never touched.
type Sweeper struct {
	queue jobPruner
	files artifactRemover
	ttl   time.Duration
}

func NewSweeper(queue jobPruner, files artifactRemover, ttl time.Duration) *Sweeper {
	return &Sweeper{queue: queue, files: files, ttl: ttl}
}

// Sweep performs one pass.
func (s *Sweeper) Sweep() {
	cutoff := time.Now().Add(-s.ttl)
	removed := s.queue.PruneTerminalBefore(cutoff)
	for _, job := range removed {
		if err := s.files.RemoveJobFiles(job.ID); err != nil {
			log.Error("Failed to remove artifacts of expired job %s: %v", job.ID, err)
			continue
		}
		log.Info("Expired job %s swept (status %s)", job.ID, job.Status)
	}
	if len(removed) > 0 {
		log.Info("Retention sweep removed %d job(s)", len(removed))
	}
}

// Schedule registers the sweep on the given cron engine.
func (s *Sweeper) Schedule(c *cron.Cron, expr string) error {
	_, err := c.AddFunc(expr, s.Sweep)
	return err
}
