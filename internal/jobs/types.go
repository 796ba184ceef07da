package jobs

import "time"

type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Terminal reports whether the status can never change again.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// Progress checkpoints. Values between the initial marker and done are
// written by the pipeline after each stage commits; ProgressFailed is the
// sentinel pollers see for a dead job.
const (
	ProgressCreated = 1
	ProgressStarted = 5
	ProgressDone    = 100
	ProgressFailed  = -1
)

// ClipJob is one upload-to-download unit of work. A job record is written
// only by the worker executing it; once terminal it is never mutated.
type ClipJob struct {
	ID         string    `json:"id"`
	Status     Status    `json:"status"`
	Progress   int       `json:"progress"`
	InputPath  string    `json:"input_path"`
	OutputPath string    `json:"output_path,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
