package domain

import "time"

type JobStatus string

const (
	JobPending JobStatus = "PENDING"
	JobRunning JobStatus = "RUNNING"
	JobDone    JobStatus = "DONE"
	JobFailed  JobStatus = "FAILED"
)

func (s JobStatus) Terminal() bool {
	return s == JobDone || s == JobFailed
}

// AnalysisJob is a pollable unit of pipeline execution. Once a job
// reaches a terminal status it is immutable; poll returns copies, so a
// snapshot is always safe to read.
type AnalysisJob struct {
	ID        string
	Question  string
	Status    JobStatus
	Result    *Analysis
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
