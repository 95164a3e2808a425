package model

import "time"

// JobStatus represents the status of a download job
type JobStatus string

const (
	JobStatusPending     JobStatus = "pending"
	JobStatusDownloading JobStatus = "downloading"
	JobStatusCompleted   JobStatus = "completed"
	JobStatusFailed      JobStatus = "failed"
)

// IsActive returns true while the job still transfers data
func (s JobStatus) IsActive() bool {
	return s == JobStatusPending || s == JobStatusDownloading
}

// IsFinished returns true once the job reached a terminal status
func (s JobStatus) IsFinished() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// DownloadJob is a snapshot of a single package download
type DownloadJob struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Destination string    `json:"destination"`
	Downloaded  int64     `json:"downloaded"`
	Total       int64     `json:"total"` // -1 when the server did not advertise a length
	Percent     int       `json:"percent"`
	Status      JobStatus `json:"status"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at,omitempty"`
}

// ProgressKind tells how a ProgressEvent has to be read
type ProgressKind string

const (
	// ProgressKindProgress carries a valid Percent
	ProgressKindProgress ProgressKind = "progress"
	// ProgressKindIndeterminate is emitted when the total size is unknown; only Downloaded is valid
	ProgressKindIndeterminate ProgressKind = "indeterminate"
	// ProgressKindCompleted is the terminal event of a successful job
	ProgressKindCompleted ProgressKind = "completed"
	// ProgressKindFailed is the terminal event of a failed job
	ProgressKindFailed ProgressKind = "failed"
)

// ProgressEvent is a single notification of a download job
type ProgressEvent struct {
	JobID      string
	Kind       ProgressKind
	Percent    int
	Downloaded int64
	Total      int64
	Err        error
}

// IsTerminal returns true for the last event of a job
func (e ProgressEvent) IsTerminal() bool {
	return e.Kind == ProgressKindCompleted || e.Kind == ProgressKindFailed
}

// ProgressFunc is called by a fetcher after every chunk written to disk.
// total is -1 when unknown.
type ProgressFunc func(downloaded, total int64)
