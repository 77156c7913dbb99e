package domain

import (
	"errors"
	"time"
)

// ImportStatus is the lifecycle state of an import attempt.
//
//	pending ──► processing ──► completed
//	               │  ▲
//	               └──┘ (redelivery)  ──► failed
//
// completed and failed are terminal.
type ImportStatus string

const (
	ImportPending    ImportStatus = "pending"
	ImportProcessing ImportStatus = "processing"
	ImportCompleted  ImportStatus = "completed"
	ImportFailed     ImportStatus = "failed"
)

// ReasonMissingFields is recorded for items without identity or title
const ReasonMissingFields = "Missing required fields: jobId or title"

// ErrInvalidTransition returned when a status change is not allowed by the state machine
var ErrInvalidTransition = errors.New("invalid import status transition")

// ErrNotFound returned when a record doesn't exist
var ErrNotFound = errors.New("not found")

var importTransitions = map[ImportStatus][]ImportStatus{
	ImportPending:    {ImportProcessing},
	ImportProcessing: {ImportProcessing, ImportCompleted, ImportFailed},
}

// CanTransition reports whether moving from one status to another is allowed
func CanTransition(from, to ImportStatus) bool {
	for _, s := range importTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// SourcesFor returns statuses from which the target status can be reached
func SourcesFor(to ImportStatus) []ImportStatus {
	var res []ImportStatus
	for _, from := range []ImportStatus{ImportPending, ImportProcessing, ImportCompleted, ImportFailed} {
		if CanTransition(from, to) {
			res = append(res, from)
		}
	}
	return res
}

// IsTerminal returns true for completed and failed
func (s ImportStatus) IsTerminal() bool {
	return s == ImportCompleted || s == ImportFailed
}

// FailedItem describes a feed item rejected by validation
type FailedItem struct {
	ItemID string `json:"jobId"`
	Reason string `json:"reason"`
}

// ImportLog is the audit record of one import attempt
type ImportLog struct {
	ImportID     string       `json:"importId"`
	FeedURL      string       `json:"feedUrl"`
	Category     string       `json:"category"`
	Status       ImportStatus `json:"status"`
	TotalFetched int          `json:"totalFetched"`
	NewJobs      int          `json:"newJobs"`
	UpdatedJobs  int          `json:"updatedJobs"`
	FailedCount  int          `json:"failedCount"`
	FailedJobs   []FailedItem `json:"failedJobs"`
	Error        string       `json:"error,omitempty"`
	Logs         []string     `json:"logs"`
	Attempts     int          `json:"attempts"`
	StartedAt    *time.Time   `json:"startedAt,omitempty"`
	CompletedAt  *time.Time   `json:"completedAt,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// ImportSummary carries the counters written on completion
type ImportSummary struct {
	TotalFetched int
	NewJobs      int
	UpdatedJobs  int
	FailedJobs   []FailedItem
	Note         string
}

// ImportStats aggregates counters across all import attempts
type ImportStats struct {
	TotalImports     int `json:"totalImports" db:"total_imports"`
	CompletedImports int `json:"completedImports" db:"completed_imports"`
	TotalNewJobs     int `json:"totalNewJobs" db:"total_new_jobs"`
	TotalUpdatedJobs int `json:"totalUpdatedJobs" db:"total_updated_jobs"`
	TotalFailedJobs  int `json:"totalFailedJobs" db:"total_failed_jobs"`
}

// HistoryPage is a page of import logs, newest first
type HistoryPage struct {
	Items      []ImportLog `json:"items"`
	Total      int         `json:"total"`
	TotalPages int         `json:"totalPages"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
}
