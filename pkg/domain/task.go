package domain

import (
	"errors"
	"time"
)

// ErrNoTask returned by a broker when nothing is ready within the wait window
var ErrNoTask = errors.New("no task available")

// ErrReservationLost returned by a broker when a task was redelivered after the caller reserved it,
// the caller's delivery no longer owns the task and must not change it
var ErrReservationLost = errors.New("task reservation lost")

// Task is a queued reference to one import attempt
type Task struct {
	ID          string    `json:"id"`
	ImportID    string    `json:"importId"`
	FeedURL     string    `json:"feedUrl"`
	Category    string    `json:"category"`
	Attempt     int       `json:"attempt"` // 1-based delivery number of the current reservation
	MaxAttempts int       `json:"maxAttempts"`
	LastError   string    `json:"lastError,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// QueueStats holds broker counters
type QueueStats struct {
	Ready      int `json:"ready"`
	Delayed    int `json:"delayed"`
	Processing int `json:"processing"`
	Failed     int `json:"failed"`
}

// TaskResult is reported by a task handler back to the worker pool.
// Err is nil on success; Retryable marks Err as transient, so the task may be redelivered.
type TaskResult struct {
	Status    ImportStatus
	Err       error
	Retryable bool
}

// EnqueueResult describes one feed queued by an import-all request
type EnqueueResult struct {
	URL      string `json:"url"`
	Category string `json:"category"`
	ImportID string `json:"importId,omitempty"`
	Status   string `json:"status"` // queued or error
	Error    string `json:"error,omitempty"`
}
