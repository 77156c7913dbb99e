package domain

import "time"

// JobRecord represents a canonical, deduplicated job listing keyed by JobID
type JobRecord struct {
	JobID       string    `json:"jobId"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	JobType     string    `json:"jobType"`
	Published   time.Time `json:"publishedDate"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Category    string    `json:"category"`
	Salary      string    `json:"salary,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UpsertResult holds counters of a bulk upsert
type UpsertResult struct {
	New     int
	Updated int
}
