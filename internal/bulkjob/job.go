// Package bulkjob implements the bulk screening orchestrator: accept a
// job (inline items or an object-store NDJSON path), stream and chunk
// its input, screen each chunk with bounded parallelism, and write
// matches/summary artifacts on completion.
package bulkjob

import "time"

// Status is a BulkJob's lifecycle state. Transitions are monotone:
// COMPLETED and FAILED are terminal.
type Status string

const (
	StatusSubmitted Status = "SUBMITTED"
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

func (s Status) terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// InputItem is one screening request inside a bulk job, whether
// supplied inline or decoded from an NDJSON line.
type InputItem struct {
	RequestID  string `json:"requestId"`
	Name       string `json:"name"`
	EntityType string `json:"entityType"`
	Source     string `json:"source,omitempty"`
}

// Match is one (input record × matched entity) result row, the unit
// written to matches.json.
type Match struct {
	CustomerID string  `json:"customerId"`
	Name       string  `json:"name"`
	EntityID   string  `json:"entityId"`
	MatchScore float64 `json:"matchScore"`
	Source     string  `json:"source"`
}

// Summary is the JSON document written to summary.json on job
// completion.
type Summary struct {
	JobID          string     `json:"jobId"`
	Status         Status     `json:"status"`
	TotalItems     int        `json:"totalItems"`
	ProcessedItems int        `json:"processedItems"`
	MatchedItems   int        `json:"matchedItems"`
	SubmittedAt    time.Time  `json:"submittedAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	DurationMS     int64      `json:"duration"`
	ResultPath     string     `json:"resultPath,omitempty"`
}

// StatusSnapshot is the immutable view returned by GetJobStatus: never
// the job's mutable internals.
type StatusSnapshot struct {
	JobID                  string
	JobName                string
	Status                 Status
	TotalItems             int
	ProcessedItems         int
	MatchedItems           int
	ParseErrors            int
	PercentComplete        int
	EstimatedTimeRemaining time.Duration
	SubmittedAt            time.Time
	CompletedAt            *time.Time
	ResultPath             string
	ErrorMessage           string
	Matches                []Match
}
