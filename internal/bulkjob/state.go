package bulkjob

import (
	"sync"
	"time"
)

// job is the mutable, internally-owned record behind one BulkJob.
// It is mutated by the job's worker and by the per-item goroutines of
// screenChunk; a mutex guards every read and write, so GetJobStatus
// callers never observe a torn snapshot.
type job struct {
	mu sync.Mutex

	id       string
	name     string
	minMatch *float64
	limit    *int

	status      Status
	submittedAt time.Time
	startedAt   time.Time
	completedAt *time.Time

	totalItems     int
	processedItems int
	matchedItems   int
	parseErrors    int

	resultPath   string
	errorMessage string

	matches []Match
}

func newJob(id, name string, minMatch *float64, limit *int) *job {
	return &job{
		id:          id,
		name:        name,
		minMatch:    minMatch,
		limit:       limit,
		status:      StatusSubmitted,
		submittedAt: time.Now(),
	}
}

// transition moves the job to a new status. Terminal states refuse
// further transitions, preserving the at-most-once-terminal guarantee.
func (j *job) transition(to Status) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status.terminal() {
		return false
	}
	j.status = to
	if to == StatusRunning {
		j.startedAt = time.Now()
	}
	if to.terminal() {
		now := time.Now()
		j.completedAt = &now
	}
	return true
}

func (j *job) setTotal(total int) {
	j.mu.Lock()
	j.totalItems = total
	j.mu.Unlock()
}

// recordItem advances processedItems by one and, when matches is
// non-empty, matchedItems by one, appending the given matches to the
// job's buffer. It never decrements: callers only ever call this once
// per input item.
func (j *job) recordItem(matches []Match) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.processedItems++
	if len(matches) > 0 {
		j.matchedItems++
		j.matches = append(j.matches, matches...)
	}
}

func (j *job) recordParseError() {
	j.mu.Lock()
	j.parseErrors++
	j.mu.Unlock()
}

func (j *job) fail(message string) {
	j.mu.Lock()
	if j.status.terminal() {
		j.mu.Unlock()
		return
	}
	j.status = StatusFailed
	j.errorMessage = message
	now := time.Now()
	j.completedAt = &now
	j.mu.Unlock()
}

func (j *job) complete(resultPath string) {
	j.mu.Lock()
	if j.status.terminal() {
		j.mu.Unlock()
		return
	}
	j.status = StatusCompleted
	j.resultPath = resultPath
	now := time.Now()
	j.completedAt = &now
	j.mu.Unlock()
}

// snapshot returns an immutable copy of the job's current state,
// including a rough throughput-based estimated time remaining.
func (j *job) snapshot() StatusSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	percent := 0
	if j.totalItems > 0 {
		percent = (100 * j.processedItems) / j.totalItems
	}

	var eta time.Duration
	if j.status == StatusRunning && j.processedItems > 0 && j.totalItems > j.processedItems {
		elapsed := time.Since(j.startedAt)
		perItem := elapsed / time.Duration(j.processedItems)
		remaining := j.totalItems - j.processedItems
		eta = perItem * time.Duration(remaining)
	}

	matches := make([]Match, len(j.matches))
	copy(matches, j.matches)

	return StatusSnapshot{
		JobID:                  j.id,
		JobName:                j.name,
		Status:                 j.status,
		TotalItems:             j.totalItems,
		ProcessedItems:         j.processedItems,
		MatchedItems:           j.matchedItems,
		ParseErrors:            j.parseErrors,
		PercentComplete:        percent,
		EstimatedTimeRemaining: eta,
		SubmittedAt:            j.submittedAt,
		CompletedAt:            j.completedAt,
		ResultPath:             j.resultPath,
		ErrorMessage:           j.errorMessage,
		Matches:                matches,
	}
}
