package bulkjob

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sentineltrust/screening-engine/internal/apperr"
	"github.com/sentineltrust/screening-engine/internal/applog"
	"github.com/sentineltrust/screening-engine/internal/appmetrics"
	"github.com/sentineltrust/screening-engine/internal/entity"
	"github.com/sentineltrust/screening-engine/internal/objectstore"
	"github.com/sentineltrust/screening-engine/internal/search"
)

// ChunkSize is the fixed partition size for streamed bulk input, per
// the bulk job manager's chunking rule.
const ChunkSize = 1000

// DefaultChunkParallelism is the number of per-item screenings run
// concurrently within one chunk when a Manager is not given an
// explicit override.
const DefaultChunkParallelism = 8

// Manager owns the in-memory jobId → job map and the worker pool that
// processes them. One goroutine owns a job end-to-end; within that
// goroutine, a bounded second pool screens items of the current chunk
// concurrently.
type Manager struct {
	mu   sync.RWMutex
	jobs map[string]*job

	searcher         *search.Service
	store            objectstore.Store
	log              *applog.Logger
	chunkParallelism int
}

// New constructs a Manager. chunkParallelism <= 0 falls back to
// DefaultChunkParallelism.
func New(searcher *search.Service, store objectstore.Store, log *applog.Logger, chunkParallelism int) *Manager {
	if chunkParallelism <= 0 {
		chunkParallelism = DefaultChunkParallelism
	}
	return &Manager{
		jobs:             make(map[string]*job),
		searcher:         searcher,
		store:            store,
		log:              log,
		chunkParallelism: chunkParallelism,
	}
}

// SubmitJob validates inline items, registers a SUBMITTED job, and
// returns immediately; a worker goroutine performs the screening.
func (m *Manager) SubmitJob(name string, items []InputItem, minMatch *float64, limit *int) (*StatusSnapshot, error) {
	if len(items) == 0 {
		return nil, apperr.InvalidInput("items", "must be non-empty")
	}
	for i, item := range items {
		if item.Name == "" {
			return nil, apperr.InvalidInput(fmt.Sprintf("items[%d].name", i), "must not be empty")
		}
	}

	j := m.register(name, minMatch, limit)
	j.setTotal(len(items))

	go m.run(j, func(ctx context.Context) error {
		return m.processInline(ctx, j, items)
	})

	snap := j.snapshot()
	return &snap, nil
}

// SubmitJobFromS3 validates s3Path begins with the object-store scheme
// and registers a job that streams its input from the store.
func (m *Manager) SubmitJobFromS3(name, s3Path string, minMatch *float64, limit *int) (*StatusSnapshot, error) {
	if _, _, err := objectstore.ParsePath(s3Path); err != nil {
		return nil, err
	}

	j := m.register(name, minMatch, limit)

	go m.run(j, func(ctx context.Context) error {
		return m.processStreamed(ctx, j, s3Path)
	})

	snap := j.snapshot()
	return &snap, nil
}

func (m *Manager) register(name string, minMatch *float64, limit *int) *job {
	id := uuid.New().String()
	j := newJob(id, name, minMatch, limit)

	m.mu.Lock()
	m.jobs[id] = j
	m.mu.Unlock()
	return j
}

// GetJobStatus returns a snapshot of jobID's current state, or false
// if no such job is known.
func (m *Manager) GetJobStatus(jobID string) (StatusSnapshot, bool) {
	m.mu.RLock()
	j, ok := m.jobs[jobID]
	m.mu.RUnlock()
	if !ok {
		return StatusSnapshot{}, false
	}
	return j.snapshot(), true
}

// run executes the worker protocol for j: transition to RUNNING, run
// process, write result artifacts, transition to a terminal status.
// Any panic inside process is recovered and reported as FAILED, per
// the "uncaught exception in the worker itself" error kind.
func (m *Manager) run(j *job, process func(ctx context.Context) error) {
	ctx := applog.WithJobID(context.Background(), j.id)

	appmetrics.BulkJobStarted()
	started := time.Now()
	defer func() { appmetrics.BulkJobFinished(time.Since(started)) }()

	defer func() {
		if r := recover(); r != nil {
			j.fail(fmt.Sprintf("panic: %v", r))
			m.log.LogJobFailure(ctx, j.id, fmt.Errorf("%v", r))
		}
	}()

	j.transition(StatusRunning)
	m.log.LogJobTransition(ctx, j.id, string(StatusSubmitted), string(StatusRunning))

	if err := process(ctx); err != nil {
		j.fail(err.Error())
		m.log.LogJobFailure(ctx, j.id, err)
		return
	}

	resultPath, err := m.writeResults(ctx, j)
	if err != nil {
		j.fail(err.Error())
		m.log.LogJobFailure(ctx, j.id, err)
		return
	}

	j.complete(resultPath)
	m.log.LogJobTransition(ctx, j.id, string(StatusRunning), string(StatusCompleted))
}

// processInline chunks an in-memory item slice and screens it.
func (m *Manager) processInline(ctx context.Context, j *job, items []InputItem) error {
	for start := 0; start < len(items); start += ChunkSize {
		end := start + ChunkSize
		if end > len(items) {
			end = len(items)
		}
		m.screenChunk(ctx, j, items[start:end])
		m.log.LogJobProgress(ctx, j.id, j.snapshot().ProcessedItems, len(items), j.snapshot().MatchedItems)
	}
	return nil
}

// processStreamed streams NDJSON from the object store, chunking as
// records arrive since the total item count is unknown up front.
func (m *Manager) processStreamed(ctx context.Context, j *job, s3Path string) error {
	_, key, err := objectstore.ParsePath(s3Path)
	if err != nil {
		return err
	}

	reader, err := m.store.OpenNDJSON(ctx, key)
	if err != nil {
		return apperr.StorageUnavailable("open", err)
	}
	defer reader.Close()

	var chunk []InputItem
	total := 0
	scanErr := objectstore.ScanNDJSON(reader, func(lineNo int, raw []byte) error {
		var item InputItem
		if derr := json.Unmarshal(raw, &item); derr != nil {
			j.recordParseError()
			appmetrics.RecordParseError()
			m.log.LogParseError(ctx, j.id, lineNo, derr)
			return nil
		}
		total++
		chunk = append(chunk, item)
		if len(chunk) == ChunkSize {
			m.screenChunk(ctx, j, chunk)
			chunk = chunk[:0]
		}
		return nil
	})
	if scanErr != nil {
		return apperr.StorageUnavailable("read", scanErr)
	}
	if len(chunk) > 0 {
		m.screenChunk(ctx, j, chunk)
	}

	j.setTotal(total)
	return nil
}

// screenChunk screens one chunk of items with bounded parallelism: at
// most m.chunkParallelism screenings run concurrently within the
// chunk, and every item's completion is recorded before screenChunk
// returns. A panic while screening one item is recovered, logged and
// counted as a scoring error, and that item is recorded with no
// matches.
func (m *Manager) screenChunk(ctx context.Context, j *job, items []InputItem) {
	sem := make(chan struct{}, m.chunkParallelism)
	var wg sync.WaitGroup

	for _, item := range items {
		item := item
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					appmetrics.RecordScoringError()
					m.log.LogScoringError(ctx, j.id, item.RequestID, fmt.Errorf("panic: %v", r))
					j.recordItem(nil)
				}
			}()
			m.screenItem(ctx, j, item)
		}()
	}
	wg.Wait()
}

func (m *Manager) screenItem(ctx context.Context, j *job, item InputItem) {
	resp := m.searcher.Search(search.Query{
		Name:     item.Name,
		Type:     mapEntityType(item.EntityType),
		Source:   entity.Source(item.Source),
		MinMatch: j.minMatch,
		Limit:    j.limit,
	})

	matches := make([]Match, 0, len(resp.Results))
	for _, r := range resp.Results {
		matches = append(matches, Match{
			CustomerID: item.RequestID,
			Name:       item.Name,
			EntityID:   r.Entity.ID,
			MatchScore: r.Breakdown.TotalWeightedScore,
			Source:     string(r.Entity.Source),
		})
	}
	j.recordItem(matches)
	appmetrics.RecordItemsProcessed(1)
}

func mapEntityType(raw string) entity.Type {
	switch raw {
	case "INDIVIDUAL", "PERSON":
		return entity.TypePerson
	case "BUSINESS":
		return entity.TypeBusiness
	case "ORGANIZATION":
		return entity.TypeOrganization
	case "VESSEL":
		return entity.TypeVessel
	case "AIRCRAFT":
		return entity.TypeAircraft
	default:
		return entity.TypeUnknown
	}
}

// writeResults writes matches.json and summary.json for a completed
// job and returns the result path recorded on the job.
func (m *Manager) writeResults(ctx context.Context, j *job) (string, error) {
	snap := j.snapshot()

	matchesKey, summaryKey := objectstore.ResultKeys(j.id)
	if err := m.store.WriteJSON(ctx, matchesKey, snap.Matches); err != nil {
		return "", apperr.StorageUnavailable("write matches", err)
	}

	completedAt := time.Now()
	summary := Summary{
		JobID:          j.id,
		Status:         StatusCompleted,
		TotalItems:     snap.TotalItems,
		ProcessedItems: snap.ProcessedItems,
		MatchedItems:   snap.MatchedItems,
		SubmittedAt:    snap.SubmittedAt,
		CompletedAt:    &completedAt,
		DurationMS:     completedAt.Sub(snap.SubmittedAt).Milliseconds(),
		ResultPath:     matchesKey,
	}
	if err := m.store.WriteJSON(ctx, summaryKey, summary); err != nil {
		return "", apperr.StorageUnavailable("write summary", err)
	}

	return matchesKey, nil
}
