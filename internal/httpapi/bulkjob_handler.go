package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/sentineltrust/screening-engine/internal/apperr"
	"github.com/sentineltrust/screening-engine/internal/bulkjob"
)

// submitBulkJobRequest decodes both submission shapes; exactly one of
// Items/S3InputPath must be set.
type submitBulkJobRequest struct {
	Items       []bulkjob.InputItem `json:"items,omitempty"`
	S3InputPath string              `json:"s3InputPath,omitempty"`
	JobName     string              `json:"jobName"`
	// MinMatch and Limit are pointers so an explicit 0 is distinguishable
	// from an omitted field (spec §8 boundary behaviors).
	MinMatch *float64 `json:"minMatch,omitempty"`
	Limit    *int     `json:"limit,omitempty"`
}

type submitBulkJobResponse struct {
	JobID       string    `json:"jobId"`
	Status      string    `json:"status"`
	TotalItems  int       `json:"totalItems"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// submitBulkJob handles POST /v2/batch/bulk-job.
func (h *handler) submitBulkJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req submitBulkJobRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, apperr.InvalidInput("body", "malformed JSON: "+err.Error()))
		return
	}

	hasItems := len(req.Items) > 0
	hasS3 := req.S3InputPath != ""
	if hasItems == hasS3 {
		writeError(w, apperr.InvalidInput("items/s3InputPath", "exactly one of items or s3InputPath must be set"))
		return
	}

	var (
		snap *bulkjob.StatusSnapshot
		err  error
	)
	if hasItems {
		snap, err = h.jobs.SubmitJob(req.JobName, req.Items, req.MinMatch, req.Limit)
	} else {
		snap, err = h.jobs.SubmitJobFromS3(req.JobName, req.S3InputPath, req.MinMatch, req.Limit)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, submitBulkJobResponse{
		JobID:       snap.JobID,
		Status:      string(snap.Status),
		TotalItems:  snap.TotalItems,
		SubmittedAt: snap.SubmittedAt,
	})
}

type bulkJobStatusResponse struct {
	JobID                  string          `json:"jobId"`
	Status                 string          `json:"status"`
	TotalItems             int             `json:"totalItems"`
	ProcessedItems         int             `json:"processedItems"`
	MatchedItems           int             `json:"matchedItems"`
	PercentComplete        int             `json:"percentComplete"`
	EstimatedTimeRemaining string          `json:"estimatedTimeRemaining"`
	ResultPath             string          `json:"resultPath,omitempty"`
	ErrorMessage           string          `json:"errorMessage,omitempty"`
	Matches                []bulkjob.Match `json:"matches,omitempty"`
}

// bulkJobStatus handles GET /v2/batch/bulk-job/{jobId}.
func (h *handler) bulkJobStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	jobID := strings.TrimPrefix(r.URL.Path, "/v2/batch/bulk-job/")
	if jobID == "" {
		writeError(w, apperr.InvalidInput("jobId", "must not be empty"))
		return
	}

	snap, ok := h.jobs.GetJobStatus(jobID)
	if !ok {
		writeError(w, apperr.NotFound("bulkJob", jobID))
		return
	}

	writeJSON(w, http.StatusOK, bulkJobStatusResponse{
		JobID:                  snap.JobID,
		Status:                 string(snap.Status),
		TotalItems:             snap.TotalItems,
		ProcessedItems:         snap.ProcessedItems,
		MatchedItems:           snap.MatchedItems,
		PercentComplete:        snap.PercentComplete,
		EstimatedTimeRemaining: clampDuration(snap.EstimatedTimeRemaining).String(),
		ResultPath:             snap.ResultPath,
		ErrorMessage:           snap.ErrorMessage,
		Matches:                snap.Matches,
	})
}
