// Package httpapi exposes the screening engine over HTTP: single-query
// search, bulk job submission and status, admin config, and health.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sentineltrust/screening-engine/internal/apperr"
	"github.com/sentineltrust/screening-engine/internal/applog"
	"github.com/sentineltrust/screening-engine/internal/appmetrics"
	"github.com/sentineltrust/screening-engine/internal/bulkjob"
	"github.com/sentineltrust/screening-engine/internal/ratelimit"
	"github.com/sentineltrust/screening-engine/internal/scoring"
	"github.com/sentineltrust/screening-engine/internal/search"
	"github.com/sentineltrust/screening-engine/pkg/version"
)

// handler holds the dependencies every route needs.
type handler struct {
	searcher *search.Service
	jobs     *bulkjob.Manager
	config   *scoring.Config
	log      *applog.Logger
}

// NewHandler builds the engine's HTTP surface. limiter may be nil, in
// which case no rate limiting is applied.
func NewHandler(searcher *search.Service, jobs *bulkjob.Manager, config *scoring.Config, log *applog.Logger, limiter *ratelimit.RateLimiter) http.Handler {
	h := &handler{searcher: searcher, jobs: jobs, config: config, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.health)
	mux.Handle("/metrics", appmetrics.Handler())
	mux.HandleFunc("/v1/search", h.search)
	mux.HandleFunc("/v2/batch/bulk-job", h.submitBulkJob)
	mux.HandleFunc("/v2/batch/bulk-job/", h.bulkJobStatus)
	mux.HandleFunc("/api/admin/config", h.adminConfig)
	mux.HandleFunc("/api/admin/config/similarity", h.adminConfigSection)
	mux.HandleFunc("/api/admin/config/weights", h.adminConfigSection)
	mux.HandleFunc("/api/admin/config/reset", h.adminConfigReset)

	var top http.Handler = mux
	top = withLogging(h.log, top)
	top = appmetrics.InstrumentHandler(top)
	top = withRecovery(h.log, top)
	if limiter != nil {
		top = withRateLimit(limiter, top)
	}
	return top
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.Version})
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError renders err as its coded JSON shape when it is a
// *apperr.ServiceError, else falls back to a generic 500.
func writeError(w http.ResponseWriter, err error) {
	svcErr := apperr.As(err)
	if svcErr == nil {
		svcErr = apperr.Internal("internal error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(svcErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(svcErr)
}

// writeBadRequest renders the admin config surface's fixed error shape.
func writeBadRequest(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "Bad Request",
		"message": "Invalid configuration: " + err.Error(),
	})
}

func methodNotAllowed(w http.ResponseWriter, methods ...string) {
	if len(methods) > 0 {
		for i, m := range methods {
			if i == 0 {
				w.Header().Set("Allow", m)
			} else {
				w.Header().Add("Allow", m)
			}
		}
	}
	w.WriteHeader(http.StatusMethodNotAllowed)
}

func newRequestID() string {
	return uuid.New().String()
}

func clampDuration(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
