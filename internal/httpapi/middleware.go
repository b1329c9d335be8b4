package httpapi

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/sentineltrust/screening-engine/internal/apperr"
	"github.com/sentineltrust/screening-engine/internal/applog"
	"github.com/sentineltrust/screening-engine/internal/ratelimit"
)

// statusRecorder captures the status code written by the wrapped
// handler, for logging after the fact.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withRecovery recovers panics from next, logs them with a stack
// trace, and responds 500 instead of crashing the server.
func withRecovery(log *applog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithContext(r.Context()).WithFields(map[string]interface{}{
					"panic":  fmt.Sprintf("%v", rec),
					"stack":  string(debug.Stack()),
					"path":   r.URL.Path,
					"method": r.Method,
				}).Error("panic recovered")
				writeError(w, apperr.Internal("internal error", fmt.Errorf("%v", rec)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// withLogging logs every request's method, path, status, and duration.
func withLogging(log *applog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.LogHTTPRequest(r.Context(), r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// withRateLimit rejects requests once the caller's client key has
// exhausted its token bucket.
func withRateLimit(limiter *ratelimit.RateLimiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(ratelimit.ClientKey(r)) {
			writeError(w, apperr.RateLimited())
			return
		}
		next.ServeHTTP(w, r)
	})
}
