package appmetrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInstrumentHandlerRecordsRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/widgets", "200"))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	instrumented := InstrumentHandler(next)

	rr := httptest.NewRecorder()
	instrumented.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/widgets", nil))

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/widgets", "200"))
	assert.Equal(t, before+1, after)
}

func TestInstrumentHandlerSkipsMetricsPath(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	instrumented := InstrumentHandler(next)

	rr := httptest.NewRecorder()
	instrumented.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.True(t, called)
}

func TestBulkJobLifecycleGaugeRoundTrips(t *testing.T) {
	before := testutil.ToFloat64(bulkJobsActive)
	BulkJobStarted()
	assert.Equal(t, before+1, testutil.ToFloat64(bulkJobsActive))
	BulkJobFinished(10 * time.Millisecond)
	assert.Equal(t, before, testutil.ToFloat64(bulkJobsActive))
}

func TestRecordParseAndScoringErrorsIncrementCounters(t *testing.T) {
	beforeParse := testutil.ToFloat64(parseErrorsTotal)
	beforeScoring := testutil.ToFloat64(scoringErrorsTotal)
	RecordParseError()
	RecordScoringError()
	assert.Equal(t, beforeParse+1, testutil.ToFloat64(parseErrorsTotal))
	assert.Equal(t, beforeScoring+1, testutil.ToFloat64(scoringErrorsTotal))
}
