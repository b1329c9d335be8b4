package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentineltrust/screening-engine/internal/applog"
	"github.com/sentineltrust/screening-engine/internal/bulkjob"
	"github.com/sentineltrust/screening-engine/internal/entity"
	"github.com/sentineltrust/screening-engine/internal/index"
	"github.com/sentineltrust/screening-engine/internal/objectstore"
	"github.com/sentineltrust/screening-engine/internal/scoring"
	"github.com/sentineltrust/screening-engine/internal/search"
)

func testHandler(t *testing.T) http.Handler {
	t.Helper()
	idx := index.New()
	idx.Replace([]*entity.Entity{
		{ID: "1", SourceID: "sdn-1", Name: "Nicolas Maduro", Source: entity.SourceOFACSDN, Type: entity.TypePerson},
	})
	cfg := scoring.NewConfig(scoring.DefaultWeights())
	searcher := search.New(idx, cfg)
	store := objectstore.NewMemoryStore()
	log := applog.New("test", "error", "json")
	jobs := bulkjob.New(searcher, store, log, 4)
	return NewHandler(searcher, jobs, cfg, log, nil)
}

func TestHealthEndpoint(t *testing.T) {
	h := testHandler(t)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSearchEndpointReturnsEntities(t *testing.T) {
	h := testHandler(t)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/search?name=Nicolas+Maduro", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Entities, 1)
	assert.Equal(t, "Nicolas Maduro", resp.Entities[0].Name)
	assert.NotEmpty(t, resp.RequestID)
}

func TestSearchEndpointRejectsBadLimit(t *testing.T) {
	h := testHandler(t)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/search?name=x&limit=notanumber", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSubmitBulkJobRejectsBothItemsAndS3Path(t *testing.T) {
	h := testHandler(t)
	body, _ := json.Marshal(map[string]interface{}{
		"items":       []bulkjob.InputItem{{RequestID: "r1", Name: "X"}},
		"s3InputPath": "s3://bucket/key.ndjson",
	})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v2/batch/bulk-job", bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSubmitBulkJobAcceptsInlineItems(t *testing.T) {
	h := testHandler(t)
	body, _ := json.Marshal(map[string]interface{}{
		"items":   []bulkjob.InputItem{{RequestID: "r1", Name: "Nicolas Maduro"}},
		"jobName": "batch-1",
	})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v2/batch/bulk-job", bytes.NewReader(body)))
	require.Equal(t, http.StatusAccepted, rr.Code)

	var resp submitBulkJobResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "SUBMITTED", resp.Status)
	assert.NotEmpty(t, resp.JobID)
}

func TestBulkJobStatusUnknownReturns404(t *testing.T) {
	h := testHandler(t)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v2/batch/bulk-job/does-not-exist", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdminConfigGetReturnsDefaults(t *testing.T) {
	h := testHandler(t)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/config", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp adminConfigResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, scoring.DefaultWeights().NameWeight, resp.Weights.NameWeight)
}

func TestAdminConfigPutWeightsValidates(t *testing.T) {
	h := testHandler(t)
	body, _ := json.Marshal(weightsSection{
		NameWeight:          -1,
		MinMatch:            0.5,
		ExactMatchThreshold: 0.9,
	})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/admin/config/weights", bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Bad Request", resp["error"])
}

func TestAdminConfigPutWeightsAppliesAndDiffs(t *testing.T) {
	h := testHandler(t)
	body, _ := json.Marshal(weightsSection{
		NameWeight:           40,
		AddressWeight:        25,
		CriticalIDWeight:     50,
		SupportingInfoWeight: 15,
		MinMatch:             0.88,
		ExactMatchThreshold:  0.99,
		NameEnabled:          true,
		AddressEnabled:       true,
		GovIDEnabled:         true,
		CryptoEnabled:        true,
		ContactEnabled:       true,
		DateEnabled:          true,
		SourceListEnabled:    true,
	})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/admin/config/weights", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp adminConfigDiffResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, float64(40), resp.Current.Weights.NameWeight)
	assert.Equal(t, scoring.DefaultWeights().NameWeight, resp.Previous.Weights.NameWeight)
}

func TestAdminConfigResetRestoresDefaults(t *testing.T) {
	h := testHandler(t)
	body, _ := json.Marshal(weightsSection{NameWeight: 5, MinMatch: 0.5, ExactMatchThreshold: 0.9})
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/api/admin/config/weights", bytes.NewReader(body)))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/admin/config/reset", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp adminConfigResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, scoring.DefaultWeights().NameWeight, resp.Weights.NameWeight)
}

func TestMethodNotAllowedOnSearch(t *testing.T) {
	h := testHandler(t)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/search", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
