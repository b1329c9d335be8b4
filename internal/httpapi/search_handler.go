package httpapi

import (
	"net/http"
	"strconv"

	"github.com/sentineltrust/screening-engine/internal/apperr"
	"github.com/sentineltrust/screening-engine/internal/entity"
	"github.com/sentineltrust/screening-engine/internal/scoring"
	"github.com/sentineltrust/screening-engine/internal/search"
)

// searchBreakdown is the wire shape of one result's per-factor scores.
type searchBreakdown struct {
	NameScore          float64 `json:"nameScore"`
	AltNamesScore      float64 `json:"altNamesScore"`
	AddressScore       float64 `json:"addressScore"`
	GovIDScore         float64 `json:"govIdScore"`
	CryptoScore        float64 `json:"cryptoScore"`
	ContactScore       float64 `json:"contactScore"`
	DateScore          float64 `json:"dateScore"`
	TotalWeightedScore float64 `json:"totalWeightedScore"`
}

type searchEntity struct {
	EntityID  string          `json:"entityId"`
	Name      string          `json:"name"`
	Type      entity.Type     `json:"type"`
	Source    entity.Source   `json:"source"`
	SourceID  string          `json:"sourceId"`
	Score     float64         `json:"score"`
	Breakdown searchBreakdown `json:"breakdown"`
}

type searchResponse struct {
	Entities     []searchEntity       `json:"entities"`
	TotalResults int                  `json:"totalResults"`
	RequestID    string               `json:"requestID"`
	Trace        []scoring.TraceEvent `json:"trace,omitempty"`
}

func toBreakdown(b scoring.Breakdown) searchBreakdown {
	return searchBreakdown{
		NameScore:          b.ByKind(scoring.KindName).Score,
		AltNamesScore:      b.ByKind(scoring.KindAltName).Score,
		AddressScore:       b.ByKind(scoring.KindAddress).Score,
		GovIDScore:         b.ByKind(scoring.KindGovIDs).Score,
		CryptoScore:        b.ByKind(scoring.KindCrypto).Score,
		ContactScore:       b.ByKind(scoring.KindContact).Score,
		DateScore:          b.ByKind(scoring.KindDate).Score,
		TotalWeightedScore: b.TotalWeightedScore,
	}
}

// search handles GET /v1/search.
func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	q := r.URL.Query()
	query := search.Query{
		Name:   q.Get("name"),
		Type:   entity.Type(q.Get("type")),
		Source: entity.Source(q.Get("source")),
		Trace:  q.Get("trace") == "true",
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, apperr.InvalidInput("limit", "must be an integer"))
			return
		}
		query.Limit = &limit
	}
	if raw := q.Get("minMatch"); raw != "" {
		minMatch, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, apperr.InvalidInput("minMatch", "must be a number"))
			return
		}
		query.MinMatch = &minMatch
	}

	resp := h.searcher.Search(query)

	entities := make([]searchEntity, 0, len(resp.Results))
	for _, result := range resp.Results {
		entities = append(entities, searchEntity{
			EntityID:  result.Entity.ID,
			Name:      result.Entity.Name,
			Type:      result.Entity.Type,
			Source:    result.Entity.Source,
			SourceID:  result.Entity.SourceID,
			Score:     result.Breakdown.TotalWeightedScore,
			Breakdown: toBreakdown(result.Breakdown),
		})
	}

	out := searchResponse{
		Entities:     entities,
		TotalResults: resp.TotalResults,
		RequestID:    newRequestID(),
	}
	if query.Trace {
		out.Trace = resp.Trace
	}
	writeJSON(w, http.StatusOK, out)
}
