package httpapi

import (
	"net/http"
	"strings"

	"github.com/sentineltrust/screening-engine/internal/scoring"
)

// similaritySection is the PUT-able subset of scoring.Weights governing
// how two strings/fields are compared, independent of their relative
// importance in the final aggregate.
type similaritySection struct {
	JaroWinklerPrefixSize         int     `json:"jaroWinklerPrefixSize"`
	LengthDifferencePenaltyWeight float64 `json:"lengthDifferencePenaltyWeight"`
	LengthDifferenceCutoffFactor  float64 `json:"lengthDifferenceCutoffFactor"`
	UnmatchedIndexTokenWeight     float64 `json:"unmatchedIndexTokenWeight"`
	PhoneticFilteringDisabled     bool    `json:"phoneticFilteringDisabled"`
	KeepStopwords                 bool    `json:"keepStopwords"`
}

// weightsSection is the PUT-able subset of scoring.Weights governing
// each factor's relative contribution and the aggregate's thresholds.
type weightsSection struct {
	NameWeight           float64 `json:"nameWeight"`
	AddressWeight        float64 `json:"addressWeight"`
	CriticalIDWeight     float64 `json:"criticalIdWeight"`
	SupportingInfoWeight float64 `json:"supportingInfoWeight"`
	MinMatch             float64 `json:"minMatch"`
	ExactMatchThreshold  float64 `json:"exactMatchThreshold"`
	NameEnabled          bool    `json:"nameEnabled"`
	AddressEnabled       bool    `json:"addressEnabled"`
	GovIDEnabled         bool    `json:"govIdEnabled"`
	CryptoEnabled        bool    `json:"cryptoEnabled"`
	ContactEnabled       bool    `json:"contactEnabled"`
	DateEnabled          bool    `json:"dateEnabled"`
	SourceListEnabled    bool    `json:"sourceListEnabled"`
}

func toSimilaritySection(w scoring.Weights) similaritySection {
	return similaritySection{
		JaroWinklerPrefixSize:         w.JaroWinklerPrefixSize,
		LengthDifferencePenaltyWeight: w.LengthDifferencePenaltyWeight,
		LengthDifferenceCutoffFactor:  w.LengthDifferenceCutoffFactor,
		UnmatchedIndexTokenWeight:     w.UnmatchedIndexTokenWeight,
		PhoneticFilteringDisabled:     w.PhoneticFilteringDisabled,
		KeepStopwords:                 w.KeepStopwords,
	}
}

func toWeightsSection(w scoring.Weights) weightsSection {
	return weightsSection{
		NameWeight:           w.NameWeight,
		AddressWeight:        w.AddressWeight,
		CriticalIDWeight:     w.CriticalIDWeight,
		SupportingInfoWeight: w.SupportingInfoWeight,
		MinMatch:             w.MinMatch,
		ExactMatchThreshold:  w.ExactMatchThreshold,
		NameEnabled:          w.NameEnabled,
		AddressEnabled:       w.AddressEnabled,
		GovIDEnabled:         w.GovIDEnabled,
		CryptoEnabled:        w.CryptoEnabled,
		ContactEnabled:       w.ContactEnabled,
		DateEnabled:          w.DateEnabled,
		SourceListEnabled:    w.SourceListEnabled,
	}
}

func (s similaritySection) applyTo(w scoring.Weights) scoring.Weights {
	w.JaroWinklerPrefixSize = s.JaroWinklerPrefixSize
	w.LengthDifferencePenaltyWeight = s.LengthDifferencePenaltyWeight
	w.LengthDifferenceCutoffFactor = s.LengthDifferenceCutoffFactor
	w.UnmatchedIndexTokenWeight = s.UnmatchedIndexTokenWeight
	w.PhoneticFilteringDisabled = s.PhoneticFilteringDisabled
	w.KeepStopwords = s.KeepStopwords
	return w
}

func (s weightsSection) applyTo(w scoring.Weights) scoring.Weights {
	w.NameWeight = s.NameWeight
	w.AddressWeight = s.AddressWeight
	w.CriticalIDWeight = s.CriticalIDWeight
	w.SupportingInfoWeight = s.SupportingInfoWeight
	w.MinMatch = s.MinMatch
	w.ExactMatchThreshold = s.ExactMatchThreshold
	w.NameEnabled = s.NameEnabled
	w.AddressEnabled = s.AddressEnabled
	w.GovIDEnabled = s.GovIDEnabled
	w.CryptoEnabled = s.CryptoEnabled
	w.ContactEnabled = s.ContactEnabled
	w.DateEnabled = s.DateEnabled
	w.SourceListEnabled = s.SourceListEnabled
	return w
}

type adminConfigResponse struct {
	Similarity similaritySection `json:"similarity"`
	Weights    weightsSection    `json:"weights"`
}

// adminConfigDiffResponse is returned by the PUT endpoints so operators
// can confirm exactly which fields a 200 response changed.
type adminConfigDiffResponse struct {
	Previous adminConfigResponse `json:"previous"`
	Current  adminConfigResponse `json:"current"`
}

// adminConfig handles GET /api/admin/config.
func (h *handler) adminConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	current := h.config.Load()
	writeJSON(w, http.StatusOK, adminConfigResponse{
		Similarity: toSimilaritySection(current),
		Weights:    toWeightsSection(current),
	})
}

// adminConfigSection handles PUT /api/admin/config/{similarity|weights}.
func (h *handler) adminConfigSection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPatch {
		methodNotAllowed(w, http.MethodPut, http.MethodPatch)
		return
	}

	section := strings.TrimPrefix(r.URL.Path, "/api/admin/config/")
	current := h.config.Load()

	var updated scoring.Weights
	switch section {
	case "similarity":
		var body similaritySection
		if err := decodeJSON(r.Body, &body); err != nil {
			writeBadRequest(w, err)
			return
		}
		updated = body.applyTo(current)
	case "weights":
		var body weightsSection
		if err := decodeJSON(r.Body, &body); err != nil {
			writeBadRequest(w, err)
			return
		}
		updated = body.applyTo(current)
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if err := updated.Validate(); err != nil {
		writeBadRequest(w, err)
		return
	}
	previous := h.config.Store(updated)

	writeJSON(w, http.StatusOK, adminConfigDiffResponse{
		Previous: adminConfigResponse{Similarity: toSimilaritySection(previous), Weights: toWeightsSection(previous)},
		Current:  adminConfigResponse{Similarity: toSimilaritySection(updated), Weights: toWeightsSection(updated)},
	})
}

// adminConfigReset handles POST /api/admin/config/reset.
func (h *handler) adminConfigReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	h.config.Reset()
	current := h.config.Load()
	writeJSON(w, http.StatusOK, adminConfigResponse{
		Similarity: toSimilaritySection(current),
		Weights:    toWeightsSection(current),
	})
}
