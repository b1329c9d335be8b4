// Package search orchestrates a single screening query: candidate
// filtering, phonetic pre-filter, scoring, threshold filtering, and
// top-N ranking.
package search

import (
	"sort"
	"time"

	"github.com/sentineltrust/screening-engine/internal/appmetrics"
	"github.com/sentineltrust/screening-engine/internal/entity"
	"github.com/sentineltrust/screening-engine/internal/index"
	"github.com/sentineltrust/screening-engine/internal/normalize"
	"github.com/sentineltrust/screening-engine/internal/scoring"
)

// DefaultLimit and MaxLimit bound an unspecified or over-large Limit.
const (
	DefaultLimit = 10
	MaxLimit     = 200
)

// Query is a single screening request.
type Query struct {
	Name     string
	AltNames []string
	Type     entity.Type

	// GovernmentIDs/Addresses/Contact/CryptoAddresses let a
	// caller screen a fuller record than a bare name; all are
	// optional.
	GovernmentIDs   []entity.GovernmentID
	Addresses       []entity.Address
	Contact         *entity.Contact
	CryptoAddresses []entity.CryptoAddress

	// Source and Type filter the candidate pool; "" means any.
	Source entity.Source

	// Limit and MinMatch are pointers so an explicit 0 (spec §8: "limit=0
	// returns no results but still scores", "minMatch=0 returns every
	// scored candidate up to limit") is distinguishable from "not
	// provided", which falls back to DefaultLimit / the active weights'
	// MinMatch.
	Limit    *int
	MinMatch *float64
	Trace    bool
}

// Result is one scored candidate.
type Result struct {
	Entity    *entity.Entity
	Breakdown scoring.Breakdown
}

// Response is the outcome of one Search call.
type Response struct {
	Results      []Result
	TotalResults int
	Trace        []scoring.TraceEvent
}

// Service executes queries against an Index using a Config's
// currently-active weights.
type Service struct {
	index  *index.Index
	config *scoring.Config
}

// New constructs a Service over idx, scoring with cfg's live weights.
func New(idx *index.Index, cfg *scoring.Config) *Service {
	return &Service{index: idx, config: cfg}
}

// toQueryEntity builds the transient Entity used as the left-hand side
// of every comparison; it is never indexed.
func toQueryEntity(q Query) *entity.Entity {
	e := &entity.Entity{
		Name:            q.Name,
		AltNames:        q.AltNames,
		Type:            q.Type,
		GovernmentIDs:   q.GovernmentIDs,
		Addresses:       q.Addresses,
		Contact:         q.Contact,
		CryptoAddresses: q.CryptoAddresses,
	}
	e.PreparedFields = entity.Prepare(e)
	return e
}

// Search runs q against the index's current snapshot: candidate
// filter by source/type, phonetic pre-filter, score, threshold filter,
// rank, truncate.
func (s *Service) Search(q Query) Response {
	start := time.Now()
	weights := s.config.Load()

	limit := DefaultLimit
	if q.Limit != nil {
		limit = *q.Limit
	}
	if limit < 0 {
		limit = 0
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	minMatch := weights.MinMatch
	if q.MinMatch != nil {
		minMatch = *q.MinMatch
	}

	var tracer scoring.Tracer = scoring.NoopTracer
	if q.Trace {
		tracer = scoring.NewRecordingTracer()
	}
	stop := tracer.Phase("search")
	defer stop()

	query := toQueryEntity(q)

	snap := s.index.Acquire()
	candidates := snap.Filter(q.Source, q.Type)

	leadingStop := tracer.Phase("candidate_filter")
	results := make([]Result, 0, len(candidates))
	for _, candidate := range candidates {
		if !weights.PhoneticFilteringDisabled && !passesPhoneticPrefilter(query, candidate) {
			continue
		}
		breakdown := scoring.Score(query, candidate, weights, tracer)
		if breakdown.TotalWeightedScore < minMatch {
			continue
		}
		results = append(results, Result{Entity: candidate, Breakdown: breakdown})
	}
	leadingStop()

	sort.Slice(results, func(i, j int) bool {
		si, sj := results[i].Breakdown.TotalWeightedScore, results[j].Breakdown.TotalWeightedScore
		if si != sj {
			return si > sj
		}
		return results[i].Entity.SourceID < results[j].Entity.SourceID
	})

	total := len(results)
	if len(results) > limit {
		results = results[:limit]
	}

	resp := Response{Results: results, TotalResults: total}
	if q.Trace {
		resp.Trace = tracer.Events()
	}
	appmetrics.RecordSearch(time.Since(start), len(candidates), len(results))
	return resp
}

// passesPhoneticPrefilter reports whether any query name variant's
// leading token is phonetically compatible with any candidate name
// variant's leading token. With no tokens on either side, the
// candidate is kept (nothing to filter on).
func passesPhoneticPrefilter(query, candidate *entity.Entity) bool {
	queryLeads := leadingTokens(query)
	candidateLeads := leadingTokens(candidate)
	if len(queryLeads) == 0 || len(candidateLeads) == 0 {
		return true
	}
	for _, q := range queryLeads {
		for _, c := range candidateLeads {
			if normalize.PhoneticallyCompatible(q, c) {
				return true
			}
		}
	}
	return false
}

func leadingTokens(e *entity.Entity) []string {
	if e.PreparedFields == nil {
		return nil
	}
	var leads []string
	for _, nv := range e.PreparedFields.WordCombinations {
		if len(nv.Tokens) > 0 {
			leads = append(leads, nv.Tokens[0])
		}
	}
	return leads
}
