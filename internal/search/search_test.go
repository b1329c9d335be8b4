package search

import (
	"testing"

	"github.com/sentineltrust/screening-engine/internal/entity"
	"github.com/sentineltrust/screening-engine/internal/index"
	"github.com/sentineltrust/screening-engine/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(entities []*entity.Entity) *Service {
	idx := index.New()
	idx.Replace(entities)
	return New(idx, scoring.NewConfig(scoring.DefaultWeights()))
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestSearchRanksByScoreDescending(t *testing.T) {
	svc := newTestService([]*entity.Entity{
		{ID: "1", SourceID: "sdn-1", Name: "Nicolas Maduro Moros", Source: entity.SourceOFACSDN, Type: entity.TypePerson},
		{ID: "2", SourceID: "sdn-2", Name: "Nicolas Maduro", Source: entity.SourceOFACSDN, Type: entity.TypePerson},
	})

	resp := svc.Search(Query{Name: "Nicolas Maduro", MinMatch: floatPtr(0.3), Limit: intPtr(10)})
	require.Len(t, resp.Results, 2)
	assert.GreaterOrEqual(t, resp.Results[0].Breakdown.TotalWeightedScore, resp.Results[1].Breakdown.TotalWeightedScore)
	assert.Equal(t, "sdn-2", resp.Results[0].Entity.SourceID)
}

func TestSearchFiltersBySourceAndType(t *testing.T) {
	svc := newTestService([]*entity.Entity{
		{ID: "1", SourceID: "sdn-1", Name: "John Smith", Source: entity.SourceOFACSDN, Type: entity.TypePerson},
		{ID: "2", SourceID: "csl-1", Name: "John Smith", Source: entity.SourceUSCSL, Type: entity.TypePerson},
		{ID: "3", SourceID: "sdn-2", Name: "John Smith Co", Source: entity.SourceOFACSDN, Type: entity.TypeBusiness},
	})

	resp := svc.Search(Query{Name: "John Smith", Source: entity.SourceOFACSDN, Type: entity.TypePerson, MinMatch: floatPtr(0.3)})
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "sdn-1", resp.Results[0].Entity.SourceID)
}

func TestSearchAppliesMinMatchThreshold(t *testing.T) {
	svc := newTestService([]*entity.Entity{
		{ID: "1", SourceID: "sdn-1", Name: "Totally Unrelated Business Name", Source: entity.SourceOFACSDN},
	})

	resp := svc.Search(Query{Name: "Zzz Qqq", MinMatch: floatPtr(0.9)})
	assert.Empty(t, resp.Results)
	assert.Equal(t, 0, resp.TotalResults)
}

func TestSearchTruncatesToLimit(t *testing.T) {
	var entities []*entity.Entity
	for i := 0; i < 5; i++ {
		entities = append(entities, &entity.Entity{
			ID: string(rune('a' + i)), SourceID: string(rune('a' + i)),
			Name: "Maria Rodriguez", Source: entity.SourceOFACSDN,
		})
	}
	svc := newTestService(entities)

	resp := svc.Search(Query{Name: "Maria Rodriguez", MinMatch: floatPtr(0.5), Limit: intPtr(2)})
	assert.Len(t, resp.Results, 2)
	assert.Equal(t, 5, resp.TotalResults)
}

func TestSearchTraceOptInCarriesEvents(t *testing.T) {
	svc := newTestService([]*entity.Entity{
		{ID: "1", SourceID: "sdn-1", Name: "Ivan Petrov", Source: entity.SourceOFACSDN},
	})

	traced := svc.Search(Query{Name: "Ivan Petrov", MinMatch: floatPtr(0.5), Trace: true})
	require.NotEmpty(t, traced.Trace)

	untraced := svc.Search(Query{Name: "Ivan Petrov", MinMatch: floatPtr(0.5)})
	assert.Nil(t, untraced.Trace)
}

func TestSearchDefaultsLimitAndMinMatch(t *testing.T) {
	svc := newTestService([]*entity.Entity{
		{ID: "1", SourceID: "sdn-1", Name: "Exact Name Match", Source: entity.SourceOFACSDN},
	})

	resp := svc.Search(Query{Name: "Exact Name Match"})
	require.Len(t, resp.Results, 1)
}

func TestSearchExplicitZeroMinMatchReturnsEveryScoredCandidate(t *testing.T) {
	svc := newTestService([]*entity.Entity{
		{ID: "1", SourceID: "sdn-1", Name: "Totally Unrelated Business Name", Source: entity.SourceOFACSDN},
	})

	resp := svc.Search(Query{Name: "Tzz Qqq", MinMatch: floatPtr(0)})
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 1, resp.TotalResults)
}

func TestSearchExplicitZeroLimitReturnsNoResultsButStillScores(t *testing.T) {
	svc := newTestService([]*entity.Entity{
		{ID: "1", SourceID: "sdn-1", Name: "Ivan Petrov", Source: entity.SourceOFACSDN},
	})

	resp := svc.Search(Query{Name: "Ivan Petrov", MinMatch: floatPtr(0.5), Limit: intPtr(0), Trace: true})
	assert.Empty(t, resp.Results)
	assert.Equal(t, 1, resp.TotalResults)
	assert.NotEmpty(t, resp.Trace)
}
