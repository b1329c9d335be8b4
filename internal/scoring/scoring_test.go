package scoring

import (
	"testing"
	"time"

	"github.com/sentineltrust/screening-engine/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prepared(e *entity.Entity) *entity.Entity {
	e.PreparedFields = entity.Prepare(e)
	return e
}

func TestIdentityScoreIsOne(t *testing.T) {
	w := DefaultWeights()
	e := prepared(&entity.Entity{Name: "Nicolas Maduro", Type: entity.TypePerson, Source: entity.SourceOFACSDN})
	query := prepared(&entity.Entity{Name: "Nicolas Maduro"})

	breakdown := Score(query, e, w, NoopTracer)
	assert.InDelta(t, 1.0, breakdown.TotalWeightedScore, 0.01)
}

func TestExactSourceIDShortCircuitsToOne(t *testing.T) {
	w := DefaultWeights()
	candidate := prepared(&entity.Entity{Name: "Someone Else Entirely", SourceID: "sdn-123", Source: entity.SourceOFACSDN})
	query := prepared(&entity.Entity{Name: "Totally Unrelated Name", SourceID: "sdn-123", Source: entity.SourceOFACSDN})

	breakdown := Score(query, candidate, w, NoopTracer)
	assert.Equal(t, 1.0, breakdown.TotalWeightedScore)
}

func TestAltNameDominatesPrimary(t *testing.T) {
	w := DefaultWeights()
	candidate := prepared(&entity.Entity{
		Name:     "Joaquin Guzman Loera",
		AltNames: []string{"El Chapo"},
		Type:     entity.TypePerson,
		Source:   entity.SourceOFACSDN,
	})
	query := prepared(&entity.Entity{Name: "El Chapo"})

	breakdown := Score(query, candidate, w, NoopTracer)
	altScore := breakdown.ByKind(KindAltName).Score
	nameScore := breakdown.ByKind(KindName).Score

	assert.GreaterOrEqual(t, altScore, 0.99)
	assert.Less(t, nameScore, 0.3)
	assert.GreaterOrEqual(t, breakdown.TotalWeightedScore, 0.99)
}

func TestExactGovIDOverridesWeakName(t *testing.T) {
	w := DefaultWeights()
	candidate := prepared(&entity.Entity{
		Name: "John Michael Doe",
		GovernmentIDs: []entity.GovernmentID{
			{Country: "US", Type: "PASSPORT", Identifier: "AB123456"},
		},
	})
	query := prepared(&entity.Entity{
		Name: "J Doe",
		GovernmentIDs: []entity.GovernmentID{
			{Country: "US", Type: "PASSPORT", Identifier: "AB 123-456"},
		},
	})

	breakdown := Score(query, candidate, w, NoopTracer)
	assert.Equal(t, 1.0, breakdown.ByKind(KindGovIDs).Score)
	assert.GreaterOrEqual(t, breakdown.TotalWeightedScore, 0.70)
}

func TestPhoneticPrefilterCullsUnrelatedNames(t *testing.T) {
	w := DefaultWeights()
	candidate := prepared(&entity.Entity{Name: "Jones"})
	query := prepared(&entity.Entity{Name: "Smith"})

	enabled := Score(query, candidate, w, NoopTracer)
	assert.Equal(t, 0.0, enabled.TotalWeightedScore)

	w.PhoneticFilteringDisabled = true
	disabled := Score(query, candidate, w, NoopTracer)
	assert.Greater(t, disabled.TotalWeightedScore, 0.0)
	assert.Less(t, disabled.TotalWeightedScore, w.MinMatch)
}

func TestDateTranspositionTypoScoresHigh(t *testing.T) {
	w := DefaultWeights()
	queryDOB := time.Date(1990, time.January, 15, 0, 0, 0, 0, time.UTC)
	candidateDOB := time.Date(1990, time.October, 15, 0, 0, 0, 0, time.UTC)

	query := prepared(&entity.Entity{
		Name: "Ana Torres", Type: entity.TypePerson,
		Person: &entity.Person{DateOfBirth: &queryDOB},
	})
	candidate := prepared(&entity.Entity{
		Name: "Ana Torres", Type: entity.TypePerson,
		Person: &entity.Person{DateOfBirth: &candidateDOB},
	})

	breakdown := Score(query, candidate, w, NoopTracer)
	assert.Greater(t, breakdown.ByKind(KindDate).Score, 0.85)
}

func TestWeightsValidateRejectsOutOfRange(t *testing.T) {
	w := DefaultWeights()
	w.NameWeight = -1
	require.Error(t, w.Validate())

	w = DefaultWeights()
	w.MinMatch = 1.5
	require.Error(t, w.Validate())

	w = DefaultWeights()
	w.JaroWinklerPrefixSize = 0
	require.Error(t, w.Validate())

	w = DefaultWeights()
	require.NoError(t, w.Validate())
}

func TestConfigStoreIsAtomicAndReturnsPrevious(t *testing.T) {
	cfg := NewConfig(DefaultWeights())
	modified := DefaultWeights()
	modified.MinMatch = 0.5

	previous := cfg.Store(modified)
	assert.Equal(t, 0.88, previous.MinMatch)
	assert.Equal(t, 0.5, cfg.Load().MinMatch)

	reset := cfg.Reset()
	assert.Equal(t, 0.5, reset.MinMatch)
	assert.Equal(t, DefaultWeights().MinMatch, cfg.Load().MinMatch)
}

func TestRecordingTracerCapturesPhases(t *testing.T) {
	w := DefaultWeights()
	query := prepared(&entity.Entity{Name: "Nicolas Maduro"})
	candidate := prepared(&entity.Entity{Name: "Nicolas Maduro"})

	tracer := NewRecordingTracer()
	Score(query, candidate, w, tracer)

	events := tracer.Events()
	require.NotEmpty(t, events)
	var sawScore, sawAggregate bool
	for _, e := range events {
		if e.Phase == "score" {
			sawScore = true
		}
		if e.Phase == "aggregate" {
			sawAggregate = true
		}
	}
	assert.True(t, sawScore)
	assert.True(t, sawAggregate)
}
