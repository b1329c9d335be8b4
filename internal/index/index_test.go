package index

import (
	"sync"
	"testing"

	"github.com/sentineltrust/screening-engine/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []*entity.Entity {
	return []*entity.Entity{
		{ID: "1", Source: entity.SourceOFACSDN, Type: entity.TypePerson, Name: "Nicolas Maduro"},
		{ID: "2", Source: entity.SourceOFACSDN, Type: entity.TypeBusiness, Name: "Acme Corp"},
		{ID: "3", Source: entity.SourceUKCSL, Type: entity.TypePerson, Name: "John Doe"},
	}
}

func TestReplaceAndFilter(t *testing.T) {
	idx := New()
	idx.Replace(sample())

	snap := idx.Acquire()
	assert.Equal(t, 3, snap.Len())
	assert.Len(t, snap.Filter(entity.SourceOFACSDN, ""), 2)
	assert.Len(t, snap.Filter(entity.SourceOFACSDN, entity.TypePerson), 1)
	assert.Len(t, snap.Filter("", entity.TypePerson), 2)
	assert.Len(t, snap.Filter("", ""), 3)
}

func TestReplacePreparesFieldsLazily(t *testing.T) {
	idx := New()
	idx.Replace(sample())
	snap := idx.Acquire()
	for _, e := range snap.All() {
		require.NotNil(t, e.PreparedFields)
	}
}

func TestAcquiredSnapshotIsStableAcrossReplace(t *testing.T) {
	idx := New()
	idx.Replace(sample())
	snap := idx.Acquire()
	assert.Equal(t, 3, snap.Len())

	idx.Replace([]*entity.Entity{{ID: "4", Source: entity.SourceEUCSL, Name: "New Entity"}})

	assert.Equal(t, 3, snap.Len(), "previously acquired snapshot must not change")
	assert.Equal(t, 1, idx.Acquire().Len())
}

func TestConcurrentReplaceAndAcquireDoesNotRace(t *testing.T) {
	idx := New()
	idx.Replace(sample())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			idx.Replace(sample())
		}()
		go func() {
			defer wg.Done()
			snap := idx.Acquire()
			_ = snap.Len()
		}()
	}
	wg.Wait()
}
