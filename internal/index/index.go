// Package index provides the in-memory, concurrency-safe container of
// screenable entities.
package index

import (
	"sync/atomic"

	"github.com/sentineltrust/screening-engine/internal/entity"
)

// snapshot is the immutable view swapped in by Replace. Readers that
// capture a *snapshot never observe a half-updated index: they either
// see the whole old snapshot or the whole new one.
type snapshot struct {
	all      []*entity.Entity
	bySource map[entity.Source][]*entity.Entity
	byKey    map[entity.Source]map[entity.Type][]*entity.Entity
}

func buildSnapshot(entities []*entity.Entity) *snapshot {
	s := &snapshot{
		all:      entities,
		bySource: make(map[entity.Source][]*entity.Entity),
		byKey:    make(map[entity.Source]map[entity.Type][]*entity.Entity),
	}
	for _, e := range entities {
		s.bySource[e.Source] = append(s.bySource[e.Source], e)
		if s.byKey[e.Source] == nil {
			s.byKey[e.Source] = make(map[entity.Type][]*entity.Entity)
		}
		s.byKey[e.Source][e.Type] = append(s.byKey[e.Source][e.Type], e)
	}
	return s
}

// Index is a replace-all container of entities, filterable by source
// and type, safe for concurrent readers during a Replace.
type Index struct {
	current atomic.Pointer[snapshot]
}

// New returns an empty Index.
func New() *Index {
	idx := &Index{}
	idx.current.Store(buildSnapshot(nil))
	return idx
}

// Replace atomically swaps the index's contents. In-flight readers
// that captured the previous snapshot continue to observe it in full;
// new lookups observe the new snapshot in full. Entities without
// PreparedFields are prepared lazily here so every indexed entity is
// scoring-ready.
func (idx *Index) Replace(entities []*entity.Entity) {
	prepared := make([]*entity.Entity, len(entities))
	for i, e := range entities {
		if e.PreparedFields == nil {
			clone := *e
			clone.PreparedFields = entity.Prepare(e)
			prepared[i] = &clone
			continue
		}
		prepared[i] = e
	}
	idx.current.Store(buildSnapshot(prepared))
}

// Snapshot is an immutable read handle captured for the duration of a
// single search, so a caller never sees the index change mid-query.
type Snapshot struct {
	s *snapshot
}

// Acquire captures the index's current contents.
func (idx *Index) Acquire() Snapshot {
	return Snapshot{s: idx.current.Load()}
}

// Len returns the total number of entities in the snapshot.
func (s Snapshot) Len() int {
	return len(s.s.all)
}

// All returns every entity in the snapshot.
func (s Snapshot) All() []*entity.Entity {
	return s.s.all
}

// Filter returns the entities matching the given source and/or type.
// An empty Source or Type ("") means "any".
func (s Snapshot) Filter(source entity.Source, typ entity.Type) []*entity.Entity {
	switch {
	case source == "" && typ == "":
		return s.s.all
	case source != "" && typ == "":
		return s.s.bySource[source]
	case source != "":
		return s.s.byKey[source][typ]
	default:
		// type filter with no source filter: scan sources
		var out []*entity.Entity
		for src := range s.s.byKey {
			out = append(out, s.s.byKey[src][typ]...)
		}
		return out
	}
}
