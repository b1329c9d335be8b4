package scoring

import "github.com/sentineltrust/screening-engine/internal/entity"

// SourceListPiece injects a zero-score piece at critical weight when
// query and candidate are from different sources and both carry
// present, unequal SourceIDs — diluting the aggregate to prevent
// cross-list ID confusion (two different source lists independently
// assigning the same-looking ID to different people).
func SourceListPiece(query, candidate *entity.Entity, w Weights) Piece {
	piece := Piece{Kind: KindSourceList}
	if !w.SourceListEnabled {
		return piece
	}
	if query.Source == "" || candidate.Source == "" || query.Source == candidate.Source {
		return piece
	}
	if query.SourceID == "" || candidate.SourceID == "" || query.SourceID == candidate.SourceID {
		return piece
	}

	return Piece{
		Kind:           KindSourceList,
		Score:          0,
		Weight:         w.CriticalIDWeight,
		FieldsCompared: 1,
		Matched:        false,
		Exact:          false,
	}
}
