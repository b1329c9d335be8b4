package scoring

import "github.com/sentineltrust/screening-engine/internal/entity"

// Score computes the full Breakdown for one query/candidate pair: each
// comparator produces a Piece, SourceListPiece injects its dilution
// piece when applicable, and Aggregate combines them. t may be
// NoopTracer for zero-overhead disabled tracing.
func Score(query, candidate *entity.Entity, w Weights, t Tracer) Breakdown {
	stop := t.Phase("score")
	pieces := []Piece{
		NamePiece(query, candidate, w),
		AltNamePiece(query, candidate, w),
		GovIDPiece(query, candidate, w),
		CryptoPiece(query, candidate, w),
		ContactPiece(query, candidate, w),
		AddressPiece(query, candidate, w),
		DatePiece(query, candidate, w),
		SourceListPiece(query, candidate, w),
	}
	AttachPieces(t, pieces)
	stop()

	return Aggregate(query, candidate, pieces, w, t)
}
