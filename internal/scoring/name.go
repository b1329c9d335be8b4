package scoring

import (
	"github.com/sentineltrust/screening-engine/internal/entity"
	"github.com/sentineltrust/screening-engine/internal/similarity"
)

func similarityOptions(w Weights) similarity.Options {
	return similarity.Options{
		PrefixSize:                    w.JaroWinklerPrefixSize,
		PhoneticFilter:                !w.PhoneticFilteringDisabled,
		LengthDifferenceCutoffFactor:  w.LengthDifferenceCutoffFactor,
		LengthDifferencePenaltyWeight: w.LengthDifferencePenaltyWeight,
		UnmatchedIndexTokenWeight:     w.UnmatchedIndexTokenWeight,
	}
}

// queryVariants returns every word-combination variant of the query's
// name, computing PreparedFields on the fly if the caller passed a
// transient query entity that was never prepared. includeStripped adds
// the stopword/company-suffix-stripped variants (spec §4.3.2
// keepStopwords=false behavior).
func queryVariants(query *entity.Entity, includeStripped bool) [][]string {
	if query.PreparedFields != nil {
		return query.PreparedFields.AllVariants(includeStripped)
	}
	return entity.Prepare(query).AllVariants(includeStripped)
}

// NamePiece scores the query's name against the candidate's primary
// Name only. AltNamePiece covers the candidate's alt names separately
// so the aggregator can take max(name, altName) rather than conflating
// the two under one score.
func NamePiece(query, candidate *entity.Entity, w Weights) Piece {
	piece := Piece{Kind: KindName, Weight: w.NameWeight, Required: true}
	if !w.NameEnabled || candidate.PreparedFields == nil {
		return piece
	}

	includeStripped := !w.KeepStopwords
	primary := candidate.PreparedFields.PrimaryVariants(includeStripped)
	if len(primary) == 0 {
		return piece
	}

	score := similarity.BestNameScore(queryVariants(query, includeStripped), primary, similarityOptions(w))
	piece.Score = score
	piece.FieldsCompared = 1
	piece.Matched = score >= 0.5
	piece.Exact = isExact(score, w.ExactMatchThreshold)
	return piece
}

// AltNamePiece scores the query's name against the candidate's
// alt-name variants only.
func AltNamePiece(query, candidate *entity.Entity, w Weights) Piece {
	piece := Piece{Kind: KindAltName, Weight: w.NameWeight, Required: true}
	if !w.NameEnabled || candidate.PreparedFields == nil {
		return piece
	}

	includeStripped := !w.KeepStopwords
	alts := candidate.PreparedFields.AltVariants(includeStripped)
	if len(alts) == 0 {
		return piece
	}

	score := similarity.BestNameScore(queryVariants(query, includeStripped), alts, similarityOptions(w))
	piece.Score = score
	piece.FieldsCompared = 1
	piece.Matched = score >= 0.5
	piece.Exact = isExact(score, w.ExactMatchThreshold)
	return piece
}
