package scoring

import "github.com/sentineltrust/screening-engine/internal/entity"

// Breakdown is the aggregator's output: the per-kind score pieces plus
// the final aggregated score.
type Breakdown struct {
	Pieces             []Piece
	TotalWeightedScore float64
}

// ByKind returns the piece of the given kind, or a zero Piece if none
// was produced (pieces with FieldsCompared == 0 are still present in
// Pieces for trace/reporting purposes, just excluded from the mean).
func (b Breakdown) ByKind(kind Kind) Piece {
	for _, p := range b.Pieces {
		if p.Kind == kind {
			return p
		}
	}
	return Piece{Kind: kind}
}

// Aggregate combines ScorePieces per spec §4.3.1: the sourceId-identity
// and exact-critical-identifier short-circuits, then a coverage-damped
// weighted mean.
func Aggregate(query, candidate *entity.Entity, pieces []Piece, w Weights, t Tracer) Breakdown {
	defer t.Phase("aggregate")()

	// Short-circuit 1: sourceId identity.
	if query.SourceID != "" && candidate.SourceID != "" && query.SourceID == candidate.SourceID {
		identity := make([]Piece, len(pieces))
		for i, p := range pieces {
			p.Score = 1.0
			p.Matched = true
			p.Exact = true
			identity[i] = p
		}
		return Breakdown{Pieces: identity, TotalWeightedScore: 1.0}
	}

	namePiece := pickPiece(pieces, KindName)
	altPiece := pickPiece(pieces, KindAltName)
	effectiveName := namePiece
	if altPiece.Score > namePiece.Score {
		effectiveName = altPiece
	}

	// Short-circuit 2: an exact critical identifier match guarantees a
	// floor of 0.70 regardless of name noise.
	for _, kind := range []Kind{KindGovIDs, KindCrypto, KindContact} {
		if p := pickPiece(pieces, kind); p.Exact {
			score := 0.7 + 0.3*effectiveName.Score
			if score > 1.0 {
				score = 1.0
			}
			return Breakdown{Pieces: pieces, TotalWeightedScore: score}
		}
	}

	var weightedSum, totalWeight float64
	countedName := false
	for _, p := range pieces {
		if p.Weight <= 0 || p.FieldsCompared <= 0 {
			continue
		}
		if p.Kind == KindName || p.Kind == KindAltName {
			if countedName {
				continue
			}
			weightedSum += effectiveName.Score * effectiveName.Weight
			totalWeight += effectiveName.Weight
			countedName = true
			continue
		}
		weightedSum += p.Score * p.Weight
		totalWeight += p.Weight
	}

	base := 0.0
	if totalWeight > 0 {
		base = weightedSum / totalWeight
	}

	// A base already at the exact-match threshold is treated as
	// definitive: the coverage penalties exist to dampen marginal
	// matches built from sparse or weak evidence, not to discount a
	// (near-)perfect name match that simply had no other fields to
	// compare (spec §8 scenarios 1 and 2 both require an undamped 1.0
	// from name/alt-name evidence alone).
	if base < w.ExactMatchThreshold {
		base = applyCoveragePenalties(base, query, candidate, pieces, effectiveName, w)
	}

	if base > 1 {
		base = 1
	}
	if base < 0 {
		base = 0
	}

	return Breakdown{Pieces: pieces, TotalWeightedScore: base}
}

func pickPiece(pieces []Piece, kind Kind) Piece {
	for _, p := range pieces {
		if p.Kind == kind {
			return p
		}
	}
	return Piece{Kind: kind}
}

func applyCoveragePenalties(base float64, query, candidate *entity.Entity, pieces []Piece, effectiveName Piece, w Weights) float64 {
	fieldsCompared := 0
	for _, p := range pieces {
		if p.Kind == KindName || p.Kind == KindAltName {
			continue // folded into effectiveName below
		}
		fieldsCompared += p.FieldsCompared
	}
	if effectiveName.FieldsCompared > 0 {
		fieldsCompared++ // effectiveName counted once, not twice (name+altName)
	}

	available := countAvailableFields(candidate)
	coverageRatio := 1.0
	if available > 0 {
		coverageRatio = float64(fieldsCompared) / float64(available)
	}

	criticalTotal, criticalCompared := criticalCoverage(candidate, pieces)
	criticalRatio := 1.0
	if criticalTotal > 0 {
		criticalRatio = float64(criticalCompared) / float64(criticalTotal)
	}

	requiredCompared := 0
	for _, p := range pieces {
		if p.Required && p.FieldsCompared > 0 {
			requiredCompared++
		}
	}

	hasName := effectiveName.Matched
	hasAddress := pickPiece(pieces, KindAddress).Matched
	hasID := pickPiece(pieces, KindGovIDs).Matched || pickPiece(pieces, KindCrypto).Matched
	hasCritical := hasID || pickPiece(pieces, KindContact).Matched

	if coverageRatio < 0.35 {
		base *= 0.95
	}
	if criticalRatio < 0.70 {
		base *= 0.90
	}
	if requiredCompared < 2 {
		base *= 0.90
	}
	if hasName && !hasID && !hasAddress {
		base *= 0.95
	}
	if base >= 0.85 && hasName && hasID && hasCritical && coverageRatio >= 0.7 {
		base *= 1.15
	}

	return base
}

// countAvailableFields counts the candidate's comparable field slots:
// name (always 1), plus one each for addresses, government IDs,
// crypto addresses, contact, and a type-appropriate date, when the
// candidate actually carries that data.
func countAvailableFields(candidate *entity.Entity) int {
	available := 1 // name is always present on an indexed entity
	if len(candidate.Addresses) > 0 {
		available++
	}
	if len(candidate.GovernmentIDs) > 0 {
		available++
	}
	if len(candidate.CryptoAddresses) > 0 {
		available++
	}
	if candidate.Contact != nil {
		available++
	}
	if hasDateDetail(candidate) {
		available++
	}
	return available
}

func hasDateDetail(e *entity.Entity) bool {
	switch e.Type {
	case entity.TypePerson:
		return e.Person != nil && (e.Person.DateOfBirth != nil || e.Person.DateOfDeath != nil)
	case entity.TypeBusiness:
		return e.Business != nil && (e.Business.DateCreated != nil || e.Business.DateDissolved != nil)
	case entity.TypeOrganization:
		return e.Organization != nil && (e.Organization.DateCreated != nil || e.Organization.DateDissolved != nil)
	case entity.TypeVessel:
		return e.Vessel != nil && e.Vessel.DateBuilt != nil
	case entity.TypeAircraft:
		return e.Aircraft != nil && e.Aircraft.DateBuilt != nil
	default:
		return false
	}
}

// criticalCoverage returns the number of critical-identifier field
// slots the candidate has available and how many were actually
// compared (fieldsCompared > 0 on the corresponding piece).
func criticalCoverage(candidate *entity.Entity, pieces []Piece) (total, compared int) {
	if len(candidate.GovernmentIDs) > 0 {
		total++
		if pickPiece(pieces, KindGovIDs).FieldsCompared > 0 {
			compared++
		}
	}
	if len(candidate.CryptoAddresses) > 0 {
		total++
		if pickPiece(pieces, KindCrypto).FieldsCompared > 0 {
			compared++
		}
	}
	if candidate.Contact != nil {
		total++
		if pickPiece(pieces, KindContact).FieldsCompared > 0 {
			compared++
		}
	}
	return total, compared
}
