package scoring

import (
	"strings"

	"github.com/sentineltrust/screening-engine/internal/entity"
)

// ContactPiece compares email, phone, and fax independently (phone
// normalized to digits only); the piece score is the average over
// sub-fields present on both sides.
func ContactPiece(query, candidate *entity.Entity, w Weights) Piece {
	piece := Piece{Kind: KindContact, Weight: w.CriticalIDWeight}
	if !w.ContactEnabled || query.Contact == nil || candidate.Contact == nil {
		return piece
	}

	var total float64
	present := 0

	if sub, ok := compareSubField(query.Contact.Email, candidate.Contact.Email, strings.ToLower); ok {
		total += sub
		present++
	}
	if sub, ok := compareSubField(query.Contact.Phone, candidate.Contact.Phone, digitsOnly); ok {
		total += sub
		present++
	}
	if sub, ok := compareSubField(query.Contact.Fax, candidate.Contact.Fax, digitsOnly); ok {
		total += sub
		present++
	}

	if present == 0 {
		return piece
	}

	score := total / float64(present)
	piece.Score = score
	piece.FieldsCompared = present
	piece.Matched = score > 0
	piece.Exact = isExact(score, w.ExactMatchThreshold)
	return piece
}

// compareSubField normalizes both sides with normalizeFn and returns
// 1.0/0.0 for equality, along with whether both sides were non-empty
// (i.e., this sub-field counts toward FieldsCompared).
func compareSubField(a, b string, normalizeFn func(string) string) (float64, bool) {
	if a == "" || b == "" {
		return 0, false
	}
	if normalizeFn(a) == normalizeFn(b) {
		return 1, true
	}
	return 0, true
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
