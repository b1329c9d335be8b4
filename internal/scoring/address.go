package scoring

import (
	"github.com/sentineltrust/screening-engine/internal/entity"
	"github.com/sentineltrust/screening-engine/internal/similarity"
)

// AddressPiece compares each query address's normalized formatted
// string against every candidate address with Jaro-Winkler, taking the
// max over pairs.
func AddressPiece(query, candidate *entity.Entity, w Weights) Piece {
	piece := Piece{Kind: KindAddress, Weight: w.AddressWeight}
	if !w.AddressEnabled {
		return piece
	}

	queryAddrs := normalizedAddresses(query)
	candidateAddrs := normalizedAddresses(candidate)
	if len(queryAddrs) == 0 || len(candidateAddrs) == 0 {
		return piece
	}

	best := 0.0
	for _, q := range queryAddrs {
		for _, c := range candidateAddrs {
			if s := similarity.JaroWinkler(q, c, w.JaroWinklerPrefixSize); s > best {
				best = s
			}
		}
	}

	piece.Score = best
	piece.FieldsCompared = len(queryAddrs)
	piece.Matched = best > 0.5
	piece.Exact = best > 0.99
	return piece
}

func normalizedAddresses(e *entity.Entity) []string {
	if e.PreparedFields != nil {
		return e.PreparedFields.NormalizedAddresses
	}
	if len(e.Addresses) == 0 {
		return nil
	}
	return entity.Prepare(e).NormalizedAddresses
}
