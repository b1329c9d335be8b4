package scoring

import "github.com/sentineltrust/screening-engine/internal/entity"

// GovIDPiece checks, for each query government ID, whether any
// candidate government ID has an equal normalized (country, type,
// identifier). Omitted (FieldsCompared == 0) if either side has no
// IDs.
func GovIDPiece(query, candidate *entity.Entity, w Weights) Piece {
	piece := Piece{Kind: KindGovIDs, Weight: w.CriticalIDWeight}
	if !w.GovIDEnabled || len(query.GovernmentIDs) == 0 || len(candidate.GovernmentIDs) == 0 {
		return piece
	}

	matches := 0
	for _, q := range query.GovernmentIDs {
		for _, c := range candidate.GovernmentIDs {
			if q.Equal(c) {
				matches++
				break
			}
		}
	}

	score := float64(matches) / float64(len(query.GovernmentIDs))
	piece.Score = score
	piece.FieldsCompared = len(query.GovernmentIDs)
	piece.Matched = matches > 0
	piece.Exact = isExact(score, w.ExactMatchThreshold)
	return piece
}

// CryptoPiece performs case-sensitive set intersection on
// (currency, address) pairs.
func CryptoPiece(query, candidate *entity.Entity, w Weights) Piece {
	piece := Piece{Kind: KindCrypto, Weight: w.CriticalIDWeight}
	if !w.CryptoEnabled || len(query.CryptoAddresses) == 0 || len(candidate.CryptoAddresses) == 0 {
		return piece
	}

	matches := 0
	for _, q := range query.CryptoAddresses {
		for _, c := range candidate.CryptoAddresses {
			if q.Equal(c) {
				matches++
				break
			}
		}
	}

	score := float64(matches) / float64(len(query.CryptoAddresses))
	piece.Score = score
	piece.FieldsCompared = len(query.CryptoAddresses)
	piece.Matched = matches > 0
	piece.Exact = isExact(score, w.ExactMatchThreshold)
	return piece
}
