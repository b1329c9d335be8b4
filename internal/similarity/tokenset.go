package similarity

import "github.com/sentineltrust/screening-engine/internal/normalize"

// Options tunes the behavior of TokenSetScore and BestNameScore. Zero
// values are not sensible defaults — callers should start from
// DefaultOptions().
type Options struct {
	PrefixSize                    int
	PhoneticFilter                bool
	LengthDifferenceCutoffFactor  float64
	LengthDifferencePenaltyWeight float64
	UnmatchedIndexTokenWeight     float64
}

// DefaultOptions returns the scorer's compile-time defaults (spec
// §4.3.2), usable standalone for tests and callers that don't thread a
// full weights config through.
func DefaultOptions() Options {
	return Options{
		PrefixSize:                    4,
		PhoneticFilter:                true,
		LengthDifferenceCutoffFactor:  0.9,
		LengthDifferencePenaltyWeight: 0.3,
		UnmatchedIndexTokenWeight:     0.15,
	}
}

// TokenSetScore compares two token sequences: an optional phonetic
// pre-filter on the leading tokens, greedy best-pair Jaro-Winkler
// assignment (each token used at most once), a length-difference gate
// and penalty, and an unmatched-candidate-token penalty.
func TokenSetScore(queryTokens, candidateTokens []string, opts Options) float64 {
	if len(queryTokens) == 0 || len(candidateTokens) == 0 {
		return 0
	}

	if opts.PhoneticFilter && !normalize.PhoneticallyCompatible(queryTokens[0], candidateTokens[0]) {
		return 0
	}

	pairs, unmatchedCandidates := bestPairAssignment(queryTokens, candidateTokens, opts.PrefixSize)
	if len(pairs) == 0 {
		return 0
	}

	var total float64
	for _, p := range pairs {
		total += p
	}
	score := total / float64(len(queryTokens))

	minLen := minInt(len(queryTokens), len(candidateTokens))
	maxLen := maxInt(len(queryTokens), len(candidateTokens))
	if maxLen > 0 {
		ratio := float64(minLen) / float64(maxLen)
		if ratio < opts.LengthDifferenceCutoffFactor {
			score *= ratio
			score -= (1 - ratio) * opts.LengthDifferencePenaltyWeight
		}
	}

	if unmatchedCandidates > 0 {
		score -= float64(unmatchedCandidates) * opts.UnmatchedIndexTokenWeight
	}

	return clamp01(score)
}

// bestPairAssignment greedily assigns each query token to its best
// unused candidate token by descending Jaro-Winkler score, returning
// the per-pair scores and the count of candidate tokens left
// unassigned.
func bestPairAssignment(queryTokens, candidateTokens []string, prefixSize int) ([]float64, int) {
	type pair struct {
		qi, ci int
		score  float64
	}

	var candidates []pair
	for qi, q := range queryTokens {
		for ci, c := range candidateTokens {
			candidates = append(candidates, pair{qi, ci, JaroWinkler(q, c, prefixSize)})
		}
	}

	// Stable insertion sort descending keeps the assignment
	// deterministic for equal-score pairs (lower qi, then lower ci
	// wins), which matters for reproducible traces.
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].score > candidates[j-1].score; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	qUsed := make([]bool, len(queryTokens))
	cUsed := make([]bool, len(candidateTokens))
	scores := make([]float64, 0, len(queryTokens))

	for _, p := range candidates {
		if qUsed[p.qi] || cUsed[p.ci] {
			continue
		}
		qUsed[p.qi] = true
		cUsed[p.ci] = true
		scores = append(scores, p.score)
	}

	unmatchedCandidates := 0
	for _, used := range cUsed {
		if !used {
			unmatchedCandidates++
		}
	}

	return scores, unmatchedCandidates
}

// BestNameScore returns the maximum TokenSetScore over every query
// variant against every candidate variant. queryVariants and
// candidateVariants are pre-tokenized word-combination lists (the
// output of normalize.Combine applied per name).
func BestNameScore(queryVariants, candidateVariants [][]string, opts Options) float64 {
	best := 0.0
	for _, qv := range queryVariants {
		for _, cv := range candidateVariants {
			if s := TokenSetScore(qv, cv, opts); s > best {
				best = s
			}
		}
	}
	return best
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
