package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaroWinklerIdentity(t *testing.T) {
	assert.Equal(t, 1.0, JaroWinkler("maduro", "maduro", 4))
}

func TestJaroWinklerKnownPair(t *testing.T) {
	// classic textbook pair, Jaro ~0.822, Winkler's "d" prefix boost lifts it to ~0.840
	score := JaroWinkler("dwayne", "duane", 4)
	assert.InDelta(t, 0.84, score, 0.03)
}

func TestJaroWinklerEmptyStrings(t *testing.T) {
	assert.Equal(t, 1.0, JaroWinkler("", "", 4))
	assert.Equal(t, 0.0, JaroWinkler("a", "", 4))
}

func TestTokenSetScoreIdentity(t *testing.T) {
	opts := DefaultOptions()
	score := TokenSetScore([]string{"nicolas", "maduro"}, []string{"nicolas", "maduro"}, opts)
	assert.InDelta(t, 1.0, score, 0.01)
}

func TestTokenSetScoreWordOrderIndependent(t *testing.T) {
	opts := DefaultOptions()
	forward := TokenSetScore([]string{"maduro", "nicolas"}, []string{"nicolas", "maduro"}, opts)
	assert.InDelta(t, 1.0, forward, 0.01)
}

func TestTokenSetScorePhoneticFilterZeroesMismatch(t *testing.T) {
	opts := DefaultOptions()
	score := TokenSetScore([]string{"smith"}, []string{"jones"}, opts)
	assert.Equal(t, 0.0, score)
}

func TestTokenSetScorePhoneticFilterDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.PhoneticFilter = false
	score := TokenSetScore([]string{"smith"}, []string{"jones"}, opts)
	assert.Greater(t, score, 0.0)
	assert.Less(t, score, 0.5)
}

func TestTokenSetScoreUnmatchedCandidateTokensPenalized(t *testing.T) {
	opts := DefaultOptions()
	short := TokenSetScore([]string{"maria", "lopez"}, []string{"maria", "lopez"}, opts)
	extra := TokenSetScore([]string{"maria", "lopez"}, []string{"maria", "lopez", "garcia", "hernandez"}, opts)
	assert.Less(t, extra, short)
}

func TestBestNameScoreTakesMaxOverVariants(t *testing.T) {
	opts := DefaultOptions()
	queryVariants := [][]string{{"el", "chapo"}}
	candidateVariants := [][]string{
		{"joaquin", "guzman", "loera"},
		{"el", "chapo"},
	}
	score := BestNameScore(queryVariants, candidateVariants, opts)
	assert.InDelta(t, 1.0, score, 0.01)
}
