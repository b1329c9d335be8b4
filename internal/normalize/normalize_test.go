package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldLowercasesStripsDiacriticsAndPunctuation(t *testing.T) {
	assert.Equal(t, "nicolas maduro", Fold("Nicolás Maduro"))
	assert.Equal(t, "jose alvarez", Fold("José  Álvarez!!"))
	assert.Equal(t, "mary-jane", Fold("Mary-Jane"))
	assert.Equal(t, "gudrun", Fold("Guðrún"))
}

func TestFoldIsIdempotent(t *testing.T) {
	for _, s := range []string{"Nicolás Maduro", "ACME, Corp.", "  leading space", "Þór"} {
		once := Fold(s)
		twice := Fold(once)
		assert.Equal(t, once, twice, "fold(fold(%q)) must equal fold(%q)", s, s)
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"jean", "de", "la", "cruz"}, Tokenize(Fold("Jean de la Cruz")))
	assert.Nil(t, Tokenize(""))
}

func TestStripStopwords(t *testing.T) {
	tokens := Tokenize(Fold("Juan de la Cruz"))
	assert.Equal(t, []string{"juan", "cruz"}, StripStopwords(tokens, "es"))
}

func TestStripCompanySuffixes(t *testing.T) {
	tokens := Tokenize(Fold("Acme Trading Co Ltd"))
	assert.Equal(t, []string{"acme", "trading"}, StripCompanySuffixes(tokens))
}

func TestCombineIncludesOriginalAndShortMerges(t *testing.T) {
	tokens := []string{"jean", "de", "la", "cruz"}
	variants := Combine(tokens)

	asSet := make(map[string]bool, len(variants))
	for _, v := range variants {
		asSet[v] = true
	}

	assert.True(t, asSet["jean de la cruz"])
	assert.True(t, asSet["jean dela cruz"])
	assert.True(t, asSet["jean delacruz"])
	assert.Equal(t, "jean de la cruz", variants[0], "original joined form must be first")
}

func TestCombineSingleTokenIsUnchanged(t *testing.T) {
	assert.Equal(t, []string{"acme"}, Combine([]string{"acme"}))
}

func TestSoundexKnownValues(t *testing.T) {
	assert.Equal(t, "R163", Soundex("Robert"))
	assert.Equal(t, "R163", Soundex("Rupert"))
	assert.Equal(t, "A261", Soundex("Ashcraft"))
	assert.Equal(t, "T522", Soundex("Tymczak"))
}

func TestSoundexIsDeterministicAndFixedLength(t *testing.T) {
	for _, s := range []string{"Maduro", "Guzman", "X"} {
		code := Soundex(s)
		assert.Len(t, code, 4)
		assert.Equal(t, code, Soundex(s))
	}
}

func TestPhoneticallyCompatible(t *testing.T) {
	assert.True(t, PhoneticallyCompatible("Smith", "Smithe"))
	assert.True(t, PhoneticallyCompatible("Carlos", "Karlos"))
	assert.True(t, PhoneticallyCompatible("123 Main", "456 Elm"))
	assert.False(t, PhoneticallyCompatible("Smith", "Jones"))
}
