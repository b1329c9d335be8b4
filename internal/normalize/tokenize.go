package normalize

import "strings"

// Tokenize splits a folded string on whitespace. Callers are expected
// to have already run s through Fold.
func Tokenize(s string) []string {
	if s == "" {
		return nil
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// shortTokenMaxLen is the length at or below which a token is eligible
// to be merged with an adjacent token by Combine.
const shortTokenMaxLen = 3

// stopwords lists language-specific function words stripped from name
// tokens before scoring, keyed by two-letter language code. "" is the
// language-agnostic default set applied when detection is unavailable.
var stopwords = map[string]map[string]struct{}{
	"": setOf("de", "la", "del", "van", "von", "der", "den", "al", "bin", "binti", "the", "of", "and"),
	"en": setOf("the", "of", "and", "a", "an"),
	"es": setOf("de", "la", "del", "las", "los", "y"),
	"fr": setOf("de", "du", "des", "la", "le", "les", "et"),
	"ar": setOf("al", "bin", "binti", "abu", "ibn"),
	"nl": setOf("van", "der", "den", "de", "het"),
}

func setOf(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// StripStopwords removes language-specific stopwords from tokens. An
// unrecognized lang falls back to the language-agnostic set.
func StripStopwords(tokens []string, lang string) []string {
	set, ok := stopwords[lang]
	if !ok {
		set = stopwords[""]
	}
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, stop := set[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// companySuffixes are legal-entity suffixes stripped from business
// names before scoring.
var companySuffixes = setOf(
	"inc", "incorporated", "ltd", "limited", "llc", "llp", "lp",
	"corp", "corporation", "co", "company", "gmbh", "sa", "sarl",
	"srl", "spa", "ag", "nv", "bv", "plc", "pty", "pvt", "kg", "oy",
	"ab", "as", "sp", "zoo", "ltda", "jsc", "pjsc", "fzco", "fze",
)

// StripCompanySuffixes removes configured legal suffixes from tokens.
func StripCompanySuffixes(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, suffix := companySuffixes[strings.TrimRight(tok, ".")]; suffix {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Combine generates word-combination variants of tokens by greedily
// merging adjacent tokens where either side is at most
// shortTokenMaxLen characters, producing every resulting variant. The
// original joined form is always included. Order of remaining tokens
// is preserved; merges apply only to contiguous short tokens.
func Combine(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}

	original := strings.Join(tokens, " ")
	variants := map[string]struct{}{original: {}}

	var walk func(remaining []string)
	walk = func(remaining []string) {
		if len(remaining) < 2 {
			return
		}
		for i := 0; i < len(remaining)-1; i++ {
			left, right := remaining[i], remaining[i+1]
			if len(left) > shortTokenMaxLen && len(right) > shortTokenMaxLen {
				continue
			}
			merged := make([]string, 0, len(remaining)-1)
			merged = append(merged, remaining[:i]...)
			merged = append(merged, left+right)
			merged = append(merged, remaining[i+2:]...)
			joined := strings.Join(merged, " ")
			if _, seen := variants[joined]; seen {
				continue
			}
			variants[joined] = struct{}{}
			walk(merged)
		}
	}
	walk(tokens)

	out := make([]string, 0, len(variants))
	out = append(out, original)
	for v := range variants {
		if v != original {
			out = append(out, v)
		}
	}
	return out
}
