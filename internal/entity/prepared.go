package entity

import (
	"strings"

	"github.com/sentineltrust/screening-engine/internal/normalize"
)

// NameVariants holds every word-combination variant of one of an
// entity's names (its primary Name, or one AltName), plus whether that
// name is the primary one.
type NameVariants struct {
	Primary  bool
	Tokens   []string // the name's own tokens, pre-combine
	Variants [][]string
}

// PreparedFields caches the normalized derivations of an entity's
// name-related fields. Empty or fully consistent with Name+AltNames:
// callers must replace the whole value, never mutate it in place,
// whenever the name fields change.
type PreparedFields struct {
	// NormalizedNames holds Name plus AltNames, each folded
	// (lowercased, diacritic-stripped, punctuation-stripped).
	NormalizedNames []string
	// NormalizedNamesWithoutStopwords mirrors NormalizedNames with
	// language stopwords removed.
	NormalizedNamesWithoutStopwords []string
	// NormalizedNamesWithoutCompanyTitles mirrors NormalizedNames with
	// legal suffixes removed. Only meaningful for business/org types.
	NormalizedNamesWithoutCompanyTitles []string
	// WordCombinations holds, per normalized name (index 0 is always
	// the primary Name when Name != ""), the merged-token variants
	// produced by normalize.Combine.
	WordCombinations []NameVariants
	// StrippedVariants holds the same merged-token variants, computed
	// instead from the stopword- and (for business/org types)
	// company-suffix-stripped form of each name. Only populated for
	// names where stripping actually removed something.
	StrippedVariants []NameVariants
	// NormalizedAddresses holds formatted, folded address strings.
	NormalizedAddresses []string
	// DetectedLanguage is a two-letter code, or "" if undetermined.
	DetectedLanguage string
}

// AllVariants flattens every name's variants into one slice, for
// callers that don't care which name a combination came from.
// includeStripped also includes the stopword/company-suffix-stripped
// variants (spec §4.3.2 keepStopwords=false behavior).
func (pf *PreparedFields) AllVariants(includeStripped bool) [][]string {
	var out [][]string
	for _, nv := range pf.WordCombinations {
		out = append(out, nv.Variants...)
	}
	if includeStripped {
		for _, nv := range pf.StrippedVariants {
			out = append(out, nv.Variants...)
		}
	}
	return out
}

// PrimaryVariants returns the word-combination variants of the
// entity's primary Name only, optionally including its stripped forms.
func (pf *PreparedFields) PrimaryVariants(includeStripped bool) [][]string {
	var out [][]string
	for _, nv := range pf.WordCombinations {
		if nv.Primary {
			out = append(out, nv.Variants...)
		}
	}
	if includeStripped {
		for _, nv := range pf.StrippedVariants {
			if nv.Primary {
				out = append(out, nv.Variants...)
			}
		}
	}
	return out
}

// AltVariants returns the word-combination variants of every AltName
// (i.e., every non-primary name), optionally including their stripped
// forms.
func (pf *PreparedFields) AltVariants(includeStripped bool) [][]string {
	var out [][]string
	for _, nv := range pf.WordCombinations {
		if !nv.Primary {
			out = append(out, nv.Variants...)
		}
	}
	if includeStripped {
		for _, nv := range pf.StrippedVariants {
			if !nv.Primary {
				out = append(out, nv.Variants...)
			}
		}
	}
	return out
}

// Prepare computes PreparedFields for an entity's current Name,
// AltNames, Type, and Addresses.
func Prepare(e *Entity) *PreparedFields {
	lang := detectLanguage(e.Name)

	names := allNames(e)
	normalizedNames := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		folded := normalize.Fold(n)
		if folded == "" {
			continue
		}
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}
		normalizedNames = append(normalizedNames, folded)
	}

	withoutStopwords := make([]string, 0, len(normalizedNames))
	withoutSuffixes := make([]string, 0, len(normalizedNames))
	combinations := make([]NameVariants, 0, len(normalizedNames))
	var strippedCombinations []NameVariants

	isBusinessLike := e.Type == TypeBusiness || e.Type == TypeOrganization
	primaryIndex := -1
	if e.Name != "" {
		primaryIndex = 0
	}

	for i, n := range normalizedNames {
		tokens := normalize.Tokenize(n)
		primary := i == primaryIndex

		stripped := normalize.StripStopwords(tokens, lang)
		withoutStopwords = append(withoutStopwords, strings.Join(stripped, " "))

		var noSuffix []string
		if isBusinessLike {
			noSuffix = normalize.StripCompanySuffixes(tokens)
			withoutSuffixes = append(withoutSuffixes, strings.Join(noSuffix, " "))
		}

		var variants [][]string
		for _, variant := range normalize.Combine(tokens) {
			variants = append(variants, normalize.Tokenize(variant))
		}
		combinations = append(combinations, NameVariants{
			Primary:  primary,
			Tokens:   tokens,
			Variants: variants,
		})

		var strippedVariants [][]string
		if len(stripped) > 0 && len(stripped) != len(tokens) {
			for _, variant := range normalize.Combine(stripped) {
				strippedVariants = append(strippedVariants, normalize.Tokenize(variant))
			}
		}
		if isBusinessLike && len(noSuffix) > 0 && len(noSuffix) != len(tokens) {
			for _, variant := range normalize.Combine(noSuffix) {
				strippedVariants = append(strippedVariants, normalize.Tokenize(variant))
			}
		}
		if len(strippedVariants) > 0 {
			strippedCombinations = append(strippedCombinations, NameVariants{
				Primary:  primary,
				Tokens:   tokens,
				Variants: strippedVariants,
			})
		}
	}

	addresses := make([]string, 0, len(e.Addresses))
	for _, addr := range e.Addresses {
		addresses = append(addresses, normalize.Fold(formatAddress(addr)))
	}

	return &PreparedFields{
		NormalizedNames:                     normalizedNames,
		NormalizedNamesWithoutStopwords:     withoutStopwords,
		NormalizedNamesWithoutCompanyTitles: withoutSuffixes,
		WordCombinations:                    combinations,
		StrippedVariants:                    strippedCombinations,
		NormalizedAddresses:                 addresses,
		DetectedLanguage:                    lang,
	}
}

func allNames(e *Entity) []string {
	names := make([]string, 0, 1+len(e.AltNames))
	if e.Name != "" {
		names = append(names, e.Name)
	}
	names = append(names, e.AltNames...)
	return names
}

func formatAddress(a Address) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Street, a.City, a.StateOrReg, a.PostalCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// detectLanguage is a coarse heuristic: it recognizes a handful of
// diacritic/script cues and otherwise falls back to "" (unknown),
// which callers treat as the language-agnostic default.
func detectLanguage(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.ContainsAny(lower, "áéíóúñ¿¡"):
		return "es"
	case strings.ContainsAny(lower, "àâçèêëîïôûœ"):
		return "fr"
	case strings.ContainsAny(lower, "اأإآبتثجحخدذرزسشصضطظعغفقكلمنهوي"):
		return "ar"
	case strings.ContainsAny(lower, "ijklmnopqrstuvwxyz") && strings.Contains(lower, "van "):
		return "nl"
	default:
		return ""
	}
}
