package entity

import "strings"

// NormalizeIdentifier strips spaces, hyphens, and any other
// non-alphanumeric characters from a government ID identifier and
// uppercases the result, per the entity invariant governing
// GovernmentID equality.
func NormalizeIdentifier(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - ('a' - 'A'))
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			// spaces, hyphens, and all other punctuation are dropped
		}
	}
	return b.String()
}

// Equal reports whether two GovernmentIDs compare equal: country and
// type verbatim, identifier by NormalizeIdentifier.
func (g GovernmentID) Equal(other GovernmentID) bool {
	return g.Country == other.Country &&
		g.Type == other.Type &&
		NormalizeIdentifier(g.Identifier) == NormalizeIdentifier(other.Identifier)
}

// Equal reports whether two CryptoAddresses compare equal. Comparison
// is case-sensitive on both currency and address, per the engine's
// fixed semantics (spec design note: crypto case-sensitivity).
func (c CryptoAddress) Equal(other CryptoAddress) bool {
	return c.Currency == other.Currency && c.Address == other.Address
}
