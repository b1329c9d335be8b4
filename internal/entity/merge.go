package entity

import "strings"

// Merge combines entities for the same underlying listing (duplicate
// rows from a source list, keyed by caller-supplied key — typically
// (Source, SourceID)) into one entity per key, preserving the order of
// first occurrence. Idempotent: Merge(Merge(es)) == Merge(es).
func Merge(entities []*Entity, keyFn func(*Entity) string) []*Entity {
	order := make([]string, 0, len(entities))
	byKey := make(map[string]*Entity, len(entities))

	for _, e := range entities {
		key := keyFn(e)
		existing, ok := byKey[key]
		if !ok {
			merged := cloneShallow(e)
			byKey[key] = merged
			order = append(order, key)
			continue
		}
		mergeInto(existing, e)
	}

	out := make([]*Entity, 0, len(order))
	for _, key := range order {
		merged := byKey[key]
		merged.AltNames = dedupCaseInsensitive(merged.AltNames)
		merged.Addresses = dedupAddresses(merged.Addresses)
		merged.PreparedFields = nil
		out = append(out, merged)
	}
	return out
}

func cloneShallow(e *Entity) *Entity {
	clone := *e
	clone.AltNames = append([]string(nil), e.AltNames...)
	clone.Addresses = append([]Address(nil), e.Addresses...)
	clone.CryptoAddresses = append([]CryptoAddress(nil), e.CryptoAddresses...)
	clone.GovernmentIDs = append([]GovernmentID(nil), e.GovernmentIDs...)
	clone.PreparedFields = nil
	return &clone
}

// mergeInto folds src's fields into dst. First-occurrence values win
// for scalar fields that are already set; sequences are appended and
// later deduplicated.
func mergeInto(dst, src *Entity) {
	if dst.Name == "" {
		dst.Name = src.Name
	} else if src.Name != "" && !strings.EqualFold(dst.Name, src.Name) {
		dst.AltNames = append(dst.AltNames, src.Name)
	}
	dst.AltNames = append(dst.AltNames, src.AltNames...)

	if dst.Contact == nil {
		dst.Contact = src.Contact
	}
	dst.Addresses = append(dst.Addresses, src.Addresses...)
	dst.CryptoAddresses = append(dst.CryptoAddresses, dedupCryptoAddresses(src.CryptoAddresses, dst.CryptoAddresses)...)
	dst.GovernmentIDs = append(dst.GovernmentIDs, dedupGovernmentIDs(src.GovernmentIDs, dst.GovernmentIDs)...)

	if dst.Sanctions == nil {
		dst.Sanctions = src.Sanctions
	} else if src.Sanctions != nil {
		dst.Sanctions.Programs = append(dst.Sanctions.Programs, src.Sanctions.Programs...)
	}
	if dst.Remarks == "" {
		dst.Remarks = src.Remarks
	}
	if dst.Person == nil {
		dst.Person = src.Person
	}
	if dst.Business == nil {
		dst.Business = src.Business
	}
	if dst.Organization == nil {
		dst.Organization = src.Organization
	}
	if dst.Vessel == nil {
		dst.Vessel = src.Vessel
	}
	if dst.Aircraft == nil {
		dst.Aircraft = src.Aircraft
	}
}

func dedupCaseInsensitive(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		key := strings.ToLower(strings.TrimSpace(n))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}

// dedupAddresses collapses address variants that share the same
// normalizedAddressKey (lowercased street and city); the first
// occurrence wins, with missing sub-fields filled in from later
// duplicates.
func dedupAddresses(addrs []Address) []Address {
	type entry struct {
		addr Address
		key  string
	}
	var ordered []entry
	index := make(map[string]int)

	for _, a := range addrs {
		key := normalizedAddressKey(a)
		if i, ok := index[key]; ok {
			ordered[i].addr = fillMissing(ordered[i].addr, a)
			continue
		}
		index[key] = len(ordered)
		ordered = append(ordered, entry{addr: a, key: key})
	}

	out := make([]Address, 0, len(ordered))
	for _, e := range ordered {
		out = append(out, e.addr)
	}
	return out
}

// normalizedAddressKey identifies an address by its street and city —
// the fields unlikely to vary between source-list re-publications of
// the same address — so that variants differing only in a missing
// state/postal/country sub-field still collapse to one entry.
func normalizedAddressKey(a Address) string {
	return strings.ToLower(strings.TrimSpace(a.Street)) + "|" + strings.ToLower(strings.TrimSpace(a.City))
}

func fillMissing(base, other Address) Address {
	if base.Street == "" {
		base.Street = other.Street
	}
	if base.City == "" {
		base.City = other.City
	}
	if base.StateOrReg == "" {
		base.StateOrReg = other.StateOrReg
	}
	if base.PostalCode == "" {
		base.PostalCode = other.PostalCode
	}
	if base.Country == "" {
		base.Country = other.Country
	}
	return base
}

func dedupCryptoAddresses(src, existing []CryptoAddress) []CryptoAddress {
	have := make(map[CryptoAddress]struct{}, len(existing))
	for _, c := range existing {
		have[c] = struct{}{}
	}
	out := make([]CryptoAddress, 0, len(src))
	for _, c := range src {
		if _, dup := have[c]; dup {
			continue
		}
		have[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func governmentIDKey(g GovernmentID) string {
	return g.Country + "|" + g.Type + "|" + NormalizeIdentifier(g.Identifier)
}

func dedupGovernmentIDs(src, existing []GovernmentID) []GovernmentID {
	have := make(map[string]struct{}, len(existing))
	for _, g := range existing {
		have[governmentIDKey(g)] = struct{}{}
	}
	out := make([]GovernmentID, 0, len(src))
	for _, g := range src {
		key := governmentIDKey(g)
		if _, dup := have[key]; dup {
			continue
		}
		have[key] = struct{}{}
		out = append(out, g)
	}
	return out
}
