// Package entity defines the screening engine's indexed record type,
// its type-specific detail variants, and the prepared (normalized)
// fields cached alongside each record.
package entity

import "time"

// Source identifies the watchlist a record was published by.
type Source string

const (
	SourceOFACSDN Source = "OFAC_SDN"
	SourceUSCSL   Source = "US_CSL"
	SourceUKCSL   Source = "UK_CSL"
	SourceEUCSL   Source = "EU_CSL"
	SourceUnknown Source = ""
)

// Type classifies the kind of record, determining which type-specific
// detail field (Person, Business, Organization, Vessel, Aircraft) is
// populated.
type Type string

const (
	TypePerson       Type = "PERSON"
	TypeBusiness     Type = "BUSINESS"
	TypeOrganization Type = "ORGANIZATION"
	TypeVessel       Type = "VESSEL"
	TypeAircraft     Type = "AIRCRAFT"
	TypeUnknown      Type = "UNKNOWN"
)

// Person carries the type-specific detail for Type == TypePerson.
type Person struct {
	DateOfBirth  *time.Time
	DateOfDeath  *time.Time
	PlaceOfBirth string
	Nationality  string
	Gender       string
}

// Business carries the type-specific detail for Type == TypeBusiness.
type Business struct {
	DateCreated   *time.Time
	DateDissolved *time.Time
	RegistryID    string
	Jurisdiction  string
}

// Organization carries the type-specific detail for Type ==
// TypeOrganization.
type Organization struct {
	DateCreated   *time.Time
	DateDissolved *time.Time
	Jurisdiction  string
}

// Vessel carries the type-specific detail for Type == TypeVessel.
type Vessel struct {
	DateBuilt *time.Time
	Flag      string
	IMONumber string
	Type      string
	Tonnage   float64
}

// Aircraft carries the type-specific detail for Type == TypeAircraft.
type Aircraft struct {
	DateBuilt        *time.Time
	TailNumber       string
	Model            string
	OperatorCountry  string
}

// Contact is optional contact information for an entity.
type Contact struct {
	Email   string
	Phone   string
	Fax     string
	Website string
}

// Address is one structured address entry for an entity.
type Address struct {
	Street     string
	City       string
	StateOrReg string
	PostalCode string
	Country    string
}

// CryptoAddress pairs a currency symbol with an address string.
// Comparison is case-sensitive per the engine's fixed semantics.
type CryptoAddress struct {
	Currency string
	Address  string
}

// GovernmentID is a (country, type, identifier) government-issued
// identifier. Comparison normalizes the identifier (strip spaces,
// hyphens, non-alphanumerics; uppercase) but compares country and
// type verbatim.
type GovernmentID struct {
	Country    string
	Type       string
	Identifier string
}

// SanctionsInfo carries the programs an entity is listed under.
type SanctionsInfo struct {
	Programs    []string
	Secondary   bool
	Description string
}

// Entity is the indexed record: one normalized listing of a
// sanctioned person, business, organization, vessel, or aircraft from
// one source list.
type Entity struct {
	ID     string
	Source Source
	// SourceID is the stable identifier assigned by the source list.
	// Two entities with equal non-empty SourceID are treated as the
	// same underlying listing by the scorer's identity short-circuit.
	SourceID string
	Type     Type
	Name     string
	// AltNames is ordered; duplicates are collapsed case-insensitively
	// by Merge.
	AltNames []string

	Person       *Person
	Business     *Business
	Organization *Organization
	Vessel       *Vessel
	Aircraft     *Aircraft

	Contact         *Contact
	Addresses       []Address
	CryptoAddresses []CryptoAddress
	GovernmentIDs   []GovernmentID
	Sanctions       *SanctionsInfo
	Remarks         string

	// PreparedFields caches normalized derivations of Name+AltNames.
	// Nil until computed at index time or lazily on first scoring use.
	PreparedFields *PreparedFields
}

// TypeDetailConsistent reports whether e carries exactly one populated
// type-specific detail consistent with e.Type, per the entity
// invariant. UNKNOWN requires all detail fields to be absent.
func (e *Entity) TypeDetailConsistent() bool {
	populated := 0
	if e.Person != nil {
		populated++
	}
	if e.Business != nil {
		populated++
	}
	if e.Organization != nil {
		populated++
	}
	if e.Vessel != nil {
		populated++
	}
	if e.Aircraft != nil {
		populated++
	}

	switch e.Type {
	case TypeUnknown:
		return populated == 0
	case TypePerson:
		return populated == 1 && e.Person != nil
	case TypeBusiness:
		return populated == 1 && e.Business != nil
	case TypeOrganization:
		return populated == 1 && e.Organization != nil
	case TypeVessel:
		return populated == 1 && e.Vessel != nil
	case TypeAircraft:
		return populated == 1 && e.Aircraft != nil
	default:
		return false
	}
}
