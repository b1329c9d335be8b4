package scoring

import (
	"math"
	"time"

	"github.com/sentineltrust/screening-engine/internal/entity"
)

const (
	yearComponentWeight  = 0.40
	monthComponentWeight = 0.30
	dayComponentWeight   = 0.30

	yearToleranceYears = 5
)

// DatePiece dispatches to the type-appropriate date pair (birth/death
// for PERSON, created/dissolved for BUSINESS/ORGANIZATION, built only
// for VESSEL/AIRCRAFT) and scores it with the year/month/day
// comparator.
func DatePiece(query, candidate *entity.Entity, w Weights) Piece {
	piece := Piece{Kind: KindDate, Weight: w.SupportingInfoWeight}
	if !w.DateEnabled {
		return piece
	}

	pairs := datePairs(query, candidate)
	if len(pairs) == 0 {
		return piece
	}

	var total float64
	compared := 0
	for _, p := range pairs {
		if p.query == nil || p.candidate == nil {
			continue
		}
		total += compareDate(*p.query, *p.candidate)
		compared++
	}
	if compared == 0 {
		return piece
	}

	score := total / float64(compared)

	if query.Type == entity.TypePerson {
		score *= birthDeathConsistencyFactor(query.Person, candidate.Person)
	}

	piece.Score = score
	piece.FieldsCompared = compared
	piece.Matched = score > 0.5
	piece.Exact = score > 0.99
	return piece
}

type datePair struct {
	query, candidate *time.Time
}

func datePairs(query, candidate *entity.Entity) []datePair {
	switch query.Type {
	case entity.TypePerson:
		if query.Person == nil || candidate.Person == nil {
			return nil
		}
		return []datePair{
			{query.Person.DateOfBirth, candidate.Person.DateOfBirth},
			{query.Person.DateOfDeath, candidate.Person.DateOfDeath},
		}
	case entity.TypeBusiness:
		if query.Business == nil || candidate.Business == nil {
			return nil
		}
		return []datePair{
			{query.Business.DateCreated, candidate.Business.DateCreated},
			{query.Business.DateDissolved, candidate.Business.DateDissolved},
		}
	case entity.TypeOrganization:
		if query.Organization == nil || candidate.Organization == nil {
			return nil
		}
		return []datePair{
			{query.Organization.DateCreated, candidate.Organization.DateCreated},
			{query.Organization.DateDissolved, candidate.Organization.DateDissolved},
		}
	case entity.TypeVessel:
		if query.Vessel == nil || candidate.Vessel == nil {
			return nil
		}
		return []datePair{{query.Vessel.DateBuilt, candidate.Vessel.DateBuilt}}
	case entity.TypeAircraft:
		if query.Aircraft == nil || candidate.Aircraft == nil {
			return nil
		}
		return []datePair{{query.Aircraft.DateBuilt, candidate.Aircraft.DateBuilt}}
	default:
		return nil
	}
}

// compareDate scores one date pair: null on either side scores 0 (the
// caller skips it from FieldsCompared entirely via the nil check
// above); otherwise a weighted combination of year/month/day
// closeness.
func compareDate(a, b time.Time) float64 {
	return yearComponentWeight*compareYear(a.Year(), b.Year()) +
		monthComponentWeight*compareMonth(int(a.Month()), int(b.Month())) +
		dayComponentWeight*compareDay(a.Day(), b.Day())
}

func compareYear(a, b int) float64 {
	delta := math.Abs(float64(a - b))
	score := 1 - delta/yearToleranceYears
	if score < 0 {
		return 0
	}
	return score
}

var monthTypoPairs = map[[2]int]bool{
	{1, 10}: true, {10, 1}: true,
	{1, 11}: true, {11, 1}: true,
	{1, 12}: true, {12, 1}: true,
}

func compareMonth(a, b int) float64 {
	if a == b {
		return 1.0
	}
	delta := abs(a - b)
	if delta == 1 {
		return 0.9
	}
	if monthTypoPairs[[2]int{a, b}] {
		return 0.7
	}
	// linear decay over the remaining distance, floor at 0
	score := 1 - float64(delta)/12
	if score < 0 {
		return 0
	}
	return score
}

func compareDay(a, b int) float64 {
	if a == b {
		return 1.0
	}
	delta := abs(a - b)
	if delta <= 3 {
		return 1 - float64(delta)*0.1
	}
	if similarDays(a, b) {
		return 0.7
	}
	score := 1 - float64(delta)/31
	if score < 0 {
		return 0
	}
	return score
}

// similarDays recognizes classic data-entry typos: a digit repeated
// (1 -> 11) or a digit transposition (12 <-> 21).
func similarDays(a, b int) bool {
	if a == 0 || b == 0 {
		return false
	}
	if a < 10 && b == a*11 {
		return true
	}
	if b < 10 && a == b*11 {
		return true
	}
	return isDigitSwap(a, b)
}

func isDigitSwap(a, b int) bool {
	if a < 10 || b < 10 || a > 31 || b > 31 {
		return false
	}
	return a/10 == b%10 && a%10 == b/10 && a != b
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// birthDeathConsistencyFactor applies a 0.5x penalty to the date piece
// when both records carry birth AND death dates but the lifespans
// disagree by more than 20% or birth does not precede death.
func birthDeathConsistencyFactor(query, candidate *entity.Person) float64 {
	if query == nil || candidate == nil {
		return 1.0
	}
	if query.DateOfBirth == nil || query.DateOfDeath == nil ||
		candidate.DateOfBirth == nil || candidate.DateOfDeath == nil {
		return 1.0
	}

	queryLifespan := query.DateOfDeath.Sub(*query.DateOfBirth)
	candidateLifespan := candidate.DateOfDeath.Sub(*candidate.DateOfBirth)

	if query.DateOfBirth.After(*query.DateOfDeath) || candidate.DateOfBirth.After(*candidate.DateOfDeath) {
		return 0.5
	}
	if queryLifespan <= 0 || candidateLifespan <= 0 {
		return 0.5
	}

	ratio := float64(candidateLifespan) / float64(queryLifespan)
	if ratio < 0.8 || ratio > 1.2 {
		return 0.5
	}
	return 1.0
}
