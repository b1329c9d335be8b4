// Package scoring implements the screening engine's multi-factor
// weighted scorer: per-field comparators producing ScorePieces, and an
// aggregator combining them with short-circuits and coverage-based
// penalties/bonuses.
package scoring

import "sync/atomic"

// Weights holds the runtime-tunable weights and thresholds of spec
// §4.3.2. All fields are safe zero-value-free defaults from
// DefaultWeights(); admin edits apply atomically via Config.Store.
type Weights struct {
	NameWeight                    float64
	AddressWeight                 float64
	CriticalIDWeight              float64
	SupportingInfoWeight          float64
	MinMatch                      float64
	ExactMatchThreshold           float64
	JaroWinklerPrefixSize         int
	LengthDifferencePenaltyWeight float64
	LengthDifferenceCutoffFactor  float64
	UnmatchedIndexTokenWeight     float64
	PhoneticFilteringDisabled     bool
	KeepStopwords                 bool

	// Per-kind enable flags: when false, that piece never participates
	// in aggregation (as if fieldsCompared were always 0).
	NameEnabled      bool
	AddressEnabled   bool
	GovIDEnabled     bool
	CryptoEnabled    bool
	ContactEnabled   bool
	DateEnabled      bool
	SourceListEnabled bool
}

// DefaultWeights returns the compile-time defaults from spec §4.3.2.
func DefaultWeights() Weights {
	return Weights{
		NameWeight:                    35,
		AddressWeight:                 25,
		CriticalIDWeight:              50,
		SupportingInfoWeight:          15,
		MinMatch:                      0.88,
		ExactMatchThreshold:           0.99,
		JaroWinklerPrefixSize:         4,
		LengthDifferencePenaltyWeight: 0.3,
		LengthDifferenceCutoffFactor:  0.9,
		UnmatchedIndexTokenWeight:     0.15,
		PhoneticFilteringDisabled:     false,
		KeepStopwords:                 false,
		NameEnabled:                   true,
		AddressEnabled:                true,
		GovIDEnabled:                  true,
		CryptoEnabled:                 true,
		ContactEnabled:                true,
		DateEnabled:                   true,
		SourceListEnabled:             true,
	}
}

// Validate reports an error describing the first invalid field, per
// the admin config validation rules of spec §6 (weights ≥ 0,
// thresholds in [0,1], prefix size in [1,10]).
func (w Weights) Validate() error {
	for _, weight := range []struct {
		name  string
		value float64
	}{
		{"nameWeight", w.NameWeight},
		{"addressWeight", w.AddressWeight},
		{"criticalIdWeight", w.CriticalIDWeight},
		{"supportingInfoWeight", w.SupportingInfoWeight},
	} {
		if weight.value < 0 {
			return invalidWeightError(weight.name, "must be >= 0")
		}
	}
	for _, threshold := range []struct {
		name  string
		value float64
	}{
		{"minMatch", w.MinMatch},
		{"exactMatchThreshold", w.ExactMatchThreshold},
		{"lengthDifferencePenaltyWeight", w.LengthDifferencePenaltyWeight},
		{"lengthDifferenceCutoffFactor", w.LengthDifferenceCutoffFactor},
		{"unmatchedIndexTokenWeight", w.UnmatchedIndexTokenWeight},
	} {
		if threshold.value < 0 || threshold.value > 1 {
			return invalidWeightError(threshold.name, "must be in [0,1]")
		}
	}
	if w.JaroWinklerPrefixSize < 1 || w.JaroWinklerPrefixSize > 10 {
		return invalidWeightError("jaroWinklerPrefixSize", "must be in [1,10]")
	}
	return nil
}

type validationError struct {
	field  string
	reason string
}

func (e *validationError) Error() string {
	return "invalid configuration: " + e.field + " " + e.reason
}

func invalidWeightError(field, reason string) error {
	return &validationError{field: field, reason: reason}
}

// Config holds the process-wide, atomically-swappable weights
// snapshot. Scoring calls take a snapshot once via Load; admin edits
// publish a new snapshot via Store. In-flight scorings observe a
// consistent set of weights regardless of concurrent edits.
type Config struct {
	current atomic.Pointer[Weights]
}

// NewConfig constructs a Config seeded with the given weights.
func NewConfig(w Weights) *Config {
	c := &Config{}
	c.current.Store(&w)
	return c
}

// Load returns the currently active weights snapshot.
func (c *Config) Load() Weights {
	return *c.current.Load()
}

// Store atomically publishes new weights. Returns the previous
// snapshot so callers (the admin config handler) can report a diff.
func (c *Config) Store(w Weights) Weights {
	previous := *c.current.Load()
	c.current.Store(&w)
	return previous
}

// Reset restores compile-time defaults, returning the previous
// snapshot.
func (c *Config) Reset() Weights {
	return c.Store(DefaultWeights())
}
