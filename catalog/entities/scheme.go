package entities

import (
	"fmt"
	"maps"
	"math"
)

// OffsetRange is a recommended [Min, Max] window in days.
type OffsetRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// VaccineScheme holds the dosing metadata of one way of administering a vaccine.
//
// Offsets are keyed by dose index and measured in days since the previous dose;
// the first dose is measured from birth, so an offset of 0 means the day of birth.
type VaccineScheme struct {
	DoseCount          int
	MinOffsets         map[int]int
	RecommendedOffsets map[int]OffsetRange
	// MaxAge in days. Past it the scheme should be replaced or discussed with a doctor.
	MaxAge int
}

// DefaultVaccineScheme is the zero-configuration scheme: a single dose, no offsets, no age limit.
func DefaultVaccineScheme() VaccineScheme {
	return VaccineScheme{
		DoseCount:          1,
		MinOffsets:         make(map[int]int),
		RecommendedOffsets: make(map[int]OffsetRange),
		MaxAge:             math.MaxInt,
	}
}

// Validate checks the dose count and that every offset is keyed by an existing dose.
func (s VaccineScheme) Validate() error {
	if s.DoseCount < 1 {
		return fmt.Errorf("%w: dose count must be at least 1, got %d", ErrInvalidScheme, s.DoseCount)
	}
	for dose, days := range s.MinOffsets {
		if dose < 0 || dose >= s.DoseCount {
			return fmt.Errorf("%w: min offset for dose %d outside 0..%d", ErrInvalidScheme, dose, s.DoseCount-1)
		}
		if days < 0 {
			return fmt.Errorf("%w: negative min offset for dose %d", ErrInvalidScheme, dose)
		}
	}
	for dose, r := range s.RecommendedOffsets {
		if dose < 0 || dose >= s.DoseCount {
			return fmt.Errorf("%w: recommended offset for dose %d outside 0..%d", ErrInvalidScheme, dose, s.DoseCount-1)
		}
		if r.Min < 0 || r.Min > r.Max {
			return fmt.Errorf("%w: recommended offset for dose %d has bad range [%d,%d]", ErrInvalidScheme, dose, r.Min, r.Max)
		}
	}
	if s.MaxAge < 0 {
		return fmt.Errorf("%w: negative max age", ErrInvalidScheme)
	}
	return nil
}

// clone returns a copy that shares no maps with s, so a scheme is never shared across vaccines.
func (s VaccineScheme) clone() VaccineScheme {
	c := s
	c.MinOffsets = make(map[int]int, len(s.MinOffsets))
	maps.Copy(c.MinOffsets, s.MinOffsets)
	c.RecommendedOffsets = make(map[int]OffsetRange, len(s.RecommendedOffsets))
	maps.Copy(c.RecommendedOffsets, s.RecommendedOffsets)
	return c
}
