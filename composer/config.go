// Package composer derives the fixed list of selectable base schemes from a
// catalog: tier filtering followed, for the combined variants, by substitution
// of single-disease vaccines with polyvalent ones.
package composer

import (
	"fmt"
	"strings"

	"github.com/giygas/immunization-calendar/catalog"
	"github.com/giygas/immunization-calendar/catalog/entities"
)

// Positions of the composed schemes. They double as scheme ids.
const (
	MandatoryScheme entities.SchemeID = iota
	MandatoryCombinedScheme
	NoVaccinationScheme
	AllScheme
	AllCombinedScheme
)

// RemovalPolicy decides which default vaccines a polyvalent vaccine displaces.
type RemovalPolicy int

const (
	// RemoveCoveredDefaults drops the default vaccine of every disease the
	// polyvalent vaccine covers, even when that vaccine is also the default of a
	// disease it does not cover.
	RemoveCoveredDefaults RemovalPolicy = iota
	// KeepSharedDefaults keeps a default vaccine that is still the default of some
	// scheme disease the polyvalent vaccine does not cover.
	KeepSharedDefaults
)

func (p RemovalPolicy) String() string {
	switch p {
	case RemoveCoveredDefaults:
		return "remove-covered"
	case KeepSharedDefaults:
		return "keep-shared"
	}
	return fmt.Sprintf("RemovalPolicy(%d)", int(p))
}

// ParseRemovalPolicy accepts the names String produces.
func ParseRemovalPolicy(s string) (RemovalPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "remove-covered":
		return RemoveCoveredDefaults, nil
	case "keep-shared":
		return KeepSharedDefaults, nil
	}
	return 0, fmt.Errorf("unknown substitution policy %q, want remove-covered or keep-shared", s)
}

// Names are the user-facing names of the composed schemes.
type Names struct {
	Mandatory         string
	MandatoryCombined string
	NoVaccination     string
	All               string
	AllCombined       string
}

// Config drives Compose.
type Config struct {
	Names Names
	// Polyvalent vaccine names, applied in order by the combined schemes.
	Polyvalent []string
	Removal    RemovalPolicy
}

// DefaultConfig combines with the fixture catalog's polyvalent vaccine and keeps
// the unconditional removal rule.
func DefaultConfig() Config {
	return Config{
		Names: Names{
			Mandatory:         "Mandatory only",
			MandatoryCombined: "Mandatory, combined vaccines",
			NoVaccination:     "No vaccination",
			All:               "All vaccines",
			AllCombined:       "All vaccines, combined",
		},
		Polyvalent: []string{catalog.FixturePolyvalent},
		Removal:    RemoveCoveredDefaults,
	}
}
