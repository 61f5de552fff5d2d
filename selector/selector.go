// Package selector projects the catalog and the composed schemes down to what the
// user currently has selected.
package selector

import "github.com/giygas/immunization-calendar/catalog/entities"

// VaccineLister lists every catalog vaccine.
type VaccineLister interface {
	AllVaccines() []*entities.VaccineType
}

// SchemeLister lists the composed schemes.
type SchemeLister interface {
	Schemes() []*entities.BaseScheme
}

// DiseaseLister lists every catalog disease.
type DiseaseLister interface {
	Diseases() []*entities.Disease
}

// Source is everything a Selector reads from.
type Source interface {
	VaccineLister
	SchemeLister
	DiseaseLister
}

// Selector recomputes every projection from the current flags; it never caches
// and never mutates. Results keep catalog and scheme order.
type Selector struct {
	source Source
}

func New(source Source) *Selector {
	return &Selector{source: source}
}

// SelectedVaccines returns the catalog vaccines whose selected flag is set.
func (s *Selector) SelectedVaccines() []*entities.VaccineType {
	var out []*entities.VaccineType
	for _, v := range s.source.AllVaccines() {
		if v.Selected() {
			out = append(out, v)
		}
	}
	return out
}

// SelectedSchemes returns the schemes whose checked flag is set.
func (s *Selector) SelectedSchemes() []*entities.BaseScheme {
	var out []*entities.BaseScheme
	for _, scheme := range s.source.Schemes() {
		if scheme.Checked() {
			out = append(out, scheme)
		}
	}
	return out
}

// CheckedDiseases returns the catalog diseases whose checked flag is set.
func (s *Selector) CheckedDiseases() []*entities.Disease {
	var out []*entities.Disease
	for _, d := range s.source.Diseases() {
		if d.Checked() {
			out = append(out, d)
		}
	}
	return out
}
