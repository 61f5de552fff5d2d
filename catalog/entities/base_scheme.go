package entities

import (
	"fmt"
	"slices"
)

// SchemeID identifies a base scheme by its position in the composed list.
type SchemeID int

// BaseScheme is one selectable vaccination plan: a named bundle of diseases and
// the vaccines that address them. It references catalog records without owning
// them. Membership is fixed at construction; only the checked flag changes.
type BaseScheme struct {
	ID   SchemeID
	Name string

	diseases []*Disease
	vaccines []*VaccineType
	checked  bool
}

// NewBaseScheme builds a scheme, dropping repeated records while keeping first-seen
// order. Every vaccine must cover at least one of the scheme's diseases.
func NewBaseScheme(id SchemeID, name string, diseases []*Disease, vaccines []*VaccineType) (*BaseScheme, error) {
	s := &BaseScheme{
		ID:       id,
		Name:     name,
		diseases: make([]*Disease, 0, len(diseases)),
		vaccines: make([]*VaccineType, 0, len(vaccines)),
	}

	for _, d := range diseases {
		if !s.ContainsDisease(d) {
			s.diseases = append(s.diseases, d)
		}
	}

	for _, v := range vaccines {
		if s.ContainsVaccine(v) {
			continue
		}
		if !slices.ContainsFunc(s.diseases, func(d *Disease) bool { return v.Covers(d.ID) }) {
			return nil, fmt.Errorf("scheme %q: %w: %s", name, ErrInconsistentScheme, v.Name)
		}
		s.vaccines = append(s.vaccines, v)
	}

	return s, nil
}

// Diseases returns the scheme's diseases in insertion order.
func (s *BaseScheme) Diseases() []*Disease {
	return slices.Clone(s.diseases)
}

// Vaccines returns the scheme's vaccines in insertion order.
func (s *BaseScheme) Vaccines() []*VaccineType {
	return slices.Clone(s.vaccines)
}

func (s *BaseScheme) ContainsVaccine(v *VaccineType) bool {
	return slices.ContainsFunc(s.vaccines, v.SameAs)
}

func (s *BaseScheme) ContainsDisease(d *Disease) bool {
	return slices.ContainsFunc(s.diseases, func(other *Disease) bool { return other.ID == d.ID })
}

// IsEmpty reports whether the scheme vaccinates against nothing.
func (s *BaseScheme) IsEmpty() bool {
	return len(s.vaccines) == 0
}

func (s *BaseScheme) Checked() bool {
	return s.checked
}

func (s *BaseScheme) SetChecked(checked bool) {
	s.checked = checked
}

func (s *BaseScheme) String() string {
	return fmt.Sprintf("BaseScheme{name=%q, diseases=%d, vaccines=%d, checked=%t}",
		s.Name, len(s.diseases), len(s.vaccines), s.checked)
}
