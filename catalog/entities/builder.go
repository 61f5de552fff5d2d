package entities

import (
	"fmt"
	"slices"
	"strings"
)

// VaccineBuilder is the only way to construct a VaccineType. Each Create call takes
// the next id from the builder's sequence.
type VaccineBuilder struct {
	ids          *Sequence[VaccineID]
	diseases     []DiseaseID
	scheme       *VaccineScheme
	schemes      []VaccineScheme
	altDoseNames []string
	tags         []VaccineTag
	description  string
}

// NewVaccineBuilder returns a builder drawing ids from ids.
func NewVaccineBuilder(ids *Sequence[VaccineID]) *VaccineBuilder {
	return &VaccineBuilder{ids: ids}
}

// WithDiseases sets the covered diseases. Duplicates are dropped.
func (b *VaccineBuilder) WithDiseases(diseases ...*Disease) *VaccineBuilder {
	b.diseases = b.diseases[:0]
	for _, d := range diseases {
		if !slices.Contains(b.diseases, d.ID) {
			b.diseases = append(b.diseases, d.ID)
		}
	}
	return b
}

// WithScheme sets the active dosing scheme.
func (b *VaccineBuilder) WithScheme(s VaccineScheme) *VaccineBuilder {
	b.scheme = &s
	return b
}

// WithAlternativeSchemes sets the schemes UseScheme can switch between.
func (b *VaccineBuilder) WithAlternativeSchemes(schemes ...VaccineScheme) *VaccineBuilder {
	b.schemes = schemes
	return b
}

func (b *VaccineBuilder) WithTags(tags ...VaccineTag) *VaccineBuilder {
	b.tags = append(b.tags, tags...)
	return b
}

func (b *VaccineBuilder) WithDescription(description string) *VaccineBuilder {
	b.description = description
	return b
}

// WithAltDoseNames sets one display name per dose. When set at all, the count
// must match the dose count of the active scheme.
func (b *VaccineBuilder) WithAltDoseNames(names ...string) *VaccineBuilder {
	b.altDoseNames = names
	return b
}

// Create validates the collected fields and yields a new unselected VaccineType.
// No id is consumed when validation fails.
func (b *VaccineBuilder) Create(name string) (*VaccineType, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidVaccine)
	}

	scheme := DefaultVaccineScheme()
	if b.scheme != nil {
		scheme = b.scheme.clone()
	}
	if err := scheme.Validate(); err != nil {
		return nil, fmt.Errorf("vaccine %q: %w", name, err)
	}

	schemes := make([]VaccineScheme, 0, len(b.schemes))
	for i, s := range b.schemes {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("vaccine %q alternative scheme %d: %w", name, i, err)
		}
		schemes = append(schemes, s.clone())
	}

	if b.altDoseNames != nil && len(b.altDoseNames) != scheme.DoseCount {
		return nil, fmt.Errorf("%w: %q has %d dose names for %d doses",
			ErrInvalidVaccine, name, len(b.altDoseNames), scheme.DoseCount)
	}

	v := &VaccineType{
		ID:                b.ids.Next(),
		Name:              name,
		Description:       b.description,
		diseases:          slices.Clone(b.diseases),
		scheme:            scheme,
		schemes:           schemes,
		altDoseNames:      slices.Clone(b.altDoseNames),
		tags:              slices.Clone(b.tags),
		selectionHandlers: []func(){},
		formDataHandlers:  []func(Form){},
	}
	if v.diseases == nil {
		v.diseases = []DiseaseID{}
	}
	if v.tags == nil {
		v.tags = []VaccineTag{}
	}
	return v, nil
}
