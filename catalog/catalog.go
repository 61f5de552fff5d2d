package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/giygas/immunization-calendar/catalog/entities"
)

var (
	ErrUnknownVaccine     = errors.New("unknown vaccine")
	ErrUnknownDisease     = errors.New("unknown disease")
	ErrUnresolvedDefault  = errors.New("disease default vaccine not resolved")
	ErrDefaultNotCovering = errors.New("default vaccine does not cover its disease")
	ErrDuplicateVaccineID = errors.New("duplicate vaccine id")
	ErrDuplicateDiseaseID = errors.New("duplicate disease id")
)

// Catalog is a fully wired set of diseases and vaccines with id lookups. Records
// keep the order the source listed them in. The catalog owns its records for the
// life of the process; everything else holds references into it.
type Catalog struct {
	vaccines    []*entities.VaccineType
	diseases    []*entities.Disease
	vaccineByID map[entities.VaccineID]*entities.VaccineType
	diseaseByID map[entities.DiseaseID]*entities.Disease
}

// New loads source and resolves every relation. It fails rather than return a
// partially wired catalog.
func New(source Source) (*Catalog, error) {
	vaccines := source.ListVaccines()
	diseases := source.ListDiseases()

	c := &Catalog{
		vaccines:    make([]*entities.VaccineType, 0, len(vaccines)),
		diseases:    make([]*entities.Disease, 0, len(diseases)),
		vaccineByID: make(map[entities.VaccineID]*entities.VaccineType, len(vaccines)),
		diseaseByID: make(map[entities.DiseaseID]*entities.Disease, len(diseases)),
	}

	for _, v := range vaccines {
		if _, exists := c.vaccineByID[v.ID]; exists {
			return nil, fmt.Errorf("%w: %d (%s)", ErrDuplicateVaccineID, v.ID, v.Name)
		}
		c.vaccineByID[v.ID] = v
		c.vaccines = append(c.vaccines, v)
	}

	for _, d := range diseases {
		if _, exists := c.diseaseByID[d.ID]; exists {
			return nil, fmt.Errorf("%w: %d (%s)", ErrDuplicateDiseaseID, d.ID, d.Name)
		}
		c.diseaseByID[d.ID] = d
		c.diseases = append(c.diseases, d)
	}

	for _, d := range c.diseases {
		if !d.HasDefaultVaccine() {
			return nil, fmt.Errorf("%w: %s", ErrUnresolvedDefault, d.Name)
		}
		v, ok := c.vaccineByID[d.DefaultVaccine()]
		if !ok {
			return nil, fmt.Errorf("%w: %s points to vaccine %d", ErrUnresolvedDefault, d.Name, d.DefaultVaccine())
		}
		if !v.Covers(d.ID) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrDefaultNotCovering, d.Name, v.Name)
		}
	}

	for _, v := range c.vaccines {
		for _, id := range v.Diseases() {
			if _, ok := c.diseaseByID[id]; !ok {
				return nil, fmt.Errorf("%w: %s covers disease %d", ErrUnknownDisease, v.Name, id)
			}
		}
	}

	return c, nil
}

// Vaccines returns every vaccine in source order.
func (c *Catalog) Vaccines() []*entities.VaccineType {
	out := make([]*entities.VaccineType, len(c.vaccines))
	copy(out, c.vaccines)
	return out
}

// Diseases returns every disease in source order.
func (c *Catalog) Diseases() []*entities.Disease {
	out := make([]*entities.Disease, len(c.diseases))
	copy(out, c.diseases)
	return out
}

func (c *Catalog) Vaccine(id entities.VaccineID) (*entities.VaccineType, error) {
	v, ok := c.vaccineByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVaccine, id)
	}
	return v, nil
}

func (c *Catalog) Disease(id entities.DiseaseID) (*entities.Disease, error) {
	d, ok := c.diseaseByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDisease, id)
	}
	return d, nil
}

// DefaultVaccine resolves d's default vaccine. New guarantees it exists for every
// catalog disease.
func (c *Catalog) DefaultVaccine(d *entities.Disease) *entities.VaccineType {
	return c.vaccineByID[d.DefaultVaccine()]
}

// DiseasesOf resolves the diseases v covers, in v's order.
func (c *Catalog) DiseasesOf(v *entities.VaccineType) []*entities.Disease {
	ids := v.Diseases()
	out := make([]*entities.Disease, 0, len(ids))
	for _, id := range ids {
		if d, ok := c.diseaseByID[id]; ok {
			out = append(out, d)
		}
	}
	return out
}

// VaccineByName returns the first vaccine whose normalized name equals name's.
func (c *Catalog) VaccineByName(name string) (*entities.VaccineType, bool) {
	want := NormalizeName(name)
	for _, v := range c.vaccines {
		if NormalizeName(v.Name) == want {
			return v, true
		}
	}
	return nil, false
}

// SearchVaccines returns the vaccines whose normalized name contains term.
func (c *Catalog) SearchVaccines(term string) []*entities.VaccineType {
	want := NormalizeName(term)
	var out []*entities.VaccineType
	for _, v := range c.vaccines {
		if strings.Contains(NormalizeName(v.Name), want) {
			out = append(out, v)
		}
	}
	return out
}
