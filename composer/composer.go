package composer

import (
	"fmt"
	"slices"

	"github.com/giygas/immunization-calendar/catalog"
	"github.com/giygas/immunization-calendar/catalog/entities"
	"github.com/giygas/immunization-calendar/logging"
)

// Compose builds the schemes in their fixed order: mandatory, mandatory combined,
// no vaccination, all vaccines, all vaccines combined. Each combined scheme starts
// from the vaccines of the filtered scheme before it.
func Compose(cat *catalog.Catalog, cfg Config) ([]*entities.BaseScheme, error) {
	mandatory, err := filtered(cat, MandatoryScheme, cfg.Names.Mandatory, entities.Mandatory)
	if err != nil {
		return nil, err
	}
	mandatoryCombined, err := combined(cat, MandatoryCombinedScheme, cfg.Names.MandatoryCombined, mandatory, cfg)
	if err != nil {
		return nil, err
	}
	none, err := entities.NewBaseScheme(NoVaccinationScheme, cfg.Names.NoVaccination, nil, nil)
	if err != nil {
		return nil, err
	}
	all, err := filtered(cat, AllScheme, cfg.Names.All)
	if err != nil {
		return nil, err
	}
	allCombined, err := combined(cat, AllCombinedScheme, cfg.Names.AllCombined, all, cfg)
	if err != nil {
		return nil, err
	}

	schemes := []*entities.BaseScheme{mandatory, mandatoryCombined, none, all, allCombined}
	for _, s := range schemes {
		logging.Debug("Scheme composed", "scheme", s.Name, "diseases", len(s.Diseases()), "vaccines", len(s.Vaccines()))
	}
	return schemes, nil
}

// Filter selects the diseases whose tier is one of tiers, or every disease when
// no tier is given, together with their default vaccines. A vaccine that is the
// default of several selected diseases appears once.
func Filter(cat *catalog.Catalog, tiers ...entities.Recommendation) ([]*entities.Disease, []*entities.VaccineType) {
	var diseases []*entities.Disease
	var vaccines []*entities.VaccineType
	for _, d := range cat.Diseases() {
		if len(tiers) > 0 && !slices.Contains(tiers, d.Recommendation) {
			continue
		}
		diseases = append(diseases, d)
		if def := cat.DefaultVaccine(d); !slices.ContainsFunc(vaccines, def.SameAs) {
			vaccines = append(vaccines, def)
		}
	}
	return diseases, vaccines
}

// Substitute returns a copy of vaccines in which the polyvalent vaccine named
// polyName replaces the default vaccines of the diseases it covers. Vaccines are
// compared by identity. diseases are the scheme's diseases, consulted only by
// KeepSharedDefaults. When the catalog has no such product the copy is returned
// unchanged and ok is false. The polyvalent vaccine itself is never removed.
func Substitute(cat *catalog.Catalog, diseases []*entities.Disease, vaccines []*entities.VaccineType,
	polyName string, policy RemovalPolicy) (out []*entities.VaccineType, ok bool) {

	out = slices.Clone(vaccines)

	poly, found := cat.VaccineByName(polyName)
	if !found {
		logging.Debug("Polyvalent vaccine not in catalog, skipping substitution", "vaccine", polyName)
		return out, false
	}

	if !slices.ContainsFunc(out, poly.SameAs) {
		out = append(out, poly)
	}

	var displaced []*entities.VaccineType
	for _, d := range cat.DiseasesOf(poly) {
		def := cat.DefaultVaccine(d)
		if def.SameAs(poly) {
			continue
		}
		if policy == KeepSharedDefaults && stillNeeded(cat, def, poly, diseases) {
			continue
		}
		displaced = append(displaced, def)
	}

	out = slices.DeleteFunc(out, func(v *entities.VaccineType) bool {
		return slices.ContainsFunc(displaced, v.SameAs)
	})
	return out, true
}

// stillNeeded reports whether def is the default vaccine of a disease in diseases
// that poly does not cover.
func stillNeeded(cat *catalog.Catalog, def, poly *entities.VaccineType, diseases []*entities.Disease) bool {
	for _, d := range diseases {
		if poly.Covers(d.ID) {
			continue
		}
		if cat.DefaultVaccine(d).SameAs(def) {
			return true
		}
	}
	return false
}

func filtered(cat *catalog.Catalog, id entities.SchemeID, name string, tiers ...entities.Recommendation) (*entities.BaseScheme, error) {
	diseases, vaccines := Filter(cat, tiers...)
	s, err := entities.NewBaseScheme(id, name, diseases, vaccines)
	if err != nil {
		return nil, fmt.Errorf("compose %q: %w", name, err)
	}
	return s, nil
}

// combined substitutes every configured polyvalent vaccine into base's vaccines
// and derives the disease set from what the resulting vaccines cover.
func combined(cat *catalog.Catalog, id entities.SchemeID, name string, base *entities.BaseScheme, cfg Config) (*entities.BaseScheme, error) {
	vaccines := base.Vaccines()
	diseases := base.Diseases()
	for _, polyName := range cfg.Polyvalent {
		vaccines, _ = Substitute(cat, diseases, vaccines, polyName, cfg.Removal)
	}

	var covered []*entities.Disease
	for _, v := range vaccines {
		covered = append(covered, cat.DiseasesOf(v)...)
	}

	s, err := entities.NewBaseScheme(id, name, covered, vaccines)
	if err != nil {
		return nil, fmt.Errorf("compose %q: %w", name, err)
	}
	return s, nil
}
