// Package catalog provides the disease and vaccine catalog the scheme composer
// works from, and the contract its data sources implement.
package catalog

import "github.com/giygas/immunization-calendar/catalog/entities"

// Source supplies a default-configured catalog, including optional vaccines and
// products that are not the default for any disease. Every disease it returns has
// its default vaccine already set.
type Source interface {
	ListVaccines() []*entities.VaccineType
	ListDiseases() []*entities.Disease
}

// StaticSource serves records built elsewhere, such as in tests or by an
// external loader that already wired the default vaccines.
type StaticSource struct {
	Vaccines []*entities.VaccineType
	Diseases []*entities.Disease
}

func (s StaticSource) ListVaccines() []*entities.VaccineType {
	return s.Vaccines
}

func (s StaticSource) ListDiseases() []*entities.Disease {
	return s.Diseases
}
