package catalog

import (
	"fmt"

	"github.com/giygas/immunization-calendar/catalog/entities"
)

// FixturePolyvalent is the name of the combined product in the fixture catalog.
const FixturePolyvalent = "DTaP"

// FixtureSource is a static catalog: three single-disease mandatory vaccines that
// one polyvalent product replaces, a mandatory vaccine with a non-default
// alternative, one recommended and one optional vaccine.
type FixtureSource struct {
	vaccines []*entities.VaccineType
	diseases []*entities.Disease
}

var _ Source = (*FixtureSource)(nil)

// NewFixtureSource builds the fixture, drawing vaccine ids from ids.
func NewFixtureSource(ids *entities.Sequence[entities.VaccineID]) (*FixtureSource, error) {
	diseaseIDs := entities.NewSequence[entities.DiseaseID](0)
	diphtheria := entities.NewDisease(diseaseIDs.Next(), "Diphtheria", entities.Mandatory)
	tetanus := entities.NewDisease(diseaseIDs.Next(), "Tetanus", entities.Mandatory)
	pertussis := entities.NewDisease(diseaseIDs.Next(), "Pertussis", entities.Mandatory)
	hepatitisB := entities.NewDisease(diseaseIDs.Next(), "Hepatitis B", entities.Mandatory)
	rotavirus := entities.NewDisease(diseaseIDs.Next(), "Rotavirus", entities.Recommended)
	meningococcal := entities.NewDisease(diseaseIDs.Next(), "Meningococcal B", entities.Optional)

	primary := entities.VaccineScheme{
		DoseCount:  3,
		MinOffsets: map[int]int{0: 42, 1: 28, 2: 28},
		RecommendedOffsets: map[int]entities.OffsetRange{
			0: {Min: 42, Max: 60},
			1: {Min: 42, Max: 60},
			2: {Min: 42, Max: 60},
		},
		MaxAge: 6 * 365,
	}
	hepB := entities.VaccineScheme{
		DoseCount:  3,
		MinOffsets: map[int]int{0: 0, 1: 28, 2: 140},
		RecommendedOffsets: map[int]entities.OffsetRange{
			0: {Min: 0, Max: 1},
			1: {Min: 28, Max: 42},
			2: {Min: 150, Max: 180},
		},
		MaxAge: 18 * 365,
	}
	hepBAccelerated := entities.VaccineScheme{
		DoseCount:  3,
		MinOffsets: map[int]int{0: 0, 1: 7, 2: 14},
		MaxAge:     18 * 365,
	}
	rota := entities.VaccineScheme{
		DoseCount:  2,
		MinOffsets: map[int]int{0: 42, 1: 28},
		RecommendedOffsets: map[int]entities.OffsetRange{
			0: {Min: 42, Max: 84},
			1: {Min: 28, Max: 56},
		},
		MaxAge: 24 * 7,
	}

	specs := []struct {
		name     string
		builder  *entities.VaccineBuilder
		defaults []*entities.Disease
	}{
		{"Diphtheria toxoid", entities.NewVaccineBuilder(ids).
			WithDiseases(diphtheria).WithScheme(primary).WithTags(entities.TagIntramuscular), []*entities.Disease{diphtheria}},
		{"Tetanus toxoid", entities.NewVaccineBuilder(ids).
			WithDiseases(tetanus).WithScheme(primary).WithTags(entities.TagIntramuscular), []*entities.Disease{tetanus}},
		{"Pertussis acellular", entities.NewVaccineBuilder(ids).
			WithDiseases(pertussis).WithScheme(primary).WithTags(entities.TagIntramuscular), []*entities.Disease{pertussis}},
		{FixturePolyvalent, entities.NewVaccineBuilder(ids).
			WithDiseases(diphtheria, tetanus, pertussis).WithScheme(primary).
			WithAltDoseNames("DTaP I", "DTaP II", "DTaP III").
			WithTags(entities.TagIntramuscular).
			WithDescription("Combined diphtheria, tetanus and acellular pertussis vaccine."), nil},
		{"Hepatitis B", entities.NewVaccineBuilder(ids).
			WithDiseases(hepatitisB).WithScheme(hepB).WithAlternativeSchemes(hepB, hepBAccelerated).
			WithTags(entities.TagIntramuscular), []*entities.Disease{hepatitisB}},
		{"Hepatitis B (alternative)", entities.NewVaccineBuilder(ids).
			WithDiseases(hepatitisB).WithScheme(hepBAccelerated).WithTags(entities.TagIntramuscular), nil},
		{"Rotavirus", entities.NewVaccineBuilder(ids).
			WithDiseases(rotavirus).WithScheme(rota).WithTags(entities.TagOral, entities.TagLive), []*entities.Disease{rotavirus}},
		{"Meningococcal B", entities.NewVaccineBuilder(ids).
			WithDiseases(meningococcal).WithTags(entities.TagIntramuscular), []*entities.Disease{meningococcal}},
	}

	f := &FixtureSource{}
	for _, s := range specs {
		v, err := s.builder.Create(s.name)
		if err != nil {
			return nil, fmt.Errorf("fixture catalog: %w", err)
		}
		for _, d := range s.defaults {
			d.SetDefaultVaccine(v.ID)
		}
		f.vaccines = append(f.vaccines, v)
	}

	f.diseases = []*entities.Disease{diphtheria, tetanus, pertussis, hepatitisB, rotavirus, meningococcal}
	return f, nil
}

func (f *FixtureSource) ListVaccines() []*entities.VaccineType {
	return f.vaccines
}

func (f *FixtureSource) ListDiseases() []*entities.Disease {
	return f.diseases
}

// FixtureLoader hands out a freshly built fixture catalog on every call.
type FixtureLoader struct{}

func (FixtureLoader) LoadCatalog() (Source, error) {
	src, err := NewFixtureSource(entities.NewSequence[entities.VaccineID](0))
	if err != nil {
		return nil, err
	}
	return src, nil
}
