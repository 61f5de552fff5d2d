package entities

import "fmt"

// Disease is a condition with a recommendation tier. Its default vaccine is held
// as an id and resolved through the catalog; it is set right after construction
// because diseases and vaccines refer to each other.
type Disease struct {
	ID             DiseaseID
	Name           string
	Recommendation Recommendation

	defaultVaccine VaccineID
	checked        bool
}

// NewDisease creates an unchecked disease with no default vaccine yet.
func NewDisease(id DiseaseID, name string, rec Recommendation) *Disease {
	return &Disease{
		ID:             id,
		Name:           name,
		Recommendation: rec,
		defaultVaccine: NoVaccine,
	}
}

// SetDefaultVaccine completes the two-phase initialisation.
func (d *Disease) SetDefaultVaccine(id VaccineID) {
	d.defaultVaccine = id
}

// DefaultVaccine returns the id of the baseline vaccine, or NoVaccine.
func (d *Disease) DefaultVaccine() VaccineID {
	return d.defaultVaccine
}

func (d *Disease) HasDefaultVaccine() bool {
	return d.defaultVaccine != NoVaccine
}

func (d *Disease) Checked() bool {
	return d.checked
}

func (d *Disease) SetChecked(checked bool) {
	d.checked = checked
}

func (d *Disease) String() string {
	return fmt.Sprintf("Disease{name=%q, checked=%t}", d.Name, d.checked)
}
