package entities

import (
	"fmt"
	"slices"
)

// VaccineType is a vaccine product: the diseases it covers, its active dosing
// scheme, and whether the user chose to add it to their calendar.
//
// Identity is the ID assigned by VaccineBuilder; two products with the same name
// are still different vaccines.
type VaccineType struct {
	ID          VaccineID
	Name        string
	Description string

	diseases     []DiseaseID
	scheme       VaccineScheme
	schemes      []VaccineScheme
	altDoseNames []string
	tags         []VaccineTag

	selected          bool
	selectionHandlers []func()
	formDataHandlers  []func(Form)
}

// Diseases returns the ids of the covered diseases.
func (v *VaccineType) Diseases() []DiseaseID {
	return slices.Clone(v.diseases)
}

// Covers reports whether v protects against disease id.
func (v *VaccineType) Covers(id DiseaseID) bool {
	return slices.Contains(v.diseases, id)
}

// Scheme returns a copy of the active dosing scheme.
func (v *VaccineType) Scheme() VaccineScheme {
	return v.scheme.clone()
}

// Schemes returns copies of the alternative schemes the active one can be switched to.
func (v *VaccineType) Schemes() []VaccineScheme {
	out := make([]VaccineScheme, len(v.schemes))
	for i, s := range v.schemes {
		out[i] = s.clone()
	}
	return out
}

// UseScheme makes alternative scheme i the active one.
func (v *VaccineType) UseScheme(i int) error {
	if i < 0 || i >= len(v.schemes) {
		return fmt.Errorf("%w: %s has no alternative scheme %d", ErrInvalidScheme, v.Name, i)
	}
	if len(v.altDoseNames) > 0 && v.schemes[i].DoseCount != len(v.altDoseNames) {
		return fmt.Errorf("%w: scheme %d has %d doses but %s has %d dose names",
			ErrInvalidScheme, i, v.schemes[i].DoseCount, v.Name, len(v.altDoseNames))
	}
	v.scheme = v.schemes[i].clone()
	return nil
}

// AltName returns the display name of dose index. Without alt names every dose uses
// Name. An index outside the configured doses is a caller error and panics.
func (v *VaccineType) AltName(index int) string {
	if v.altDoseNames == nil {
		return v.Name
	}
	return v.altDoseNames[index]
}

func (v *VaccineType) Tags() []VaccineTag {
	return slices.Clone(v.tags)
}

func (v *VaccineType) HasTag(tag VaccineTag) bool {
	return slices.Contains(v.tags, tag)
}

// SameAs reports whether v and other are the same product.
func (v *VaccineType) SameAs(other *VaccineType) bool {
	return other != nil && v.ID == other.ID
}

func (v *VaccineType) Selected() bool {
	return v.selected
}

// SetSelected stores the user's choice and then runs every selection handler in
// registration order. Handlers run on every call, including repeated same-value
// sets. A handler that calls SetSelected on the same vaccine re-enters dispatch;
// avoiding that is up to the handler.
func (v *VaccineType) SetSelected(selected bool) {
	v.selected = selected
	for _, h := range v.selectionHandlers {
		h()
	}
}

// AddSelectionHandler registers h to run after every SetSelected. It does not run
// for the initial state. h must not change selections itself.
func (v *VaccineType) AddSelectionHandler(h func()) {
	v.selectionHandlers = append(v.selectionHandlers, h)
}

// AddFormDataHandler registers h to run once per form submission.
func (v *VaccineType) AddFormDataHandler(h func(Form)) {
	v.formDataHandlers = append(v.formDataHandlers, h)
}

// ApplyFormDataHandlers runs every form-data handler with form, whether or not
// v is selected.
func (v *VaccineType) ApplyFormDataHandlers(form Form) {
	for _, h := range v.formDataHandlers {
		h(form)
	}
}

func (v *VaccineType) String() string {
	return fmt.Sprintf("VaccineType{name=%q, selected=%t}", v.Name, v.selected)
}
