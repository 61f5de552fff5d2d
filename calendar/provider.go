// Package calendar wires the catalog, the composed schemes and the selector into
// the provider the presentation layer talks to.
//
// A Provider is single-threaded: every call, including the handler dispatch that
// selection changes trigger, runs to completion on the caller's goroutine.
// Callers that share a Provider across goroutines must serialise access.
package calendar

import (
	"errors"
	"fmt"

	"github.com/giygas/immunization-calendar/catalog"
	"github.com/giygas/immunization-calendar/catalog/entities"
	"github.com/giygas/immunization-calendar/composer"
	"github.com/giygas/immunization-calendar/logging"
	"github.com/giygas/immunization-calendar/selector"
)

var ErrUnknownScheme = errors.New("unknown scheme")

// Provider serves the catalog and the base schemes composed from it, and keeps the
// working vaccine list the user is choosing from.
type Provider struct {
	catalog  *catalog.Catalog
	schemes  []*entities.BaseScheme
	working  []*entities.VaccineType
	active   *entities.BaseScheme
	selector *selector.Selector
}

// NewProvider loads source and composes the schemes once. The schemes are fixed
// for the life of the provider.
func NewProvider(source catalog.Source, cfg composer.Config) (*Provider, error) {
	cat, err := catalog.New(source)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return NewProviderFromCatalog(cat, cfg)
}

// NewProviderFromCatalog composes the schemes of an already wired catalog.
func NewProviderFromCatalog(cat *catalog.Catalog, cfg composer.Config) (*Provider, error) {
	schemes, err := composer.Compose(cat, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to compose schemes: %w", err)
	}

	p := &Provider{
		catalog: cat,
		schemes: schemes,
		working: cat.Vaccines(),
	}
	p.selector = selector.New(p)

	logging.Info("Catalog loaded",
		"vaccines", len(p.working),
		"diseases", len(cat.Diseases()),
		"schemes", len(schemes),
		"substitution_policy", cfg.Removal.String(),
	)
	return p, nil
}

func (p *Provider) Catalog() *catalog.Catalog {
	return p.catalog
}

func (p *Provider) Selector() *selector.Selector {
	return p.selector
}

// Schemes returns the composed schemes in their fixed order.
func (p *Provider) Schemes() []*entities.BaseScheme {
	out := make([]*entities.BaseScheme, len(p.schemes))
	copy(out, p.schemes)
	return out
}

// Scheme returns the scheme with the given id.
func (p *Provider) Scheme(id entities.SchemeID) (*entities.BaseScheme, error) {
	for _, s := range p.schemes {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownScheme, id)
}

// Vaccines returns the working vaccine list: the whole catalog until a base scheme
// is chosen, then that scheme's vaccines.
func (p *Provider) Vaccines() []*entities.VaccineType {
	out := make([]*entities.VaccineType, len(p.working))
	copy(out, p.working)
	return out
}

// AllVaccines returns every catalog vaccine regardless of the active scheme.
func (p *Provider) AllVaccines() []*entities.VaccineType {
	return p.catalog.Vaccines()
}

func (p *Provider) Diseases() []*entities.Disease {
	return p.catalog.Diseases()
}

// SetBaseScheme switches the working vaccine list to the vaccines of scheme id and
// checks that scheme alone. Vaccine selections are left as they are, including
// those of vaccines that leave the working list.
func (p *Provider) SetBaseScheme(id entities.SchemeID) error {
	scheme, err := p.Scheme(id)
	if err != nil {
		return err
	}

	for _, s := range p.schemes {
		s.SetChecked(s.ID == id)
	}
	p.working = scheme.Vaccines()
	p.active = scheme

	logging.Info("Base scheme changed", "scheme", scheme.Name, "vaccines", len(p.working))
	return nil
}

// ActiveScheme returns the scheme chosen with SetBaseScheme, if any.
func (p *Provider) ActiveScheme() (*entities.BaseScheme, bool) {
	return p.active, p.active != nil
}

// ClearBaseScheme restores the whole catalog as the working list.
func (p *Provider) ClearBaseScheme() {
	if p.active != nil {
		p.active.SetChecked(false)
	}
	p.active = nil
	p.working = p.catalog.Vaccines()
}

// SubmitForm runs the form-data handlers of every catalog vaccine once, in catalog
// order, selected or not.
func (p *Provider) SubmitForm(form entities.Form) {
	for _, v := range p.catalog.Vaccines() {
		v.ApplyFormDataHandlers(form)
	}
}
