// Package interfaces defines core abstractions for the immunization calendar API
// to improve testability and separation of concerns.
package interfaces

import (
	"net/http"
	"time"

	"github.com/giygas/immunization-calendar/calendar"
	"github.com/giygas/immunization-calendar/catalog"
	"github.com/giygas/immunization-calendar/catalog/entities"
	"github.com/giygas/immunization-calendar/composer"
)

// CatalogQualityReport provides a summary of catalog issues that do not prevent loading
type CatalogQualityReport struct {
	VaccinesWithoutDiseases []string // never part of any scheme
	UnusedVaccines          []string // neither a disease default nor a configured polyvalent
	MissingPolyvalent       []string // configured polyvalent names the catalog does not hold
	EmptySchemes            []string // other than the no-vaccination scheme
}

// Submission is the outcome of a form submission.
type Submission struct {
	ID         string
	ReceivedAt time.Time
	Vaccines   []string // selected vaccines whose form handlers saw the form
	Fields     entities.Form
}

// PlanStore defines the contract for access to the calendar provider.
// The provider is single-threaded; a PlanStore serialises every call into it.
type PlanStore interface {
	// Load replaces the provider with one built from source
	Load(source catalog.Source, cfg composer.Config) error

	// LoadFromCatalog replaces the provider with one built over cat
	LoadFromCatalog(cat *catalog.Catalog, cfg composer.Config) error

	// View runs fn with shared access; fn must not mutate the provider
	View(fn func(p *calendar.Provider) error) error

	// Update runs fn with exclusive access
	Update(fn func(p *calendar.Provider) error) error

	SubmitForm(form entities.Form) (Submission, error)

	IsLoaded() bool
	GetLastLoaded() time.Time
	GetServerStartTime() time.Time
}

// CatalogLoader produces the catalog the store is loaded from.
type CatalogLoader interface {
	LoadCatalog() (catalog.Source, error)
}

// Scheduler defines the contract for job scheduling.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// HTTPHandler defines the contract for HTTP request handlers.
type HTTPHandler interface {
	// Catalog and schemes
	ServeSchemes(w http.ResponseWriter, r *http.Request)
	ServeScheme(w http.ResponseWriter, r *http.Request)
	ServeVaccines(w http.ResponseWriter, r *http.Request)
	ServeVaccine(w http.ResponseWriter, r *http.Request)
	SearchVaccines(w http.ResponseWriter, r *http.Request)
	ServeDiseases(w http.ResponseWriter, r *http.Request)

	// Selection state
	ServeSelection(w http.ResponseWriter, r *http.Request)
	SetVaccineSelected(w http.ResponseWriter, r *http.Request)
	SetVaccineScheme(w http.ResponseWriter, r *http.Request)
	SetSchemeChecked(w http.ResponseWriter, r *http.Request)
	SetDiseaseChecked(w http.ResponseWriter, r *http.Request)
	ActivateScheme(w http.ResponseWriter, r *http.Request)
	ClearActiveScheme(w http.ResponseWriter, r *http.Request)
	SubmitForm(w http.ResponseWriter, r *http.Request)

	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current system health status
	HealthCheck() (status string, details map[string]any, httpStatus int)
}

// CatalogValidator ensures catalog integrity before the store is loaded.
type CatalogValidator interface {
	// ValidateCatalog fails on anything that would make composition meaningless
	ValidateCatalog(cat *catalog.Catalog) error

	// ReportCatalogQuality lists suspicious but loadable records
	ReportCatalogQuality(cat *catalog.Catalog, schemes []*entities.BaseScheme, polyvalent []string) *CatalogQualityReport
}

// InputValidator validates user input from the HTTP layer.
type InputValidator interface {
	// ValidateInput validates free-text search input
	ValidateInput(input string) error

	// ValidateID validates a numeric path identifier
	ValidateID(input string) (int, error)

	// ValidateForm validates submitted form fields
	ValidateForm(form entities.Form) error
}
