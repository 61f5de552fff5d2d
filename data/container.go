// Package data provides thread-safe access to the calendar provider for the
// immunization calendar API. The provider itself is single-threaded, so the
// DataContainer runs every call into it under one lock.
package data

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/giygas/immunization-calendar/calendar"
	"github.com/giygas/immunization-calendar/catalog"
	"github.com/giygas/immunization-calendar/catalog/entities"
	"github.com/giygas/immunization-calendar/composer"
	"github.com/giygas/immunization-calendar/interfaces"
	"github.com/giygas/immunization-calendar/logging"
	"github.com/giygas/immunization-calendar/metrics"
	"github.com/google/uuid"
)

// ErrNotLoaded is returned until the first successful Load.
var ErrNotLoaded = errors.New("calendar not loaded")

// Compile-time check to ensure DataContainer implements PlanStore
var _ interfaces.PlanStore = (*DataContainer)(nil)

// DataContainer owns the calendar provider and serialises access to it
type DataContainer struct {
	mu       sync.RWMutex
	provider *calendar.Provider

	// submission collects the vaccines whose form handlers fire during SubmitForm.
	// Guarded by mu.
	submission *interfaces.Submission

	loaded          atomic.Bool
	lastLoaded      atomic.Value // time.Time
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates an empty DataContainer
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.lastLoaded.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

// Load builds a provider from source and swaps it in. Selections made on the
// previous provider are dropped with it.
func (dc *DataContainer) Load(source catalog.Source, cfg composer.Config) error {
	cat, err := catalog.New(source)
	if err != nil {
		return fmt.Errorf("failed to build provider: %w", err)
	}
	return dc.LoadFromCatalog(cat, cfg)
}

// LoadFromCatalog builds a provider over cat itself and swaps it in.
func (dc *DataContainer) LoadFromCatalog(cat *catalog.Catalog, cfg composer.Config) error {
	start := time.Now()

	p, err := calendar.NewProviderFromCatalog(cat, cfg)
	if err != nil {
		return fmt.Errorf("failed to build provider: %w", err)
	}
	dc.registerHandlers(p)

	dc.mu.Lock()
	dc.provider = p
	dc.mu.Unlock()

	dc.loaded.Store(true)
	dc.lastLoaded.Store(time.Now())
	metrics.SchemesComposed.Set(float64(len(p.Schemes())))

	logging.Info("Calendar loaded", "duration", time.Since(start).String(), "schemes", len(p.Schemes()))
	return nil
}

// registerHandlers hooks metrics and form collection into every catalog vaccine.
func (dc *DataContainer) registerHandlers(p *calendar.Provider) {
	for _, v := range p.AllVaccines() {
		name := v.Name
		v.AddSelectionHandler(func() {
			metrics.VaccineSelectionChanges.WithLabelValues(name).Inc()
		})
		v.AddFormDataHandler(func(entities.Form) {
			if dc.submission != nil && v.Selected() {
				dc.submission.Vaccines = append(dc.submission.Vaccines, name)
			}
		})
	}
}

// View runs fn under the read lock
func (dc *DataContainer) View(fn func(p *calendar.Provider) error) error {
	dc.mu.RLock()
	defer dc.mu.RUnlock()

	if dc.provider == nil {
		return ErrNotLoaded
	}
	return fn(dc.provider)
}

// Update runs fn under the write lock. Selection handlers triggered by fn run
// before Update returns.
func (dc *DataContainer) Update(fn func(p *calendar.Provider) error) error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if dc.provider == nil {
		return ErrNotLoaded
	}
	return fn(dc.provider)
}

// SubmitForm hands form to every vaccine's form-data handlers and records which
// selected vaccines received it.
func (dc *DataContainer) SubmitForm(form entities.Form) (interfaces.Submission, error) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if dc.provider == nil {
		return interfaces.Submission{}, ErrNotLoaded
	}

	sub := &interfaces.Submission{
		ID:         uuid.NewString(),
		ReceivedAt: time.Now(),
		Vaccines:   []string{},
		Fields:     form.Clone(),
	}

	dc.submission = sub
	dc.provider.SubmitForm(sub.Fields)
	dc.submission = nil

	metrics.FormSubmissions.Inc()
	logging.Info("Form submitted", "submission_id", sub.ID, "fields", len(sub.Fields), "vaccines", len(sub.Vaccines))

	return *sub, nil
}

// IsLoaded returns true once a provider has been loaded
func (dc *DataContainer) IsLoaded() bool {
	return dc.loaded.Load()
}

// GetLastLoaded returns the time of the last successful Load
func (dc *DataContainer) GetLastLoaded() time.Time {
	if v := dc.lastLoaded.Load(); v != nil {
		if lastLoaded, ok := v.(time.Time); ok {
			return lastLoaded
		}
	}

	logging.Warn("Could not get the last loaded value")
	return time.Time{}
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}
