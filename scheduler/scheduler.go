// Package scheduler loads the catalog into the plan store at startup and
// periodically records a snapshot of the user's selection.
package scheduler

import (
	"fmt"
	"time"

	"github.com/giygas/immunization-calendar/calendar"
	"github.com/giygas/immunization-calendar/catalog"
	"github.com/giygas/immunization-calendar/composer"
	"github.com/giygas/immunization-calendar/interfaces"
	"github.com/giygas/immunization-calendar/logging"
	"github.com/giygas/immunization-calendar/metrics"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Snapshot summarises the selection state at one point in time.
type Snapshot struct {
	SelectedVaccines int
	CheckedSchemes   int
	CheckedDiseases  int
	ActiveScheme     string
}

// Scheduler handles the catalog load and selection snapshots using dependency injection
type Scheduler struct {
	store     interfaces.PlanStore
	loader    interfaces.CatalogLoader
	validator interfaces.CatalogValidator
	cfg       composer.Config
	interval  time.Duration
	scheduler *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(
	store interfaces.PlanStore,
	loader interfaces.CatalogLoader,
	validator interfaces.CatalogValidator,
	cfg composer.Config,
	interval time.Duration,
) *Scheduler {
	return &Scheduler{
		store:     store,
		loader:    loader,
		validator: validator,
		cfg:       cfg,
		interval:  interval,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start loads the catalog and schedules the snapshot job
func (s *Scheduler) Start() error {
	// Initial load
	if err := s.loadCatalog(); err != nil {
		logging.Error("Failed to perform initial catalog load", "error", err)
		return fmt.Errorf("initial catalog load failed: %w", err)
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		if _, err := s.snapshot(); err != nil {
			logging.Error("Failed to record selection snapshot", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule snapshots", "error", err)
		return fmt.Errorf("failed to schedule snapshots: %w", err)
	}

	s.scheduler.StartAsync()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// loadCatalog validates a fresh catalog and swaps it into the store
func (s *Scheduler) loadCatalog() error {
	logging.Info(fmt.Sprintf("Starting catalog load at: %s", time.Now().Format(time.RFC3339)))
	start := time.Now()

	source, err := s.loader.LoadCatalog()
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	cat, err := catalog.New(source)
	if err != nil {
		return fmt.Errorf("failed to wire catalog: %w", err)
	}

	if err := s.validator.ValidateCatalog(cat); err != nil {
		return fmt.Errorf("catalog validation failed: %w", err)
	}

	if err := s.store.LoadFromCatalog(cat, s.cfg); err != nil {
		return err
	}

	err = s.store.View(func(p *calendar.Provider) error {
		logQualityReport(s.validator.ReportCatalogQuality(p.Catalog(), p.Schemes(), s.cfg.Polyvalent))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to report catalog quality: %w", err)
	}

	logging.Info("Catalog load completed", "duration", time.Since(start).String(), "vaccine_count", len(cat.Vaccines()))
	return nil
}

// snapshot refreshes the selection gauges
func (s *Scheduler) snapshot() (Snapshot, error) {
	var snap Snapshot
	err := s.store.View(func(p *calendar.Provider) error {
		sel := p.Selector()
		snap.SelectedVaccines = len(sel.SelectedVaccines())
		snap.CheckedSchemes = len(sel.SelectedSchemes())
		snap.CheckedDiseases = len(sel.CheckedDiseases())
		if active, ok := p.ActiveScheme(); ok {
			snap.ActiveScheme = active.Name
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	metrics.SelectedVaccines.Set(float64(snap.SelectedVaccines))
	metrics.CheckedSchemes.Set(float64(snap.CheckedSchemes))

	logging.Info("Selection snapshot",
		"selected_vaccines", snap.SelectedVaccines,
		"checked_schemes", snap.CheckedSchemes,
		"checked_diseases", snap.CheckedDiseases,
		"active_scheme", snap.ActiveScheme,
	)
	return snap, nil
}

func logQualityReport(report *interfaces.CatalogQualityReport) {
	if len(report.VaccinesWithoutDiseases) > 0 {
		logging.Warn("Vaccines without diseases",
			"count", len(report.VaccinesWithoutDiseases),
			"vaccines", report.VaccinesWithoutDiseases,
		)
	}

	if len(report.UnusedVaccines) > 0 {
		logging.Warn("Vaccines outside every scheme",
			"count", len(report.UnusedVaccines),
			"vaccines", report.UnusedVaccines,
		)
	}

	if len(report.MissingPolyvalent) > 0 {
		logging.Warn("Polyvalent vaccines not in catalog", "names", report.MissingPolyvalent)
	}

	if len(report.EmptySchemes) > 0 {
		logging.Warn("Empty base schemes", "schemes", report.EmptySchemes)
	}
}
