// Package health provides health checking functionality for the immunization calendar API.
package health

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/giygas/immunization-calendar/calendar"
	"github.com/giygas/immunization-calendar/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	store interfaces.PlanStore
	now   func() time.Time
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(store interfaces.PlanStore) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		store: store,
		now:   time.Now,
	}
}

// HealthCheck reports healthy once the catalog is loaded and the base schemes are composed
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	lastLoaded := h.store.GetLastLoaded()
	startTime := h.store.GetServerStartTime()

	data = map[string]any{
		"loaded": h.store.IsLoaded(),
	}
	if !startTime.IsZero() {
		data["uptime"] = formatUptimeHuman(h.now().Sub(startTime))
	}
	if !lastLoaded.IsZero() {
		data["last_loaded"] = lastLoaded.Format(time.RFC3339)
	}

	if !h.store.IsLoaded() {
		return "unhealthy", data, http.StatusServiceUnavailable
	}

	var schemes, vaccines int
	err := h.store.View(func(p *calendar.Provider) error {
		schemes = len(p.Schemes())
		vaccines = len(p.AllVaccines())
		data["schemes"] = schemes
		data["vaccines"] = vaccines
		data["diseases"] = len(p.Diseases())
		data["selected_vaccines"] = len(p.Selector().SelectedVaccines())
		if active, ok := p.ActiveScheme(); ok {
			data["active_scheme"] = active.Name
		}
		return nil
	})

	switch {
	case err != nil:
		data["error"] = err.Error()
		return "unhealthy", data, http.StatusServiceUnavailable

	case schemes == 0 || vaccines == 0:
		return "unhealthy", data, http.StatusServiceUnavailable
	}

	return "healthy", data, http.StatusOK
}

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}
