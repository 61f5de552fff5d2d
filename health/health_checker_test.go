package health

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/giygas/immunization-calendar/calendar"
	"github.com/giygas/immunization-calendar/catalog"
	"github.com/giygas/immunization-calendar/catalog/entities"
	"github.com/giygas/immunization-calendar/composer"
	"github.com/giygas/immunization-calendar/interfaces"
	"github.com/giygas/immunization-calendar/logging"
)

// MockPlanStore for testing
type MockPlanStore struct {
	provider   *calendar.Provider
	lastLoaded time.Time
	startTime  time.Time
	viewErr    error
}

func (m *MockPlanStore) Load(source catalog.Source, cfg composer.Config) error {
	cat, err := catalog.New(source)
	if err != nil {
		return err
	}
	return m.LoadFromCatalog(cat, cfg)
}

func (m *MockPlanStore) LoadFromCatalog(cat *catalog.Catalog, cfg composer.Config) error {
	p, err := calendar.NewProviderFromCatalog(cat, cfg)
	if err != nil {
		return err
	}
	m.provider = p
	m.lastLoaded = time.Now()
	return nil
}

func (m *MockPlanStore) View(fn func(p *calendar.Provider) error) error {
	if m.viewErr != nil {
		return m.viewErr
	}
	return fn(m.provider)
}

func (m *MockPlanStore) Update(fn func(p *calendar.Provider) error) error {
	return fn(m.provider)
}

func (m *MockPlanStore) SubmitForm(form entities.Form) (interfaces.Submission, error) {
	return interfaces.Submission{}, nil
}

func (m *MockPlanStore) IsLoaded() bool                { return m.provider != nil }
func (m *MockPlanStore) GetLastLoaded() time.Time      { return m.lastLoaded }
func (m *MockPlanStore) GetServerStartTime() time.Time { return m.startTime }

func loadedStore(t *testing.T) *MockPlanStore {
	t.Helper()
	logging.InitLogger("")

	src, err := catalog.FixtureLoader{}.LoadCatalog()
	if err != nil {
		t.Fatalf("Failed to build fixture: %v", err)
	}
	store := &MockPlanStore{}
	if err := store.Load(src, composer.DefaultConfig()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return store
}

func TestHealthCheckNotLoaded(t *testing.T) {
	checker := NewHealthChecker(&MockPlanStore{})

	status, data, code := checker.HealthCheck()

	if status != "unhealthy" {
		t.Errorf("Expected unhealthy, got %s", status)
	}
	if code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", code)
	}
	if data["loaded"] != false {
		t.Errorf("Expected loaded=false, got %v", data["loaded"])
	}
	if _, ok := data["last_loaded"]; ok {
		t.Error("last_loaded should be absent before the first load")
	}
}

func TestHealthCheckHealthy(t *testing.T) {
	store := loadedStore(t)
	store.startTime = time.Now().Add(-90 * time.Minute)

	checker := NewHealthChecker(store)
	status, data, code := checker.HealthCheck()

	if status != "healthy" || code != http.StatusOK {
		t.Fatalf("Expected healthy/200, got %s/%d", status, code)
	}

	expected := map[string]any{
		"schemes":           5,
		"vaccines":          8,
		"diseases":          6,
		"selected_vaccines": 0,
	}
	for key, want := range expected {
		if data[key] != want {
			t.Errorf("Expected %s=%v, got %v", key, want, data[key])
		}
	}

	if data["uptime"] != "1h 30m 0s" {
		t.Errorf("Expected uptime 1h 30m 0s, got %v", data["uptime"])
	}
	if _, ok := data["active_scheme"]; ok {
		t.Error("active_scheme should be absent until a base scheme is chosen")
	}
}

func TestHealthCheckReportsActiveScheme(t *testing.T) {
	store := loadedStore(t)
	if err := store.provider.SetBaseScheme(composer.MandatoryScheme); err != nil {
		t.Fatalf("SetBaseScheme failed: %v", err)
	}

	_, data, _ := NewHealthChecker(store).HealthCheck()

	if data["active_scheme"] != composer.DefaultConfig().Names.Mandatory {
		t.Errorf("Expected active scheme %q, got %v", composer.DefaultConfig().Names.Mandatory, data["active_scheme"])
	}
}

func TestHealthCheckViewError(t *testing.T) {
	store := loadedStore(t)
	store.viewErr = errors.New("boom")

	status, data, code := NewHealthChecker(store).HealthCheck()

	if status != "unhealthy" || code != http.StatusServiceUnavailable {
		t.Errorf("Expected unhealthy/503, got %s/%d", status, code)
	}
	if data["error"] != "boom" {
		t.Errorf("Expected error detail, got %v", data["error"])
	}
}

func TestFormatUptimeHuman(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{0, "0s"},
		{45 * time.Second, "45s"},
		{2*time.Minute + 5*time.Second, "2m 5s"},
		{3*time.Hour + 2*time.Second, "3h 0m 2s"},
		{50*time.Hour + 10*time.Minute, "2d 2h 10m 0s"},
	}

	for _, tt := range tests {
		if got := formatUptimeHuman(tt.duration); got != tt.expected {
			t.Errorf("formatUptimeHuman(%v) = %q, want %q", tt.duration, got, tt.expected)
		}
	}
}
