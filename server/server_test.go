package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/giygas/immunization-calendar/catalog"
	"github.com/giygas/immunization-calendar/composer"
	"github.com/giygas/immunization-calendar/config"
	"github.com/giygas/immunization-calendar/data"
	"github.com/giygas/immunization-calendar/logging"
	"github.com/go-chi/chi/v5/middleware"
)

func newTestServerConfig() *config.Config {
	return &config.Config{
		Port:           "8080",
		Address:        "localhost",
		Env:            config.EnvTest,
		LogLevel:       "info",
		MaxRequestBody: 1048576,
		MaxHeaderSize:  1048576,
	}
}

func newLoadedContainer(t *testing.T) *data.DataContainer {
	t.Helper()
	dc := data.NewDataContainer()
	src, err := catalog.FixtureLoader{}.LoadCatalog()
	if err != nil {
		t.Fatalf("Failed to build fixture: %v", err)
	}
	if err := dc.Load(src, composer.DefaultConfig()); err != nil {
		t.Fatalf("Failed to load container: %v", err)
	}
	return dc
}

func localRequest(method, path, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.RemoteAddr = "127.0.0.1:1234" // passes BlockDirectAccessMiddleware
	return req
}

func TestNewServer(t *testing.T) {
	logging.InitLogger("")

	cfg := newTestServerConfig()
	dc := data.NewDataContainer()
	server := NewServer(cfg, dc)

	if server == nil {
		t.Fatal("Server should not be nil")
	}
	if server.server.Addr != "localhost:8080" {
		t.Errorf("Expected server address localhost:8080, got %s", server.server.Addr)
	}
	if server.dataContainer != dc {
		t.Error("Data container should be set correctly")
	}
	if server.config != cfg {
		t.Error("Config should be set correctly")
	}
	if server.router == nil || server.rateLimiter == nil {
		t.Error("Router and rate limiter should not be nil")
	}
	if server.server.ReadTimeout != 15*time.Second || server.server.IdleTimeout != 60*time.Second {
		t.Errorf("Unexpected timeouts: read %v idle %v", server.server.ReadTimeout, server.server.IdleTimeout)
	}
}

func TestSetupMiddleware(t *testing.T) {
	logging.InitLogger("")

	server := NewServer(newTestServerConfig(), data.NewDataContainer())

	server.router.Get("/test", func(w http.ResponseWriter, r *http.Request) {
		if middleware.GetReqID(r.Context()) == "" {
			t.Error("RequestID should be available in request context")
		}
		if r.RemoteAddr != "127.0.0.1" {
			t.Errorf("Expected RemoteAddr without port, got %s", r.RemoteAddr)
		}
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, localRequest("GET", "/test", ""))

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if rr.Header().Get("X-RateLimit-Limit") == "" {
		t.Error("Expected rate limit headers on the response")
	}

	// Direct access from a non-local address without proxy headers
	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "198.51.100.9:5000"
	rr = httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for direct access, got %d", rr.Code)
	}
}

func TestSetupRoutes(t *testing.T) {
	logging.InitLogger("")

	server := NewServer(newTestServerConfig(), newLoadedContainer(t))
	router := server.Router()

	routes := []struct {
		method   string
		path     string
		body     string
		expected int
	}{
		{"GET", "/schemes", "", http.StatusOK},
		{"GET", "/schemes/1", "", http.StatusOK},
		{"GET", "/vaccines", "", http.StatusOK},
		{"GET", "/vaccines/3", "", http.StatusOK},
		{"GET", "/vaccines/search/rotavirus", "", http.StatusOK},
		{"GET", "/diseases", "", http.StatusOK},
		{"GET", "/selection", "", http.StatusOK},
		{"POST", "/vaccines/3/selected", `{"selected":true}`, http.StatusOK},
		{"POST", "/vaccines/4/scheme", `{"index":0}`, http.StatusOK},
		{"POST", "/schemes/1/checked", `{"checked":true}`, http.StatusOK},
		{"POST", "/diseases/1/checked", `{"checked":true}`, http.StatusOK},
		{"POST", "/schemes/1/activate", "", http.StatusOK},
		{"DELETE", "/schemes/active", "", http.StatusOK},
		{"POST", "/form", `{"fields":{"note":"ok"}}`, http.StatusCreated},
		{"GET", "/health", "", http.StatusOK},
		{"GET", "/metrics", "", http.StatusOK},
		{"GET", "/unknown", "", http.StatusNotFound},
	}

	for _, tt := range routes {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, localRequest(tt.method, tt.path, tt.body))
			if rr.Code != tt.expected {
				t.Errorf("Expected status %d, got %d: %s", tt.expected, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestMetricsEndpointExposesDomainMetrics(t *testing.T) {
	logging.InitLogger("")

	server := NewServer(newTestServerConfig(), newLoadedContainer(t))
	router := server.Router()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, localRequest("POST", "/vaccines/6/selected", `{"selected":true}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, localRequest("GET", "/metrics", ""))

	body := rr.Body.String()
	for _, name := range []string{
		"vaccine_selection_changes_total",
		"schemes_composed",
		"http_request_total",
	} {
		if !strings.Contains(body, name) {
			t.Errorf("Expected /metrics to expose %s", name)
		}
	}
}

func TestHealthThroughServer(t *testing.T) {
	logging.InitLogger("")

	dc := newLoadedContainer(t)
	dc.SetServerStartTime(time.Now().Add(-time.Minute))
	server := NewServer(newTestServerConfig(), dc)

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, localRequest("GET", "/health", ""))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var resp struct {
		Status string         `json:"status"`
		Data   map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("Expected healthy, got %s", resp.Status)
	}
	if _, ok := resp.Data["uptime"]; !ok {
		t.Error("Expected uptime in health data")
	}
}

func TestServerLifecycle(t *testing.T) {
	logging.InitLogger("")

	cfg := newTestServerConfig()
	cfg.Port = "0" // automatic port assignment
	cfg.LogLevel = "error"

	dc := newLoadedContainer(t)
	server := NewServer(cfg, dc)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		t.Errorf("Server shutdown should not error: %v", err)
	}

	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("Start should return nil after a graceful shutdown, got %v", err)
		}
	case <-time.After(time.Second):
		t.Error("Server should have shutdown within 1 second")
	}

	if dc.GetServerStartTime().IsZero() {
		t.Error("Start should record the server start time")
	}
}
