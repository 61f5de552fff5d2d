package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/giygas/immunization-calendar/catalog"
	"github.com/giygas/immunization-calendar/composer"
	"github.com/giygas/immunization-calendar/data"
	"github.com/giygas/immunization-calendar/health"
	"github.com/giygas/immunization-calendar/logging"
	"github.com/giygas/immunization-calendar/validation"
	"github.com/go-chi/chi/v5"
)

var (
	benchmarkRouter http.Handler
	benchmarkOnce   sync.Once
)

// One loaded router shared by every benchmark
func createBenchmarkRouter(b *testing.B) http.Handler {
	benchmarkOnce.Do(func() {
		logging.InitLoggerWithOptions(logging.Options{Level: "error"})

		store := data.NewDataContainer()
		src, err := catalog.FixtureLoader{}.LoadCatalog()
		if err != nil {
			b.Fatalf("Failed to build fixture: %v", err)
		}
		if err := store.Load(src, composer.DefaultConfig()); err != nil {
			b.Fatalf("Failed to load store: %v", err)
		}

		h := NewHTTPHandler(store, validation.NewDataValidator(), health.NewHealthChecker(store))
		r := chi.NewRouter()
		h.Mount(r)
		benchmarkRouter = r
	})
	return benchmarkRouter
}

func benchmarkRequest(b *testing.B, method, path, body string) {
	router := createBenchmarkRouter(b)

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}
}

func BenchmarkServeSchemes(b *testing.B) {
	benchmarkRequest(b, "GET", "/schemes", "")
}

func BenchmarkServeScheme(b *testing.B) {
	benchmarkRequest(b, "GET", "/schemes/4", "")
}

func BenchmarkServeVaccines(b *testing.B) {
	benchmarkRequest(b, "GET", "/vaccines?all=true", "")
}

func BenchmarkSearchVaccines(b *testing.B) {
	benchmarkRequest(b, "GET", "/vaccines/search/hepatitis", "")
}

func BenchmarkSetVaccineSelected(b *testing.B) {
	benchmarkRequest(b, "POST", "/vaccines/3/selected", `{"selected":true}`)
}

func BenchmarkSubmitForm(b *testing.B) {
	benchmarkRequest(b, "POST", "/form", `{"fields":{"child_name":"Ada"}}`)
}

func BenchmarkHealth(b *testing.B) {
	benchmarkRequest(b, "GET", "/health", "")
}

// Readers and writers contend for the store lock
func BenchmarkConcurrentRequests(b *testing.B) {
	router := createBenchmarkRouter(b)

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			var req *http.Request
			if i%4 == 0 {
				req = httptest.NewRequest("POST", "/vaccines/6/selected", strings.NewReader(`{"selected":true}`))
			} else {
				req = httptest.NewRequest("GET", "/selection", nil)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			i++
		}
	})
}
