package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/vaccines/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(HTTPRequestTotals.WithLabelValues("GET", "/vaccines/{id}", "404"))

	for range 3 {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest("GET", "/vaccines/42", nil))
	}

	after := testutil.ToFloat64(HTTPRequestTotals.WithLabelValues("GET", "/vaccines/{id}", "404"))
	if after-before != 3 {
		t.Errorf("Expected 3 requests recorded for the route pattern, got %v", after-before)
	}

	if got := testutil.ToFloat64(HTTPRequestInFlight); got != 0 {
		t.Errorf("Expected no in-flight requests after serving, got %v", got)
	}
}

func TestMetricsDefaultsToStatusOK(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/diseases", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	})

	before := testutil.ToFloat64(HTTPRequestTotals.WithLabelValues("GET", "/diseases", "200"))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/diseases", nil))

	after := testutil.ToFloat64(HTTPRequestTotals.WithLabelValues("GET", "/diseases", "200"))
	if after-before != 1 {
		t.Errorf("Expected one 200 recorded, got %v", after-before)
	}
}
