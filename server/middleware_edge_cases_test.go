package server

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/giygas/immunization-calendar/config"
)

func testConfig(maxBody, maxHeader int64) *config.Config {
	return &config.Config{MaxRequestBody: maxBody, MaxHeaderSize: maxHeader}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRealIPMiddleware_EdgeCases(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{"single forwarded ip", "203.0.113.1", "192.168.1.1:12345", "203.0.113.1"},
		{"forwarded chain keeps the client", " 203.0.113.1 , 10.0.0.1, 10.0.0.2", "192.168.1.1:12345", "203.0.113.1"},
		{"port stripped without proxy", "", "192.168.1.1:12345", "192.168.1.1"},
		{"ipv6 port stripped", "", "[2001:db8::1]:443", "2001:db8::1"},
		{"address without port kept", "", "192.168.1.1", "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/schemes", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}

			var got string
			RealIPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			})).ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

// Two connections from one host must drain the same bucket
func TestRealIPMiddleware_SharesBucketPerHost(t *testing.T) {
	rl := NewRateLimiter()
	handler := RealIPMiddleware(rl.Handler(okHandler()))

	for _, addr := range []string{"198.51.100.20:5001", "198.51.100.20:5002"} {
		req := httptest.NewRequest("POST", "/form", nil)
		req.RemoteAddr = addr
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	rl.mu.RLock()
	_, perHost := rl.clients["198.51.100.20"]
	count := len(rl.clients)
	rl.mu.RUnlock()

	if !perHost || count != 1 {
		t.Fatalf("Expected one bucket keyed by host, got %d buckets", count)
	}

	req := httptest.NewRequest("GET", "/selection", nil)
	req.RemoteAddr = "198.51.100.20:5003"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	// 1000 - 2*50 for the forms - 5 for the selection
	if got := rr.Header().Get("X-RateLimit-Remaining"); got != "895" {
		t.Errorf("Expected 895 remaining tokens, got %q", got)
	}
}

func TestRateLimiterHandler_ChargesDomainPrices(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		want   string
	}{
		{"vaccine search", "GET", "/vaccines/search/tetanus", "950"},
		{"disease checked", "POST", "/diseases/4/checked", "980"},
		{"vaccine scheme switch", "POST", "/vaccines/5/scheme", "980"},
		{"scheme listing", "GET", "/schemes", "990"},
		{"scheme detail", "GET", "/schemes/2", "995"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.RemoteAddr = "203.0.113.50"
			rr := httptest.NewRecorder()
			rl.Handler(okHandler()).ServeHTTP(rr, req)

			if got := rr.Header().Get("X-RateLimit-Remaining"); got != tt.want {
				t.Errorf("%s %s left %q tokens, want %q", tt.method, tt.path, got, tt.want)
			}
		})
	}
}

func TestBlockDirectAccessMiddleware_EdgeCases(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       int
	}{
		{"localhost ipv4", "127.0.0.1:12345", nil, http.StatusOK},
		{"localhost ipv6", "[::1]:12345", nil, http.StatusOK},
		{"localhost without port", "127.0.0.1", nil, http.StatusOK},
		{"direct lan client", "192.168.1.1:12345", nil, http.StatusForbidden},
		{"proxied with forwarded for", "192.168.1.1:12345", map[string]string{"X-Forwarded-For": "203.0.113.1"}, http.StatusOK},
		{"proxied with real ip", "192.168.1.1:12345", map[string]string{"X-Real-IP": "203.0.113.1"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/vaccines", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			rr := httptest.NewRecorder()
			BlockDirectAccessMiddleware(okHandler()).ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, rr.Code)
			}
		})
	}
}

func TestRequestSizeMiddleware_ContentLength(t *testing.T) {
	tests := []struct {
		name          string
		contentLength string
		want          int
	}{
		{"no header", "", http.StatusOK},
		{"exactly the limit", "1024", http.StatusOK},
		{"over the limit", "1025", http.StatusRequestEntityTooLarge},
		// unparsable values are left to the body reader
		{"negative", "-100", http.StatusOK},
		{"not a number", "big", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/form", nil)
			if tt.contentLength != "" {
				req.Header.Set("Content-Length", tt.contentLength)
			}

			rr := httptest.NewRecorder()
			RequestSizeMiddleware(testConfig(1024, 4096))(okHandler()).ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, rr.Code)
			}
		})
	}
}

func TestRequestSizeMiddleware_ChunkedForm(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"within the limit", `{"mandatory":true}`, false},
		{"over the limit", `{"padding":"` + strings.Repeat("x", 64) + `"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/form", strings.NewReader(tt.body))
			req.ContentLength = -1
			req.TransferEncoding = []string{"chunked"}
			req.Header.Del("Content-Length")

			var (
				read    []byte
				readErr error
			)
			handler := RequestSizeMiddleware(testConfig(32, 4096))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				read, readErr = io.ReadAll(r.Body)
			}))
			handler.ServeHTTP(httptest.NewRecorder(), req)

			var maxErr *http.MaxBytesError
			if tt.wantErr {
				if !errors.As(readErr, &maxErr) || maxErr.Limit != 32 {
					t.Errorf("Expected a 32 byte MaxBytesError, got %v", readErr)
				}
				return
			}
			if readErr != nil {
				t.Fatalf("Unexpected read error: %v", readErr)
			}
			if string(read) != tt.body {
				t.Errorf("Body = %q, want %q", read, tt.body)
			}
		})
	}
}
