package integration

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/cors"
)

// newCORSHandler builds the CORS layer the way the server wires it, so these
// tests catch option drift that would break browser dashboards.
func newCORSHandler(origins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCORS_PreflightAllowedOrigin(t *testing.T) {
	handler := newCORSHandler([]string{"http://localhost:3000"})

	req := httptest.NewRequest("OPTIONS", "/api/v1/transactions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Expected Access-Control-Allow-Origin http://localhost:3000, got %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("Access-Control-Allow-Methods header missing")
	}
}

func TestCORS_PreflightDisallowedOrigin(t *testing.T) {
	handler := newCORSHandler([]string{"http://localhost:3000"})

	req := httptest.NewRequest("OPTIONS", "/api/v1/transactions", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Disallowed origin should get no Allow-Origin header, got %q", got)
	}
}

func TestCORS_WildcardDefault(t *testing.T) {
	// The default config allows all origins for local dashboard development.
	handler := newCORSHandler([]string{"*"})

	req := httptest.NewRequest("GET", "/api/v1/alerts", nil)
	req.Header.Set("Origin", "http://localhost:5173")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("Wildcard config should set Access-Control-Allow-Origin")
	}
}
