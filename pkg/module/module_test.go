package module_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/opsfield/intake/pkg/module"
)

func echoPath() (*http.ServeMux, *string) {
	var seen string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})
	return mux, &seen
}

func TestNewValidatesPrefix(t *testing.T) {
	tests := []struct {
		name      string
		prefix    string
		wantPanic bool
	}{
		{"valid", "/api", false},
		{"empty", "", true},
		{"missing slash", "api", true},
		{"multi-level", "/api/v1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				recovered := recover() != nil
				if recovered != tt.wantPanic {
					t.Errorf("panic = %v, want %v", recovered, tt.wantPanic)
				}
			}()
			module.New(tt.prefix, http.NewServeMux())
		})
	}
}

func TestModuleServeStripsPrefix(t *testing.T) {
	mux, seen := echoPath()
	m := module.New("/api", mux)

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest("GET", "/api/assets/42", nil))

	if *seen != "/assets/42" {
		t.Errorf("inner path = %q, want /assets/42", *seen)
	}
}

func TestModuleServeBarePrefix(t *testing.T) {
	mux, seen := echoPath()
	m := module.New("/api", mux)

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest("GET", "/api", nil))

	if *seen != "/" {
		t.Errorf("inner path = %q, want /", *seen)
	}
}

func TestModuleMiddlewareApplied(t *testing.T) {
	mux, _ := echoPath()
	m := module.New("/api", mux)
	m.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Test", "applied")
			next.ServeHTTP(w, r)
		})
	})

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest("GET", "/api/assets", nil))

	if got := rec.Header().Get("X-Test"); got != "applied" {
		t.Errorf("X-Test = %q, want applied", got)
	}
}

func TestRouterDispatch(t *testing.T) {
	mux, seen := echoPath()
	m := module.New("/api", mux)

	router := module.NewRouter()
	router.Mount(m)
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("module prefix", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/batches", nil))
		if *seen != "/batches" {
			t.Errorf("inner path = %q, want /batches", *seen)
		}
	})

	t.Run("native fallback", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
	})

	t.Run("unmatched path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/nowhere", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestRouterTrailingSlashNormalized(t *testing.T) {
	mux, seen := echoPath()
	m := module.New("/api", mux)

	router := module.NewRouter()
	router.Mount(m)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/assets/", nil))

	if *seen != "/assets" {
		t.Errorf("inner path = %q, want /assets", *seen)
	}
}
