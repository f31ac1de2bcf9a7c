package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/opsfield/intake/pkg/routes"
)

func named(name string, record *[]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*record = append(*record, name)
		w.WriteHeader(http.StatusOK)
	}
}

func TestRegister(t *testing.T) {
	var calls []string

	mux := http.NewServeMux()
	routes.Register(mux, routes.Group{
		Prefix: "/assets",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: named("list", &calls)},
			{Method: "GET", Pattern: "/{id}", Handler: named("find", &calls)},
			{Method: "POST", Pattern: "/search", Handler: named("search", &calls)},
		},
	})

	tests := []struct {
		name   string
		method string
		path   string
		want   string
	}{
		{"list", "GET", "/assets", "list"},
		{"find", "GET", "/assets/42", "find"},
		{"search", "POST", "/assets/search", "search"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls = calls[:0]
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if len(calls) != 1 || calls[0] != tt.want {
				t.Errorf("dispatched %v, want [%s]", calls, tt.want)
			}
		})
	}
}

func TestRegisterMethodMismatch(t *testing.T) {
	var calls []string

	mux := http.NewServeMux()
	routes.Register(mux, routes.Group{
		Prefix: "/assets",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/search", Handler: named("search", &calls)},
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/assets/search", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestRegisterChildren(t *testing.T) {
	var calls []string

	mux := http.NewServeMux()
	routes.Register(mux, routes.Group{
		Prefix: "/batches",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: named("all", &calls)},
		},
		Children: []routes.Group{
			{
				Prefix: "/stats",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: named("stats", &calls)},
				},
			},
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/batches/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(calls) != 1 || calls[0] != "stats" {
		t.Errorf("dispatched %v, want [stats]", calls)
	}
}
