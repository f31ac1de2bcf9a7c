package auth_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/opsfield/intake/internal/auth"
)

const testSecret = "test-signing-secret"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type tokenSpec struct {
	subject  string
	role     string
	username string
	issuer   string
	audience string
	expires  time.Time
	method   jwt.SigningMethod
	secret   string
}

func signToken(t *testing.T, spec tokenSpec) string {
	t.Helper()

	if spec.method == nil {
		spec.method = jwt.SigningMethodHS256
	}
	if spec.secret == "" {
		spec.secret = testSecret
	}
	if spec.expires.IsZero() {
		spec.expires = time.Now().Add(time.Hour)
	}

	claims := jwt.MapClaims{
		"sub":      spec.subject,
		"role":     spec.role,
		"username": spec.username,
		"exp":      spec.expires.Unix(),
	}
	if spec.issuer != "" {
		claims["iss"] = spec.issuer
	}
	if spec.audience != "" {
		claims["aud"] = spec.audience
	}

	signed, err := jwt.NewWithClaims(spec.method, claims).SignedString([]byte(spec.secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestVerify(t *testing.T) {
	userID := uuid.New()
	verifier := auth.NewVerifier(testSecret, "", "")

	token := signToken(t, tokenSpec{
		subject:  userID.String(),
		role:     "qc_user",
		username: "reviewer1",
	})

	principal, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if principal.ID != userID {
		t.Errorf("ID = %s, want %s", principal.ID, userID)
	}
	if principal.Role != auth.RoleQC {
		t.Errorf("Role = %s, want qc_user", principal.Role)
	}
	if principal.Username != "reviewer1" {
		t.Errorf("Username = %q, want reviewer1", principal.Username)
	}
}

func TestVerifyRejects(t *testing.T) {
	userID := uuid.New().String()

	tests := []struct {
		name string
		spec tokenSpec
	}{
		{"wrong secret", tokenSpec{subject: userID, role: "admin", secret: "other-secret"}},
		{"expired", tokenSpec{subject: userID, role: "admin", expires: time.Now().Add(-time.Hour)}},
		{"unknown role", tokenSpec{subject: userID, role: "superuser"}},
		{"empty role", tokenSpec{subject: userID}},
		{"malformed subject", tokenSpec{subject: "not-a-uuid", role: "admin"}},
	}

	verifier := auth.NewVerifier(testSecret, "", "")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(signToken(t, tt.spec))
			if !errors.Is(err, auth.ErrInvalidToken) {
				t.Errorf("Verify error = %v, want ErrInvalidToken", err)
			}
		})
	}

	t.Run("garbage token", func(t *testing.T) {
		if _, err := verifier.Verify("not.a.token"); !errors.Is(err, auth.ErrInvalidToken) {
			t.Errorf("Verify error = %v, want ErrInvalidToken", err)
		}
	})
}

func TestVerifyIssuerAudience(t *testing.T) {
	userID := uuid.New().String()
	verifier := auth.NewVerifier(testSecret, "intake-idp", "intake-api")

	t.Run("matching claims accepted", func(t *testing.T) {
		token := signToken(t, tokenSpec{
			subject:  userID,
			role:     "admin",
			issuer:   "intake-idp",
			audience: "intake-api",
		})
		if _, err := verifier.Verify(token); err != nil {
			t.Errorf("Verify: %v", err)
		}
	})

	t.Run("wrong issuer rejected", func(t *testing.T) {
		token := signToken(t, tokenSpec{
			subject:  userID,
			role:     "admin",
			issuer:   "other-idp",
			audience: "intake-api",
		})
		if _, err := verifier.Verify(token); !errors.Is(err, auth.ErrInvalidToken) {
			t.Errorf("Verify error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("missing audience rejected", func(t *testing.T) {
		token := signToken(t, tokenSpec{
			subject: userID,
			role:    "admin",
			issuer:  "intake-idp",
		})
		if _, err := verifier.Verify(token); !errors.Is(err, auth.ErrInvalidToken) {
			t.Errorf("Verify error = %v, want ErrInvalidToken", err)
		}
	})
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"admin", "supervisor", "qc_user", "upload_user"} {
		if _, err := auth.ParseRole(valid); err != nil {
			t.Errorf("ParseRole(%q) error: %v", valid, err)
		}
	}

	for _, invalid := range []string{"", "Admin", "root"} {
		if _, err := auth.ParseRole(invalid); !errors.Is(err, auth.ErrUnknownRole) {
			t.Errorf("ParseRole(%q) error = %v, want ErrUnknownRole", invalid, err)
		}
	}
}

func TestPrincipalIs(t *testing.T) {
	p := auth.Principal{Role: auth.RoleSupervisor}

	if !p.Is(auth.RoleAdmin, auth.RoleSupervisor) {
		t.Error("Is(admin, supervisor) = false for supervisor principal")
	}
	if p.Is(auth.RoleAdmin, auth.RoleQC) {
		t.Error("Is(admin, qc_user) = true for supervisor principal")
	}
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()
	verifier := auth.NewVerifier(testSecret, "", "")

	var gotPrincipal *auth.Principal
	handler := auth.Authenticate(verifier, discardLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPrincipal, _ = auth.PrincipalFrom(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, tokenSpec{subject: userID.String(), role: "admin", username: "boss"})
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if gotPrincipal == nil || gotPrincipal.ID != userID {
			t.Errorf("principal = %+v, want id %s", gotPrincipal, userID)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	gate := auth.RequireRole(discardLogger(), auth.RoleAdmin, auth.RoleSupervisor)
	handler := gate(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	request := func(role auth.Role) *http.Request {
		req := httptest.NewRequest("GET", "/", nil)
		principal := &auth.Principal{ID: uuid.New(), Role: role}
		return req.WithContext(auth.WithPrincipal(req.Context(), principal))
	}

	t.Run("allowed role", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler(rec, request(auth.RoleAdmin))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("denied role", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler(rec, request(auth.RoleUpload))
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("no principal", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest("GET", "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}
