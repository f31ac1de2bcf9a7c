package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/opsfield/intake/pkg/handlers"
)

// Authenticate returns middleware that verifies the Authorization bearer token
// and attaches the resulting principal to the request context.
func Authenticate(verifier *Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	log := logger.With("middleware", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				handlers.RespondError(w, log, http.StatusUnauthorized, ErrMissingToken)
				return
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				handlers.RespondError(w, log, MapHTTPStatus(err), err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireRole wraps a handler so only principals holding one of the given
// roles may reach it. Must run inside Authenticate.
func RequireRole(logger *slog.Logger, roles ...Role) func(http.HandlerFunc) http.HandlerFunc {
	log := logger.With("middleware", "auth")

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFrom(r.Context())
			if !ok {
				handlers.RespondError(w, log, http.StatusUnauthorized, ErrMissingToken)
				return
			}

			if !principal.Is(roles...) {
				handlers.RespondError(w, log, http.StatusForbidden, ErrForbidden)
				return
			}

			next(w, r)
		}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}

	return token, true
}
