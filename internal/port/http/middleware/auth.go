package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/amJayem/used-books-resale-server/internal/platform/logger"
	"github.com/amJayem/used-books-resale-server/internal/service"
)

// JWTAuth verifies the bearer credential on every request it wraps and
// binds the resulting identity to the request context. Handlers behind it
// can rely on ClaimsFromContext returning a verified email and role.
func JWTAuth(auth service.AuthService, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Warnf("Missing authorization header on %s %s", r.Method, r.URL.Path)
				writeAuthError(w, http.StatusUnauthorized, "authorization token is not provided")
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Warnf("Invalid authorization header format on %s %s", r.Method, r.URL.Path)
				writeAuthError(w, http.StatusUnauthorized, "authorization token format is invalid, expected 'Bearer <token>'")
				return
			}

			claims, err := auth.Verify(parts[1])
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					writeAuthError(w, http.StatusUnauthorized, "authorization token is empty")
					return
				}
				log.Warnf("Credential verification failed on %s %s: %v", r.Method, r.URL.Path, err)
				writeAuthError(w, http.StatusForbidden, "token is invalid or expired")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
