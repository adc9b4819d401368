package middleware

import (
	"net/http"
	"strings"

	"github.com/minebase/playerstats/internal/api/apierr"
	"github.com/minebase/playerstats/internal/services/auth"
)

// Auth creates middleware that requires a valid server token on every
// request it wraps
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			if err := authService.Authorize(token); err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the server token from the request.
// Plain tokens are accepted alongside the Bearer scheme since older
// minigame servers send the raw Authorization value.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return authHeader
}
