package auth

import (
	"net/http"

	"github.com/rs/zerolog"

	httperrors "github.com/gokatarajesh/ingenieras/pkg/http/errors"
)

// RequireAdmin rejects requests that do not carry admin credentials.
func RequireAdmin(guard *Guard, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := guard.Authorize(r); err != nil {
				logger.Warn().
					Err(err).
					Str("path", r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Msg("admin access denied")
				httperrors.RespondUnauthorized(w, httperrors.ErrCodeUnauthorized, "Admin credentials required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
