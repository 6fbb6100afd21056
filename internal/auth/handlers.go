package auth

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/ingenieras/pkg/http/binding"
	httperrors "github.com/gokatarajesh/ingenieras/pkg/http/errors"
)

// LoginRequest is the body of POST /api/admin/login.
type LoginRequest struct {
	Password string `json:"password" validate:"required,max=256"`
}

// HTTPHandlers provides the admin session endpoint.
type HTTPHandlers struct {
	guard  *Guard
	binder *binding.Binder
	logger zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for admin auth endpoints.
func NewHTTPHandlers(guard *Guard, binder *binding.Binder, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		guard:  guard,
		binder: binder,
		logger: logger.With().Str("component", "auth_http").Logger(),
	}
}

// Login handles POST /api/admin/login
func (h *HTTPHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if !h.guard.SessionsEnabled() {
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeFeatureNotAvailable, "Admin sessions are not configured")
		return
	}

	var req LoginRequest
	if !h.binder.BindOrRespond(w, r, &req) {
		return
	}

	token, ttl, err := h.guard.Login(req.Password)
	switch {
	case err == nil:
	case errors.Is(err, ErrUnauthorized):
		h.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("admin login rejected")
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeUnauthorized, "Invalid admin password")
		return
	default:
		h.logger.Error().Err(err).Msg("admin login failed")
		httperrors.RespondInternalError(w, "Could not create session")
		return
	}

	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token,
		"expires_in":   int(ttl.Seconds()),
	})
}
