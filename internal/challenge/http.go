package challenge

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/ingenieras/internal/fsstore"
	"github.com/gokatarajesh/ingenieras/internal/logging"
	"github.com/gokatarajesh/ingenieras/pkg/http/binding"
	httperrors "github.com/gokatarajesh/ingenieras/pkg/http/errors"
)

// HTTPHandler exposes challenge listing, serving, publishing and deletion.
type HTTPHandler struct {
	svc    *Service
	binder *binding.Binder
	logger zerolog.Logger
}

// NewHTTPHandler constructs a challenge HTTP handler.
func NewHTTPHandler(svc *Service, binder *binding.Binder, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		binder: binder,
		logger: logger,
	}
}

// List handles GET /api/challenges
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.List(r.Context())
	if err != nil {
		h.requestLogger(r).Error().Err(err).Msg("list challenges failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeListFailed, "Could not load challenges")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, records)
}

// Serve handles GET /reto/{id}
func (h *HTTPHandler) Serve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	doc, err := h.svc.Document(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, id)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// Create handles POST /api/create_challenge
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateChallengeRequest
	if !h.binder.BindOrRespond(w, r, &req) {
		return
	}

	_, err := h.svc.Publish(r.Context(), PublishRequest{
		ID:    req.ID,
		Title: req.Title,
		Desc:  req.Desc,
		HTML:  []byte(req.HTMLContent),
	})
	if err != nil {
		if errors.Is(err, fsstore.ErrInvalidName) {
			httperrors.RespondValidationError(w, httperrors.ErrCodeInvalidName, "Invalid challenge id", "id")
			return
		}
		h.requestLogger(r).Error().Err(err).Str("challenge_id", req.ID).Msg("publish failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodePublishFailed, "Could not publish challenge")
		return
	}

	httperrors.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Delete handles DELETE /api/delete_challenge/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err, id)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

func (h *HTTPHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, id string) {
	switch {
	case errors.Is(err, fsstore.ErrInvalidName):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidName, "Invalid challenge id")
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeChallengeNotFound, "Challenge not found")
	default:
		h.requestLogger(r).Error().Err(err).Str("challenge_id", id).Msg("challenge operation failed")
		httperrors.RespondInternalError(w, "Challenge operation failed")
	}
}

// pathParam unescapes a chi URL parameter so encoded separators are validated too.
func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value, err := url.PathUnescape(chi.URLParam(r, name))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidName, "Malformed path parameter")
		return "", false
	}
	return value, true
}

// requestLogger prefers the request-scoped logger so entries carry the request id.
func (h *HTTPHandler) requestLogger(r *http.Request) *zerolog.Logger {
	logger := logging.FromContext(r.Context(), h.logger).With().Str("component", "challenge_http").Logger()
	return &logger
}
