package report

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

// HTTPHandler exposes submission and report endpoints.
type HTTPHandler struct {
	svc    *Service
	binder *binding.Binder
	logger zerolog.Logger
}

// NewHTTPHandler constructs a report HTTP handler.
func NewHTTPHandler(svc *Service, binder *binding.Binder, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		binder: binder,
		logger: logger,
	}
}

// Submit handles POST /api/submit
func (h *HTTPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if !h.binder.BindOrRespond(w, r, &req) {
		return
	}

	rep, err := h.svc.Submit(r.Context(), req)
	if err != nil {
		if errors.Is(err, fsstore.ErrInvalidName) {
			httperrors.RespondValidationError(w, httperrors.ErrCodeInvalidName, "Invalid challenge id", "challenge_id")
			return
		}
		h.requestLogger(r).Error().Err(err).Str("challenge_id", req.ChallengeID).Msg("submit failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeSubmitFailed, "Could not store submission")
		return
	}

	httperrors.RespondJSON(w, http.StatusCreated, map[string]string{
		"message":  "Guardado correctamente",
		"filename": rep.Filename,
	})
}

// All handles GET /api/all_reports (admin only)
func (h *HTTPHandler) All(w http.ResponseWriter, r *http.Request) {
	reports, err := h.svc.All(r.Context())
	if err != nil {
		h.requestLogger(r).Error().Err(err).Msg("list reports failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeListFailed, "Could not load reports")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, reports)
}

// History handles GET /api/student_history?name=
func (h *HTTPHandler) History(w http.ResponseWriter, r *http.Request) {
	reports, err := h.svc.History(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.requestLogger(r).Error().Err(err).Msg("student history failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeListFailed, "Could not load reports")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, reports)
}

// Delete handles DELETE /api/delete_report/{filename} (admin only)
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	filename, err := url.PathUnescape(chi.URLParam(r, "filename"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidName, "Malformed filename")
		return
	}

	switch err := h.svc.Delete(r.Context(), filename); {
	case err == nil:
		httperrors.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted", "filename": filename})
	case errors.Is(err, fsstore.ErrInvalidName):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidName, "Invalid report filename")
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeReportNotFound, "Report not found")
	default:
		h.requestLogger(r).Error().Err(err).Str("filename", filename).Msg("delete report failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeDeleteFailed, "Could not delete report")
	}
}

// requestLogger prefers the request-scoped logger so entries carry the request id.
func (h *HTTPHandler) requestLogger(r *http.Request) *zerolog.Logger {
	logger := logging.FromContext(r.Context(), h.logger).With().Str("component", "report_http").Logger()
	return &logger
}
