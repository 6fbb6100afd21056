package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/ingenieras/internal/auth"
	"github.com/gokatarajesh/ingenieras/internal/challenge"
	"github.com/gokatarajesh/ingenieras/internal/config"
	"github.com/gokatarajesh/ingenieras/internal/metrics"
	"github.com/gokatarajesh/ingenieras/internal/report"
	httperrors "github.com/gokatarajesh/ingenieras/pkg/http/errors"
)

// Handlers groups everything the router mounts. Feed may be nil.
type Handlers struct {
	Pages      *Pages
	Challenges *challenge.HTTPHandler
	Reports    *report.HTTPHandler
	Images     http.Handler
	Auth       *auth.HTTPHandlers
	Guard      *auth.Guard
	Feed       http.Handler
	Metrics    *metrics.Collector
	MetricsAPI http.Handler
	StaticDir  string
}

// RouterOptions tunes middleware.
type RouterOptions struct {
	RequestTimeout time.Duration
	GuardPublish   bool
}

// NewRouter wires every public and admin route.
func NewRouter(h Handlers, opts RouterOptions, logger zerolog.Logger) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	requireAdmin := auth.RequireAdmin(h.Guard, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(h.Metrics.Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeMethodNotAllowed, "Method not allowed")
	})

	// WebSocket connections outlive the request timeout.
	if h.Feed != nil {
		r.With(requireAdmin).Get("/ws/reports", h.Feed.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(opts.RequestTimeout))

		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			httperrors.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		if h.MetricsAPI != nil {
			r.Handle("/metrics", h.MetricsAPI)
		}
		if h.StaticDir != "" {
			r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(h.StaticDir))))
		}

		r.Get("/", h.Pages.Landing)
		r.Get("/admin_panel", h.Pages.AdminPanel)
		r.Get("/reto/{id}", h.Challenges.Serve)

		r.Route("/api", func(r chi.Router) {
			r.Get("/challenges", h.Challenges.List)
			if opts.GuardPublish {
				r.With(requireAdmin).Post("/create_challenge", h.Challenges.Create)
			} else {
				r.Post("/create_challenge", h.Challenges.Create)
			}
			r.With(requireAdmin).Delete("/delete_challenge/{id}", h.Challenges.Delete)

			r.Post("/submit", h.Reports.Submit)
			r.Get("/student_history", h.Reports.History)
			r.With(requireAdmin).Get("/all_reports", h.Reports.All)
			r.With(requireAdmin).Delete("/delete_report/{filename}", h.Reports.Delete)

			r.Method(http.MethodGet, "/random_images", h.Images)
			r.Post("/admin/login", h.Auth.Login)
		})
	})

	return r
}

// NewHTTPServer builds the API server around handler.
func NewHTTPServer(cfg *config.App, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
