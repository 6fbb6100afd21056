package server

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/ingenieras/internal/challenge"
	"github.com/gokatarajesh/ingenieras/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

type challengeLister interface {
	List(ctx context.Context) ([]challenge.Challenge, error)
}

type reportLister interface {
	All(ctx context.Context) ([]report.Report, error)
}

type imagePicker interface {
	Pick() ([]string, error)
}

type authorizer interface {
	Authorize(r *http.Request) error
}

// Pages renders the landing page and the admin report panel.
type Pages struct {
	title        string
	guardPublish bool
	tmpl         *template.Template
	challenges   challengeLister
	reports      reportLister
	images       imagePicker
	guard        authorizer
	logger       zerolog.Logger
}

// PagesConfig wires the page renderer.
type PagesConfig struct {
	Title        string
	GuardPublish bool
	Challenges   challengeLister
	Reports      reportLister
	Images       imagePicker
	Guard        authorizer
}

// NewPages parses the embedded templates.
func NewPages(cfg PagesConfig, logger zerolog.Logger) (*Pages, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	if cfg.Title == "" {
		cfg.Title = "Construyendo a mis Ingenieras"
	}
	return &Pages{
		title:        cfg.Title,
		guardPublish: cfg.GuardPublish,
		tmpl:         tmpl,
		challenges:   cfg.Challenges,
		reports:      cfg.Reports,
		images:       cfg.Images,
		guard:        cfg.Guard,
		logger:       logger.With().Str("component", "pages").Logger(),
	}, nil
}

// Landing handles GET /
func (p *Pages) Landing(w http.ResponseWriter, r *http.Request) {
	challenges, err := p.challenges.List(r.Context())
	if err != nil {
		p.logger.Error().Err(err).Msg("landing: list challenges failed")
		challenges = []challenge.Challenge{}
	}
	images, err := p.images.Pick()
	if err != nil {
		p.logger.Warn().Err(err).Msg("landing: pick images failed")
		images = []string{}
	}

	p.render(w, http.StatusOK, "landing.html", map[string]interface{}{
		"Title":        p.title,
		"Challenges":   challenges,
		"Images":       images,
		"GuardPublish": p.guardPublish,
	})
}

// AdminPanel handles GET /admin_panel?pwd=
func (p *Pages) AdminPanel(w http.ResponseWriter, r *http.Request) {
	if err := p.guard.Authorize(r); err != nil {
		p.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("admin panel access denied")
		p.render(w, http.StatusUnauthorized, "denied.html", map[string]interface{}{"Title": p.title})
		return
	}

	reports, err := p.reports.All(r.Context())
	if err != nil {
		p.logger.Error().Err(err).Msg("admin panel: list reports failed")
		http.Error(w, "could not load reports", http.StatusInternalServerError)
		return
	}
	p.render(w, http.StatusOK, "admin.html", map[string]interface{}{
		"Title":   p.title,
		"Reports": reports,
	})
}

func (p *Pages) render(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		p.logger.Error().Err(err).Str("template", name).Msg("render failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
