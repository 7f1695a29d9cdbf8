// Package server is the portfolio's gin web surface.
package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/soc-portfolio/internal/auth"
	"github.com/Zachkp/soc-portfolio/internal/config"
	"github.com/Zachkp/soc-portfolio/internal/content"
	"github.com/Zachkp/soc-portfolio/internal/logger"
	"github.com/Zachkp/soc-portfolio/internal/mailer"
	"github.com/Zachkp/soc-portfolio/internal/ratelimit"
	"github.com/Zachkp/soc-portfolio/internal/store"
	"github.com/Zachkp/soc-portfolio/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// VisitRecorder accepts visits for background storage.
type VisitRecorder interface {
	Visit(v store.Visit)
}

type Deps struct {
	Config    config.Config
	Log       logger.Logger
	Views     *view.Registry
	Portfolio content.Portfolio
	Store     *store.Store
	Visits    VisitRecorder
	Mailer    mailer.Sender
	Limiter   ratelimit.Limiter
	JWT       *auth.JWTService
	// Salt keys the visitor IP hash. Empty means a random per-process salt.
	Salt string
	Now  func() time.Time
}

type Server struct {
	Deps
	engine *gin.Engine
}

// New builds the router.
func New(d Deps) (*Server, error) {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	if d.Salt == "" {
		salt, err := auth.RandomHex(32)
		if err != nil {
			return nil, err
		}
		d.Salt = salt
	}

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	s := &Server{Deps: d}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(d.Log))
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(static))

	r.Use(s.visitorTracking())

	r.GET("/", s.index)
	r.GET("/healthz", s.health)

	views := r.Group("/views/:id")
	views.GET("/state", s.state)
	views.GET("/events", s.events)
	views.POST("/tab/:tab", s.selectTab)
	views.POST("/terminal/dismiss", s.dismissTerminal)
	views.POST("/scan", s.startScan)

	r.GET("/contact-form", s.contactForm)
	r.POST("/contact", s.submitContact)

	s.setupAdminRoutes(r)

	s.engine = r
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

var templateFuncs = template.FuncMap{
	"upper": strings.ToUpper,
	"pct":   func(n int) string { return fmt.Sprintf("%d%%", n) },
}

func loadTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}
