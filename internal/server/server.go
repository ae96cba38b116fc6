// Package server is the portfolio's HTTP surface: the HTMX page and its
// fragments, the contact form, the scroll tracking API and the admin
// dashboard.
package server

import (
	"context"
	"crypto/rand"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/engagement"
	"github.com/Zachkp/portfolio/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Deps are the collaborators a Server needs.
type Deps struct {
	Config   *config.Config
	Profile  *content.Profile
	Store    *store.Store
	Mailer   contact.Mailer
	Sessions *engagement.Registry
	Log      *slog.Logger
}

// Server holds per-process state. The admin token and the IP hashing salt
// are regenerated on every start, so restarts log admins out and visitor
// hashes cannot be joined across runs.
type Server struct {
	cfg      *config.Config
	profile  *content.Profile
	store    *store.Store
	mailer   contact.Mailer
	sessions *engagement.Registry
	log      *slog.Logger

	adminToken  string
	hashingSalt string
	engine      *gin.Engine
}

// New builds the server and its routes.
func New(d Deps) (*Server, error) {
	if d.Config == nil || d.Profile == nil || d.Store == nil || d.Mailer == nil || d.Sessions == nil || d.Log == nil {
		return nil, errors.New("server: missing dependency")
	}
	token, err := randomToken()
	if err != nil {
		return nil, fmt.Errorf("generating admin token: %w", err)
	}
	salt, err := randomToken()
	if err != nil {
		return nil, fmt.Errorf("generating hashing salt: %w", err)
	}

	s := &Server{
		cfg:         d.Config,
		profile:     d.Profile,
		store:       d.Store,
		mailer:      d.Mailer,
		sessions:    d.Sessions,
		log:         d.Log,
		adminToken:  token,
		hashingSalt: salt,
	}
	if err := s.setupRouter(); err != nil {
		return nil, err
	}
	return s, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func (s *Server) setupRouter() error {
	gin.SetMode(s.cfg.Mode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log), s.visitorTracking())

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return err
	}
	r.StaticFS("/static", http.FS(static))
	r.Static("/images", "./images")

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Len()})
	})

	s.setupPublicRoutes(r)
	s.setupScrollRoutes(r)
	s.setupAdminRoutes(r)

	s.engine = r
	return nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	httpServer := &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.sessions.Run(ctx)
	go s.retentionLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting portfolio", "port", s.cfg.Port, "mode", s.cfg.Mode)
		s.log.Info("Admin access available at: /admin/login")
		if s.cfg.Mode == gin.DebugMode {
			s.log.Debug("admin token (dev only)", "token", s.adminToken)
		}
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return httpServer.Shutdown(shutdownCtx)
}

// retentionLoop deletes records older than the retention window once at
// start and then daily.
func (s *Server) retentionLoop(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		s.cleanup(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) cleanup(ctx context.Context) (int64, error) {
	before := time.Now().AddDate(0, -s.cfg.RetentionMonths, 0)
	n, err := s.store.Cleanup(ctx, before)
	if err != nil {
		s.log.Error("cleaning up old visitor data", "error", err)
		return 0, err
	}
	if n > 0 {
		s.log.Info("Privacy cleanup: removed old records", "rows", n, "retention_months", s.cfg.RetentionMonths)
	}
	return n, nil
}
