// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

// Package web is the HTTP front end of Scribe: routes, sessions and the
// rendered pages. All persistence goes through internal/db.
package web // import "github.com/toeirei/scribe/internal/web"

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/toeirei/scribe/buildvars"
	"github.com/toeirei/scribe/internal/auth"
	"github.com/toeirei/scribe/internal/db"
	"github.com/toeirei/scribe/internal/i18n"
	"github.com/toeirei/scribe/internal/logging"
)

var (
	//go:embed templates/*.html
	templatesFS embed.FS
	//go:embed static
	staticFS embed.FS
)

// Options tunes the request layer.
type Options struct {
	// LoginRatePerMinute and LoginBurst bound POSTs to /auth/* per client IP.
	LoginRatePerMinute float64
	LoginBurst         int
	ShutdownTimeout    time.Duration
}

// Server serves the blog over HTTP.
type Server struct {
	engine  *gin.Engine
	store   *db.Store
	tokens  *auth.TokenManager
	limiter *ipLimiter
	opts    Options
}

// New builds the router. The store and token manager are shared by all
// requests.
func New(store *db.Store, tokens *auth.TokenManager, opts Options) (*Server, error) {
	if store == nil || tokens == nil {
		return nil, errors.New("web: store and token manager are required")
	}
	if opts.LoginRatePerMinute <= 0 {
		opts.LoginRatePerMinute = 10
	}
	if opts.LoginBurst <= 0 {
		opts.LoginBurst = 5
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: failed to parse templates: %w", err)
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("web: failed to load static files: %w", err)
	}

	s := &Server{
		engine:  gin.New(),
		store:   store,
		tokens:  tokens,
		limiter: newIPLimiter(opts.LoginRatePerMinute, opts.LoginBurst),
		opts:    opts,
	}
	s.engine.SetHTMLTemplate(tmpl)
	s.engine.Use(requestLogger(), s.recovery(), s.loadSession())
	s.routes(http.FS(static))
	return s, nil
}

func (s *Server) routes(static http.FileSystem) {
	r := s.engine
	r.StaticFS("/static", static)
	r.GET("/healthz", s.healthz)

	r.GET("/", s.index)
	r.GET("/create", s.loginRequired(), s.createForm)
	r.POST("/create", s.loginRequired(), s.create)
	r.GET("/:id/update", s.loginRequired(), s.updateForm)
	r.POST("/:id/update", s.loginRequired(), s.update)
	r.POST("/:id/delete", s.loginRequired(), s.deletePost)

	a := r.Group("/auth")
	a.GET("/register", s.registerForm)
	a.POST("/register", s.rateLimit(), s.register)
	a.GET("/login", s.loginForm)
	a.POST("/login", s.rateLimit(), s.login)
	a.GET("/logout", s.logout)

	r.NoRoute(func(c *gin.Context) {
		s.renderError(c, http.StatusNotFound, i18n.T("error.not_found"))
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Infof("%s", i18n.T("serve.listening", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web: server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web: graceful shutdown failed: %w", err)
	}
	logging.Infof("%s", i18n.T("serve.stopped"))
	return nil
}

func (s *Server) healthz(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		logging.Errorf("healthz: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"t": i18n.T,
		"date": func(t time.Time) string {
			return t.Local().Format("2006-01-02")
		},
		"version": func() string { return buildvars.VersionOrDefault("dev") },
	}
}
