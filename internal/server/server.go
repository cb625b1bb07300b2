// Package server is the HTTP surface of the backend: the public content API,
// the admin mutations, the contact form and the SSE stream.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/AhemdNada/alx-company/internal/config"
	apperrors "github.com/AhemdNada/alx-company/internal/errors"
	"github.com/AhemdNada/alx-company/internal/recaptcha"
	"github.com/AhemdNada/alx-company/internal/sse"
	"github.com/AhemdNada/alx-company/internal/upload"
)

// pinger is the subset of pgxpool.Pool used by the health check.
type pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	content   ContentAPI
	contacts  ContactAPI
	hub       *sse.Hub
	uploads   *upload.Storage
	captcha   recaptcha.Verifier
	db        pinger
	clock     clockwork.Clock
	startTime time.Time
}

func NewServer(
	cfg *config.Config,
	content ContentAPI,
	contacts ContactAPI,
	hub *sse.Hub,
	uploads *upload.Storage,
	captcha recaptcha.Verifier,
	db pinger,
	clock clockwork.Clock,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	// The rate limiter reports its deny error via c.Error, which never
	// reaches the error-converting middleware.
	e.HTTPErrorHandler = apperrors.HTTPErrorHandler

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:      e,
		config:    cfg,
		content:   content,
		contacts:  contacts,
		hub:       hub,
		uploads:   uploads,
		captcha:   captcha,
		db:        db,
		clock:     clock,
		startTime: clock.Now(),
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
