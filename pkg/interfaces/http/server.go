package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vsinha/bomview/pkg/application/services"
	"github.com/vsinha/bomview/pkg/infrastructure/events"
)

// Options configures a Server
type Options struct {
	Addr      string
	Precision int32
	// Metrics is exposed on /metrics when not nil
	Metrics *prometheus.Registry
	// Events backs /api/v1/events when not nil
	Events events.EventStore
	Logger *zap.Logger
}

// Server serves the BOM API
type Server struct {
	echo   *echo.Echo
	addr   string
	logger *zap.Logger
}

// NewServer builds the echo instance with middleware and routes
func NewServer(service *services.BOMService, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	e := setupEcho()
	setupMiddleware(e, opts.Logger)
	setupHealthCheck(e)
	if opts.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Metrics, promhttp.HandlerOpts{})))
	}
	RegisterBOMRoutes(e, NewBOMHandler(service, opts.Precision))
	if opts.Events != nil {
		RegisterEventRoutes(e, NewEventHandler(opts.Events))
	}

	return &Server{echo: e, addr: opts.Addr, logger: opts.Logger}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on the configured address until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.addr))
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler
	return e
}

func setupMiddleware(e *echo.Echo, logger *zap.Logger) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))
}

func setupHealthCheck(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "bomview",
		})
	})
}
