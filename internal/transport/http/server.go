// Package http provides the HTTP server for the chat relay.
package http

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/RealSeaberry/Local-LLM-Chat/internal/config"
	"github.com/RealSeaberry/Local-LLM-Chat/internal/service"
	v1 "github.com/RealSeaberry/Local-LLM-Chat/internal/transport/http/v1"
)

// Server is the outward-facing HTTP server: the JSON/SSE API plus the static
// frontend.
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *zap.Logger
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(cfg *config.Config, svc *service.Service, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency))
			return nil
		},
	}))

	handler := v1.NewHandler(svc, logger)
	handler.RegisterRoutes(e)

	if cfg.StaticDir != "" {
		e.Static("/", cfg.StaticDir)
	}

	return &Server{echo: e, config: cfg, logger: logger}
}

// Start begins listening. Blocks until the server stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.HTTPPort)
	s.logger.Info("http server listening", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
