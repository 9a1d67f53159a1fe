// Package server exposes the dashboard and its JSON API over HTTP.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KaramelBytes/insights-cli/internal/analysis"
	"github.com/KaramelBytes/insights-cli/internal/charts"
	"github.com/KaramelBytes/insights-cli/internal/parser"
	"github.com/KaramelBytes/insights-cli/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configures a Server.
type Options struct {
	Addr        string
	MaxUploadMB int
	Parse       parser.Options
	Report      analysis.Options
	Renderer    *charts.Renderer
	Logger      *slog.Logger
}

// Server serves one Workspace.
type Server struct {
	echo *echo.Echo
	ws   *session.Workspace
	opt  Options
	log  *slog.Logger
	tmpl *template.Template
}

// New wires routes and middleware around ws.
func New(ws *session.Workspace, opt Options) (*Server, error) {
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	if opt.Renderer == nil {
		opt.Renderer = charts.NewRenderer(0, 0)
	}
	if opt.MaxUploadMB <= 0 {
		opt.MaxUploadMB = 200
	}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"stat": analysis.FormatStat,
		"inc":  func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	s := &Server{echo: e, ws: ws, opt: opt, log: opt.Logger, tmpl: tmpl}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/health" || path == "/metrics"
		},
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.log.InfoContext(c.Request().Context(), "http request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"error", v.Error)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", opt.MaxUploadMB)))

	e.GET("/", s.handleIndex)
	e.POST("/upload", s.handleUpload)
	e.POST("/charts", s.handleAddChart)
	e.GET("/charts/render", s.handleRender)
	e.GET("/charts/layout", s.handleExportLayout)
	e.POST("/charts/:index", s.handleUpdateChart)
	e.PATCH("/charts/:index/:field", s.handleSetChartField)

	api := e.Group("/api")
	api.GET("/profile", s.handleProfile)
	api.GET("/summary", s.handleSummary)
	api.GET("/query", s.handleQuery)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Run serves on opt.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("dashboard listening", "addr", s.opt.Addr)
		if err := s.echo.Start(s.opt.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down dashboard")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
