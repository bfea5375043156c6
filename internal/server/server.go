// Package server exposes drift detection and skeleton sync over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lawndlwd/doc-drift/internal/alerts"
	"github.com/lawndlwd/doc-drift/internal/skeleton"
)

const requestIDKey = "request_id"

// Server holds the services behind the HTTP routes.
type Server struct {
	alerts *alerts.Service
	syncer *skeleton.Syncer
	logger *slog.Logger
	router *gin.Engine
}

func New(svc *alerts.Service, syncer *skeleton.Syncer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{alerts: svc, syncer: syncer, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.requestLogger(), observe())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v01 := r.Group("/v01")
	{
		v01.POST("/links/alerts", s.handleAlerts)
		v01.POST("/links/new", s.handleNewLinks)
		v01.POST("/links/alerts/batch", s.handleAlertsBatch)
		v01.POST("/gitbook/installation", s.handleInstallation)
		v01.POST("/gitbook/update", s.handleUpdate)
	}
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Set(requestIDKey, id)
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// log returns the logger scoped to the current request.
func (s *Server) log(c *gin.Context, handler string) *slog.Logger {
	return s.logger.With("request_id", c.GetString(requestIDKey), "handler", handler)
}
