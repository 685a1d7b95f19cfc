package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/atikulmunna/loglens/internal/report"
)

// Server serves one computed report over HTTP.
type Server struct {
	engine  *gin.Engine
	report  report.Report
	logger  *zap.Logger
	addr    string
	started time.Time
}

// New creates a server for rep listening on addr.
func New(rep report.Report, addr string, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	s := &Server{
		engine:  engine,
		report:  rep,
		logger:  logger.With(zap.String("mod", "server")),
		addr:    addr,
		started: time.Now(),
	}

	reg := prometheus.NewRegistry()
	NewMetrics(reg, s.logger).Observe(rep)

	s.setupRoutes(reg)
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupRoutes(reg *prometheus.Registry) {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "ok",
			"uptime":        time.Since(s.started).Truncate(time.Second).String(),
			"parsed_lines":  s.report.Parsed,
			"skipped_lines": s.report.Skipped,
		})
	})

	api := s.engine.Group("/api")
	api.GET("/report", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.report)
	})
	api.GET("/requests", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.report.Requests)
	})
	api.GET("/endpoints/top", func(c *gin.Context) {
		if !s.report.HasMostAccessed {
			c.JSON(http.StatusNotFound, gin.H{"error": "no requests in report"})
			return
		}
		c.JSON(http.StatusOK, s.report.MostAccessed)
	})
	api.GET("/suspicious", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"threshold": s.report.Threshold,
			"marker":    s.report.Marker,
			"addresses": s.report.Suspicious,
		})
	})

	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// pprof profiling endpoints.
	s.engine.GET("/debug/pprof/", gin.WrapF(pprof.Index))
	s.engine.GET("/debug/pprof/cmdline", gin.WrapF(pprof.Cmdline))
	s.engine.GET("/debug/pprof/profile", gin.WrapF(pprof.Profile))
	s.engine.GET("/debug/pprof/symbol", gin.WrapF(pprof.Symbol))
	s.engine.GET("/debug/pprof/trace", gin.WrapF(pprof.Trace))
	s.engine.GET("/debug/pprof/heap", gin.WrapH(pprof.Handler("heap")))
	s.engine.GET("/debug/pprof/goroutine", gin.WrapH(pprof.Handler("goroutine")))
}

// Start runs the server until ctx is cancelled, then shuts it down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving report", zap.String("addr", s.addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
