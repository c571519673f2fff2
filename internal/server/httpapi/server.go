// Package httpapi exposes the upload contract over HTTP using gin:
// POST /upload, GET|HEAD /files, GET /raw/*key, /health and /metrics.
package httpapi

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/uploadwidget/internal/common"
	"github.com/dmitrijs2005/uploadwidget/internal/logging"
	"github.com/dmitrijs2005/uploadwidget/internal/server/metrics"
	"github.com/dmitrijs2005/uploadwidget/internal/server/models"
	"github.com/dmitrijs2005/uploadwidget/internal/server/services"
	"github.com/gin-gonic/gin"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "upload-server"

// FileService is the subset of services.FileService the handlers use.
type FileService interface {
	Upload(ctx context.Context, originalName, contentType string, body io.ReadSeeker) (*services.FileResponse, error)
	List(ctx context.Context) ([]services.FileResponse, error)
	Open(ctx context.Context, key, token string) (*models.File, io.ReadSeekCloser, error)
	Ping(ctx context.Context) error
}

type Server struct {
	engine        *gin.Engine
	files         FileService
	metrics       *metrics.Metrics
	logger        logging.Logger
	maxUploadSize int64
}

func NewServer(files FileService, m *metrics.Metrics, logger logging.Logger, maxUploadSize int64) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:        gin.New(),
		files:         files,
		metrics:       m,
		logger:        logger.With("module", "http"),
		maxUploadSize: maxUploadSize,
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(s.loggingMiddleware())
	s.engine.Use(s.metricsMiddleware())
	s.engine.Use(corsMiddleware())

	s.engine.MaxMultipartMemory = maxUploadSize

	s.registerRoutes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.health)
	s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	s.engine.POST(common.DefaultUploadPath, s.upload)
	s.engine.GET(common.DefaultFilesPath, s.listFiles)
	s.engine.HEAD(common.DefaultFilesPath, s.headFiles)
	s.engine.GET("/raw/*key", s.raw)
}

// NewHTTPServer wraps handler with the timeouts used in production.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info(c.Request.Context(), "HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}

func (s *Server) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// corsMiddleware lets the widget talk to the server from any origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, HEAD, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
