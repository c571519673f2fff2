package httpapi

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/uploadwidget/internal/common"
	"github.com/dmitrijs2005/uploadwidget/internal/server/metrics"
	"github.com/dmitrijs2005/uploadwidget/internal/server/storage"
	"github.com/gin-gonic/gin"
)

// multipartOverhead is the slack allowed on top of MaxUploadSize for part
// headers and boundaries.
const multipartOverhead = 64 << 10

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrNotFound), errors.Is(err, storage.ErrInvalidKey):
		return http.StatusNotFound
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusForbidden
	case errors.Is(err, common.ErrTooLarge), isBodyTooLarge(err):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, common.ErrEmptyFile):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error, operation string) {
	status := statusFor(err)
	c.JSON(status, gin.H{
		"error":   fmt.Sprintf("Failed to %s", operation),
		"details": err.Error(),
	})
}

func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "request body too large")
}

// upload handles POST /upload with a single multipart part named "file".
func (s *Server) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadSize+multipartOverhead)

	header, err := c.FormFile(common.FileFieldName)
	if err != nil {
		s.metrics.ObserveUpload(metrics.ResultRejected, 0)
		if isBodyTooLarge(err) {
			writeError(c, common.ErrTooLarge, "upload file")
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "No file provided",
			"details": err.Error(),
		})
		return
	}
	if header.Size > s.maxUploadSize {
		s.metrics.ObserveUpload(metrics.ResultRejected, 0)
		writeError(c, common.ErrTooLarge, "upload file")
		return
	}

	file, err := header.Open()
	if err != nil {
		s.metrics.ObserveUpload(metrics.ResultError, 0)
		writeError(c, err, "read file")
		return
	}
	defer file.Close()

	res, err := s.files.Upload(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		if statusFor(err) < http.StatusInternalServerError {
			s.metrics.ObserveUpload(metrics.ResultRejected, 0)
		} else {
			s.metrics.ObserveUpload(metrics.ResultError, 0)
			s.logger.Error(c.Request.Context(), "upload failed", "name", header.Filename, "error", err)
		}
		writeError(c, err, "upload file")
		return
	}

	s.metrics.ObserveUpload(metrics.ResultOK, res.Size)
	c.JSON(http.StatusOK, res)
}

// listFiles handles GET and HEAD /files.
func (s *Server) listFiles(c *gin.Context) {
	s.metrics.ObserveList()

	files, err := s.files.List(c.Request.Context())
	if err != nil {
		s.logger.Error(c.Request.Context(), "list failed", "error", err)
		writeError(c, err, "list files")
		return
	}
	c.JSON(http.StatusOK, files)
}

// headFiles answers the client's reachability check on HEAD /files without
// listing or signing anything.
func (s *Server) headFiles(c *gin.Context) {
	if err := s.files.Ping(c.Request.Context()); err != nil {
		s.logger.Warn(c.Request.Context(), "ping failed", "error", err)
		c.Status(http.StatusServiceUnavailable)
		return
	}
	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Status(http.StatusOK)
}

// raw handles GET /raw/*key for disk-backed links.
func (s *Server) raw(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	token := c.Query(common.LinkTokenParam)

	file, rc, err := s.files.Open(c.Request.Context(), key, token)
	if err != nil {
		writeError(c, err, "open file")
		return
	}
	defer rc.Close()

	c.Header("Content-Type", file.ContentType)
	c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": file.OriginalName}))
	http.ServeContent(c.Writer, c.Request, file.OriginalName, file.CreatedAt, rc)
}

func (s *Server) health(c *gin.Context) {
	if err := s.files.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": ServiceName,
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": ServiceName,
	})
}
