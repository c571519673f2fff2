package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/uploadwidget/internal/client/models"
	"github.com/dmitrijs2005/uploadwidget/internal/common"
	"github.com/dmitrijs2005/uploadwidget/internal/netx"
)

// maxErrorBody bounds how much of an error response is kept in StatusError.
const maxErrorBody = 1 << 10

type HTTPClient struct {
	uploadURL string
	filesURL  string
	http      *http.Client
}

// NewHTTPClient builds a client for the backend at baseURL. timeout of zero
// leaves requests bounded only by their context.
func NewHTTPClient(baseURL, uploadPath, filesPath string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: base url: %v", ErrInvalidInput, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: base url must be absolute http(s): %q", ErrInvalidInput, baseURL)
	}

	return &HTTPClient{
		uploadURL: joinURL(baseURL, uploadPath),
		filesURL:  joinURL(baseURL, filesPath),
		http:      &http.Client{Timeout: timeout},
	}, nil
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// UploadURL returns the absolute upload endpoint.
func (c *HTTPClient) UploadURL() string { return c.uploadURL }

// FilesURL returns the absolute listing endpoint.
func (c *HTTPClient) FilesURL() string { return c.filesURL }

func (c *HTTPClient) Upload(ctx context.Context, file *models.SelectedFile, onProgress ProgressFunc) (json.RawMessage, error) {
	if file == nil {
		return nil, fmt.Errorf("%w: no file", ErrInvalidInput)
	}

	body, err := netx.NewMultipartBody(common.FileFieldName, file.Name, file.MIME, file.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, body.Reader(onProgress))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	req.ContentLength = body.Len()
	req.Header.Set("Content-Type", body.ContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.mapError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.mapError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(req, resp, data)
	}

	return rawJSON(data), nil
}

func (c *HTTPClient) ListFiles(ctx context.Context) ([]models.FileRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.filesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.mapError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.mapError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(req, resp, data)
	}

	var records []models.FileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if records == nil {
		records = []models.FileRecord{}
	}
	return records, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.filesURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.mapError(err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func statusError(req *http.Request, resp *http.Response, body []byte) error {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &StatusError{
		Method: req.Method,
		URL:    req.URL.String(),
		Code:   resp.StatusCode,
		Body:   strings.TrimSpace(string(body)),
	}
}

// rawJSON returns data as-is when it is valid JSON and as a JSON string
// otherwise, so the result is always loggable as JSON.
func rawJSON(data []byte) json.RawMessage {
	if len(data) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(data) {
		return json.RawMessage(data)
	}
	quoted, _ := json.Marshal(string(data))
	return json.RawMessage(quoted)
}
