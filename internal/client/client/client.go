package client

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/uploadwidget/internal/client/models"
)

// ProgressFunc receives the upload progress as an integer percentage.
type ProgressFunc func(percent int)

// Client is the transport contract between the widget and the upload backend.
type Client interface {
	// Upload sends one file as a multipart form POST and returns the raw
	// response body, which callers only log.
	Upload(ctx context.Context, file *models.SelectedFile, onProgress ProgressFunc) (json.RawMessage, error)
	// ListFiles fetches the records of all previously uploaded files.
	ListFiles(ctx context.Context) ([]models.FileRecord, error)
	// Ping checks whether the backend is reachable.
	Ping(ctx context.Context) error
}
