// Package storage puts uploaded payloads into a backend and hands out links
// to read them back.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidKey reports a storage key that would escape the storage root.
var ErrInvalidKey = errors.New("invalid storage key")

// Storage is a write-once object store.
type Storage interface {
	// Put stores exactly size bytes from body under key.
	Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error
	// Link returns a time-limited URL that serves the object under key.
	Link(ctx context.Context, key string) (string, error)
}

// Downloader is implemented by backends whose links point back at this
// server rather than at an external service.
type Downloader interface {
	Open(ctx context.Context, key, token string) (io.ReadSeekCloser, error)
}

const keyPrefix = "uploads"

// NewKey returns a fresh key of the form uploads/<yyyy>/<m>/<d>/<uuid><ext>.
// The extension is taken from originalName, lowercased, and dropped if it
// contains anything but letters and digits.
func NewKey(now time.Time, originalName string) string {
	return fmt.Sprintf("%s/%d/%d/%d/%s%s", keyPrefix, now.Year(), now.Month(), now.Day(), uuid.New(), safeExt(originalName))
}

func safeExt(name string) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(name, "\\", "/")))
	if len(ext) < 2 || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

// validKey accepts only clean, relative, slash-separated keys.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	if path.Clean(key) != key {
		return false
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." || seg == "." {
			return false
		}
	}
	return true
}
