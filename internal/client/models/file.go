// Package models defines the data the widget works with: the file a user has
// picked and the records the server reports for earlier uploads.
package models

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const octetStream = "application/octet-stream"

var ErrNotRegularFile = errors.New("not a regular file")

// SelectedFile is a transient, in-memory reference to a user-chosen file.
// It lives from selection until the upload attempt settles.
type SelectedFile struct {
	Name string
	Size int64
	// MIME is the full media type, possibly with parameters
	// (e.g. "text/plain; charset=utf-8").
	MIME string
	Data []byte
}

// NewSelectedFile builds a SelectedFile from raw bytes. An empty mimeType is
// detected from the content, then from the name's extension.
func NewSelectedFile(name, mimeType string, data []byte) *SelectedFile {
	if mimeType == "" {
		mimeType = DetectMIME(name, data)
	}
	return &SelectedFile{
		Name: name,
		Size: int64(len(data)),
		MIME: mimeType,
		Data: data,
	}
}

// LoadSelectedFile reads the file at path into memory.
func LoadSelectedFile(path string) (*SelectedFile, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return NewSelectedFile(filepath.Base(path), "", data), nil
}

// BaseType returns the lower-cased media type without parameters.
func (f *SelectedFile) BaseType() string {
	return BaseType(f.MIME)
}

// IsImage reports whether the file is any image/* type.
func (f *SelectedFile) IsImage() bool {
	return strings.HasPrefix(f.BaseType(), "image/")
}

// IsPDF reports whether the file is a PDF document.
func (f *SelectedFile) IsPDF() bool {
	return f.BaseType() == "application/pdf"
}

// DetectMIME sniffs data first and falls back to the extension of name when
// sniffing only yields application/octet-stream.
func DetectMIME(name string, data []byte) string {
	detected := mimetype.Detect(data)
	if !detected.Is(octetStream) {
		return detected.String()
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return byExt
	}
	return octetStream
}

// BaseType strips parameters from a media type and lower-cases it.
func BaseType(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
