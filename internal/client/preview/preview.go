// Package preview produces the inline preview shown for a selected file in
// drop-zone mode. Previews are scoped resources: the Manager releases the
// previous one whenever a new file is selected and all of them on Close.
package preview

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/uploadwidget/internal/client/models"
	"github.com/dmitrijs2005/uploadwidget/internal/filex"
)

var ErrClosed = errors.New("preview manager closed")

type Kind string

const (
	KindImage Kind = "image"
	KindPDF   Kind = "pdf"
)

type Preview interface {
	Kind() Kind
	URL() string
	// Release frees the resource behind URL. It is safe to call twice.
	Release() error
}

type dataURLPreview struct {
	url string
}

func (p *dataURLPreview) Kind() Kind     { return KindImage }
func (p *dataURLPreview) URL() string    { return p.url }
func (p *dataURLPreview) Release() error { return nil }

// filePreview is the object-URL analogue: a temp file exposed by file:// URL.
type filePreview struct {
	mu   sync.Mutex
	path string
	url  string
}

func (p *filePreview) Kind() Kind  { return KindPDF }
func (p *filePreview) URL() string { return p.url }

func (p *filePreview) Release() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.path == "" {
		return nil
	}
	err := os.Remove(p.path)
	p.path = ""
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("release preview: %w", err)
	}
	return nil
}

// Path returns the backing file, or "" once released.
func (p *filePreview) Path() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path
}

// Manager owns at most one live preview.
type Manager struct {
	dir string

	mu      sync.Mutex
	current Preview
	closed  bool
}

// NewManager stores PDF previews under dir, or the system temp dir when dir
// is empty.
func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// Replace releases the current preview and creates one for file. Files that
// are neither images nor PDFs (and a nil file) get no preview, which callers
// render as the placeholder.
func (m *Manager) Replace(file *models.SelectedFile) (Preview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	var relErr error
	if m.current != nil {
		relErr = m.current.Release()
		m.current = nil
	}

	if file == nil {
		return nil, relErr
	}

	var (
		p   Preview
		err error
	)
	switch {
	case file.IsImage():
		p = newDataURL(file)
	case file.IsPDF():
		p, err = m.newFilePreview(file)
	}
	if err != nil {
		return nil, errors.Join(relErr, err)
	}

	m.current = p
	return p, relErr
}

// Current returns the live preview or nil.
func (m *Manager) Current() Preview {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Close releases the live preview; later Replace calls fail with ErrClosed.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	if m.current == nil {
		return nil
	}
	err := m.current.Release()
	m.current = nil
	return err
}

func newDataURL(file *models.SelectedFile) *dataURLPreview {
	return &dataURLPreview{
		url: "data:" + file.BaseType() + ";base64," + base64.StdEncoding.EncodeToString(file.Data),
	}
}

func (m *Manager) newFilePreview(file *models.SelectedFile) (*filePreview, error) {
	dir := m.dir
	if dir == "" {
		dir = os.TempDir()
	}
	dir, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, "preview-"+uuid.NewString()+".pdf")
	if _, err := filex.WriteAtomic(path, bytes.NewReader(file.Data)); err != nil {
		return nil, err
	}

	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return &filePreview{path: path, url: u.String()}, nil
}
