package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/uploadwidget/internal/common"
	"github.com/dmitrijs2005/uploadwidget/internal/filex"
	"github.com/dmitrijs2005/uploadwidget/internal/server/auth"
)

// RawRoute is the path prefix under which DiskStorage links are served.
const RawRoute = "/raw/"

// DiskStorage keeps objects below a root directory. Its links point at
// RawRoute on this server and carry a signed token bound to the key.
type DiskStorage struct {
	root    string
	baseURL string
	secret  []byte
	ttl     time.Duration
}

// NewDiskStorage creates root if needed. baseURL is the externally visible
// server address, e.g. http://localhost:3001.
func NewDiskStorage(root, baseURL string, secret []byte, ttl time.Duration) (*DiskStorage, error) {
	dir, err := filex.EnsureDir(root)
	if err != nil {
		return nil, err
	}
	return &DiskStorage{
		root:    dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		ttl:     ttl,
	}, nil
}

// Root returns the absolute storage directory.
func (s *DiskStorage) Root() string { return s.root }

func (s *DiskStorage) path(key string) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

func (s *DiskStorage) Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	n, err := filex.WriteAtomic(p, io.LimitReader(body, size))
	if err != nil {
		return err
	}
	if n != size {
		_ = os.Remove(p)
		return fmt.Errorf("short write for %s: %d of %d bytes", key, n, size)
	}
	return nil
}

func (s *DiskStorage) Link(ctx context.Context, key string) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	token, err := auth.GenerateLinkToken(key, s.secret, s.ttl)
	if err != nil {
		return "", err
	}
	u := s.baseURL + RawRoute + (&url.URL{Path: key}).EscapedPath()
	return u + "?" + url.Values{common.LinkTokenParam: {token}}.Encode(), nil
}

// Open verifies that token was issued for key and opens the object.
func (s *DiskStorage) Open(ctx context.Context, key, token string) (io.ReadSeekCloser, error) {
	granted, err := auth.KeyFromLinkToken(token, s.secret)
	if err != nil {
		return nil, err
	}
	if granted != key {
		return nil, common.ErrInvalidToken
	}

	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}
