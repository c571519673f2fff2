// Package services implements the upload server's use cases on top of the
// metadata repository and the storage backend.
package services

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/uploadwidget/internal/common"
	"github.com/dmitrijs2005/uploadwidget/internal/dbx"
	"github.com/dmitrijs2005/uploadwidget/internal/logging"
	"github.com/dmitrijs2005/uploadwidget/internal/server/models"
	"github.com/dmitrijs2005/uploadwidget/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/uploadwidget/internal/server/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

const octetStream = "application/octet-stream"

// FileResponse is the JSON shape of one stored file, both as the upload
// response and as a list element.
type FileResponse struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"originalname"`
	MimeType     string    `json:"mimetype"`
	Size         int64     `json:"size"`
	Digest       string    `json:"digest"`
	FileLink     string    `json:"fileLink"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	storage     storage.Storage
	maxSize     int64
	logger      logging.Logger
	now         func() time.Time
}

func NewFileService(db *sql.DB, rm repomanager.RepositoryManager, st storage.Storage, maxSize int64, logger logging.Logger) *FileService {
	return &FileService{
		db:          db,
		repomanager: rm,
		storage:     st,
		maxSize:     maxSize,
		logger:      logger.With("module", "files"),
		now:         time.Now,
	}
}

// Upload stores body and records its metadata. The row is inserted in the
// same transaction that waits for the storage write, so a failed write
// leaves no row behind.
//
// Errors: common.ErrEmptyFile, common.ErrTooLarge, or a wrapped storage or
// database error.
func (s *FileService) Upload(ctx context.Context, originalName, declaredType string, body io.ReadSeeker) (*FileResponse, error) {
	name := cleanName(originalName)

	size, digest, err := s.digest(body)
	if err != nil {
		return nil, err
	}

	contentType, err := sniff(body, declaredType)
	if err != nil {
		return nil, err
	}

	now := s.now()
	file := &models.File{
		ID:           uuid.NewString(),
		OriginalName: name,
		StorageKey:   storage.NewKey(now, name),
		ContentType:  contentType,
		Size:         size,
		Digest:       digest,
		CreatedAt:    now,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Files(tx).Insert(ctx, file); err != nil {
			return err
		}
		if _, err := body.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("rewind upload: %w", err)
		}
		return s.storage.Put(ctx, file.StorageKey, body, file.Size, file.ContentType)
	})
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", name, err)
	}

	s.logger.Info(ctx, "file stored", "id", file.ID, "name", file.OriginalName, "key", file.StorageKey, "size", file.Size)

	return s.response(ctx, file)
}

// List returns every stored file in upload order with fresh links.
func (s *FileService) List(ctx context.Context) ([]FileResponse, error) {
	files, err := s.repomanager.Files(s.db).List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]FileResponse, 0, len(files))
	for _, f := range files {
		r, err := s.response(ctx, f)
		if err != nil {
			return nil, err
		}
		result = append(result, *r)
	}
	return result, nil
}

// Open serves a disk-backed download after checking the link token.
// Backends that link elsewhere report common.ErrNotFound.
func (s *FileService) Open(ctx context.Context, key, token string) (*models.File, io.ReadSeekCloser, error) {
	dl, ok := s.storage.(storage.Downloader)
	if !ok {
		return nil, nil, common.ErrNotFound
	}

	rc, err := dl.Open(ctx, key, token)
	if err != nil {
		return nil, nil, err
	}

	file, err := s.repomanager.Files(s.db).GetByKey(ctx, key)
	if err != nil {
		_ = rc.Close()
		return nil, nil, err
	}
	return file, rc, nil
}

// Ping checks the metadata store.
func (s *FileService) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *FileService) response(ctx context.Context, f *models.File) (*FileResponse, error) {
	link, err := s.storage.Link(ctx, f.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("link %s: %w", f.StorageKey, err)
	}
	return &FileResponse{
		ID:           f.ID,
		OriginalName: f.OriginalName,
		MimeType:     f.ContentType,
		Size:         f.Size,
		Digest:       f.Digest,
		FileLink:     link,
		UploadedAt:   f.CreatedAt.UTC(),
	}, nil
}

// digest hashes body from its current position, reading at most maxSize+1
// bytes.
func (s *FileService) digest(body io.Reader) (int64, string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return 0, "", err
	}

	n, err := io.Copy(h, io.LimitReader(body, s.maxSize+1))
	if err != nil {
		return 0, "", fmt.Errorf("read upload: %w", err)
	}
	if n > s.maxSize {
		return 0, "", common.ErrTooLarge
	}
	if n == 0 {
		return 0, "", common.ErrEmptyFile
	}
	return n, hex.EncodeToString(h.Sum(nil)), nil
}

// sniff prefers the declared part type unless it is missing or generic.
func sniff(body io.ReadSeeker, declared string) (string, error) {
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != octetStream {
		return declared, nil
	}
	mt, err := mimetype.DetectReader(body)
	if err != nil {
		return "", fmt.Errorf("detect type: %w", err)
	}
	return mt.String(), nil
}

// cleanName keeps only the last path element of a client-supplied name.
func cleanName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return "file"
	}
	return name
}
