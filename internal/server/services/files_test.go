package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/uploadwidget/internal/common"
	"github.com/dmitrijs2005/uploadwidget/internal/logging"
	"github.com/dmitrijs2005/uploadwidget/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/uploadwidget/internal/server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func newDB(t *testing.T) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()
	ctx := context.Background()

	db, err := repomanager.Open(ctx, "sqlite", filepath.Join(t.TempDir(), "meta.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm, err := repomanager.NewRepositoryManager("sqlite")
	require.NoError(t, err)
	require.NoError(t, rm.RunMigrations(ctx, db))
	return db, rm
}

func newDiskService(t *testing.T, maxSize int64) (*FileService, *storage.DiskStorage) {
	t.Helper()
	db, rm := newDB(t)
	st, err := storage.NewDiskStorage(t.TempDir(), "http://localhost:3001", []byte("s"), time.Hour)
	require.NoError(t, err)
	return NewFileService(db, rm, st, maxSize, logging.Discard()), st
}

type failingStorage struct {
	putErr  error
	linkErr error
}

func (f *failingStorage) Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error {
	return f.putErr
}

func (f *failingStorage) Link(ctx context.Context, key string) (string, error) {
	if f.linkErr != nil {
		return "", f.linkErr
	}
	return "https://cdn.example/" + key, nil
}

func TestUpload_StoresAndDescribes(t *testing.T) {
	svc, _ := newDiskService(t, 1<<20)
	ctx := context.Background()
	data := []byte("%PDF-1.4 hello")

	res, err := svc.Upload(ctx, `C:\Users\me\report.pdf`, "", bytes.NewReader(data))
	require.NoError(t, err)

	sum := blake2b.Sum256(data)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "report.pdf", res.OriginalName)
	assert.Equal(t, "application/pdf", res.MimeType)
	assert.Equal(t, int64(len(data)), res.Size)
	assert.Equal(t, hex.EncodeToString(sum[:]), res.Digest)
	assert.True(t, strings.HasPrefix(res.FileLink, "http://localhost:3001/raw/uploads/"), res.FileLink)
	assert.True(t, strings.HasSuffix(strings.SplitN(res.FileLink, "?", 2)[0], ".pdf"))
}

func TestUpload_DeclaredTypeWins(t *testing.T) {
	svc, _ := newDiskService(t, 1<<20)

	res, err := svc.Upload(context.Background(), "a.png", "image/png", bytes.NewReader([]byte("not really png")))
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.MimeType)

	res, err = svc.Upload(context.Background(), "b", "application/octet-stream", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.MimeType)
}

func TestUpload_Limits(t *testing.T) {
	svc, _ := newDiskService(t, 8)

	_, err := svc.Upload(context.Background(), "big.bin", "", bytes.NewReader(make([]byte, 9)))
	assert.ErrorIs(t, err, common.ErrTooLarge)

	_, err = svc.Upload(context.Background(), "empty.bin", "", bytes.NewReader(nil))
	assert.ErrorIs(t, err, common.ErrEmptyFile)

	res, err := svc.Upload(context.Background(), "exact.bin", "", bytes.NewReader(make([]byte, 8)))
	require.NoError(t, err)
	assert.Equal(t, int64(8), res.Size)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpload_StorageFailureLeavesNoRow(t *testing.T) {
	db, rm := newDB(t)
	boom := errors.New("bucket gone")
	svc := NewFileService(db, rm, &failingStorage{putErr: boom}, 1<<20, logging.Discard())

	_, err := svc.Upload(context.Background(), "a.txt", "text/plain", bytes.NewReader([]byte("hi")))
	assert.ErrorIs(t, err, boom)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestList_UploadOrderWithLinks(t *testing.T) {
	db, rm := newDB(t)
	svc := NewFileService(db, rm, &failingStorage{}, 1<<20, logging.Discard())

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	step := 0
	svc.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	}

	for _, name := range []string{"z.jpg", "a.jpg", "m.pdf"} {
		_, err := svc.Upload(context.Background(), name, "", bytes.NewReader([]byte(name)))
		require.NoError(t, err)
	}

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "z.jpg", list[0].OriginalName)
	assert.Equal(t, "a.jpg", list[1].OriginalName)
	assert.Equal(t, "m.pdf", list[2].OriginalName)
	assert.True(t, strings.HasPrefix(list[0].FileLink, "https://cdn.example/uploads/2026/1/1/"))
	assert.Equal(t, base.Add(time.Second), list[0].UploadedAt)
}

func TestList_LinkError(t *testing.T) {
	db, rm := newDB(t)
	st := &failingStorage{}
	svc := NewFileService(db, rm, st, 1<<20, logging.Discard())

	_, err := svc.Upload(context.Background(), "a.txt", "", bytes.NewReader([]byte("a")))
	require.NoError(t, err)

	st.linkErr = errors.New("presign broke")
	_, err = svc.List(context.Background())
	assert.ErrorContains(t, err, "presign broke")
}

func TestOpen(t *testing.T) {
	svc, _ := newDiskService(t, 1<<20)
	ctx := context.Background()
	data := []byte("payload")

	res, err := svc.Upload(ctx, "a.txt", "text/plain", bytes.NewReader(data))
	require.NoError(t, err)

	u, err := url.Parse(res.FileLink)
	require.NoError(t, err)
	key := strings.TrimPrefix(u.Path, storage.RawRoute)
	token := u.Query().Get(common.LinkTokenParam)

	file, rc, err := svc.Open(ctx, key, token)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, "a.txt", file.OriginalName)
	assert.Equal(t, "text/plain", file.ContentType)

	_, _, err = svc.Open(ctx, key, "bad")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestOpen_NonDownloaderBackend(t *testing.T) {
	db, rm := newDB(t)
	svc := NewFileService(db, rm, &failingStorage{}, 1<<20, logging.Discard())

	_, _, err := svc.Open(context.Background(), "uploads/x", "t")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPing(t *testing.T) {
	svc, _ := newDiskService(t, 10)
	assert.NoError(t, svc.Ping(context.Background()))
}

func TestCleanName(t *testing.T) {
	tests := map[string]string{
		"a.jpg":              "a.jpg",
		"../../etc/passwd":   "passwd",
		`C:\tmp\photo.png`:   "photo.png",
		"":                   "file",
		"..":                 "file",
		"/":                  "file",
		"  spaced name.pdf ": "spaced name.pdf",
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanName(in), in)
	}
}
