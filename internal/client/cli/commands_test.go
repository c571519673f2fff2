package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/uploadwidget/internal/client/client"
	"github.com/dmitrijs2005/uploadwidget/internal/client/models"
	"github.com/dmitrijs2005/uploadwidget/internal/client/widget"
)

func TestUpload_NoFileSelected(t *testing.T) {
	silencePrintln(t)
	fc := &fakeClient{}
	a, out := newTestApp(t, fc, "plain")

	err := a.Upload(context.Background())
	require.ErrorIs(t, err, widget.ErrNoFileSelected)
	assert.Contains(t, out.String(), "[error] Please choose a file")

	uploads, lists := fc.counts()
	assert.Zero(t, uploads)
	assert.Zero(t, lists)
}

func TestSelectUploadAndList(t *testing.T) {
	printed := capturePrintln(t)
	fc := &fakeClient{records: []models.FileRecord{{OriginalName: "a.png", FileLink: "http://x/a.png"}}}
	a, out := newTestApp(t, fc, "plain")

	require.NoError(t, a.Select(context.Background(), writeFile(t, "a.png", pngHeader)))
	assert.Contains(t, printed.String(), "Selected file: a.png")

	require.NoError(t, a.Upload(context.Background()))
	assert.Contains(t, out.String(), "[success] File uploaded successfully")
	assert.Contains(t, out.String(), "a.png: 100%")

	uploads, lists := fc.counts()
	assert.Equal(t, 1, uploads)
	assert.Equal(t, 1, lists)

	require.NoError(t, a.Files(context.Background()))
	assert.Contains(t, printed.String(), "1. File: a.png  [View] http://x/a.png")

	require.NoError(t, a.View(context.Background(), "1"))
	assert.Contains(t, printed.String(), "View: http://x/a.png")
	require.Error(t, a.View(context.Background(), "2"))
	require.Error(t, a.View(context.Background(), "x"))
}

func TestFiles_EmptyPlaceholder(t *testing.T) {
	printed := capturePrintln(t)
	a, _ := newTestApp(t, &fakeClient{}, "plain")

	require.NoError(t, a.Files(context.Background()))
	assert.Contains(t, printed.String(), "No files available")
}

func TestUpload_FailureIsNotified(t *testing.T) {
	silencePrintln(t)
	fc := &fakeClient{upErr: client.ErrUnavailable}
	a, out := newTestApp(t, fc, "compress")

	require.NoError(t, a.Select(context.Background(), writeFile(t, "a.png", pngHeader)))
	require.ErrorIs(t, a.Upload(context.Background()), client.ErrUnavailable)

	assert.Contains(t, out.String(), "[error] Error uploading file")
	assert.Nil(t, a.widget.Selected(), "compress preset clears after failure")
	_, lists := fc.counts()
	assert.Zero(t, lists)
}

func TestDrop_RejectedAndDisabled(t *testing.T) {
	printed := capturePrintln(t)

	fc := &fakeClient{}
	a, out := newTestApp(t, fc, "dropzone")
	err := a.Drop(context.Background(), writeFile(t, "notes.zip", []byte("PK\x03\x04rest")))
	require.Error(t, err)
	assert.Contains(t, out.String(), "[warning] Only images and PDFs are allowed!")
	uploads, _ := fc.counts()
	assert.Zero(t, uploads)

	plain, _ := newTestApp(t, fc, "plain")
	require.ErrorIs(t, plain.Drop(context.Background(), writeFile(t, "a.png", pngHeader)), widget.ErrDropzoneDisabled)
	assert.Contains(t, printed.String(), "Drop zone is disabled")
}

func TestDrop_AcceptedUploadsAndPreview(t *testing.T) {
	printed := capturePrintln(t)
	fc := &fakeClient{}
	a, _ := newTestApp(t, fc, "dropzone")

	require.NoError(t, a.Preview(context.Background()))
	assert.Contains(t, printed.String(), "Drag 'n' drop images or PDFs here")

	require.NoError(t, a.Drop(context.Background(), writeFile(t, "a.png", pngHeader)))
	uploads, _ := fc.counts()
	assert.Equal(t, 1, uploads)
	assert.Nil(t, a.widget.Selected())
}

func TestPreview_ShowsTruncatedDataURL(t *testing.T) {
	printed := capturePrintln(t)
	fc := &fakeClient{}
	a, _ := newTestApp(t, fc, "plain")
	a.widget = widget.New(fc, widget.Options{Dropzone: true})
	t.Cleanup(func() { _ = a.widget.Close() })

	require.NoError(t, a.Select(context.Background(), writeFile(t, "a.png", bytes.Repeat(pngHeader, 20))))
	require.NoError(t, a.Preview(context.Background()))
	assert.Contains(t, printed.String(), "Preview (image): data:image/png;base64,")
	assert.Contains(t, printed.String(), "...")
}

func TestPreview_PlainMode(t *testing.T) {
	printed := capturePrintln(t)
	a, _ := newTestApp(t, &fakeClient{}, "plain")
	require.NoError(t, a.Preview(context.Background()))
	assert.Contains(t, printed.String(), "drop zone mode only")
}

func TestStatus(t *testing.T) {
	printed := capturePrintln(t)
	a, _ := newTestApp(t, &fakeClient{}, "compress")

	require.NoError(t, a.Status(context.Background()))
	s := printed.String()
	assert.Contains(t, s, "Choose a file")
	assert.Contains(t, s, "Button: Upload (disabled)")
	assert.Contains(t, s, "Compression: on, Drop zone: off, Auto upload: off, Clear: always")
	assert.Contains(t, s, "Server: unknown")
}

func TestWatch_DropsFilesFromDirectory(t *testing.T) {
	silencePrintln(t)
	fc := &fakeClient{}
	a, _ := newTestApp(t, fc, "dropzone")

	dir := t.TempDir()
	require.NoError(t, a.Watch(context.Background(), dir))
	assert.True(t, a.watching())
	assert.Equal(t, "(watching)", a.getStatus())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), pngHeader, 0o600))
	require.Eventually(t, func() bool {
		uploads, _ := fc.counts()
		return uploads == 1
	}, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, a.Unwatch(context.Background()))
	assert.False(t, a.watching())
	require.NoError(t, a.Unwatch(context.Background()))
}

func TestWatch_RequiresDropzone(t *testing.T) {
	silencePrintln(t)
	a, _ := newTestApp(t, &fakeClient{}, "plain")
	require.Error(t, a.Watch(context.Background(), t.TempDir()))
	assert.False(t, a.watching())
}
