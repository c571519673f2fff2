package models

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadSelectedFile_DetectsContentType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "picture.bin")
	data := pngBytes(t)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	f, err := LoadSelectedFile(path)
	require.NoError(t, err)

	assert.Equal(t, "picture.bin", f.Name)
	assert.Equal(t, int64(len(data)), f.Size)
	assert.Equal(t, "image/png", f.MIME)
	assert.True(t, f.IsImage())
	assert.False(t, f.IsPDF())
	assert.Equal(t, data, f.Data)
}

func TestLoadSelectedFile_PDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n"), 0o600))

	f, err := LoadSelectedFile(path)
	require.NoError(t, err)
	assert.True(t, f.IsPDF())
	assert.False(t, f.IsImage())
}

func TestLoadSelectedFile_Errors(t *testing.T) {
	_, err := LoadSelectedFile(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	_, err = LoadSelectedFile(t.TempDir())
	require.ErrorIs(t, err, ErrNotRegularFile)
}

func TestDetectMIME_FallsBackToExtension(t *testing.T) {
	// Random bytes sniff as octet-stream, so the extension decides.
	data := []byte{0x00, 0x9f, 0x13, 0x77, 0x00, 0x01}
	assert.Equal(t, "application/pdf", DetectMIME("x.PDF", data))
	assert.Equal(t, "application/octet-stream", DetectMIME("x.unknownext", data))
}

func TestNewSelectedFile_KeepsGivenType(t *testing.T) {
	f := NewSelectedFile("a.jpg", "image/jpeg", []byte("not really a jpeg"))
	assert.Equal(t, "image/jpeg", f.MIME)
	assert.Equal(t, int64(17), f.Size)
	assert.True(t, f.IsImage())
}

func TestBaseType(t *testing.T) {
	assert.Equal(t, "text/plain", BaseType("text/plain; charset=utf-8"))
	assert.Equal(t, "image/jpeg", BaseType(" IMAGE/JPEG "))
	assert.Equal(t, "", BaseType(""))
}

func TestFileRecord_Title(t *testing.T) {
	assert.Equal(t, "File: a.jpg", FileRecord{OriginalName: "a.jpg"}.Title())
}
