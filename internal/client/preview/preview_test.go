package preview

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/uploadwidget/internal/client/models"
)

func pdfFile() *models.SelectedFile {
	return models.NewSelectedFile("doc.pdf", "application/pdf", []byte("%PDF-1.4\n%EOF\n"))
}

func TestReplace_ImageBecomesDataURL(t *testing.T) {
	m := NewManager(t.TempDir())
	data := []byte{0x89, 'P', 'N', 'G'}

	p, err := m.Replace(models.NewSelectedFile("a.png", "image/png", data))
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, KindImage, p.Kind())
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(data), p.URL())
	assert.Same(t, p, m.Current())
}

func TestReplace_PDFBecomesFileAndIsReleased(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	p, err := m.Replace(pdfFile())
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, KindPDF, p.Kind())
	assert.True(t, strings.HasPrefix(p.URL(), "file://"))

	path := p.(*filePreview).Path()
	assert.Equal(t, dir, filepath.Dir(path))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pdfFile().Data, got)

	// Selecting another file releases the superseded preview.
	_, err = m.Replace(models.NewSelectedFile("b.png", "image/png", []byte("x")))
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, p.Release())
}

func TestReplace_OtherTypesAndNilClear(t *testing.T) {
	m := NewManager(t.TempDir())

	p, err := m.Replace(models.NewSelectedFile("a.zip", "application/zip", []byte("PK")))
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = m.Replace(pdfFile())
	require.NoError(t, err)
	path := m.Current().(*filePreview).Path()

	p, err = m.Replace(nil)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Nil(t, m.Current())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestClose_ReleasesAndRefusesFurtherPreviews(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	_, err := m.Replace(pdfFile())
	require.NoError(t, err)

	require.NoError(t, m.Close())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = m.Replace(pdfFile())
	require.ErrorIs(t, err, ErrClosed)
	require.NoError(t, m.Close())
}
