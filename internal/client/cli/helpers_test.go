package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/uploadwidget/internal/client/client"
	"github.com/dmitrijs2005/uploadwidget/internal/client/config"
	"github.com/dmitrijs2005/uploadwidget/internal/client/models"
	"github.com/dmitrijs2005/uploadwidget/internal/logging"
)

// ---- output capture ----

type captured struct {
	mu    sync.Mutex
	lines []string
}

func (c *captured) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.lines, "")
}

func capturePrintln(t *testing.T) *captured {
	t.Helper()
	c := &captured{}
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		s := fmt.Sprintln(a...)
		c.mu.Lock()
		c.lines = append(c.lines, s)
		c.mu.Unlock()
		return len(s), nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return c
}

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

func noTerminal(t *testing.T) {
	t.Helper()
	orig := terminalWidthFn
	terminalWidthFn = func() (int, bool) { return 0, false }
	t.Cleanup(func() { terminalWidthFn = orig })
}

// ---- fake transport ----

type fakeClient struct {
	mu      sync.Mutex
	uploads int
	lists   int
	pingErr error
	upErr   error
	records []models.FileRecord
}

func (f *fakeClient) Upload(ctx context.Context, file *models.SelectedFile, onProgress client.ProgressFunc) (json.RawMessage, error) {
	f.mu.Lock()
	f.uploads++
	f.mu.Unlock()
	if f.upErr != nil {
		return nil, f.upErr
	}
	if onProgress != nil {
		onProgress(100)
	}
	return json.RawMessage(`{"id":1}`), nil
}

func (f *fakeClient) ListFiles(ctx context.Context) ([]models.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	return append([]models.FileRecord{}, f.records...), nil
}

func (f *fakeClient) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeClient) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploads, f.lists
}

func newTestApp(t *testing.T, fc *fakeClient, variant string) (*App, *bytes.Buffer) {
	t.Helper()
	noTerminal(t)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	require.NoError(t, cfg.ApplyVariant(variant))
	cfg.PreviewDir = t.TempDir()

	var out bytes.Buffer
	a, err := newApp(cfg, fc, logging.Discard(), &out)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, &out
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
