// Package widget implements the upload widget: one selected file, optional
// client-side compression, a multipart upload and the list of files already
// on the server. Rendering is left to callers, which read a View snapshot.
package widget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/uploadwidget/internal/client/client"
	"github.com/dmitrijs2005/uploadwidget/internal/client/compress"
	"github.com/dmitrijs2005/uploadwidget/internal/client/dropzone"
	"github.com/dmitrijs2005/uploadwidget/internal/client/models"
	"github.com/dmitrijs2005/uploadwidget/internal/client/notify"
	"github.com/dmitrijs2005/uploadwidget/internal/client/preview"
	"github.com/dmitrijs2005/uploadwidget/internal/logging"
)

// UploadWidget is safe for concurrent use. Network calls run without the
// state lock held; at most one upload is in flight at a time.
type UploadWidget struct {
	client     client.Client
	compressor compress.Compressor
	notifier   notify.Notifier
	accept     dropzone.Accept
	previews   *preview.Manager
	log        logging.Logger
	opts       Options
	observer   client.ProgressFunc
	tracker    ProgressTracker

	uploading atomic.Bool

	mu       sync.Mutex
	selected *models.SelectedFile
	files    []models.FileRecord
	drag     dropzone.DragState
	closed   bool
}

type Option func(*UploadWidget)

func WithCompressor(c compress.Compressor) Option {
	return func(w *UploadWidget) { w.compressor = c }
}

func WithNotifier(n notify.Notifier) Option {
	return func(w *UploadWidget) { w.notifier = n }
}

func WithAccept(a dropzone.Accept) Option {
	return func(w *UploadWidget) { w.accept = a }
}

func WithPreviews(m *preview.Manager) Option {
	return func(w *UploadWidget) { w.previews = m }
}

func WithLogger(l logging.Logger) Option {
	return func(w *UploadWidget) { w.log = l }
}

// WithProgress registers an observer for upload progress percentages.
func WithProgress(fn client.ProgressFunc) Option {
	return func(w *UploadWidget) { w.observer = fn }
}

// ProgressTracker follows one upload request at a time. Start and Finish
// bracket the request that holds the in-flight slot.
type ProgressTracker interface {
	Start(name string)
	Update(percent int)
	Finish()
}

// WithProgressTracker registers t for every upload request the widget sends.
func WithProgressTracker(t ProgressTracker) Option {
	return func(w *UploadWidget) { w.tracker = t }
}

func New(c client.Client, opts Options, options ...Option) *UploadWidget {
	w := &UploadWidget{
		client: c,
		opts:   opts,
		accept: dropzone.DefaultAccept(),
		files:  []models.FileRecord{},
	}
	for _, o := range options {
		o(w)
	}

	if w.log == nil {
		w.log = logging.Discard()
	}
	w.log = w.log.With("module", "widget")
	if w.notifier == nil {
		w.notifier = notify.NewConsole(io.Discard)
	}
	if w.compressor == nil && opts.Compression {
		w.compressor = compress.NewImagingCompressor(0.6, 0, 0)
	}
	if w.previews == nil && opts.Dropzone {
		w.previews = preview.NewManager("")
	}
	if w.opts.CompressThreshold <= 0 {
		w.opts.CompressThreshold = DefaultCompressThreshold
	}
	return w
}

func (w *UploadWidget) Options() Options { return w.opts }

// Mount performs the initial list fetch. A failed fetch is logged and
// returned; it is never shown to the user.
func (w *UploadWidget) Mount(ctx context.Context) error {
	return w.Refresh(ctx)
}

// Refresh replaces the file list with the server's. On failure the previous
// list stays in place.
func (w *UploadWidget) Refresh(ctx context.Context) error {
	records, err := w.client.ListFiles(ctx)
	if err != nil {
		w.log.Error(ctx, "fetch files", "error", err)
		return err
	}

	w.mu.Lock()
	w.files = records
	w.mu.Unlock()

	w.log.Debug(ctx, "files fetched", "count", len(records))
	return nil
}

// Select makes file the current selection, replacing any previous one. In
// drop-zone mode the accept filter applies and a preview is produced.
func (w *UploadWidget) Select(ctx context.Context, file *models.SelectedFile) error {
	if file == nil {
		return ErrNoFileSelected
	}

	if w.opts.Dropzone {
		if err := w.accept.Check(file); err != nil {
			w.notifier.Notify(notify.LevelWarning, MsgRejected)
			w.log.Warn(ctx, "file rejected", "file", file.Name, "mime", file.MIME)
			return err
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	w.selected = file
	w.replacePreview(ctx, file)
	w.log.Debug(ctx, "file selected", "file", file.Name, "size", file.Size, "mime", file.MIME)
	return nil
}

// SelectPath loads the file at path and selects it.
func (w *UploadWidget) SelectPath(ctx context.Context, path string) error {
	file, err := models.LoadSelectedFile(path)
	if err != nil {
		return err
	}
	return w.Select(ctx, file)
}

// DragEnter updates the drag affordance for items of the given types.
func (w *UploadWidget) DragEnter(types ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.drag.Enter(w.accept, types...)
}

func (w *UploadWidget) DragLeave() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.drag.Leave()
}

// Drop hands a file to the drop zone. Rejected files never reach the upload
// call. With AutoUpload on, an accepted drop is uploaded right away.
func (w *UploadWidget) Drop(ctx context.Context, file *models.SelectedFile) error {
	if !w.opts.Dropzone {
		return ErrDropzoneDisabled
	}
	if file == nil {
		return ErrNoFileSelected
	}

	w.mu.Lock()
	w.drag.Drop()
	w.mu.Unlock()

	if err := w.Select(ctx, file); err != nil {
		return err
	}
	if w.opts.AutoUpload {
		return w.Upload(ctx)
	}
	return nil
}

// DropPath loads the file at path and drops it.
func (w *UploadWidget) DropPath(ctx context.Context, path string) error {
	file, err := models.LoadSelectedFile(path)
	if err != nil {
		return err
	}
	return w.Drop(ctx, file)
}

// Upload sends the selected file. On success the list is fetched once and a
// success notification shown; on failure an error notification is shown and
// the list is left alone. The selection is cleared per the clear policy.
func (w *UploadWidget) Upload(ctx context.Context) error {
	if !w.uploading.CompareAndSwap(false, true) {
		return ErrUploadInProgress
	}
	released := false
	release := func() {
		if !released {
			released = true
			w.uploading.Store(false)
		}
	}
	defer release()

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	file := w.selected
	w.mu.Unlock()

	if file == nil {
		w.notifier.Notify(notify.LevelError, MsgNoFile)
		return ErrNoFileSelected
	}

	toSend := file
	if w.shouldCompress(file) {
		compressed, err := w.compressor.Compress(ctx, file)
		if err != nil {
			w.log.Error(ctx, "compress", "file", file.Name, "error", err)
			w.notifier.Notify(notify.LevelError, MsgCompressFailed)
			w.settle(ctx, file, false)
			return fmt.Errorf("%w: %w", ErrCompression, err)
		}
		w.log.Info(ctx, "file compressed", "file", file.Name, "from", file.Size, "to", compressed.Size)
		toSend = compressed
	}

	if w.tracker != nil {
		w.tracker.Start(toSend.Name)
	}
	resp, err := w.client.Upload(ctx, toSend, w.progress(ctx, toSend.Name))
	if w.tracker != nil {
		w.tracker.Finish()
	}
	// Settled. The list fetch below runs with the button enabled.
	release()
	if err != nil {
		w.log.Error(ctx, "upload", "file", toSend.Name, "error", err)
		w.notifier.Notify(notify.LevelError, MsgUploadFailed)
		w.settle(ctx, file, false)
		return err
	}

	w.log.Info(ctx, "file uploaded", "file", toSend.Name, "size", toSend.Size, "response", string(resp))
	w.settle(ctx, file, true)
	_ = w.Refresh(ctx)
	w.notifier.Notify(notify.LevelSuccess, MsgUploaded)
	return nil
}

func (w *UploadWidget) shouldCompress(file *models.SelectedFile) bool {
	return w.opts.Compression &&
		w.compressor != nil &&
		file.Size > w.opts.CompressThreshold &&
		compress.Eligible(file.MIME)
}

func (w *UploadWidget) progress(ctx context.Context, name string) client.ProgressFunc {
	return func(percent int) {
		w.log.Debug(ctx, "upload progress", "file", name, "percent", percent)
		if w.observer != nil {
			w.observer(percent)
		}
		if w.tracker != nil {
			w.tracker.Update(percent)
		}
	}
}

// settle clears the selection after an attempt on file, unless the policy
// keeps it or the user has already picked another file.
func (w *UploadWidget) settle(ctx context.Context, file *models.SelectedFile, ok bool) {
	if !ok && w.opts.ClearPolicy == ClearOnSuccess {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.selected != file {
		return
	}
	w.selected = nil
	w.replacePreview(ctx, nil)
}

// replacePreview must be called with w.mu held.
func (w *UploadWidget) replacePreview(ctx context.Context, file *models.SelectedFile) {
	if w.previews == nil {
		return
	}
	if _, err := w.previews.Replace(file); err != nil && !errors.Is(err, preview.ErrClosed) {
		w.log.Warn(ctx, "preview", "error", err)
	}
}

// Selected returns the current selection or nil.
func (w *UploadWidget) Selected() *models.SelectedFile {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selected
}

// Files returns a copy of the last fetched list.
func (w *UploadWidget) Files() []models.FileRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]models.FileRecord, len(w.files))
	copy(out, w.files)
	return out
}

func (w *UploadWidget) Uploading() bool {
	return w.uploading.Load()
}

// Close releases previews. The widget refuses further work afterwards.
func (w *UploadWidget) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	w.selected = nil
	if w.previews != nil {
		return w.previews.Close()
	}
	return nil
}
