package dropzone

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dmitrijs2005/uploadwidget/internal/filex"
	"github.com/dmitrijs2005/uploadwidget/internal/logging"
)

// DefaultSettle is how long a file must stay unchanged before it is dropped.
const DefaultSettle = 300 * time.Millisecond

// Watcher treats a directory as a drop target: every regular file created in
// it is handed to the drop callback once writes to it have settled. Hidden
// files (dot-prefixed) and partial downloads are ignored.
type Watcher struct {
	dir    string
	settle time.Duration
	log    logging.Logger
	fw     *fsnotify.Watcher

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewWatcher(dir string, settle time.Duration, log logging.Logger) (*Watcher, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	if settle <= 0 {
		settle = DefaultSettle
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(abs); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", abs, err)
	}

	return &Watcher{
		dir:    abs,
		settle: settle,
		log:    log.With("module", "dropzone", "dir", abs),
		fw:     fw,
		timers: map[string]*time.Timer{},
	}, nil
}

// Dir returns the absolute path of the watched directory.
func (w *Watcher) Dir() string { return w.dir }

// Run dispatches settled files to onDrop until ctx is done or the watcher is
// closed. onDrop is never called concurrently with itself.
func (w *Watcher) Run(ctx context.Context, onDrop func(ctx context.Context, path string)) error {
	ready := make(chan string, 16)
	done := make(chan struct{})
	defer close(done)
	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if ignored(ev.Name) {
				continue
			}
			w.schedule(ev.Name, ready, done)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn(ctx, "watch error", "error", err)

		case path := <-ready:
			fi, err := os.Stat(path)
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
			w.log.Debug(ctx, "file dropped", "path", path, "size", fi.Size())
			onDrop(ctx, path)
		}
	}
}

func (w *Watcher) schedule(path string, ready chan<- string, done <-chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.timers[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case ready <- path:
		case <-done:
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for p, t := range w.timers {
		t.Stop()
		delete(w.timers, p)
	}
}

func (w *Watcher) Close() error {
	return w.fw.Close()
}

func ignored(path string) bool {
	name := filepath.Base(path)
	return strings.HasPrefix(name, ".") ||
		strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".part") ||
		strings.HasSuffix(name, ".crdownload")
}
