package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/uploadwidget/internal/client/dropzone"
)

// newWatcherFn is a test seam.
var newWatcherFn = dropzone.NewWatcher

// Watch turns dir into a drop target: files created there are dropped onto
// the widget once written. Any previous watch is stopped first.
func (a *App) Watch(ctx context.Context, dir string) error {
	if !a.widget.Options().Dropzone {
		printlnFn("Drop zone is disabled (start with -d or -v dropzone)")
		return errors.New("drop zone disabled")
	}

	a.stopWatch()

	w, err := newWatcherFn(dir, dropzone.DefaultSettle, a.log)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	wctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	a.watchMu.Lock()
	a.watcher = w
	a.watchCancel = cancel
	a.watchDone = done
	a.watchMu.Unlock()

	go func() {
		defer close(done)
		err := w.Run(wctx, func(ctx context.Context, path string) {
			printlnFn("Dropped:", path)
			_ = a.Drop(ctx, path)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			a.log.Warn(ctx, "drop folder watcher stopped", "error", err)
		}
	}()

	printlnFn("Watching:", w.Dir())
	return nil
}

func (a *App) Unwatch(ctx context.Context) error {
	if !a.watching() {
		printlnFn("Not watching")
		return nil
	}
	a.stopWatch()
	printlnFn("Stopped watching")
	return nil
}

func (a *App) stopWatch() {
	a.watchMu.Lock()
	w, cancel, done := a.watcher, a.watchCancel, a.watchDone
	a.watcher, a.watchCancel, a.watchDone = nil, nil, nil
	a.watchMu.Unlock()

	if w == nil {
		return
	}
	cancel()
	<-done
	_ = w.Close()
}

func (a *App) watching() bool {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()
	return a.watcher != nil
}

func (a *App) watchDir() string {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()
	if a.watcher == nil {
		return ""
	}
	return a.watcher.Dir()
}
