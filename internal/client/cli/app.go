package cli

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/uploadwidget/internal/client/client"
	"github.com/dmitrijs2005/uploadwidget/internal/client/compress"
	"github.com/dmitrijs2005/uploadwidget/internal/client/config"
	"github.com/dmitrijs2005/uploadwidget/internal/client/dropzone"
	"github.com/dmitrijs2005/uploadwidget/internal/client/notify"
	"github.com/dmitrijs2005/uploadwidget/internal/client/preview"
	"github.com/dmitrijs2005/uploadwidget/internal/client/widget"
	"github.com/dmitrijs2005/uploadwidget/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pingTimeout bounds each reachability probe.
const pingTimeout = 3 * time.Second

type App struct {
	config *config.Config
	client client.Client
	widget *widget.UploadWidget
	log    logging.Logger
	bar    *progressBar

	modeMu sync.Mutex
	Mode   Mode

	watchMu     sync.Mutex
	watcher     *dropzone.Watcher
	watchCancel context.CancelFunc
	watchDone   chan struct{}
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	hc, err := client.NewHTTPClient(c.BaseURL, c.UploadPath, c.FilesPath, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return newApp(c, hc, log, os.Stdout)
}

func newApp(c *config.Config, cl client.Client, log logging.Logger, out io.Writer) (*App, error) {
	opts, err := c.WidgetOptions()
	if err != nil {
		return nil, err
	}

	a := &App{
		config: c,
		client: cl,
		log:    log.With("module", "cli"),
		bar:    newProgressBar(out),
	}

	wopts := []widget.Option{
		widget.WithLogger(log),
		widget.WithNotifier(notify.NewConsole(out)),
		widget.WithAccept(dropzone.NewAccept(c.Accept...)),
		widget.WithCompressor(compress.NewImagingCompressor(c.CompressQuality, c.CompressMaxWidth, c.CompressMaxHeight)),
		widget.WithProgressTracker(a.bar),
	}
	if opts.Dropzone {
		wopts = append(wopts, widget.WithPreviews(preview.NewManager(c.PreviewDir)))
	}
	a.widget = widget.New(cl, opts, wopts...)

	return a, nil
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		a.log.Info(ctx, "switched mode", "mode", mode)
	}
}

func (a *App) mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.Mode
}

// Run shows the REPL until the user exits, then releases resources.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close stops the drop folder watcher and tears the widget down.
func (a *App) Close() error {
	a.stopWatch()
	return a.widget.Close()
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.client.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
	} else {
		a.setMode(ctx, ModeOnline)
	}
}

// StartOnlineStatusWatcher probes the server right away and then every
// interval until ctx is done. A non-positive interval probes once.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
