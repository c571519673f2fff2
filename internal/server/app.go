// Package server wires the upload server together: metadata database,
// storage backend, file service and the HTTP API.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/uploadwidget/internal/logging"
	"github.com/dmitrijs2005/uploadwidget/internal/server/config"
	"github.com/dmitrijs2005/uploadwidget/internal/server/httpapi"
	"github.com/dmitrijs2005/uploadwidget/internal/server/metrics"
	"github.com/dmitrijs2005/uploadwidget/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/uploadwidget/internal/server/services"
	"github.com/dmitrijs2005/uploadwidget/internal/server/storage"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	httpSrv  *http.Server
	listener net.Listener
	done     chan struct{}
	stopOnce sync.Once
	stopErr  error
}

// NewApp opens and migrates the database and builds the storage backend.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	rm, err := repomanager.NewRepositoryManager(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	db, err := repomanager.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	st, err := newStorage(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	fs := services.NewFileService(db, rm, st, c.MaxUploadSize, logger)
	api := httpapi.NewServer(fs, metrics.New(), logger, c.MaxUploadSize)

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		httpSrv: httpapi.NewHTTPServer(c.EndpointAddr, api.Handler()),
		done:    make(chan struct{}),
	}, nil
}

func newStorage(ctx context.Context, c *config.Config) (storage.Storage, error) {
	switch c.StorageBackend {
	case config.BackendS3:
		return storage.NewS3Storage(ctx, storage.S3Options{
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			LinkTTL:      c.LinkTTL,
		})
	case config.BackendDisk:
		return storage.NewDiskStorage(c.StorageDir, c.PublicBaseURL, []byte(c.LinkSecret), c.LinkTTL)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", c.StorageBackend)
	}
}

// Start binds the listener and serves in the background. Bind errors are
// returned directly.
func (app *App) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", app.config.EndpointAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", app.config.EndpointAddr, err)
	}
	app.listener = ln

	app.logger.Info(ctx, "Starting server...", "addr", ln.Addr().String(), "storage", app.config.StorageBackend, "db", app.config.DatabaseDriver)

	go func() {
		defer close(app.done)
		if err := app.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "HTTP server error", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or "" before Start.
func (app *App) Addr() string {
	if app.listener == nil {
		return ""
	}
	return app.listener.Addr().String()
}

// Done is closed once the HTTP server has stopped serving.
func (app *App) Done() <-chan struct{} {
	return app.done
}

// Stop drains in-flight requests until ctx expires, then closes the
// database. Safe to call more than once.
func (app *App) Stop(ctx context.Context) error {
	app.stopOnce.Do(func() {
		app.logger.Info(ctx, "Shutting down server")
		var errs []error
		if err := app.httpSrv.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		if err := app.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("db close: %w", err))
		}
		app.stopErr = errors.Join(errs...)
	})
	return app.stopErr
}
