package main

import (
	"context"
	"os"
	"time"

	"github.com/dmitrijs2005/uploadwidget/internal/buildinfo"
	"github.com/dmitrijs2005/uploadwidget/internal/logging"
	"github.com/dmitrijs2005/uploadwidget/internal/server"
	"github.com/dmitrijs2005/uploadwidget/internal/server/config"
	gfshutdown "github.com/gelmium/graceful-shutdown"
)

const shutdownTimeout = 30 * time.Second

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSON(os.Stdout, logging.ParseLevel(cfg.LogLevel))

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "init failed", "error", err)
		os.Exit(1)
	}

	if err := app.Start(ctx); err != nil {
		logger.Error(ctx, "start failed", "error", err)
		_ = app.Stop(ctx)
		os.Exit(1)
	}

	wait := gfshutdown.GracefulShutdown(ctx, shutdownTimeout, map[string]gfshutdown.Operation{
		"upload-server": app.Stop,
	})

	exitCode := <-wait
	logger.Info(ctx, "server exited", "code", exitCode)
	os.Exit(exitCode)
}
