package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/uploadwidget/internal/buildinfo"
	"github.com/dmitrijs2005/uploadwidget/internal/client/cli"
	"github.com/dmitrijs2005/uploadwidget/internal/client/config"
	"github.com/dmitrijs2005/uploadwidget/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewText(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
