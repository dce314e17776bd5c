package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/habitkeeper/internal/client/cli"
	"github.com/dmitrijs2005/habitkeeper/internal/client/config"
	"github.com/dmitrijs2005/habitkeeper/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	logger, closer, err := logging.NewFileLogger(cfg.LogFile, cfg.Debug)
	if err != nil {
		logging.NewStderr().Error(ctx, "init logger failed", "path", cfg.LogFile, "error", err)
		stop()
		os.Exit(1)
	}
	defer closer.Close()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		logging.NewStderr().Error(ctx, "startup failed", "error", err)
		return
	}
	defer app.Close()

	app.Run(ctx)
}
