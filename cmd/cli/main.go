package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/artefacto/internal/client/cli"
	"github.com/dmitrijs2005/artefacto/internal/client/config"
	"github.com/dmitrijs2005/artefacto/internal/filex"
	"github.com/dmitrijs2005/artefacto/internal/logging"
)

func main() {

	cfg := config.LoadConfig()

	if err := filex.EnsureParentDir(cfg.LogFile); err != nil {
		log.Fatalf("%v", err)
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		log.Fatalf("open log file: %v", err)
	}
	defer logFile.Close()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, logFile)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
