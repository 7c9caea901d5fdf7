package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"pcprep/internal/catalog"
	"pcprep/internal/config"
	"pcprep/internal/listener"
	"pcprep/internal/logging"
	"pcprep/internal/metrics"
	"pcprep/internal/pipeline"
	"pcprep/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	must(err)
	defer func() { _ = log.Sync() }()

	must(cfg.Require("WATCH_DIR", cfg.WatchDir))
	must(cfg.Require("OUTPUT_DIR", cfg.OutputDir))

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	must(os.MkdirAll(cfg.WatchDir, 0o755))

	m := metrics.New()
	runner := pipeline.NewProcessingService(cfg, catalog.Default(cfg.ImageBasePath), log, db, m)
	svc := listener.NewService(db, runner, m, cfg, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info("watching", zap.String("dir", cfg.WatchDir), zap.String("variant", cfg.WatchVariant), zap.Int("interval_sec", cfg.WatchIntervalSec))
	must(svc.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
