package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"pcprep/internal"
	"pcprep/internal/catalog"
	"pcprep/internal/config"
	"pcprep/internal/logging"
	"pcprep/internal/metrics"
	"pcprep/internal/pipeline"
	"pcprep/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	must(err)
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := os.Args[1]
	switch cmd {
	case "convert", "filter", "images", "strip":
		variant := internal.Variant(cmd)
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", cfg.InputPath, "input .csv, .xlsx or .html export")
		output := fs.String("output", "", "output path (.csv or .xlsx)")
		firstLine := fs.Bool("first-line-only", false, "strip: drop only a leading comment line")
		_ = fs.Parse(os.Args[2:])
		must(cfg.Require("INPUT_PATH", *input))

		db, m := openSinks(cfg, log)
		if db != nil {
			defer db.Close()
		}
		svc := newService(cfg, log, db, m)

		out := strings.TrimSpace(*output)
		if out == "" {
			out = svc.OutputFor(variant)
		}
		res, err := svc.Run(ctx, variant, *input, out, pipeline.RunOptions{FirstLineOnly: *firstLine})
		flushMetrics(cfg, m, log)
		must(err)
		fmt.Printf("%s done read=%d accepted=%d rejected=%d output=%s\n",
			variant, res.Stats.Read, res.Stats.Accepted, res.Stats.RejectedTotal(), res.OutputPath)
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", cfg.InputPath, "input .csv, .xlsx or .html export")
		_ = fs.Parse(os.Args[2:])
		must(cfg.Require("INPUT_PATH", *input))

		db, m := openSinks(cfg, log)
		if db != nil {
			defer db.Close()
		}
		svc := newService(cfg, log, db, m)
		results, err := svc.RunAll(ctx, *input)
		flushMetrics(cfg, m, log)
		must(err)
		for _, res := range results {
			fmt.Printf("%s done accepted=%d output=%s\n", res.Variant, res.Stats.Accepted, res.OutputPath)
		}
	case "history":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "number of runs")
		_ = fs.Parse(os.Args[2:])

		must(cfg.Require("DB_PATH", cfg.DBPath))
		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()
		runs, err := db.ListRuns(*limit)
		must(err)
		for _, r := range runs {
			fmt.Printf("%d %s %-7s %-6s read=%d accepted=%d rejected=%d %s -> %s\n",
				r.ID, r.CreatedAt, r.Variant, r.Status, r.Stats.Read, r.Stats.Accepted, r.Stats.RejectedTotal(), r.InputPath, r.OutputPath)
		}
	default:
		usage()
		os.Exit(1)
	}
}

// openSinks opens the run ledger and metrics. A ledger that cannot be opened is
// logged and skipped; the transformation still runs.
func openSinks(cfg config.Config, log *zap.Logger) (*storage.DB, *metrics.Metrics) {
	var db *storage.DB
	if cfg.LedgerEnabled {
		d, err := storage.Open(cfg.DBPath)
		if err != nil {
			log.Warn("ledger disabled", zap.String("path", cfg.DBPath), zap.Error(err))
		} else {
			db = d
		}
	}
	return db, metrics.New()
}

func newService(cfg config.Config, log *zap.Logger, db *storage.DB, m *metrics.Metrics) *pipeline.ProcessingService {
	cat := catalog.Default(cfg.ImageBasePath)
	if db == nil {
		return pipeline.NewProcessingService(cfg, cat, log, nil, m)
	}
	return pipeline.NewProcessingService(cfg, cat, log, db, m)
}

func flushMetrics(cfg config.Config, m *metrics.Metrics, log *zap.Logger) {
	if cfg.MetricsTextfile == "" {
		return
	}
	if err := m.WriteTextfile(cfg.MetricsTextfile); err != nil {
		log.Warn("metrics textfile write failed", zap.String("path", cfg.MetricsTextfile), zap.Error(err))
	}
}

func usage() {
	fmt.Println("usage: pcprep <command>")
	fmt.Println("commands:")
	fmt.Println("  convert --input=components_database.csv [--output=components_for_import.csv]")
	fmt.Println("  filter  --input=... [--output=filtered_components_for_import.csv]")
	fmt.Println("  images  --input=... [--output=components_database_with_images.csv]")
	fmt.Println("  strip   --input=... [--output=components_database_cleaned.csv] [--first-line-only]")
	fmt.Println("  run     --input=...")
	fmt.Println("  history [--limit=20]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
