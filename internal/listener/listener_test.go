package listener

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pcprep/internal"
	"pcprep/internal/catalog"
	"pcprep/internal/config"
	"pcprep/internal/metrics"
	"pcprep/internal/pipeline"
	"pcprep/internal/storage"
)

const export = "Category,DETAILS,BRAND,VAT-INC (SRP)\nCPU,Ryzen 5 5600,AMD,\"₱7,450.00\"\n"

func TestRunCycleSkipsUnchangedFiles(t *testing.T) {
	tmp := t.TempDir()
	watchDir := filepath.Join(tmp, "incoming")
	outDir := filepath.Join(tmp, "out")
	if err := os.MkdirAll(watchDir, 0o755); err != nil {
		t.Fatal(err)
	}
	in := filepath.Join(watchDir, "supplier list.csv")
	if err := os.WriteFile(in, []byte(export), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(watchDir, "readme.pdf"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	db, err := storage.Open(filepath.Join(tmp, "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	cfg := config.Config{WatchDir: watchDir, OutputDir: outDir, WatchVariant: "convert"}
	runner := pipeline.NewProcessingService(cfg, catalog.Default("/images/components"), nil, db, nil)
	svc := NewService(db, runner, nil, cfg, nil)

	n, err := svc.RunCycle(context.Background(), internal.VariantConvert)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("first cycle processed %d", n)
	}
	if _, err := os.Stat(filepath.Join(outDir, "supplier_list_convert.csv")); err != nil {
		t.Fatal(err)
	}

	n, err = svc.RunCycle(context.Background(), internal.VariantConvert)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("unchanged file reprocessed: %d", n)
	}

	if err := os.WriteFile(in, []byte(export+"RAM,Fury 16GB,Kingston,₱999.50\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	n, err = svc.RunCycle(context.Background(), internal.VariantConvert)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("changed file not reprocessed: %d", n)
	}
}

func TestRunRejectsBadVariant(t *testing.T) {
	svc := NewService(nil, nil, nil, config.Config{WatchVariant: "bogus"}, nil)
	if err := svc.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	cfg := config.Config{WatchDir: tmp, OutputDir: tmp, WatchVariant: "filter", WatchIntervalSec: 1}
	runner := pipeline.NewProcessingService(cfg, catalog.Default(""), nil, db, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewService(db, runner, nil, cfg, nil).Run(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestRunWritesMetricsEachCycle(t *testing.T) {
	tmp := t.TempDir()
	watchDir := filepath.Join(tmp, "incoming")
	if err := os.MkdirAll(watchDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(watchDir, "list.csv"), []byte(export), 0o644); err != nil {
		t.Fatal(err)
	}
	db, err := storage.Open(filepath.Join(tmp, "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	prom := filepath.Join(tmp, "pcprep.prom")
	cfg := config.Config{WatchDir: watchDir, OutputDir: tmp, WatchVariant: "convert", WatchIntervalSec: 1, MetricsTextfile: prom}
	m := metrics.New()
	runner := pipeline.NewProcessingService(cfg, catalog.Default(""), nil, db, m)

	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()
	if err := NewService(db, runner, m, cfg, nil).Run(ctx); err != nil {
		t.Fatal(err)
	}

	blob, err := os.ReadFile(prom)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(blob), `pcprep_rows_accepted_total{variant="convert"} 1`) {
		t.Fatalf("textfile=%s", blob)
	}
}
