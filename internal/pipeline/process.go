package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pcprep/internal"
	"pcprep/internal/catalog"
	"pcprep/internal/config"
)

// Ledger records finished runs. *storage.DB satisfies it.
type Ledger interface {
	InsertRun(run internal.RunRecord) error
	SetMetadata(key, value string) error
}

// Recorder receives per-run counters. *metrics.Metrics satisfies it.
type Recorder interface {
	Observe(variant string, stats internal.RunStats, elapsed time.Duration)
}

type ProcessingService struct {
	cfg     config.Config
	cat     *catalog.Catalog
	log     *zap.Logger
	ledger  Ledger
	metrics Recorder
}

// NewProcessingService wires the pipeline. ledger and metrics may be nil.
func NewProcessingService(cfg config.Config, cat *catalog.Catalog, log *zap.Logger, ledger Ledger, metrics Recorder) *ProcessingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProcessingService{cfg: cfg, cat: cat, log: log, ledger: ledger, metrics: metrics}
}

type ProcessResult struct {
	TraceID    string
	Variant    internal.Variant
	InputPath  string
	InputHash  string
	OutputPath string
	Stats      internal.RunStats
	Elapsed    time.Duration
}

type RunOptions struct {
	// FirstLineOnly makes the strip variant drop only a leading comment line.
	FirstLineOnly bool
}

// Run transforms inputPath into outputPath. The output file is only created once the
// header has been located, so a structural failure leaves no output behind.
func (s *ProcessingService) Run(ctx context.Context, variant internal.Variant, inputPath, outputPath string, opts RunOptions) (ProcessResult, error) {
	start := time.Now()
	res := ProcessResult{
		TraceID:    uuid.NewString(),
		Variant:    variant,
		InputPath:  inputPath,
		OutputPath: outputPath,
		Stats:      internal.NewRunStats(),
	}
	log := s.log.With(zap.String("trace_id", res.TraceID), zap.String("variant", string(variant)))

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if !variant.Valid() {
		return res, fmt.Errorf("unsupported variant: %s", variant)
	}

	content, err := os.ReadFile(inputPath)
	if err != nil {
		return res, fmt.Errorf("read input: %w", err)
	}
	sum := sha256.Sum256(content)
	res.InputHash = hex.EncodeToString(sum[:])

	readStart := time.Now()
	stats, err := s.transform(variant, inputPath, content, outputPath, opts)
	res.Stats = stats
	res.Elapsed = time.Since(start)
	timings := map[string]float64{
		"transformMs": float64(time.Since(readStart).Milliseconds()),
		"totalMs":     float64(res.Elapsed.Milliseconds()),
	}

	if err != nil {
		log.Error("run failed", zap.String("input", inputPath), zap.Error(err))
		s.record(log, res, "failed", timings)
		return res, err
	}

	log.Info("run complete",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.Int("read", stats.Read),
		zap.Int("accepted", stats.Accepted),
		zap.Int("rejected", stats.RejectedTotal()),
	)
	for reason, n := range stats.Rejected {
		log.Debug("rows rejected", zap.String("reason", string(reason)), zap.Int("count", n))
	}
	s.record(log, res, "ok", timings)
	return res, nil
}

func (s *ProcessingService) transform(variant internal.Variant, inputPath string, content []byte, outputPath string, opts RunOptions) (internal.RunStats, error) {
	stats := internal.NewRunStats()
	kind, err := KindFromPath(inputPath)
	if err != nil {
		return stats, err
	}

	if variant == internal.VariantStrip && kind == KindCSV {
		lines, err := ReadLines(content, s.cfg.InputEncoding)
		if err != nil {
			return stats, err
		}
		kept, err := StripLines(lines, s.cat.Markers, opts.FirstLineOnly)
		if err != nil {
			return stats, fmt.Errorf("locate header in %s: %w", inputPath, err)
		}
		stats.Read = dataLines(kept)
		stats.Accepted = stats.Read
		return stats, WriteLines(kept, outputPath)
	}

	rows, err := ReadTable(kind, content, ReadOptions{Encoding: s.cfg.InputEncoding, Sheet: s.cfg.InputSheet, Markers: s.cat.Markers})
	if err != nil {
		return stats, err
	}

	topts := Options{
		Catalog: s.cat,
		Normalizer: NormalizerOptions{
			Enrich:        s.cfg.EnrichAttributes,
			StockQuantity: s.cfg.StockQuantity,
			MinStockLevel: s.cfg.MinStockLevel,
		},
	}

	var table Table
	switch variant {
	case internal.VariantConvert:
		table, stats, err = ConvertTable(rows, topts)
	case internal.VariantFilter:
		table, stats, err = FilterTable(rows, topts)
	case internal.VariantImages:
		table, stats, err = ImagesTable(rows, topts)
	case internal.VariantStrip:
		table, err = StripTable(rows, topts)
		stats.Read = len(table.Rows)
		stats.Accepted = len(table.Rows)
	}
	if err != nil {
		return stats, fmt.Errorf("locate header in %s: %w", inputPath, err)
	}
	return stats, WriteTable(table, outputPath)
}

// dataLines counts the kept lines below the header line.
func dataLines(kept []string) int {
	if len(kept) == 0 {
		return 0
	}
	return len(kept) - 1
}

// record is best effort: a ledger or metrics failure never fails the run itself.
func (s *ProcessingService) record(log *zap.Logger, res ProcessResult, status string, timings map[string]float64) {
	if s.metrics != nil {
		s.metrics.Observe(string(res.Variant), res.Stats, res.Elapsed)
	}
	if s.ledger == nil {
		return
	}
	run := internal.RunRecord{
		TraceID:    res.TraceID,
		Variant:    string(res.Variant),
		InputPath:  res.InputPath,
		InputHash:  res.InputHash,
		OutputPath: res.OutputPath,
		Status:     status,
		Stats:      res.Stats,
		Timings:    timings,
	}
	if err := s.ledger.InsertRun(run); err != nil {
		log.Warn("ledger insert failed", zap.Error(err))
		return
	}
	if status == "ok" {
		if err := s.ledger.SetMetadata("last_run."+string(res.Variant), time.Now().UTC().Format(time.RFC3339)); err != nil {
			log.Warn("ledger metadata update failed", zap.Error(err))
		}
	}
}

// RunAll runs strip, images, filter and convert over one input, each into its configured output.
func (s *ProcessingService) RunAll(ctx context.Context, inputPath string) ([]ProcessResult, error) {
	steps := []struct {
		variant internal.Variant
		output  string
	}{
		{internal.VariantStrip, s.cfg.StripOutput},
		{internal.VariantImages, s.cfg.ImagesOutput},
		{internal.VariantFilter, s.cfg.FilterOutput},
		{internal.VariantConvert, s.cfg.ConvertOutput},
	}

	out := make([]ProcessResult, 0, len(steps))
	for _, step := range steps {
		res, err := s.Run(ctx, step.variant, inputPath, s.cfg.OutputPath(step.output), RunOptions{})
		if err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}

// OutputFor returns the configured output path for variant.
func (s *ProcessingService) OutputFor(variant internal.Variant) string {
	switch variant {
	case internal.VariantConvert:
		return s.cfg.OutputPath(s.cfg.ConvertOutput)
	case internal.VariantFilter:
		return s.cfg.OutputPath(s.cfg.FilterOutput)
	case internal.VariantImages:
		return s.cfg.OutputPath(s.cfg.ImagesOutput)
	case internal.VariantStrip:
		return s.cfg.OutputPath(s.cfg.StripOutput)
	}
	return ""
}
