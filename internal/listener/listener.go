// Package listener re-runs a transformation whenever an export dropped into the watch
// directory changes.
package listener

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"pcprep/internal"
	"pcprep/internal/config"
	"pcprep/internal/pipeline"
)

// Store remembers which file contents were already processed. *storage.DB satisfies it.
type Store interface {
	GetMetadata(key string) (*string, error)
	SetMetadata(key, value string) error
}

type Runner interface {
	Run(ctx context.Context, variant internal.Variant, inputPath, outputPath string, opts pipeline.RunOptions) (pipeline.ProcessResult, error)
}

// Textfile writes the current metric values to path. *metrics.Metrics satisfies it.
type Textfile interface {
	WriteTextfile(path string) error
}

type Service struct {
	store   Store
	runner  Runner
	metrics Textfile
	cfg     config.Config
	log     *zap.Logger
}

// NewService builds the watcher. metrics may be nil; it is only flushed when
// cfg.MetricsTextfile is set.
func NewService(store Store, runner Runner, metrics Textfile, cfg config.Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, runner: runner, metrics: metrics, cfg: cfg, log: log}
}

func (s *Service) Run(ctx context.Context) error {
	variant := internal.Variant(strings.ToLower(strings.TrimSpace(s.cfg.WatchVariant)))
	if !variant.Valid() {
		return fmt.Errorf("unsupported watch variant: %s", s.cfg.WatchVariant)
	}
	interval := time.Duration(s.cfg.WatchIntervalSec) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}

	for {
		processed, err := s.RunCycle(ctx, variant)
		if err != nil {
			s.log.Error("watch cycle failed", zap.Error(err))
		} else {
			s.log.Debug("watch cycle done", zap.Int("processed", processed))
		}
		s.flushMetrics()

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

// RunCycle processes every supported file in the watch directory whose content hash
// changed since the last successful run. A failing file is logged and retried next cycle.
func (s *Service) RunCycle(ctx context.Context, variant internal.Variant) (int, error) {
	entries, err := os.ReadDir(s.cfg.WatchDir)
	if err != nil {
		return 0, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := pipeline.KindFromPath(e.Name()); err != nil {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	processed := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return processed, nil
		}
		path := filepath.Join(s.cfg.WatchDir, name)
		hash, err := fileHash(path)
		if err != nil {
			s.log.Warn("hash failed", zap.String("file", name), zap.Error(err))
			continue
		}
		key := "watch.hash." + name
		last, err := s.store.GetMetadata(key)
		if err != nil {
			return processed, err
		}
		if last != nil && *last == hash {
			continue
		}

		out := filepath.Join(s.cfg.OutputDir, outputName(name, variant))
		res, err := s.runner.Run(ctx, variant, path, out, pipeline.RunOptions{})
		if err != nil {
			s.log.Warn("watch run failed", zap.String("file", name), zap.Error(err))
			continue
		}
		if err := s.store.SetMetadata(key, hash); err != nil {
			return processed, err
		}
		processed++
		s.log.Info("watch run complete", zap.String("file", name), zap.String("output", out), zap.Int("accepted", res.Stats.Accepted))
	}
	return processed, nil
}

func (s *Service) flushMetrics() {
	if s.metrics == nil || s.cfg.MetricsTextfile == "" {
		return
	}
	if err := s.metrics.WriteTextfile(s.cfg.MetricsTextfile); err != nil {
		s.log.Warn("metrics textfile write failed", zap.String("path", s.cfg.MetricsTextfile), zap.Error(err))
	}
}

func outputName(input string, variant internal.Variant) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return fmt.Sprintf("%s_%s.csv", sanitize(base), variant)
}

func sanitize(input string) string {
	repl := strings.NewReplacer("<", "_", ">", "_", ":", "_", "/", "_", "\\", "_", "|", "_", "?", "_", "*", "_", " ", "_")
	out := repl.Replace(input)
	if len(out) > 120 {
		out = out[:120]
	}
	return out
}

func fileHash(path string) (string, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(blob)
	return hex.EncodeToString(sum[:]), nil
}
