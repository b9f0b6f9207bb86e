package main

import (
	"fmt"
	"log/slog"

	"github.com/a3tai/taxdoc-binder/internal/assemble"
	"github.com/a3tai/taxdoc-binder/internal/classify"
	"github.com/a3tai/taxdoc-binder/internal/config"
	"github.com/a3tai/taxdoc-binder/internal/extract"
	"github.com/a3tai/taxdoc-binder/internal/ingest"
	"github.com/a3tai/taxdoc-binder/internal/pipeline"
	"github.com/a3tai/taxdoc-binder/internal/reconcile"
	"github.com/a3tai/taxdoc-binder/internal/textcache"
	"github.com/a3tai/taxdoc-binder/internal/titles"
)

// services holds the wired pipeline and what must be closed after use
type services struct {
	pipeline *pipeline.Pipeline
	scanner  *ingest.Scanner
	cache    textcache.Store
}

func (s *services) Close() {
	if s.cache == nil {
		return
	}
	logCacheStats(slog.Default(), s.cache)
	if err := s.cache.Close(); err != nil {
		slog.Warn("failed to close text cache", "error", err)
	}
}

// logCacheStats reports hit counters for caches that keep them
func logCacheStats(logger *slog.Logger, cache textcache.Store) {
	m, ok := cache.(*textcache.Memory)
	if !ok {
		return
	}
	st := m.Stats()
	logger.Info("text cache",
		"hits", st.Hits,
		"misses", st.Misses,
		"hit_rate", fmt.Sprintf("%.1f%%", st.HitRate),
		"size", st.Size,
		"capacity", st.Capacity)
}

// newServices wires extraction backends, the text cache and the writer
func newServices(cfg *config.Config, observer pipeline.Observer) (*services, error) {
	logger := slog.Default()

	cache, err := textcache.Open(cfg.Cache, cfg.CachePath, cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to open text cache: %w", err)
	}

	backends := []extract.Backend{extract.NewTextLayer(), extract.NewLayout()}
	ocr := extract.NewOCR(extract.NewFitzRenderer(cfg.OCRDPI), extract.NewTesseract(cfg.OCRLanguage))
	reconciler := reconcile.New(backends, ocr,
		reconcile.WithThreshold(cfg.OCRThreshold),
		reconcile.WithTimeout(cfg.PageTimeout),
		reconcile.WithCache(cache),
		reconcile.WithLogger(logger),
	)

	scanner := ingest.NewScanner(cfg.MaxFileSize, "", logger)
	p := pipeline.New(reconciler, assemble.NewWriter(logger),
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithScanner(scanner),
		pipeline.WithObserver(observer),
		pipeline.WithLogger(logger),
		pipeline.WithClassifier(classify.New()),
		pipeline.WithResolvers(titles.Default()),
	)
	return &services{pipeline: p, scanner: scanner, cache: cache}, nil
}
