// Package scheduler drives the periodic fetch→normalize→store refresh cycle.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/brlaws/leiscache/internal/law"
	"github.com/brlaws/leiscache/internal/metrics"
)

// Config controls Scheduler behavior.
type Config struct {
	// Interval is the time between cycle starts.
	Interval time.Duration
	// EntryDelay bounds the request rate against the upstream host by
	// pausing between catalog entries.
	EntryDelay time.Duration
}

// Scheduler owns the write path: it walks the catalog sequentially, runs
// each entry through fetch→normalize→upsert, and never lets two cycles
// overlap. Failures on one entry are logged and skipped so the rest of the
// cycle proceeds; the previous cached content for that entry stays in place.
type Scheduler struct {
	catalog    []law.CatalogEntry
	fetcher    law.Fetcher
	normalizer law.Normalizer
	store      law.Store
	cfg        Config
	logger     *zap.Logger
	pacer      *rate.Limiter
	running    sync.Mutex
}

// New constructs a Scheduler.
func New(
	catalog []law.CatalogEntry,
	fetcher law.Fetcher,
	normalizer law.Normalizer,
	store law.Store,
	cfg Config,
	logger *zap.Logger,
) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	var pacer *rate.Limiter
	if cfg.EntryDelay > 0 {
		pacer = rate.NewLimiter(rate.Every(cfg.EntryDelay), 1)
	}
	metrics.Init()
	return &Scheduler{
		catalog:    catalog,
		fetcher:    fetcher,
		normalizer: normalizer,
		store:      store,
		cfg:        cfg,
		logger:     logger,
		pacer:      pacer,
	}
}

// Run blocks, executing one cycle immediately and then one per interval
// until the context finishes. The ticker only re-arms after the previous
// cycle returned, so intervals never queue up behind a slow cycle.
func (s *Scheduler) Run(ctx context.Context) {
	s.RunCycle(ctx)
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunCycle(ctx)
		}
	}
}

// RunCycle performs one full pass over the catalog. If a cycle is already
// in progress the trigger is a no-op and RunCycle reports false.
func (s *Scheduler) RunCycle(ctx context.Context) bool {
	if !s.running.TryLock() {
		s.logger.Warn("refresh cycle already running, skipping trigger")
		metrics.ObserveRefreshSkipped()
		return false
	}
	defer s.running.Unlock()

	start := time.Now()
	s.logger.Info("refresh cycle started", zap.Int("entries", len(s.catalog)))

	for _, entry := range s.catalog {
		if ctx.Err() != nil {
			s.logger.Info("refresh cycle interrupted", zap.Error(ctx.Err()))
			return false
		}
		if s.pacer != nil {
			if err := s.pacer.Wait(ctx); err != nil {
				return false
			}
		}
		s.refreshEntry(ctx, entry)
	}

	metrics.ObserveRefreshCycle(time.Since(start))
	s.logger.Info("refresh cycle finished", zap.Duration("took", time.Since(start)))
	return true
}

func (s *Scheduler) refreshEntry(ctx context.Context, entry law.CatalogEntry) {
	text, err := s.fetcher.Fetch(ctx, entry.URL)
	if err != nil {
		// Stale content for this law stays served until the next cycle.
		s.logger.Warn("fetch failed, keeping cached content",
			zap.String("law", entry.LawType),
			zap.String("url", entry.URL),
			zap.Error(err),
		)
		metrics.ObserveRefresh(entry.LawType, "fetch_error")
		return
	}

	cleaned := s.normalizer.Normalize(text)

	if err := s.store.Upsert(ctx, entry.LawType, cleaned); err != nil {
		s.logger.Error("store upsert failed",
			zap.String("law", entry.LawType),
			zap.Error(err),
		)
		metrics.ObserveRefresh(entry.LawType, "store_error")
		return
	}

	metrics.ObserveRefresh(entry.LawType, "ok")
	s.logger.Info("law refreshed",
		zap.String("law", entry.LawType),
		zap.Int("bytes", len(cleaned)),
	)
}
