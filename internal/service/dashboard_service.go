package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/cavy-ledger/internal/dto"
)

type metricsCollector interface {
	Collect(ctx context.Context) (LocationMetrics, []string)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService serves the aggregated dashboard, caching complete results.
type DashboardService struct {
	aggregator metricsCollector
	cache      *CacheService
	logger     *zap.Logger
	now        func() time.Time
	cfg        DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(aggregator metricsCollector, cache *CacheService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{aggregator: aggregator, cache: cache, logger: logger, now: time.Now, cfg: cfg}
}

// Summary returns the dashboard and whether it came from cache. It never
// fails on a single metric; those appear in Degraded instead.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, bool, error) {
	if s.cache.Enabled() {
		var cached dto.DashboardSummary
		if hit, err := s.cache.Get(ctx, DashboardCacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	metrics, degraded := s.aggregator.Collect(ctx)
	summary := BuildSummary(metrics)
	summary.Degraded = degraded
	summary.GeneratedAt = s.now().UTC()

	// Partial results are not cached so the next request retries the failed sources.
	if len(degraded) == 0 {
		_ = s.cache.Set(ctx, DashboardCacheKey, summary, s.cfg.CacheTTL)
	}
	return &summary, false, nil
}
