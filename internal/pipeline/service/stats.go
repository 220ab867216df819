package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"jobguinee_backend/internal/pipeline/domain"
	"jobguinee_backend/platform/apperr"
)

// StatsCache stores the dashboard aggregate with a TTL. A miss returns
// ok == false, not an error.
type StatsCache interface {
	Get(ctx context.Context) (domain.Statistics, bool, error)
	Set(ctx context.Context, stats domain.Statistics) error
}

// StatsService serves the pipeline dashboard aggregate. Concurrent requests
// on a cold cache collapse into a single table scan.
type StatsService struct {
	repo   EntryRepository
	cache  StatsCache
	group  singleflight.Group
	logger *slog.Logger
	now    func() time.Time
}

func NewStatsService(repo EntryRepository, cache StatsCache, logger *slog.Logger) *StatsService {
	return &StatsService{repo: repo, cache: cache, logger: logger, now: time.Now}
}

func (s *StatsService) Statistics(ctx context.Context) (domain.Statistics, error) {
	const op = "pipeline.Statistics"

	if s.cache != nil {
		stats, ok, err := s.cache.Get(ctx)
		if err != nil {
			// Degraded cache must not take the dashboard down.
			s.logger.Warn("stats cache read failed", slog.String("error", err.Error()))
		} else if ok {
			return stats, nil
		}
	}

	v, err, _ := s.group.Do("pipeline_stats", func() (any, error) {
		rows, err := s.repo.StatsRows(ctx)
		if err != nil {
			return domain.Statistics{}, apperr.Internal(op, "failed to load pipeline statistics", err)
		}
		stats := domain.ReduceStatistics(rows, s.now())
		if s.cache != nil {
			if err := s.cache.Set(ctx, stats); err != nil {
				s.logger.Warn("stats cache write failed", slog.String("error", err.Error()))
			}
		}
		return stats, nil
	})
	if err != nil {
		return domain.Statistics{}, err
	}
	return v.(domain.Statistics), nil
}
