package job

import (
	"Scribe/internal/pkg/consts"
	"Scribe/internal/pkg/logger"
	"Scribe/internal/pkg/redis"
	"Scribe/internal/service"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

type StatisticsCacheJob struct {
	statsSvc service.StatisticsService
}

func NewStatisticsCacheJob(statsSvc service.StatisticsService) *StatisticsCacheJob {
	return &StatisticsCacheJob{statsSvc: statsSvc}
}

func (s *StatisticsCacheJob) Run() {
	ctx := logger.NewTraceContext("job-stats-")

	lockValue := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.StatisticsLock, lockValue, time.Minute, 0)
	if err != nil || !locked {
		return
	}
	defer redis.UnLock(ctx, consts.StatisticsLock, lockValue)

	stats, err := s.statsSvc.RefreshAllStatistics(ctx)
	if err != nil {
		log.ErrorContext(ctx, "refresh statistics error", "err", err)
		return
	}
	log.InfoContext(ctx, "statistics cache refreshed", "posts", stats.PostsCount)
}
