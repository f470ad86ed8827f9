package job

import (
	"Scribe/internal/pkg/consts"
	"Scribe/internal/pkg/logger"
	"Scribe/internal/pkg/mongo"
	"Scribe/internal/pkg/redis"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// SysBoxCleanJob 删除超过保留期的已读站内信
type SysBoxCleanJob struct {
	sysBoxRepo mongo.SysBoxRepo
	retention  time.Duration
	now        func() time.Time
}

func NewSysBoxCleanJob(sysBoxRepo mongo.SysBoxRepo, retentionDays int) *SysBoxCleanJob {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &SysBoxCleanJob{
		sysBoxRepo: sysBoxRepo,
		retention:  time.Duration(retentionDays) * 24 * time.Hour,
		now:        time.Now,
	}
}

func (s *SysBoxCleanJob) Run() {
	ctx := logger.NewTraceContext("job-sysbox-")

	lockValue := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.SysBoxCleanLock, lockValue, 10*time.Minute, 0)
	if err != nil || !locked {
		return
	}
	defer redis.UnLock(ctx, consts.SysBoxCleanLock, lockValue)

	before := s.now().UTC().Add(-s.retention)
	removed, err := s.sysBoxRepo.DeleteReadBefore(ctx, before)
	if err != nil {
		log.ErrorContext(ctx, "sysbox cleanup error", "err", err)
		return
	}
	if removed > 0 {
		log.InfoContext(ctx, "sysbox cleanup finished", "removed", removed, "before", before)
	}
}
