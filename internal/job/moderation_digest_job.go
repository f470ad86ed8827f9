package job

import (
	"Scribe/internal/pkg/consts"
	"Scribe/internal/pkg/logger"
	"Scribe/internal/pkg/notify"
	"Scribe/internal/pkg/redis"
	"Scribe/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// PendingCounter 审核员名下待审核的帖子数
type PendingCounter interface {
	CountPendingForModerator(ctx context.Context, moderatorID uint64) (int64, error)
}

// ModerationDigestJob 每天给有积压的审核员发一封汇总邮件
type ModerationDigestJob struct {
	moderators service.ModeratorService
	pending    PendingCounter
	notifier   service.Notifier
}

func NewModerationDigestJob(
	moderators service.ModeratorService,
	pending PendingCounter,
	notifier service.Notifier,
) *ModerationDigestJob {
	return &ModerationDigestJob{
		moderators: moderators,
		pending:    pending,
		notifier:   notifier,
	}
}

func (s *ModerationDigestJob) Run() {
	ctx := logger.NewTraceContext("job-digest-")

	// 多实例部署时只有一个实例发送
	lockValue := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.ModerationDigestLock, lockValue, 10*time.Minute, 0)
	if err != nil {
		log.ErrorContext(ctx, "moderation digest lock error", "err", err)
		return
	}
	if !locked {
		return
	}
	defer redis.UnLock(ctx, consts.ModerationDigestLock, lockValue)

	sent, err := s.send(ctx)
	if err != nil {
		log.ErrorContext(ctx, "moderation digest failed", "err", err)
		return
	}
	log.InfoContext(ctx, "moderation digest finished", "notified", sent)
}

func (s *ModerationDigestJob) send(ctx context.Context) (int, error) {
	moderators, err := s.moderators.EligibleModerators(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, m := range moderators {
		count, err := s.pending.CountPendingForModerator(ctx, m.ID)
		if err != nil {
			log.ErrorContext(ctx, "count pending posts error", "moderator_id", m.ID, "err", err)
			continue
		}
		if count == 0 {
			continue
		}
		s.notifier.Notify(ctx, notify.Notification{
			To:         m.Email,
			ReceiverID: m.ID,
			Kind:       notify.KindModerationDigest,
			SubjectKey: "mail.moderation.digest.subject",
			BodyKey:    "mail.moderation.digest.body",
			Params:     []any{count},
		})
		sent++
	}
	return sent, nil
}
