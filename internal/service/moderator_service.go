package service

import (
	"Scribe/internal/model"
	"Scribe/internal/repository"
	"context"
	"time"
)

// ModeratorService 审核员负载均衡
type ModeratorService interface {
	AssignModerator(ctx context.Context) (uint64, error)
	EligibleModerators(ctx context.Context) ([]*model.User, error)
}

type moderatorServiceImpl struct {
	userRepo repository.UserRepo
	postRepo repository.PostRepo
	now      func() time.Time
}

func NewModeratorService(userRepo repository.UserRepo, postRepo repository.PostRepo) ModeratorService {
	return &moderatorServiceImpl{
		userRepo: userRepo,
		postRepo: postRepo,
		now:      time.Now,
	}
}

// EligibleModerators 启用、未注销、未过期的审核员，按 id 升序
func (s *moderatorServiceImpl) EligibleModerators(ctx context.Context) ([]*model.User, error) {
	moderators, err := s.userRepo.FindModerators(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	eligible := make([]*model.User, 0, len(moderators))
	for _, m := range moderators {
		if m.IsEligibleModerator(now) {
			eligible = append(eligible, m)
		}
	}
	return eligible, nil
}

// AssignModerator 选出当前分配帖子最少的审核员，数量相同时取 id 最小者。
// 只是读取快照，不做预占，并发提交时可能分配给同一人。
func (s *moderatorServiceImpl) AssignModerator(ctx context.Context) (uint64, error) {
	eligible, err := s.EligibleModerators(ctx)
	if err != nil {
		return 0, err
	}
	if len(eligible) == 0 {
		return 0, ErrModeratorUnavailable
	}

	ids := make([]uint64, 0, len(eligible))
	for _, m := range eligible {
		ids = append(ids, m.ID)
	}
	counts, err := s.postRepo.CountByModerators(ctx, ids)
	if err != nil {
		return 0, err
	}

	var best uint64
	var bestCount int64 = -1
	for _, id := range ids {
		c := counts[id]
		if bestCount < 0 || c < bestCount || (c == bestCount && id < best) {
			best, bestCount = id, c
		}
	}
	return best, nil
}
