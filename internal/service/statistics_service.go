package service

import (
	"Scribe/internal/api/dto"
	"Scribe/internal/model"
	"Scribe/internal/pkg/consts"
	"Scribe/internal/pkg/redis"
	"Scribe/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

const statisticsCacheTTL = 15 * time.Minute

type StatisticsService interface {
	GetCalendar(ctx context.Context, year int) (*dto.CalendarDTO, error)
	GetMyStatistics(ctx context.Context, userID uint64) (*dto.StatisticsDTO, error)
	GetAllStatistics(ctx context.Context, viewerID uint64) (*dto.StatisticsDTO, error)
	RefreshAllStatistics(ctx context.Context) (*dto.StatisticsDTO, error)
}

type statisticsServiceImpl struct {
	postRepo repository.PostRepo
	userRepo repository.UserRepo
	settings SettingService
	now      func() time.Time
}

func NewStatisticsService(postRepo repository.PostRepo, userRepo repository.UserRepo, settings SettingService) StatisticsService {
	return &statisticsServiceImpl{
		postRepo: postRepo,
		userRepo: userRepo,
		settings: settings,
		now:      time.Now,
	}
}

// GetCalendar year 为 0 时取当前年份
func (s *statisticsServiceImpl) GetCalendar(ctx context.Context, year int) (*dto.CalendarDTO, error) {
	now := s.now().UTC()
	if year == 0 {
		year = now.Year()
	}

	res := &dto.CalendarDTO{}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		years, err := s.postRepo.Years(gCtx)
		res.Years = years
		return err
	})
	g.Go(func() error {
		posts, err := s.postRepo.CountPublishedByDate(gCtx, now, year)
		res.Posts = posts
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *statisticsServiceImpl) GetMyStatistics(ctx context.Context, userID uint64) (*dto.StatisticsDTO, error) {
	stats, err := s.postRepo.Statistics(ctx, s.now().UTC(), userID)
	if err != nil {
		return nil, err
	}
	return toStatisticsDTO(stats), nil
}

// GetAllStatistics 统计未公开时只有审核员可以查看；优先读缓存
func (s *statisticsServiceImpl) GetAllStatistics(ctx context.Context, viewerID uint64) (*dto.StatisticsDTO, error) {
	public, err := s.settings.IsEnabled(ctx, model.SettingStatisticsIsPublic)
	if err != nil {
		return nil, err
	}
	if !public {
		viewer, err := s.userRepo.GetUserById(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		if viewer == nil || !viewer.IsModerator {
			return nil, ErrStatisticsClosed
		}
	}

	if cached, err := redis.GetValue(ctx, consts.StatisticsAllKey); err == nil && cached != "" {
		res := &dto.StatisticsDTO{}
		if err = json.Unmarshal([]byte(cached), res); err == nil {
			return res, nil
		}
		log.WarnContext(ctx, "statistics cache corrupted", "err", err)
	}
	return s.RefreshAllStatistics(ctx)
}

// RefreshAllStatistics 重新计算全站统计并写入缓存，缓存写失败不影响返回
func (s *statisticsServiceImpl) RefreshAllStatistics(ctx context.Context) (*dto.StatisticsDTO, error) {
	stats, err := s.postRepo.Statistics(ctx, s.now().UTC(), 0)
	if err != nil {
		return nil, err
	}
	res := toStatisticsDTO(stats)

	if body, err := json.Marshal(res); err == nil {
		if err = redis.SetWithExpiration(ctx, consts.StatisticsAllKey, body, statisticsCacheTTL); err != nil {
			log.WarnContext(ctx, "statistics cache write failed", "err", err)
		}
	}
	return res, nil
}

func toStatisticsDTO(stats *repository.PostStatistics) *dto.StatisticsDTO {
	res := &dto.StatisticsDTO{
		PostsCount:    stats.PostsCount,
		LikesCount:    stats.LikesCount,
		DislikesCount: stats.DislikesCount,
		ViewsCount:    stats.ViewsCount,
	}
	if stats.FirstPublication != nil {
		res.FirstPublication = stats.FirstPublication.Unix()
	}
	return res
}
