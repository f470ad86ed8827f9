package service

import (
	"Scribe/internal/api/dto"
	"Scribe/internal/model"
	"Scribe/internal/pkg/util"
	"Scribe/internal/repository"
	"context"
	"strings"
	"time"
)

type TagService interface {
	ResolveTags(ctx context.Context, names []string) ([]*model.Tag, error)
	GetTagWeights(ctx context.Context, query string) (*dto.TagListDTO, error)
}

type tagServiceImpl struct {
	tagRepo repository.TagRepo
	now     func() time.Time
}

func NewTagService(tagRepo repository.TagRepo) TagService {
	return &tagServiceImpl{
		tagRepo: tagRepo,
		now:     time.Now,
	}
}

// ResolveTags 标签名 -> 标签，不存在的自动创建；空输入不访问存储
func (s *tagServiceImpl) ResolveTags(ctx context.Context, names []string) ([]*model.Tag, error) {
	normalized := util.NormalizeTags(names)
	if len(normalized) == 0 {
		return []*model.Tag{}, nil
	}
	return s.tagRepo.GetOrCreateTags(ctx, normalized)
}

// GetTagWeights 已发布帖子上的标签热度，最热的标签权重为 1
func (s *tagServiceImpl) GetTagWeights(ctx context.Context, query string) (*dto.TagListDTO, error) {
	usage, err := s.tagRepo.GetTagUsage(ctx, s.now().UTC(), strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}

	res := &dto.TagListDTO{Tags: make([]*dto.TagWeightDTO, 0, len(usage))}
	if len(usage) == 0 {
		return res, nil
	}

	maxCount := usage[0].Count
	for _, u := range usage {
		if u.Count > maxCount {
			maxCount = u.Count
		}
	}
	for _, u := range usage {
		res.Tags = append(res.Tags, &dto.TagWeightDTO{
			Name:   u.Name,
			Weight: float64(u.Count) / float64(maxCount),
		})
	}
	return res, nil
}
