package repository

import (
	"Scribe/internal/model"
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagUsage 标签在已发布帖子中的出现次数
type TagUsage struct {
	Name  string
	Count int64
}

type TagRepo interface {
	GetOrCreateTags(ctx context.Context, tagNames []string) ([]*model.Tag, error)
	GetTagUsage(ctx context.Context, now time.Time, prefix string) ([]*TagUsage, error)
}

type tagRepoImpl struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepo {
	return &tagRepoImpl{
		db: db,
	}
}

// GetOrCreateTags 已存在的标签复用，缺失的标签批量创建；
// 标签名按不区分大小写匹配，与 MySQL 的 _ci 排序规则一致
func (s *tagRepoImpl) GetOrCreateTags(ctx context.Context, tagNames []string) ([]*model.Tag, error) {
	tags := make([]*model.Tag, 0, len(tagNames))
	if len(tagNames) == 0 {
		return tags, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []*model.Tag
		if err := tx.Where("name IN ?", tagNames).Find(&existing).Error; err != nil {
			return err
		}
		byName := make(map[string]*model.Tag, len(existing))
		for _, t := range existing {
			byName[strings.ToLower(t.Name)] = t
		}

		missing := make([]*model.Tag, 0)
		pending := make(map[string]struct{})
		for _, name := range tagNames {
			key := strings.ToLower(name)
			if _, ok := byName[key]; ok {
				continue
			}
			if _, ok := pending[key]; ok {
				continue
			}
			pending[key] = struct{}{}
			missing = append(missing, &model.Tag{Name: name})
		}
		if len(missing) > 0 {
			// 并发请求可能同时创建同名标签，冲突时忽略后重新查询
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&missing).Error; err != nil {
				return err
			}
			var created []*model.Tag
			if err := tx.Where("name IN ?", tagNamesOf(missing)).Find(&created).Error; err != nil {
				return err
			}
			for _, t := range created {
				byName[strings.ToLower(t.Name)] = t
			}
		}

		added := make(map[uint64]struct{}, len(tagNames))
		for _, name := range tagNames {
			t, ok := byName[strings.ToLower(name)]
			if !ok {
				return fmt.Errorf("tag %q not resolved", name)
			}
			if _, dup := added[t.ID]; dup {
				continue
			}
			added[t.ID] = struct{}{}
			tags = append(tags, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func tagNamesOf(tags []*model.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

// GetTagUsage 按出现次数倒序，prefix 为空时返回全部
func (s *tagRepoImpl) GetTagUsage(ctx context.Context, now time.Time, prefix string) ([]*TagUsage, error) {
	query := s.db.WithContext(ctx).Table("tags").
		Select("tags.name AS name, COUNT(*) AS count").
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Joins("JOIN posts ON posts.id = post_tags.post_id").
		Scopes(visibleAt(now)).
		Group("tags.id, tags.name").
		Order("count DESC, tags.name ASC")
	if prefix != "" {
		query = query.Where("tags.name LIKE ? ESCAPE '!'", likePattern.Replace(prefix)+"%")
	}

	usage := make([]*TagUsage, 0)
	if err := query.Scan(&usage).Error; err != nil {
		return nil, err
	}
	return usage, nil
}
