package repository

import (
	"Scribe/internal/model"
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListMode 公开列表排序方式
type ListMode string

const (
	ListModeRecent  ListMode = "RECENT"
	ListModeEarly   ListMode = "EARLY"
	ListModeBest    ListMode = "BEST"
	ListModePopular ListMode = "POPULAR"
)

// MyPostStatus 作者视角的帖子分类
type MyPostStatus string

const (
	MyPostsPending   MyPostStatus = "PENDING"
	MyPostsDeclined  MyPostStatus = "DECLINED"
	MyPostsPublished MyPostStatus = "PUBLISHED"
	MyPostsInactive  MyPostStatus = "INACTIVE"
)

const DateLayout = "2006-01-02"

var likePattern = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// PostCounters 列表页展示的互动计数
type PostCounters struct {
	PostID        uint64
	LikesCount    int64
	DislikesCount int64
	CommentsCount int64
}

// PostStatistics 已发布帖子的汇总
type PostStatistics struct {
	PostsCount       int64
	LikesCount       int64
	DislikesCount    int64
	ViewsCount       int64
	FirstPublication *time.Time
}

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post, tags []*model.Tag) error
	UpdatePost(ctx context.Context, post *model.Post, tags []*model.Tag) error
	UpdateModeration(ctx context.Context, postID, moderatorID uint64, status model.ModerationStatus) error
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	GetPostDetail(ctx context.Context, id uint64) (*model.Post, error)
	IncrementViewCount(ctx context.Context, id uint64) error

	ListPublished(ctx context.Context, now time.Time, mode ListMode, offset, limit int) (int64, []*model.Post, error)
	SearchPublished(ctx context.Context, now time.Time, query string, offset, limit int) (int64, []*model.Post, error)
	ListPublishedByDate(ctx context.Context, now, date time.Time, offset, limit int) (int64, []*model.Post, error)
	ListPublishedByTag(ctx context.Context, now time.Time, tag string, offset, limit int) (int64, []*model.Post, error)
	ListByUser(ctx context.Context, userID uint64, status MyPostStatus, offset, limit int) (int64, []*model.Post, error)
	ListForModerator(ctx context.Context, moderatorID uint64, status model.ModerationStatus, offset, limit int) (int64, []*model.Post, error)

	CountByStatus(ctx context.Context, status model.ModerationStatus) (int64, error)
	CountPendingForModerator(ctx context.Context, moderatorID uint64) (int64, error)
	CountByModerators(ctx context.Context, moderatorIDs []uint64) (map[uint64]int64, error)
	CountPublished(ctx context.Context, now time.Time) (int64, error)
	GetCounters(ctx context.Context, postIDs []uint64) (map[uint64]*PostCounters, error)
	Years(ctx context.Context) ([]int, error)
	CountPublishedByDate(ctx context.Context, now time.Time, year int) (map[string]int64, error)
	Statistics(ctx context.Context, now time.Time, userID uint64) (*PostStatistics, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepo {
	return &PostRepoImpl{
		db: db,
	}
}

// visibleAt 公开可见：已激活、审核通过、发布时间不晚于 now
func visibleAt(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.is_active = ? AND posts.moderation_status = ? AND posts.time <= ?",
			true, model.ModerationAccepted, now.UTC())
	}
}

func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post, tags []*model.Tag) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return err
		}
		return replacePostTags(tx, post, tags)
	})
}

func (s *PostRepoImpl) UpdatePost(ctx context.Context, post *model.Post, tags []*model.Tag) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(post).
			Omit(clause.Associations).
			Select("title", "text", "time", "is_active", "moderation_status").
			Updates(post).Error
		if err != nil {
			return err
		}
		if err = tx.Where("post_id = ?", post.ID).Delete(&model.PostTag{}).Error; err != nil {
			return err
		}
		return replacePostTags(tx, post, tags)
	})
}

func replacePostTags(tx *gorm.DB, post *model.Post, tags []*model.Tag) error {
	post.Tags = make([]model.Tag, 0, len(tags))
	if len(tags) == 0 {
		return nil
	}
	links := make([]model.PostTag, 0, len(tags))
	for _, tag := range tags {
		links = append(links, model.PostTag{PostID: post.ID, TagID: tag.ID})
		post.Tags = append(post.Tags, *tag)
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

func (s *PostRepoImpl) UpdateModeration(ctx context.Context, postID, moderatorID uint64, status model.ModerationStatus) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", postID).
		Updates(map[string]any{
			"moderator_id":      moderatorID,
			"moderation_status": status,
		}).Error
}

func (s *PostRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).Preload("User").Preload("Tags").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetPostDetail 详情页：附带评论及评论作者
func (s *PostRepoImpl) GetPostDetail(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Tags").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("post_comments.time ASC, post_comments.id ASC")
		}).
		Preload("Comments.User").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (s *PostRepoImpl) IncrementViewCount(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

func (s *PostRepoImpl) ListPublished(ctx context.Context, now time.Time, mode ListMode, offset, limit int) (int64, []*model.Post, error) {
	base := s.db.WithContext(ctx).Model(&model.Post{}).Scopes(visibleAt(now))
	return s.page(base, orderFor(mode), offset, limit)
}

func (s *PostRepoImpl) SearchPublished(ctx context.Context, now time.Time, query string, offset, limit int) (int64, []*model.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListPublished(ctx, now, ListModeRecent, offset, limit)
	}
	base := s.db.WithContext(ctx).Model(&model.Post{}).
		Scopes(visibleAt(now)).
		Where("posts.text LIKE ? ESCAPE '!'", "%"+likePattern.Replace(query)+"%")
	return s.page(base, orderFor(ListModeRecent), offset, limit)
}

func (s *PostRepoImpl) ListPublishedByDate(ctx context.Context, now, date time.Time, offset, limit int) (int64, []*model.Post, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	base := s.db.WithContext(ctx).Model(&model.Post{}).
		Scopes(visibleAt(now)).
		Where("posts.time >= ? AND posts.time < ?", start, start.AddDate(0, 0, 1))
	return s.page(base, orderFor(ListModeRecent), offset, limit)
}

func (s *PostRepoImpl) ListPublishedByTag(ctx context.Context, now time.Time, tag string, offset, limit int) (int64, []*model.Post, error) {
	base := s.db.WithContext(ctx).Model(&model.Post{}).
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Scopes(visibleAt(now)).
		Where("tags.name = ?", tag)
	return s.page(base, orderFor(ListModeRecent), offset, limit)
}

func (s *PostRepoImpl) ListByUser(ctx context.Context, userID uint64, status MyPostStatus, offset, limit int) (int64, []*model.Post, error) {
	base := s.db.WithContext(ctx).Model(&model.Post{}).Where("posts.user_id = ?", userID)
	switch status {
	case MyPostsInactive:
		base = base.Where("posts.is_active = ?", false)
	case MyPostsPending:
		base = base.Where("posts.is_active = ? AND posts.moderation_status = ?", true, model.ModerationNew)
	case MyPostsDeclined:
		base = base.Where("posts.moderation_status = ?", model.ModerationDeclined)
	default:
		base = base.Where("posts.is_active = ? AND posts.moderation_status = ?", true, model.ModerationAccepted)
	}
	return s.page(base, orderFor(ListModeRecent), offset, limit)
}

func (s *PostRepoImpl) ListForModerator(ctx context.Context, moderatorID uint64, status model.ModerationStatus, offset, limit int) (int64, []*model.Post, error) {
	if status == "" {
		status = model.ModerationNew
	}
	base := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("posts.moderator_id = ? AND posts.moderation_status = ?", moderatorID, status)
	return s.page(base, orderFor(ListModeRecent), offset, limit)
}

// page 先统计总数再取当前页，两次查询共用同一组条件
func (s *PostRepoImpl) page(base *gorm.DB, order string, offset, limit int) (int64, []*model.Post, error) {
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	posts := make([]*model.Post, 0)
	if total == 0 || int64(offset) >= total {
		return total, posts, nil
	}

	err := base.Select("posts.*").
		Preload("User").
		Preload("Tags").
		Order(order).
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return 0, nil, err
	}
	return total, posts, nil
}

func orderFor(mode ListMode) string {
	switch mode {
	case ListModeEarly:
		return "posts.time ASC, posts.id ASC"
	case ListModeBest:
		return "(SELECT COUNT(*) FROM post_votes WHERE post_votes.post_id = posts.id AND post_votes.value = 1) DESC, posts.time DESC, posts.id DESC"
	case ListModePopular:
		return "(SELECT COUNT(*) FROM post_comments WHERE post_comments.post_id = posts.id) DESC, posts.time DESC, posts.id DESC"
	default:
		return "posts.time DESC, posts.id DESC"
	}
}

func (s *PostRepoImpl) CountByStatus(ctx context.Context, status model.ModerationStatus) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("moderation_status = ?", status).
		Count(&count).Error
	return count, err
}

func (s *PostRepoImpl) CountPendingForModerator(ctx context.Context, moderatorID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("moderator_id = ? AND is_active = ? AND moderation_status = ?", moderatorID, true, model.ModerationNew).
		Count(&count).Error
	return count, err
}

// CountByModerators 统计每位审核员名下的全部帖子（不区分状态）
func (s *PostRepoImpl) CountByModerators(ctx context.Context, moderatorIDs []uint64) (map[uint64]int64, error) {
	result := make(map[uint64]int64, len(moderatorIDs))
	if len(moderatorIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		ModeratorID uint64
		Cnt         int64
	}
	err := s.db.WithContext(ctx).Model(&model.Post{}).
		Select("moderator_id, COUNT(*) AS cnt").
		Where("moderator_id IN ?", moderatorIDs).
		Group("moderator_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		result[r.ModeratorID] = r.Cnt
	}
	return result, nil
}

func (s *PostRepoImpl) CountPublished(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Post{}).Scopes(visibleAt(now)).Count(&count).Error
	return count, err
}

func (s *PostRepoImpl) GetCounters(ctx context.Context, postIDs []uint64) (map[uint64]*PostCounters, error) {
	result := make(map[uint64]*PostCounters, len(postIDs))
	for _, id := range postIDs {
		result[id] = &PostCounters{PostID: id}
	}
	if len(postIDs) == 0 {
		return result, nil
	}

	var votes []struct {
		PostID   uint64
		Likes    int64
		Dislikes int64
	}
	err := s.db.WithContext(ctx).Model(&model.PostVote{}).
		Select("post_id, "+
			"COALESCE(SUM(CASE WHEN value = 1 THEN 1 ELSE 0 END), 0) AS likes, "+
			"COALESCE(SUM(CASE WHEN value = -1 THEN 1 ELSE 0 END), 0) AS dislikes").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&votes).Error
	if err != nil {
		return nil, err
	}
	for _, v := range votes {
		result[v.PostID].LikesCount = v.Likes
		result[v.PostID].DislikesCount = v.Dislikes
	}

	var comments []struct {
		PostID uint64
		Cnt    int64
	}
	err = s.db.WithContext(ctx).Model(&model.PostComment{}).
		Select("post_id, COUNT(*) AS cnt").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&comments).Error
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		result[c.PostID].CommentsCount = c.Cnt
	}
	return result, nil
}

// Years 有帖子的所有年份，升序
func (s *PostRepoImpl) Years(ctx context.Context) ([]int, error) {
	yearExpr := "YEAR(time)"
	if s.db.Dialector.Name() == "sqlite" {
		yearExpr = "CAST(strftime('%Y', time) AS INTEGER)"
	}

	years := make([]int, 0)
	err := s.db.WithContext(ctx).Model(&model.Post{}).
		Distinct(yearExpr + " AS year").
		Order("year").
		Pluck("year", &years).Error
	if err != nil {
		return nil, err
	}
	return years, nil
}

// CountPublishedByDate 指定年份内每天的已发布帖子数，key 为 yyyy-MM-dd
func (s *PostRepoImpl) CountPublishedByDate(ctx context.Context, now time.Time, year int) (map[string]int64, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	var times []time.Time
	err := s.db.WithContext(ctx).Model(&model.Post{}).
		Scopes(visibleAt(now)).
		Where("posts.time >= ? AND posts.time < ?", start, start.AddDate(1, 0, 0)).
		Pluck("posts.time", &times).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64)
	for _, t := range times {
		result[t.UTC().Format(DateLayout)]++
	}
	return result, nil
}

// Statistics userID 为 0 时统计全站
func (s *PostRepoImpl) Statistics(ctx context.Context, now time.Time, userID uint64) (*PostStatistics, error) {
	scoped := func(db *gorm.DB) *gorm.DB {
		db = db.Scopes(visibleAt(now))
		if userID > 0 {
			db = db.Where("posts.user_id = ?", userID)
		}
		return db
	}

	var agg struct {
		PostsCount int64
		ViewsCount int64
	}
	err := s.db.WithContext(ctx).Model(&model.Post{}).
		Scopes(scoped).
		Select("COUNT(*) AS posts_count, COALESCE(SUM(posts.view_count), 0) AS views_count").
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}

	stats := &PostStatistics{PostsCount: agg.PostsCount, ViewsCount: agg.ViewsCount}
	if agg.PostsCount == 0 {
		return stats, nil
	}

	var votes struct {
		Likes    int64
		Dislikes int64
	}
	err = s.db.WithContext(ctx).Table("post_votes").
		Joins("JOIN posts ON posts.id = post_votes.post_id").
		Scopes(scoped).
		Select("COALESCE(SUM(CASE WHEN post_votes.value = 1 THEN 1 ELSE 0 END), 0) AS likes, " +
			"COALESCE(SUM(CASE WHEN post_votes.value = -1 THEN 1 ELSE 0 END), 0) AS dislikes").
		Scan(&votes).Error
	if err != nil {
		return nil, err
	}
	stats.LikesCount = votes.Likes
	stats.DislikesCount = votes.Dislikes

	var first []time.Time
	err = s.db.WithContext(ctx).Model(&model.Post{}).
		Scopes(scoped).
		Order("posts.time ASC").
		Limit(1).
		Pluck("posts.time", &first).Error
	if err != nil {
		return nil, err
	}
	if len(first) > 0 {
		t := first[0].UTC()
		stats.FirstPublication = &t
	}
	return stats, nil
}
