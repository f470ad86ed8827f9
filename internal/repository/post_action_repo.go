package repository

import (
	"Scribe/internal/model"
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const mysqlDuplicateEntry = 1062

type PostActionRepo interface {
	ApplyVote(ctx context.Context, vote *model.PostVote) (bool, error)
	GetUserVote(ctx context.Context, userID, postID uint64) (int8, error)

	CreateComment(ctx context.Context, comment *model.PostComment) error
	GetCommentByID(ctx context.Context, commentID uint64) (*model.PostComment, error)
}

type PostActionRepoImpl struct {
	db *gorm.DB
}

func NewPostActionRepo(db *gorm.DB) PostActionRepo {
	return &PostActionRepoImpl{db}
}

// ApplyVote 已存在同值投票时不做任何修改并返回 false；
// 否则写入新投票并删除该用户对该帖的相反投票
func (s *PostActionRepoImpl) ApplyVote(ctx context.Context, vote *model.PostVote) (bool, error) {
	applied := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.PostVote{}).
			Where("user_id = ? AND post_id = ? AND value = ?", vote.UserID, vote.PostID, vote.Value).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		if err = tx.Create(vote).Error; err != nil {
			if isDuplicateEntry(err) {
				return nil
			}
			return err
		}

		err = tx.Where("user_id = ? AND post_id = ? AND value = ?", vote.UserID, vote.PostID, -vote.Value).
			Delete(&model.PostVote{}).Error
		if err != nil {
			return err
		}
		applied = true
		return nil
	})
	return applied, err
}

// GetUserVote 返回 1、-1，未投票为 0
func (s *PostActionRepoImpl) GetUserVote(ctx context.Context, userID, postID uint64) (int8, error) {
	var values []int8
	err := s.db.WithContext(ctx).Model(&model.PostVote{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Order("time DESC").
		Limit(1).
		Pluck("value", &values).Error
	if err != nil || len(values) == 0 {
		return 0, err
	}
	return values[0], nil
}

func (s *PostActionRepoImpl) CreateComment(ctx context.Context, comment *model.PostComment) error {
	return s.db.WithContext(ctx).Omit("User").Create(comment).Error
}

func (s *PostActionRepoImpl) GetCommentByID(ctx context.Context, commentID uint64) (*model.PostComment, error) {
	var comment model.PostComment
	err := s.db.WithContext(ctx).First(&comment, commentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
