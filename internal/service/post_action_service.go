package service

import (
	"Scribe/internal/api/dto"
	"Scribe/internal/model"
	"Scribe/internal/repository"
	"context"
	log "log/slog"
	"time"
)

type PostActionService interface {
	CreateComment(ctx context.Context, userID uint64, req *dto.CommentRequestDTO) (*dto.CommentCreatedDTO, error)
}

type postActionServiceImpl struct {
	postRepo   repository.PostRepo
	actionRepo repository.PostActionRepo
	now        func() time.Time
}

func NewPostActionService(postRepo repository.PostRepo, actionRepo repository.PostActionRepo) PostActionService {
	return &postActionServiceImpl{
		postRepo:   postRepo,
		actionRepo: actionRepo,
		now:        time.Now,
	}
}

// CreateComment 发表评论；回复时父评论必须已存在且属于同一帖子
func (s *postActionServiceImpl) CreateComment(ctx context.Context, userID uint64, req *dto.CommentRequestDTO) (*dto.CommentCreatedDTO, error) {
	if err := fieldErrors(req).OrNil(); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	if req.ParentID != nil {
		parent, err := s.actionRepo.GetCommentByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.PostID != req.PostID {
			return nil, ErrPostCommentNotFound
		}
	}

	comment := &model.PostComment{
		PostID:   req.PostID,
		UserID:   userID,
		ParentID: req.ParentID,
		Text:     req.Text,
		Time:     s.now().UTC().Truncate(time.Second),
	}
	if err = s.actionRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "comment created", "comment_id", comment.ID, "post_id", req.PostID, "user_id", userID)
	return &dto.CommentCreatedDTO{ID: comment.ID}, nil
}
