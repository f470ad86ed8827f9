package handler

import (
	"Scribe/internal/api/dto"
	"Scribe/internal/model"
	"Scribe/internal/pkg/response"
	"Scribe/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postSvc service.PostService
}

func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{
		postSvc: postSvc,
	}
}

func (s *PostHandler) CreatePost(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.PostRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	saved, err := s.postSvc.CreatePost(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, saved)
}

func (s *PostHandler) UpdatePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, err := paramID(c, "post_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.PostRequestDTO
	if err = c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	saved, err := s.postSvc.UpdatePost(c.Request.Context(), userID, postID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, saved)
}

// GetPost 详情，匿名访问时 user_id 为 0
func (s *PostHandler) GetPost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, err := paramID(c, "post_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.ViewPost(c.Request.Context(), userID, postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) ListPosts(c *gin.Context) {
	var q dto.PostListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, err)
		return
	}

	posts, err := s.postSvc.ListPosts(c.Request.Context(), q.Mode, q.Offset, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

func (s *PostHandler) SearchPosts(c *gin.Context) {
	var q dto.PostListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, err)
		return
	}

	posts, err := s.postSvc.SearchPosts(c.Request.Context(), q.Query, q.Offset, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

func (s *PostHandler) ListPostsByDate(c *gin.Context) {
	var q dto.PostListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, err)
		return
	}

	posts, err := s.postSvc.ListPostsByDate(c.Request.Context(), q.Date, q.Offset, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

func (s *PostHandler) ListPostsByTag(c *gin.Context) {
	var q dto.PostListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, err)
		return
	}

	posts, err := s.postSvc.ListPostsByTag(c.Request.Context(), q.Tag, q.Offset, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

func (s *PostHandler) ListMyPosts(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var q dto.PostListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, err)
		return
	}

	posts, err := s.postSvc.ListMyPosts(c.Request.Context(), userID, q.Status, q.Offset, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

// ListModerationPosts 当前审核员名下的帖子，status 缺省为 NEW
func (s *PostHandler) ListModerationPosts(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var q dto.PostListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, err)
		return
	}

	posts, err := s.postSvc.ListModerationPosts(c.Request.Context(), userID, q.Status, q.Offset, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

func (s *PostHandler) Moderate(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.ModerationDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.postSvc.ModeratePost(c.Request.Context(), userID, req.PostID, req.Decision); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostHandler) Like(c *gin.Context) {
	s.vote(c, model.VoteLike)
}

func (s *PostHandler) Dislike(c *gin.Context) {
	s.vote(c, model.VoteDislike)
}

func (s *PostHandler) vote(c *gin.Context, value int8) {
	userID := c.GetUint64("user_id")

	var req dto.VoteDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	applied, err := s.postSvc.VotePost(c.Request.Context(), userID, req.PostID, value)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.VoteResultDTO{Result: applied})
}
