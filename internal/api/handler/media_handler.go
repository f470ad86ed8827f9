package handler

import (
	"Scribe/internal/api/dto"
	"Scribe/internal/pkg/response"
	"Scribe/internal/service"
	"context"
	"io"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	mediaSvc service.MediaService
}

func NewMediaHandler(mediaSvc service.MediaService) *MediaHandler {
	return &MediaHandler{
		mediaSvc: mediaSvc,
	}
}

type uploadFunc func(ctx context.Context, userID uint64, file io.ReadSeeker, size int64) (*dto.ImageUploadDTO, error)

// UploadImage 正文图片
func (s *MediaHandler) UploadImage(c *gin.Context) {
	s.upload(c, s.mediaSvc.UploadImage)
}

// UploadPhoto 头像
func (s *MediaHandler) UploadPhoto(c *gin.Context) {
	s.upload(c, s.mediaSvc.UploadAvatar)
}

func (s *MediaHandler) upload(c *gin.Context, fn uploadFunc) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	defer func() { _ = reader.Close() }()

	res, err := fn(c.Request.Context(), c.GetUint64("user_id"), reader, file.Size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
