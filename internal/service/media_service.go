package service

import (
	"Scribe/internal/api/dto"
	"Scribe/internal/pkg/consts"
	"Scribe/internal/pkg/util"
	"bytes"
	"context"
	"io"
	log "log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ObjectStorage 对象存储上传能力
type ObjectStorage interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	PublicURL(objectName string) string
}

type MediaService interface {
	UploadImage(ctx context.Context, userID uint64, file io.ReadSeeker, size int64) (*dto.ImageUploadDTO, error)
	UploadAvatar(ctx context.Context, userID uint64, file io.ReadSeeker, size int64) (*dto.ImageUploadDTO, error)
}

type mediaServiceImpl struct {
	storage     ObjectStorage
	userService UserService
	maxSize     int64
}

func NewMediaService(storage ObjectStorage, userService UserService, maxSize int64) MediaService {
	if maxSize <= 0 {
		maxSize = 5 << 20
	}
	return &mediaServiceImpl{
		storage:     storage,
		userService: userService,
		maxSize:     maxSize,
	}
}

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadImage 正文图片，按文件头判断类型，原样上传
func (s *mediaServiceImpl) UploadImage(ctx context.Context, userID uint64, file io.ReadSeeker, size int64) (*dto.ImageUploadDTO, error) {
	contentType, err := s.checkImage(file, size)
	if err != nil {
		return nil, err
	}

	objectName := objectPath("images", userID, imageExt[contentType])
	key, err := s.storage.Upload(ctx, objectName, file, size, contentType)
	if err != nil {
		return nil, errors.Wrapf(err, "upload image for user %d", userID)
	}
	log.InfoContext(ctx, "image uploaded", "user_id", userID, "object", key, "size", size)
	return &dto.ImageUploadDTO{URL: s.storage.PublicURL(key)}, nil
}

// UploadAvatar 头像裁剪为正方形缩略图后以 PNG 保存，并更新用户资料
func (s *mediaServiceImpl) UploadAvatar(ctx context.Context, userID uint64, file io.ReadSeeker, size int64) (*dto.ImageUploadDTO, error) {
	if _, err := s.checkImage(file, size); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return nil, ErrFileNotSupported
	}
	thumb := imaging.Fill(img, consts.AvatarSize, consts.AvatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err = imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return nil, err
	}

	objectName := objectPath("avatars", userID, ".png")
	key, err := s.storage.Upload(ctx, objectName, &buf, int64(buf.Len()), "image/png")
	if err != nil {
		return nil, errors.Wrapf(err, "upload avatar for user %d", userID)
	}
	if err = s.userService.UpdatePhoto(ctx, userID, key); err != nil {
		return nil, err
	}
	return &dto.ImageUploadDTO{URL: s.storage.PublicURL(key)}, nil
}

func (s *mediaServiceImpl) checkImage(file io.ReadSeeker, size int64) (string, error) {
	if size > s.maxSize {
		return "", ErrFileTooLarge
	}
	contentType, err := util.GetSafeContentType(file)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(contentType, consts.MimePrefixImage+"/") {
		return "", ErrFileNotSupported
	}
	if _, ok := imageExt[contentType]; !ok {
		return "", ErrFileNotSupported
	}
	return contentType, nil
}

// objectPath images/<user>/2026/03/<uuid>.png
func objectPath(kind string, userID uint64, ext string) string {
	return path.Join(kind, strconv.FormatUint(userID, 10), time.Now().UTC().Format("2006/01"), uuid.NewString()+ext)
}
