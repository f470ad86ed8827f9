package service

import (
	"Scribe/internal/api/dto"
	"Scribe/internal/model"
	"Scribe/internal/pkg/consts"
	"Scribe/internal/pkg/minio"
	"Scribe/internal/pkg/notify"
	"Scribe/internal/pkg/redis"
	"Scribe/internal/pkg/security"
	"Scribe/internal/pkg/util"
	"Scribe/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const restoreCodeTTL = time.Hour

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterDTO) error
	Login(ctx context.Context, req *dto.LoginDTO) (*dto.LoginResultDTO, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserInfoDTO, error)
	RequestRestore(ctx context.Context, email string) error
	ChangePassword(ctx context.Context, req *dto.PasswordDTO) error
	UpdateProfile(ctx context.Context, id uint64, req *dto.ProfileDTO) error
	UpdatePhoto(ctx context.Context, id uint64, objectName string) error
}

type UserServiceImpl struct {
	userRepo repository.UserRepo
	postRepo repository.PostRepo
	settings SettingService
	captcha  CaptchaService
	notifier Notifier
	now      func() time.Time
}

func NewUserService(
	userRepo repository.UserRepo,
	postRepo repository.PostRepo,
	settings SettingService,
	captcha CaptchaService,
	notifier Notifier,
) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
		postRepo: postRepo,
		settings: settings,
		captcha:  captcha,
		notifier: notifier,
		now:      time.Now,
	}
}

// Register 多用户模式关闭时不开放注册；第一个注册的用户自动成为审核员
func (s *UserServiceImpl) Register(ctx context.Context, req *dto.RegisterDTO) error {
	multiuser, err := s.settings.IsEnabled(ctx, model.SettingMultiuserMode)
	if err != nil {
		return err
	}
	if !multiuser {
		return ErrRegistrationClosed
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	verr := fieldErrors(req)
	if _, failed := verr.Fields["e_mail"]; !failed && req.Email != "" {
		existing, err := s.userRepo.GetUserByEmail(ctx, req.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			verr.Add("e_mail", "this email is already registered")
		}
	}
	if err = s.checkCaptcha(ctx, verr, req.CaptchaSecret, req.Captcha); err != nil {
		return err
	}
	if err = verr.OrNil(); err != nil {
		return err
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return err
	}
	total, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return err
	}

	user := &model.User{
		Email:       req.Email,
		Name:        strings.TrimSpace(req.Name),
		Password:    hash,
		IsModerator: total == 0,
		RegTime:     s.now().UTC().Truncate(time.Second),
	}
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		return err
	}
	log.InfoContext(ctx, "user registered", "user_id", user.ID, "moderator", user.IsModerator)
	return nil
}

func (s *UserServiceImpl) Login(ctx context.Context, req *dto.LoginDTO) (*dto.LoginResultDTO, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrPasswordIncorrect
	}
	if err = security.CheckPasswordHash(req.Password, user.Password); err != nil {
		return nil, ErrPasswordIncorrect
	}
	if user.IsBan || user.IsDelete {
		return nil, ErrUserBan
	}

	token, expiresAt, err := security.GenerateToken(user.ID, user.Roles())
	if err != nil {
		return nil, err
	}
	info, err := s.toUserInfo(ctx, user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResultDTO{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		User:      info,
	}, nil
}

// Logout 签名写入黑名单，保留到 Token 自然过期
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	claims, err := security.ValidateToken(token)
	if err != nil {
		return nil
	}
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return redis.SetWithExpiration(ctx, consts.TokenBlacklistKey+signature, claims.UserID, ttl)
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserInfoDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.toUserInfo(ctx, user)
}

// RequestRestore 生成一次性找回码并通过邮件发送链接
func (s *UserServiceImpl) RequestRestore(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	code := strings.ReplaceAll(uuid.NewString(), "-", "")
	err = redis.SetWithExpiration(ctx, consts.RestoreCodeKey+code, strconv.FormatUint(user.ID, 10), restoreCodeTTL)
	if err != nil {
		return err
	}

	s.notifier.Notify(ctx, notify.Notification{
		To:         user.Email,
		Kind:       notify.KindPasswordRestore,
		SubjectKey: "mail.restore.subject",
		BodyKey:    "mail.restore.body",
		Params:     []any{baseURL(ctx) + "/login/change-password/" + code},
	})
	return nil
}

// ChangePassword 通过找回码重置密码，找回码只能使用一次
func (s *UserServiceImpl) ChangePassword(ctx context.Context, req *dto.PasswordDTO) error {
	verr := fieldErrors(req)
	if err := s.checkCaptcha(ctx, verr, req.CaptchaSecret, req.Captcha); err != nil {
		return err
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	raw, err := redis.GetAndDelete(ctx, consts.RestoreCodeKey+req.Code)
	if err != nil {
		return err
	}
	userID, _ := strconv.ParseUint(raw, 10, 64)
	if userID == 0 {
		verr.Add("code", ErrRestoreCodeInvalid.Error())
		return verr
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return err
	}
	return s.userRepo.UpdateUser(ctx, &model.User{ID: userID, Password: hash}, "password")
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, id uint64, req *dto.ProfileDTO) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	verr := fieldErrors(req)
	fields := make([]string, 0, 4)

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
		fields = append(fields, "name")
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			existing, err := s.userRepo.GetUserByEmail(ctx, email)
			if err != nil {
				return err
			}
			if existing != nil && existing.ID != id {
				verr.Add("email", "this email is already registered")
			}
			user.Email = email
			fields = append(fields, "email")
		}
	}
	if req.Password != nil {
		if _, failed := verr.Fields["password"]; !failed {
			hash, err := security.HashPassword(*req.Password)
			if err != nil {
				return err
			}
			user.Password = hash
			fields = append(fields, "password")
		}
	}
	if req.RemovePhoto {
		user.Photo = ""
		fields = append(fields, "photo")
	}

	if err = verr.OrNil(); err != nil {
		return err
	}
	return s.userRepo.UpdateUser(ctx, user, fields...)
}

func (s *UserServiceImpl) UpdatePhoto(ctx context.Context, id uint64, objectName string) error {
	return s.userRepo.UpdateUser(ctx, &model.User{ID: id, Photo: objectName}, "photo")
}

func (s *UserServiceImpl) checkCaptcha(ctx context.Context, verr *ValidationError, secret, answer string) error {
	if _, failed := verr.Fields["captcha"]; failed {
		return nil
	}
	ok, err := s.captcha.Verify(ctx, secret, answer)
	if err != nil {
		return err
	}
	if !ok {
		verr.Add("captcha", ErrCaptchaIncorrect.Error())
	}
	return nil
}

func (s *UserServiceImpl) toUserInfo(ctx context.Context, user *model.User) (*dto.UserInfoDTO, error) {
	info := &dto.UserInfoDTO{
		ID:         user.ID,
		Name:       user.Name,
		Photo:      minio.GetPublicURL(user.Photo),
		Email:      user.Email,
		Moderation: user.IsModerator,
		Settings:   user.IsModerator,
	}
	if user.IsModerator {
		count, err := s.postRepo.CountPendingForModerator(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		info.ModerationCount = count
	}
	return info, nil
}

// fieldErrors DTO 上 validate 标签的校验结果
func fieldErrors(req any) *ValidationError {
	verr := NewValidationError()
	for field, msg := range util.ValidateFields(req) {
		verr.Add(field, msg)
	}
	return verr
}
