package service

import (
	"Scribe/internal/api/config"
	"Scribe/internal/api/dto"
	"Scribe/internal/pkg/consts"
	"Scribe/internal/pkg/redis"
	"context"
	"strings"
	"time"

	"github.com/mojocn/base64Captcha"
)

type CaptchaService interface {
	Generate(ctx context.Context) (*dto.CaptchaDTO, error)
	Verify(ctx context.Context, secret, answer string) (bool, error)
}

type captchaServiceImpl struct {
	driver *base64Captcha.DriverDigit
	ttl    time.Duration
}

func NewCaptchaService(cfg config.CaptchaConfig) CaptchaService {
	length, width, height := cfg.Length, cfg.Width, cfg.Height
	if length <= 0 {
		length = 5
	}
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 35
	}
	ttl := time.Duration(cfg.TTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &captchaServiceImpl{
		driver: base64Captcha.NewDriverDigit(height, width, length, 0.5, 40),
		ttl:    ttl,
	}
}

// Generate 生成数字验证码，答案按 secret 存入 redis
func (s *captchaServiceImpl) Generate(ctx context.Context) (*dto.CaptchaDTO, error) {
	secret, question, answer := s.driver.GenerateIdQuestionAnswer()
	item, err := s.driver.DrawCaptcha(question)
	if err != nil {
		return nil, err
	}
	if err = redis.SetWithExpiration(ctx, consts.CaptchaKey+secret, answer, s.ttl); err != nil {
		return nil, err
	}
	return &dto.CaptchaDTO{
		Secret: secret,
		Image:  item.EncodeB64string(),
	}, nil
}

// Verify 每个 secret 只能校验一次，无论结果如何
func (s *captchaServiceImpl) Verify(ctx context.Context, secret, answer string) (bool, error) {
	if secret == "" || answer == "" {
		return false, nil
	}
	expected, err := redis.GetAndDelete(ctx, consts.CaptchaKey+secret)
	if err != nil {
		return false, err
	}
	return expected != "" && strings.EqualFold(expected, strings.TrimSpace(answer)), nil
}
