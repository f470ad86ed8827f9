package service

import (
	"Scribe/internal/api/config"
	"Scribe/internal/pkg/consts"
	"Scribe/internal/pkg/redis"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptcha_VerifyIsSingleUse(t *testing.T) {
	mr := useMiniredis(t)
	svc := NewCaptchaService(config.CaptchaConfig{TTLMinutes: 10})
	ctx := context.Background()

	captcha, err := svc.Generate(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, captcha.Secret)
	assert.True(t, strings.HasPrefix(captcha.Image, "data:image/png;base64,"))

	answer, err := redis.GetValue(ctx, consts.CaptchaKey+captcha.Secret)
	require.NoError(t, err)
	require.Len(t, answer, 5)
	assert.Equal(t, 10*time.Minute, mr.TTL(consts.CaptchaKey+captcha.Secret))

	ok, err := svc.Verify(ctx, captcha.Secret, " "+answer+" ")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Verify(ctx, captcha.Secret, answer)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCaptcha_WrongAnswerBurnsSecret(t *testing.T) {
	useMiniredis(t)
	svc := NewCaptchaService(config.CaptchaConfig{})
	ctx := context.Background()

	captcha, err := svc.Generate(ctx)
	require.NoError(t, err)
	answer, err := redis.GetValue(ctx, consts.CaptchaKey+captcha.Secret)
	require.NoError(t, err)

	ok, err := svc.Verify(ctx, captcha.Secret, "x")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Verify(ctx, captcha.Secret, answer)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Verify(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, ok)
}
