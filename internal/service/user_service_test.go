package service

import (
	"Scribe/internal/api/dto"
	"Scribe/internal/model"
	"Scribe/internal/pkg/consts"
	"Scribe/internal/pkg/notify"
	"Scribe/internal/pkg/redis"
	"Scribe/internal/pkg/security"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMiniredis(t *testing.T) *miniredis.Miniredis {
	mr := miniredis.RunT(t)
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redis.Rdb.Close() })
	return mr
}

// fakeCaptcha 只接受 "ok"，每个 secret 只能用一次
type fakeCaptcha struct {
	mu   sync.Mutex
	used map[string]bool
}

func (c *fakeCaptcha) Generate(context.Context) (*dto.CaptchaDTO, error) {
	return &dto.CaptchaDTO{Secret: "s", Image: "data:image/png;base64,"}, nil
}

func (c *fakeCaptcha) Verify(_ context.Context, secret, answer string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.used == nil {
		c.used = make(map[string]bool)
	}
	if c.used[secret] {
		return false, nil
	}
	c.used[secret] = true
	return answer == "ok", nil
}

func newUserService(f *fixture) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo: f.users,
		postRepo: f.posts,
		settings: f.settings,
		captcha:  &fakeCaptcha{},
		notifier: f.notifier,
		now:      fixedClock,
	}
}

func registerRequest(email, secret string) *dto.RegisterDTO {
	return &dto.RegisterDTO{
		Email:         email,
		Password:      "secret123",
		Name:          strings.Split(email, "@")[0],
		Captcha:       "ok",
		CaptchaSecret: secret,
	}
}

func TestRegister_FirstUserBecomesModerator(t *testing.T) {
	f := newFixture(t)
	svc := newUserService(f)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerRequest("Admin@Example.com ", "s1")))
	require.NoError(t, svc.Register(ctx, registerRequest("writer@example.com", "s2")))

	admin, err := f.users.GetUserByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.True(t, admin.IsModerator)
	assert.NotEqual(t, "secret123", admin.Password)

	writer, err := f.users.GetUserByEmail(ctx, "writer@example.com")
	require.NoError(t, err)
	require.NotNil(t, writer)
	assert.False(t, writer.IsModerator)
}

func TestRegister_FieldErrors(t *testing.T) {
	f := newFixture(t)
	svc := newUserService(f)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, registerRequest("taken@example.com", "s1")))

	req := registerRequest("taken@example.com", "s2")
	req.Password = "123"
	req.Captcha = "wrong"
	err := svc.Register(ctx, req)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "this email is already registered", verr.Fields["e_mail"])
	assert.Equal(t, "password must be at least 6 characters", verr.Fields["password"])
	assert.Equal(t, ErrCaptchaIncorrect.Error(), verr.Fields["captcha"])

	req = registerRequest("not-an-email", "s3")
	err = svc.Register(ctx, req)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "e_mail must be a valid email address", verr.Fields["e_mail"])
}

func TestRegister_ClosedInSingleUserMode(t *testing.T) {
	f := newFixture(t)
	svc := newUserService(f)
	f.settings.set(model.SettingMultiuserMode, model.SettingNo)

	err := svc.Register(context.Background(), registerRequest("late@example.com", "s1"))
	assert.ErrorIs(t, err, ErrRegistrationClosed)
}

func TestLogin(t *testing.T) {
	useMiniredis(t)
	f := newFixture(t)
	svc := newUserService(f)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, registerRequest("admin@example.com", "s1")))

	res, err := svc.Login(ctx, &dto.LoginDTO{Email: "ADMIN@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.True(t, res.User.Moderation)
	assert.Zero(t, res.User.ModerationCount)

	claims, err := security.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.True(t, claims.HasRole(model.RoleModerator))

	_, err = svc.Login(ctx, &dto.LoginDTO{Email: "admin@example.com", Password: "nope"})
	assert.ErrorIs(t, err, ErrPasswordIncorrect)
	_, err = svc.Login(ctx, &dto.LoginDTO{Email: "ghost@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrPasswordIncorrect)

	require.NoError(t, f.users.UpdateUser(ctx, &model.User{ID: res.User.ID, IsBan: true}, "is_ban"))
	_, err = svc.Login(ctx, &dto.LoginDTO{Email: "admin@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUserBan)
}

func TestLogout_BlacklistsSignature(t *testing.T) {
	mr := useMiniredis(t)
	f := newFixture(t)
	svc := newUserService(f)
	ctx := context.Background()

	token, _, err := security.GenerateToken(7, []string{model.RoleUser})
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, token))

	signature, err := security.ExtractSignature(token)
	require.NoError(t, err)
	revoked, err := redis.Exists(ctx, consts.TokenBlacklistKey+signature)
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Positive(t, mr.TTL(consts.TokenBlacklistKey+signature))

	// 非法 Token 直接忽略
	assert.NoError(t, svc.Logout(ctx, "garbage"))
}

func TestRestoreAndChangePassword(t *testing.T) {
	useMiniredis(t)
	f := newFixture(t)
	svc := newUserService(f)
	ctx := context.WithValue(context.Background(), consts.BaseURL, "https://blog.example.com/")
	require.NoError(t, svc.Register(ctx, registerRequest("writer@example.com", "s1")))

	assert.ErrorIs(t, svc.RequestRestore(ctx, "ghost@example.com"), ErrUserNotFound)

	require.NoError(t, svc.RequestRestore(ctx, "writer@example.com"))
	sent := f.notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, notify.KindPasswordRestore, sent[0].Kind)
	assert.Equal(t, "writer@example.com", sent[0].To)
	link := sent[0].Params[0].(string)
	prefix := "https://blog.example.com/login/change-password/"
	require.True(t, strings.HasPrefix(link, prefix), link)
	code := strings.TrimPrefix(link, prefix)

	req := &dto.PasswordDTO{Code: code, Password: "newsecret", Captcha: "ok", CaptchaSecret: "s2"}
	require.NoError(t, svc.ChangePassword(ctx, req))

	_, err := svc.Login(ctx, &dto.LoginDTO{Email: "writer@example.com", Password: "newsecret"})
	require.NoError(t, err)

	// 找回码只能使用一次
	req.CaptchaSecret = "s3"
	err = svc.ChangePassword(ctx, req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ErrRestoreCodeInvalid.Error(), verr.Fields["code"])
}

func TestUpdateProfile(t *testing.T) {
	useMiniredis(t)
	f := newFixture(t)
	svc := newUserService(f)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, registerRequest("one@example.com", "s1")))
	require.NoError(t, svc.Register(ctx, registerRequest("two@example.com", "s2")))
	one, err := f.users.GetUserByEmail(ctx, "one@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePhoto(ctx, one.ID, "avatars/1/a.png"))

	taken := "two@example.com"
	err = svc.UpdateProfile(ctx, one.ID, &dto.ProfileDTO{Email: &taken})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")

	name := "Renamed"
	password := "changed1"
	require.NoError(t, svc.UpdateProfile(ctx, one.ID, &dto.ProfileDTO{Name: &name, Password: &password, RemovePhoto: true}))

	info, err := svc.GetUserInfo(ctx, one.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", info.Name)
	assert.Empty(t, info.Photo)
	assert.Equal(t, "one@example.com", info.Email)

	_, err = svc.Login(ctx, &dto.LoginDTO{Email: "one@example.com", Password: "changed1"})
	assert.NoError(t, err)

	_, err = svc.GetUserInfo(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
