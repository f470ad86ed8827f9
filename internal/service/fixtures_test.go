package service

import (
	"Scribe/internal/api/dto"
	"Scribe/internal/model"
	"Scribe/internal/pkg/database/dbtest"
	"Scribe/internal/pkg/kafka"
	"Scribe/internal/pkg/notify"
	"Scribe/internal/repository"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (f *fakeNotifier) Notify(_ context.Context, n notify.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
}

func (f *fakeNotifier) all() []notify.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notify.Notification(nil), f.sent...)
}

func (f *fakeNotifier) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*kafka.PostEvent
}

func (f *fakePublisher) PublishPostEvent(_ context.Context, e *kafka.PostEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

// fakeSettings 内存版全局开关
type fakeSettings struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{values: map[string]string{
		model.SettingMultiuserMode:      model.SettingYes,
		model.SettingPostPremoderation:  model.SettingYes,
		model.SettingStatisticsIsPublic: model.SettingYes,
	}}
}

func (f *fakeSettings) set(code, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[code] = value
}

func (f *fakeSettings) GetSetting(_ context.Context, code string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[code]
	if !ok {
		return "", ErrSettingNotFound
	}
	return v, nil
}

func (f *fakeSettings) IsEnabled(ctx context.Context, code string) (bool, error) {
	v, err := f.GetSetting(ctx, code)
	return v == model.SettingYes, err
}

func (f *fakeSettings) GetSettings(context.Context) (*dto.SettingsDTO, error) {
	return &dto.SettingsDTO{}, nil
}

func (f *fakeSettings) UpdateSettings(context.Context, *dto.SettingsDTO) error { return nil }

type fixture struct {
	users      repository.UserRepo
	posts      repository.PostRepo
	actions    repository.PostActionRepo
	tags       repository.TagRepo
	settings   *fakeSettings
	notifier   *fakeNotifier
	publisher  *fakePublisher
	moderators *moderatorServiceImpl
	tagService *tagServiceImpl
	postSvc    *postServiceImpl
}

func newFixture(t *testing.T) *fixture {
	db := dbtest.New(t)
	f := &fixture{
		users:     repository.NewUserRepo(db),
		posts:     repository.NewPostRepository(db),
		actions:   repository.NewPostActionRepo(db),
		tags:      repository.NewTagRepository(db),
		settings:  newFakeSettings(),
		notifier:  &fakeNotifier{},
		publisher: &fakePublisher{},
	}
	f.moderators = &moderatorServiceImpl{userRepo: f.users, postRepo: f.posts, now: fixedClock}
	f.tagService = &tagServiceImpl{tagRepo: f.tags, now: fixedClock}
	f.postSvc = &postServiceImpl{
		postRepo:   f.posts,
		actionRepo: f.actions,
		userRepo:   f.users,
		tagService: f.tagService,
		moderators: f.moderators,
		settings:   f.settings,
		notifier:   f.notifier,
		events:     f.publisher,
		now:        fixedClock,
	}
	return f
}

func (f *fixture) user(t *testing.T, email string, moderator bool) *model.User {
	u := &model.User{Email: email, Name: strings.Split(email, "@")[0], Password: "x", IsModerator: moderator, RegTime: testNow}
	require.NoError(t, f.users.CreateUser(context.Background(), u))
	return u
}

func postRequest(title string, textLen int, active bool, at time.Time, tags ...string) *dto.PostRequestDTO {
	return &dto.PostRequestDTO{
		Timestamp: at.Unix(),
		Active:    active,
		Title:     title,
		Text:      strings.Repeat("a", textLen),
		Tags:      tags,
	}
}
