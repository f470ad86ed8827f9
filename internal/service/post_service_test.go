package service

import (
	"Scribe/internal/model"
	"Scribe/internal/pkg/kafka"
	"Scribe/internal/pkg/notify"
	"Scribe/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost_InitialStatusFollowsPremoderation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author@example.com", false)
	mod := f.user(t, "mod@example.com", true)

	saved, err := f.postSvc.CreatePost(ctx, author.ID, postRequest("Pending post", 60, true, testNow))
	require.NoError(t, err)
	assert.Equal(t, string(model.ModerationNew), saved.Status)
	assert.Equal(t, mod.ID, saved.ModeratorID)

	sent := f.notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "mod@example.com", sent[0].To)
	assert.Equal(t, mod.ID, sent[0].ReceiverID)
	assert.Equal(t, notify.KindModerationRequest, sent[0].Kind)
	assert.Equal(t, "mail.moderation.new.subject", sent[0].SubjectKey)
	assert.Equal(t, saved.ID, sent[0].TargetID)

	f.notifier.reset()
	f.settings.set(model.SettingPostPremoderation, model.SettingNo)

	saved, err = f.postSvc.CreatePost(ctx, author.ID, postRequest("Auto accepted", 60, true, testNow))
	require.NoError(t, err)
	assert.Equal(t, string(model.ModerationAccepted), saved.Status)
	assert.Equal(t, mod.ID, saved.ModeratorID)
	assert.Empty(t, f.notifier.all())

	stored, err := f.posts.GetPost(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ModerationAccepted, stored.ModerationStatus)
}

func TestCreatePost_InactiveDraftIsNotAnnounced(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author@example.com", false)
	f.user(t, "mod@example.com", true)

	saved, err := f.postSvc.CreatePost(context.Background(), author.ID, postRequest("Draft", 60, false, testNow))
	require.NoError(t, err)
	assert.Equal(t, string(model.ModerationNew), saved.Status)
	assert.Empty(t, f.notifier.all())
}

func TestCreatePost_ClampsPastTime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author@example.com", false)
	f.user(t, "mod@example.com", true)

	past, err := f.postSvc.CreatePost(ctx, author.ID, postRequest("Backdated", 60, true, testNow.Add(-48*time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, testNow.Unix(), past.Timestamp)

	zero, err := f.postSvc.CreatePost(ctx, author.ID, postRequest("No timestamp", 60, true, time.Unix(0, 0)))
	require.NoError(t, err)
	assert.Equal(t, testNow.Unix(), zero.Timestamp)

	future := testNow.Add(72 * time.Hour)
	scheduled, err := f.postSvc.CreatePost(ctx, author.ID, postRequest("Scheduled", 60, true, future))
	require.NoError(t, err)
	assert.Equal(t, future.Unix(), scheduled.Timestamp)

	stored, err := f.posts.GetPost(ctx, scheduled.ID)
	require.NoError(t, err)
	assert.True(t, stored.Time.Equal(future))
}

func TestCreatePost_NoModeratorLeavesNothingBehind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author@example.com", false)
	expired := testNow.Add(-time.Hour)
	retired := &model.User{Email: "old@example.com", Name: "old", Password: "x", IsModerator: true, ExpiresAt: &expired, RegTime: testNow}
	require.NoError(t, f.users.CreateUser(ctx, retired))

	_, err := f.postSvc.CreatePost(ctx, author.ID, postRequest("Orphan", 60, true, testNow, "go"))
	require.ErrorIs(t, err, ErrModeratorUnavailable)

	total, _, err := f.posts.ListByUser(ctx, author.ID, repository.MyPostsPending, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	count, err := f.posts.CountByStatus(ctx, model.ModerationNew)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, f.notifier.all())
	assert.Empty(t, f.publisher.events)
}

func TestCreatePost_ValidationIsPerField(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author@example.com", false)
	f.user(t, "mod@example.com", true)

	_, err := f.postSvc.CreatePost(ctx, author.ID, postRequest("Ok", 40, true, testNow))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "text must be between 50 and 2000 characters", verr.Fields["text"])
	assert.Equal(t, "title must be between 3 and 100 characters", verr.Fields["title"])
	assert.Len(t, verr.Fields, 2)

	saved, err := f.postSvc.CreatePost(ctx, author.ID, postRequest("Valid title", 50, true, testNow))
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)

	// 按字符计数
	req := postRequest("Кириллица", 0, true, testNow)
	for i := 0; i < 50; i++ {
		req.Text += "я"
	}
	_, err = f.postSvc.CreatePost(ctx, author.ID, req)
	assert.NoError(t, err)
}

func TestUpdatePost_ReplacesTagsAndResubmits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author@example.com", false)
	mod := f.user(t, "mod@example.com", true)

	f.settings.set(model.SettingPostPremoderation, model.SettingNo)
	saved, err := f.postSvc.CreatePost(ctx, author.ID, postRequest("Original", 60, true, testNow, "go", "rust"))
	require.NoError(t, err)
	require.Equal(t, string(model.ModerationAccepted), saved.Status)

	f.settings.set(model.SettingPostPremoderation, model.SettingYes)
	updated, err := f.postSvc.UpdatePost(ctx, author.ID, saved.ID, postRequest("Edited", 70, true, testNow, "zig"))
	require.NoError(t, err)
	assert.Equal(t, string(model.ModerationNew), updated.Status)
	assert.Equal(t, mod.ID, updated.ModeratorID)

	stored, err := f.posts.GetPost(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edited", stored.Title)
	assert.Equal(t, model.ModerationNew, stored.ModerationStatus)
	require.Len(t, stored.Tags, 1)
	assert.Equal(t, "zig", stored.Tags[0].Name)

	sent := f.notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, notify.KindModerationRequest, sent[0].Kind)

	require.Len(t, f.publisher.events, 2)
	assert.Equal(t, kafka.PostUpdated, f.publisher.events[1].Type)
	assert.Equal(t, []string{"zig"}, f.publisher.events[1].Tags)
}

func TestUpdatePost_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author@example.com", false)
	stranger := f.user(t, "stranger@example.com", false)
	mod := f.user(t, "mod@example.com", true)

	saved, err := f.postSvc.CreatePost(ctx, author.ID, postRequest("Original", 60, true, testNow))
	require.NoError(t, err)

	_, err = f.postSvc.UpdatePost(ctx, author.ID, 9999, postRequest("Edited", 60, true, testNow))
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = f.postSvc.UpdatePost(ctx, stranger.ID, saved.ID, postRequest("Edited", 60, true, testNow))
	assert.ErrorIs(t, err, UnauthorizedError)

	_, err = f.postSvc.UpdatePost(ctx, author.ID, saved.ID, postRequest("Edited", 10, true, testNow))
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = f.postSvc.UpdatePost(ctx, mod.ID, saved.ID, postRequest("Fixed by moderator", 60, true, testNow))
	assert.NoError(t, err)
}

func TestModeratePost_NotifiesAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author@example.com", false)
	mod := f.user(t, "mod@example.com", true)

	accepted, err := f.postSvc.CreatePost(ctx, author.ID, postRequest("Accept me", 60, true, testNow))
	require.NoError(t, err)
	declined, err := f.postSvc.CreatePost(ctx, author.ID, postRequest("Decline me", 60, true, testNow))
	require.NoError(t, err)
	f.notifier.reset()

	require.NoError(t, f.postSvc.ModeratePost(ctx, mod.ID, accepted.ID, DecisionAccept))
	sent := f.notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "author@example.com", sent[0].To)
	assert.Equal(t, notify.KindPostAccepted, sent[0].Kind)
	assert.Equal(t, "mail.post.accepted.subject", sent[0].SubjectKey)
	assert.Equal(t, "mail.post.accepted.body", sent[0].BodyKey)
	assert.Equal(t, []any{"Accept me"}, sent[0].Params)

	f.notifier.reset()
	require.NoError(t, f.postSvc.ModeratePost(ctx, mod.ID, declined.ID, DecisionDecline))
	sent = f.notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, notify.KindPostDeclined, sent[0].Kind)
	assert.Equal(t, "mail.post.declined.subject", sent[0].SubjectKey)

	p, err := f.posts.GetPost(ctx, accepted.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ModerationAccepted, p.ModerationStatus)
	assert.Equal(t, mod.ID, p.ModeratorID)
	assert.True(t, p.IsPubliclyVisible(testNow))

	p, err = f.posts.GetPost(ctx, declined.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ModerationDeclined, p.ModerationStatus)
	assert.False(t, p.IsPubliclyVisible(testNow))
}

func TestModeratePost_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author@example.com", false)
	mod := f.user(t, "mod@example.com", true)
	saved, err := f.postSvc.CreatePost(ctx, author.ID, postRequest("Post", 60, true, testNow))
	require.NoError(t, err)

	assert.ErrorIs(t, f.postSvc.ModeratePost(ctx, mod.ID, 9999, DecisionAccept), ErrPostNotFound)
	assert.ErrorIs(t, f.postSvc.ModeratePost(ctx, author.ID, saved.ID, DecisionAccept), UnauthorizedError)
	assert.ErrorIs(t, f.postSvc.ModeratePost(ctx, mod.ID, saved.ID, "maybe"), ErrParamInvalid)
}

// 已审核的帖子可以被再次审核，以最后一次决定为准
func TestModeratePost_RepeatedDecisionOverrides(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author@example.com", false)
	mod := f.user(t, "mod@example.com", true)
	other := f.user(t, "mod2@example.com", true)
	saved, err := f.postSvc.CreatePost(ctx, author.ID, postRequest("Post", 60, true, testNow))
	require.NoError(t, err)
	f.notifier.reset()

	require.NoError(t, f.postSvc.ModeratePost(ctx, mod.ID, saved.ID, DecisionAccept))
	require.NoError(t, f.postSvc.ModeratePost(ctx, other.ID, saved.ID, DecisionDecline))

	p, err := f.posts.GetPost(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ModerationDeclined, p.ModerationStatus)
	assert.Equal(t, other.ID, p.ModeratorID)
	assert.Len(t, f.notifier.all(), 2)
}

func TestViewPost_CountsOnlyOutsideViewers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author@example.com", false)
	mod := f.user(t, "mod@example.com", true)
	reader := f.user(t, "reader@example.com", false)

	saved, err := f.postSvc.CreatePost(ctx, author.ID, postRequest("Viewed", 60, true, testNow, "go"))
	require.NoError(t, err)
	require.NoError(t, f.postSvc.ModeratePost(ctx, mod.ID, saved.ID, DecisionAccept))

	view, err := f.postSvc.ViewPost(ctx, 0, saved.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, view.ViewCount)
	assert.Equal(t, []string{"go"}, view.Tags)
	assert.Equal(t, author.ID, view.User.ID)

	view, err = f.postSvc.ViewPost(ctx, 0, saved.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, view.ViewCount)

	view, err = f.postSvc.ViewPost(ctx, author.ID, saved.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, view.ViewCount)

	view, err = f.postSvc.ViewPost(ctx, mod.ID, saved.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, view.ViewCount)

	view, err = f.postSvc.ViewPost(ctx, reader.ID, saved.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, view.ViewCount)

	stored, err := f.posts.GetPost(ctx, saved.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stored.ViewCount)

	_, err = f.postSvc.ViewPost(ctx, 0, 9999)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestViewPost_HiddenPostsOnlyForAuthorAndModerator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author@example.com", false)
	mod := f.user(t, "mod@example.com", true)
	reader := f.user(t, "reader@example.com", false)

	pending, err := f.postSvc.CreatePost(ctx, author.ID, postRequest("Pending", 60, true, testNow))
	require.NoError(t, err)
	declined, err := f.postSvc.CreatePost(ctx, author.ID, postRequest("Declined", 60, true, testNow))
	require.NoError(t, err)
	require.NoError(t, f.postSvc.ModeratePost(ctx, mod.ID, declined.ID, DecisionDecline))

	f.settings.set(model.SettingPostPremoderation, model.SettingNo)
	draft, err := f.postSvc.CreatePost(ctx, author.ID, postRequest("Draft", 60, false, testNow))
	require.NoError(t, err)
	scheduled, err := f.postSvc.CreatePost(ctx, author.ID, postRequest("Later", 60, true, testNow.Add(time.Hour)))
	require.NoError(t, err)

	for _, id := range []uint64{pending.ID, declined.ID, draft.ID, scheduled.ID} {
		for _, viewer := range []uint64{0, reader.ID} {
			_, err = f.postSvc.ViewPost(ctx, viewer, id)
			assert.ErrorIs(t, err, ErrPostNotFound, "post %d viewer %d", id, viewer)
		}

		view, err := f.postSvc.ViewPost(ctx, author.ID, id)
		require.NoError(t, err)
		assert.Zero(t, view.ViewCount)
		_, err = f.postSvc.ViewPost(ctx, mod.ID, id)
		require.NoError(t, err)

		stored, err := f.posts.GetPost(ctx, id)
		require.NoError(t, err)
		assert.Zero(t, stored.ViewCount)
	}
}

func TestVotePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author@example.com", false)
	f.user(t, "mod@example.com", true)
	voter := f.user(t, "voter@example.com", false)
	f.settings.set(model.SettingPostPremoderation, model.SettingNo)
	saved, err := f.postSvc.CreatePost(ctx, author.ID, postRequest("Votable", 60, true, testNow))
	require.NoError(t, err)

	applied, err := f.postSvc.VotePost(ctx, voter.ID, saved.ID, model.VoteLike)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = f.postSvc.VotePost(ctx, voter.ID, saved.ID, model.VoteLike)
	require.NoError(t, err)
	assert.False(t, applied)

	counters, err := f.posts.GetCounters(ctx, []uint64{saved.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, counters[saved.ID].LikesCount)

	applied, err = f.postSvc.VotePost(ctx, voter.ID, saved.ID, model.VoteDislike)
	require.NoError(t, err)
	assert.True(t, applied)

	counters, err = f.posts.GetCounters(ctx, []uint64{saved.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 0, counters[saved.ID].LikesCount)
	assert.EqualValues(t, 1, counters[saved.ID].DislikesCount)

	view, err := f.postSvc.ViewPost(ctx, voter.ID, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VoteDislike, view.MyVote)

	_, err = f.postSvc.VotePost(ctx, voter.ID, 9999, model.VoteLike)
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = f.postSvc.VotePost(ctx, voter.ID, saved.ID, 2)
	assert.ErrorIs(t, err, ErrParamInvalid)
}

func TestListPosts_OnlyVisible(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author@example.com", false)
	mod := f.user(t, "mod@example.com", true)

	pending, err := f.postSvc.CreatePost(ctx, author.ID, postRequest("Pending", 60, true, testNow))
	require.NoError(t, err)
	accepted, err := f.postSvc.CreatePost(ctx, author.ID, postRequest("Accepted", 60, true, testNow))
	require.NoError(t, err)
	scheduled, err := f.postSvc.CreatePost(ctx, author.ID, postRequest("Scheduled", 60, true, testNow.Add(time.Hour)))
	require.NoError(t, err)
	require.NoError(t, f.postSvc.ModeratePost(ctx, mod.ID, accepted.ID, DecisionAccept))
	require.NoError(t, f.postSvc.ModeratePost(ctx, mod.ID, scheduled.ID, DecisionAccept))

	list, err := f.postSvc.ListPosts(ctx, "recent", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Count)
	require.Len(t, list.Posts, 1)
	assert.Equal(t, "Accepted", list.Posts[0].Title)
	assert.Equal(t, "aaaaa", list.Posts[0].Announce[:5])

	_, err = f.postSvc.ListPosts(ctx, "random", 0, 10)
	assert.ErrorIs(t, err, ErrParamInvalid)

	queue, err := f.postSvc.ListModerationPosts(ctx, mod.ID, "", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, queue.Count)
	assert.Equal(t, pending.ID, queue.Posts[0].ID)

	mine, err := f.postSvc.ListMyPosts(ctx, author.ID, "published", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, mine.Count)

	byDate, err := f.postSvc.ListPostsByDate(ctx, "2026-03-10", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, byDate.Count)

	_, err = f.postSvc.ListPostsByDate(ctx, "10.03.2026", 0, 10)
	assert.ErrorIs(t, err, ErrParamInvalid)

	count, err := f.postSvc.CountByStatus(ctx, "NEW")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
