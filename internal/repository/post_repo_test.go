package repository

import (
	"Scribe/internal/model"
	"Scribe/internal/pkg/database/dbtest"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

type postFixture struct {
	db    *gorm.DB
	posts PostRepo
	tags  TagRepo
	votes PostActionRepo
	users UserRepo
}

func newPostFixture(t *testing.T) *postFixture {
	db := dbtest.New(t)
	return &postFixture{
		db:    db,
		posts: NewPostRepository(db),
		tags:  NewTagRepository(db),
		votes: NewPostActionRepo(db),
		users: NewUserRepo(db),
	}
}

func (f *postFixture) user(t *testing.T, email string, moderator bool) *model.User {
	u := &model.User{Email: email, Name: email, Password: "x", IsModerator: moderator, RegTime: testNow}
	require.NoError(t, f.users.CreateUser(context.Background(), u))
	return u
}

func (f *postFixture) post(t *testing.T, author uint64, title string, active bool, status model.ModerationStatus, at time.Time, tags ...string) *model.Post {
	ctx := context.Background()
	resolved, err := f.tags.GetOrCreateTags(ctx, tags)
	require.NoError(t, err)

	p := &model.Post{
		UserID:           author,
		Title:            title,
		Text:             "body of " + title,
		IsActive:         active,
		ModerationStatus: status,
		Time:             at,
	}
	require.NoError(t, f.posts.CreatePost(ctx, p, resolved))
	return p
}

func titles(posts []*model.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Title)
	}
	return out
}

func TestPostRepo_VisibilityPredicate(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	author := f.user(t, "author@example.com", false)

	f.post(t, author.ID, "published", true, model.ModerationAccepted, testNow.Add(-time.Hour), "go")
	f.post(t, author.ID, "future", true, model.ModerationAccepted, testNow.Add(time.Hour), "go")
	f.post(t, author.ID, "inactive", false, model.ModerationAccepted, testNow.Add(-time.Hour), "go")
	f.post(t, author.ID, "pending", true, model.ModerationNew, testNow.Add(-time.Hour), "go")
	f.post(t, author.ID, "declined", true, model.ModerationDeclined, testNow.Add(-time.Hour), "go")

	total, page, err := f.posts.ListPublished(ctx, testNow, ListModeRecent, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, []string{"published"}, titles(page))

	total, page, err = f.posts.SearchPublished(ctx, testNow, "body", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, []string{"published"}, titles(page))

	total, page, err = f.posts.ListPublishedByTag(ctx, testNow, "go", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, []string{"published"}, titles(page))

	total, page, err = f.posts.ListPublishedByDate(ctx, testNow, testNow, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, []string{"published"}, titles(page))

	// 到达计划时间后自动可见
	total, _, err = f.posts.ListPublished(ctx, testNow.Add(2*time.Hour), ListModeRecent, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestPostRepo_ListModes(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	author := f.user(t, "author@example.com", false)
	voter1 := f.user(t, "v1@example.com", false)
	voter2 := f.user(t, "v2@example.com", false)

	oldest := f.post(t, author.ID, "oldest", true, model.ModerationAccepted, testNow.Add(-3*time.Hour))
	middle := f.post(t, author.ID, "middle", true, model.ModerationAccepted, testNow.Add(-2*time.Hour))
	f.post(t, author.ID, "newest", true, model.ModerationAccepted, testNow.Add(-1*time.Hour))

	for _, v := range []uint64{voter1.ID, voter2.ID} {
		_, err := f.votes.ApplyVote(ctx, &model.PostVote{UserID: v, PostID: oldest.ID, Value: model.VoteLike, Time: testNow})
		require.NoError(t, err)
	}
	require.NoError(t, f.votes.CreateComment(ctx, &model.PostComment{PostID: middle.ID, UserID: voter1.ID, Text: "nice", Time: testNow}))

	_, page, err := f.posts.ListPublished(ctx, testNow, ListModeRecent, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"newest", "middle", "oldest"}, titles(page))

	_, page, err = f.posts.ListPublished(ctx, testNow, ListModeEarly, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"oldest", "middle", "newest"}, titles(page))

	_, page, err = f.posts.ListPublished(ctx, testNow, ListModeBest, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, "oldest", page[0].Title)

	_, page, err = f.posts.ListPublished(ctx, testNow, ListModePopular, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, "middle", page[0].Title)

	total, page, err := f.posts.ListPublished(ctx, testNow, ListModeRecent, 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []string{"middle"}, titles(page))

	counters, err := f.posts.GetCounters(ctx, []uint64{oldest.ID, middle.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, counters[oldest.ID].LikesCount)
	assert.EqualValues(t, 1, counters[middle.ID].CommentsCount)
}

func TestPostRepo_SearchEscapesWildcards(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	author := f.user(t, "author@example.com", false)
	f.post(t, author.ID, "plain", true, model.ModerationAccepted, testNow.Add(-time.Hour))

	total, _, err := f.posts.SearchPublished(ctx, testNow, "%", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestPostRepo_UserAndModeratorViews(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	author := f.user(t, "author@example.com", false)
	mod := f.user(t, "mod@example.com", true)

	pending := f.post(t, author.ID, "pending", true, model.ModerationNew, testNow)
	f.post(t, author.ID, "draft", false, model.ModerationNew, testNow)
	f.post(t, author.ID, "published", true, model.ModerationAccepted, testNow)
	f.post(t, author.ID, "declined", true, model.ModerationDeclined, testNow)
	require.NoError(t, f.posts.UpdateModeration(ctx, pending.ID, mod.ID, model.ModerationNew))

	cases := map[MyPostStatus]string{
		MyPostsPending:   "pending",
		MyPostsInactive:  "draft",
		MyPostsPublished: "published",
		MyPostsDeclined:  "declined",
	}
	for status, want := range cases {
		_, page, err := f.posts.ListByUser(ctx, author.ID, status, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{want}, titles(page), status)
	}

	total, page, err := f.posts.ListForModerator(ctx, mod.ID, model.ModerationNew, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, []string{"pending"}, titles(page))

	count, err := f.posts.CountPendingForModerator(ctx, mod.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = f.posts.CountByStatus(ctx, model.ModerationNew)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	byMod, err := f.posts.CountByModerators(ctx, []uint64{mod.ID, 999})
	require.NoError(t, err)
	assert.EqualValues(t, 1, byMod[mod.ID])
	assert.EqualValues(t, 0, byMod[999])
}

func TestPostRepo_UpdateReplacesTags(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	author := f.user(t, "author@example.com", false)
	p := f.post(t, author.ID, "tagged", true, model.ModerationAccepted, testNow.Add(-time.Hour), "go", "rust")

	zig, err := f.tags.GetOrCreateTags(ctx, []string{"zig"})
	require.NoError(t, err)
	p.Title = "retagged"
	require.NoError(t, f.posts.UpdatePost(ctx, p, zig))

	stored, err := f.posts.GetPost(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "retagged", stored.Title)
	require.Len(t, stored.Tags, 1)
	assert.Equal(t, "zig", stored.Tags[0].Name)

	missing, err := f.posts.GetPost(ctx, 4242)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostRepo_CalendarAndStatistics(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	author := f.user(t, "author@example.com", false)
	other := f.user(t, "other@example.com", false)

	first := f.post(t, author.ID, "a", true, model.ModerationAccepted, time.Date(2025, 12, 31, 10, 0, 0, 0, time.UTC))
	f.post(t, author.ID, "b", true, model.ModerationAccepted, time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC))
	f.post(t, other.ID, "c", true, model.ModerationAccepted, time.Date(2026, 1, 5, 18, 0, 0, 0, time.UTC))
	f.post(t, other.ID, "d", true, model.ModerationNew, time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))

	years, err := f.posts.Years(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2025, 2026}, years)

	byDate, err := f.posts.CountPublishedByDate(ctx, testNow, 2026)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"2026-01-05": 2}, byDate)

	require.NoError(t, f.posts.IncrementViewCount(ctx, first.ID))
	_, err = f.votes.ApplyVote(ctx, &model.PostVote{UserID: other.ID, PostID: first.ID, Value: model.VoteDislike, Time: testNow})
	require.NoError(t, err)

	mine, err := f.posts.Statistics(ctx, testNow, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, mine.PostsCount)
	assert.EqualValues(t, 1, mine.ViewsCount)
	assert.EqualValues(t, 1, mine.DislikesCount)
	require.NotNil(t, mine.FirstPublication)
	assert.True(t, mine.FirstPublication.Equal(first.Time))

	all, err := f.posts.Statistics(ctx, testNow, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.PostsCount)

	nobody, err := f.posts.Statistics(ctx, testNow, 777)
	require.NoError(t, err)
	assert.EqualValues(t, 0, nobody.PostsCount)
	assert.Nil(t, nobody.FirstPublication)
}
