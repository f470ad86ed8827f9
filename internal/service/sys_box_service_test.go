package service

import (
	"Scribe/internal/pkg/mongo"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

// memorySysBox 内存版站内信仓储
type memorySysBox struct {
	msgs []*mongo.SysBoxModel
}

func (m *memorySysBox) CreateNotification(_ context.Context, msg *mongo.SysBoxModel) error {
	msg.ID = primitive.NewObjectID()
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *memorySysBox) GetNotificationList(_ context.Context, userID uint64, onlyUnread bool, limit, offset int64) ([]*mongo.SysBoxModel, error) {
	out := make([]*mongo.SysBoxModel, 0)
	for i := len(m.msgs) - 1; i >= 0; i-- {
		msg := m.msgs[i]
		if msg.ReceiverID == userID && (!onlyUnread || !msg.IsRead) {
			out = append(out, msg)
		}
	}
	if offset >= int64(len(out)) {
		return []*mongo.SysBoxModel{}, nil
	}
	out = out[offset:]
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memorySysBox) GetByID(_ context.Context, id primitive.ObjectID) (*mongo.SysBoxModel, error) {
	for _, msg := range m.msgs {
		if msg.ID == id {
			return msg, nil
		}
	}
	return nil, mongoDB.ErrNoDocuments
}

func (m *memorySysBox) GetUnreadCount(_ context.Context, userID uint64) (int64, error) {
	var n int64
	for _, msg := range m.msgs {
		if msg.ReceiverID == userID && !msg.IsRead {
			n++
		}
	}
	return n, nil
}

func (m *memorySysBox) MarkAsRead(_ context.Context, userID uint64, id primitive.ObjectID) error {
	for _, msg := range m.msgs {
		if msg.ID == id && msg.ReceiverID == userID {
			msg.IsRead = true
			return nil
		}
	}
	return mongoDB.ErrNoDocuments
}

func (m *memorySysBox) MarkAllAsRead(_ context.Context, userID uint64) (int64, error) {
	var n int64
	for _, msg := range m.msgs {
		if msg.ReceiverID == userID && !msg.IsRead {
			msg.IsRead = true
			n++
		}
	}
	return n, nil
}

func (m *memorySysBox) DeleteReadBefore(_ context.Context, before time.Time) (int64, error) {
	kept := m.msgs[:0]
	var n int64
	for _, msg := range m.msgs {
		if msg.IsRead && msg.CreatedAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, msg)
	}
	m.msgs = kept
	return n, nil
}

func TestSysBoxService(t *testing.T) {
	repo := &memorySysBox{}
	svc := NewSysBoxService(repo)
	ctx := context.Background()

	for i, title := range []string{"first", "second", "third"} {
		require.NoError(t, repo.CreateNotification(ctx, &mongo.SysBoxModel{
			ReceiverID: 1, Type: 1, TargetID: uint64(i + 1), Title: title, CreatedAt: testNow.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.CreateNotification(ctx, &mongo.SysBoxModel{ReceiverID: 2, Title: "foreign", CreatedAt: testNow}))

	list, err := svc.GetNotificationList(ctx, 1, false, 0, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "third", list[0].Title)
	assert.EqualValues(t, 3, list[0].TargetID)
	assert.Equal(t, repo.msgs[2].ID.Hex(), list[0].ID)
	assert.Equal(t, "2026-03-10T12:02:00Z", list[0].CreatedAt)

	unread, err := svc.GetUnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, unread.UnreadCount)

	require.NoError(t, svc.MarkRead(ctx, 1, list[0].ID))
	require.NoError(t, svc.MarkRead(ctx, 1, list[0].ID))
	unread, err = svc.GetUnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread.UnreadCount)

	onlyUnread, err := svc.GetNotificationList(ctx, 1, true, 0, 10)
	require.NoError(t, err)
	assert.Len(t, onlyUnread, 2)

	assert.ErrorIs(t, svc.MarkRead(ctx, 1, repo.msgs[3].ID.Hex()), UnauthorizedError)
	assert.ErrorIs(t, svc.MarkRead(ctx, 1, "not-hex"), ErrParamInvalid)
	assert.ErrorIs(t, svc.MarkRead(ctx, 1, primitive.NewObjectID().Hex()), ErrSysBoxNotFound)

	n, err := svc.MarkAllRead(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	removed, err := repo.DeleteReadBefore(ctx, testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)
}
