package notify

import (
	"Scribe/internal/pkg/mongo"
	"context"
	"time"
)

// InboxSender 站内信通道，写入 MongoDB sys_box
type InboxSender struct {
	repo mongo.SysBoxRepo
}

func NewInboxSender(repo mongo.SysBoxRepo) *InboxSender {
	return &InboxSender{repo: repo}
}

func (s *InboxSender) Name() string { return "inbox" }

func (s *InboxSender) Send(ctx context.Context, msg *Message) error {
	if msg.ReceiverID == 0 {
		return ErrSkip
	}
	return s.repo.CreateNotification(ctx, &mongo.SysBoxModel{
		ReceiverID: msg.ReceiverID,
		Type:       int8(msg.Kind),
		TargetID:   msg.TargetID,
		Title:      msg.Subject,
		Content:    msg.Body,
		IsRead:     false,
		CreatedAt:  time.Now().UTC(),
	})
}
