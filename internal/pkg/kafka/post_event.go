package kafka

import (
	"time"
)

// PostEventType 帖子生命周期事件
type PostEventType string

const (
	PostCreated   PostEventType = "post.created"
	PostUpdated   PostEventType = "post.updated"
	PostModerated PostEventType = "post.moderated"
)

// PostEvent 写入 post_topic 的消息体，key 为帖子 ID
type PostEvent struct {
	Type        PostEventType `json:"type"`
	PostID      uint64        `json:"post_id"`
	UserID      uint64        `json:"user_id"`
	ModeratorID uint64        `json:"moderator_id"`
	Status      string        `json:"status"`
	Active      bool          `json:"active"`
	Tags        []string      `json:"tags,omitempty"`
	PublishAt   time.Time     `json:"publish_at"`
	OccurredAt  time.Time     `json:"occurred_at"`
	TraceID     string        `json:"trace_id,omitempty"`
}
