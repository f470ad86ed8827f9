package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SysBoxModel 站内通知
type SysBoxModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"` // 接收者ID
	Type       int8               `bson:"type" json:"type"`              // 1-待审核, 2-审核通过, 3-审核拒绝, 4-找回密码, 5-审核汇总
	TargetID   uint64             `bson:"target_id" json:"targetId"`     // 关联的帖子ID，没有则为 0
	Title      string             `bson:"title" json:"title"`
	Content    string             `bson:"content" json:"content"`
	IsRead     bool               `bson:"is_read" json:"isRead"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
