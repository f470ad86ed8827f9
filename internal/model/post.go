package model

import (
	"time"
)

// ModerationStatus 帖子审核状态
type ModerationStatus string

const (
	ModerationNew      ModerationStatus = "NEW"
	ModerationAccepted ModerationStatus = "ACCEPTED"
	ModerationDeclined ModerationStatus = "DECLINED"
)

type Post struct {
	ID               uint64           `gorm:"primaryKey"`
	UserID           uint64           `gorm:"not null;index:idx_user_id" json:"user_id"`
	ModeratorID      uint64           `gorm:"not null;default:0;index:idx_moderator_id" json:"moderator_id"`
	IsActive         bool             `gorm:"not null;default:0;index:idx_visible,priority:1" json:"is_active"`
	ModerationStatus ModerationStatus `gorm:"type:varchar(16);not null;default:'NEW';index:idx_visible,priority:2" json:"moderation_status"`
	Time             time.Time        `gorm:"not null;index:idx_visible,priority:3" json:"time"`
	Title            string           `gorm:"type:varchar(255);not null" json:"title"`
	Text             string           `gorm:"type:text;not null" json:"text"`
	ViewCount        int64            `gorm:"not null;default:0" json:"view_count"`

	// 关联关系
	User      User          `gorm:"foreignKey:UserID;references:ID"`
	Moderator *User         `gorm:"foreignKey:ModeratorID;references:ID"`
	Tags      []Tag         `gorm:"many2many:post_tags;joinForeignKey:PostID;joinReferences:TagID"`
	Comments  []PostComment `gorm:"foreignKey:PostID;references:ID"`
}

func (Post) TableName() string {
	return "posts"
}

// IsPubliclyVisible 与仓储层的可见性条件保持一致
func (p *Post) IsPubliclyVisible(now time.Time) bool {
	return p.IsActive && p.ModerationStatus == ModerationAccepted && !p.Time.After(now)
}
