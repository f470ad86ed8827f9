package model

import (
	"time"
)

type PostComment struct {
	ID       uint64    `gorm:"primaryKey"`
	PostID   uint64    `gorm:"not null;index:idx_comment_post_id" json:"postId"`
	UserID   uint64    `gorm:"not null" json:"userId"`
	ParentID *uint64   `gorm:"default:null" json:"parentId"` // nil 表示直接评论帖子
	Text     string    `gorm:"type:text;not null" json:"text"`
	Time     time.Time `gorm:"not null" json:"time"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

func (PostComment) TableName() string {
	return "post_comments"
}
