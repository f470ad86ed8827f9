package model

import "time"

const (
	VoteLike    int8 = 1
	VoteDislike int8 = -1
)

// PostVote 同一用户对同一帖子同一取值只能有一条记录
type PostVote struct {
	ID     uint64    `gorm:"primaryKey"`
	UserID uint64    `gorm:"not null;uniqueIndex:idx_user_post_value,priority:1"`
	PostID uint64    `gorm:"not null;uniqueIndex:idx_user_post_value,priority:2;index:idx_vote_post_id"`
	Value  int8      `gorm:"not null;uniqueIndex:idx_user_post_value,priority:3"`
	Time   time.Time `gorm:"not null"`
}

func (PostVote) TableName() string {
	return "post_votes"
}
