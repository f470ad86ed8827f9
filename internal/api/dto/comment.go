package dto

// CommentRequestDTO 发表评论，parent_id 为空表示直接评论帖子
type CommentRequestDTO struct {
	ParentID *uint64 `json:"parent_id"`
	PostID   uint64  `json:"post_id" validate:"required"`
	Text     string  `json:"text" validate:"length=3:1000"`
}

type CommentDTO struct {
	ID        uint64       `json:"id"`
	ParentID  *uint64      `json:"parentId,omitempty"`
	Timestamp int64        `json:"timestamp"`
	Text      string       `json:"text"`
	User      UserBriefDTO `json:"user"`
}

type CommentCreatedDTO struct {
	ID uint64 `json:"id"`
}
