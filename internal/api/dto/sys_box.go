package dto

// SysBoxDTO 站内通知返回对象
type SysBoxDTO struct {
	ID        string `json:"id" copier:"-"`
	Type      int8   `json:"type"`      // 1-待审核, 2-审核通过, 3-审核拒绝, 4-找回密码, 5-审核汇总
	TargetID  uint64 `json:"target_id"` // 关联的帖子ID
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at" copier:"-"`
}

// SysBoxUnreadDTO 未读数返回
type SysBoxUnreadDTO struct {
	UnreadCount int64 `json:"unread_count"`
}

// SysBoxReadDTO 标记单条已读
type SysBoxReadDTO struct {
	ID string `json:"id" binding:"required"`
}
