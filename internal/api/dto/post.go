package dto

// PostRequestDTO 新建/编辑帖子
type PostRequestDTO struct {
	Timestamp int64    `json:"timestamp"` // 秒级时间戳，早于当前时间按当前时间发布
	Active    bool     `json:"active"`
	Title     string   `json:"title" validate:"length=3:100"`
	Text      string   `json:"text" validate:"length=50:2000"`
	Tags      []string `json:"tags"`
}

type UserBriefDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo,omitempty"`
}

// PostSummaryDTO 列表项
type PostSummaryDTO struct {
	ID            uint64       `json:"id"`
	Timestamp     int64        `json:"timestamp"`
	User          UserBriefDTO `json:"user"`
	Title         string       `json:"title"`
	Announce      string       `json:"announce"`
	LikeCount     int64        `json:"likeCount"`
	DislikeCount  int64        `json:"dislikeCount"`
	CommentCount  int64        `json:"commentCount"`
	ViewCount     int64        `json:"viewCount"`
	Active        bool         `json:"active"`
	Status        string       `json:"status,omitempty"`
	ModeratorID   uint64       `json:"moderatorId,omitempty"`
	PublishedTime string       `json:"publishedTime,omitempty"`
}

// PostListDTO 分页结果，count 为满足条件的总数
type PostListDTO struct {
	Count int64             `json:"count"`
	Posts []*PostSummaryDTO `json:"posts"`
}

// PostDetailDTO 帖子详情
type PostDetailDTO struct {
	ID           uint64        `json:"id"`
	Timestamp    int64         `json:"timestamp"`
	Active       bool          `json:"active"`
	Status       string        `json:"status"`
	User         UserBriefDTO  `json:"user"`
	Title        string        `json:"title"`
	Text         string        `json:"text"`
	LikeCount    int64         `json:"likeCount"`
	DislikeCount int64         `json:"dislikeCount"`
	ViewCount    int64         `json:"viewCount"`
	MyVote       int8          `json:"myVote"`
	Comments     []*CommentDTO `json:"comments"`
	Tags         []string      `json:"tags"`
}

// PostSavedDTO 新建/编辑成功后的结果
type PostSavedDTO struct {
	ID          uint64 `json:"id"`
	Status      string `json:"status"`
	ModeratorID uint64 `json:"moderatorId"`
	Timestamp   int64  `json:"timestamp"`
}

// ModerationDTO 审核决定
type ModerationDTO struct {
	PostID   uint64 `json:"post_id" binding:"required"`
	Decision string `json:"decision" binding:"required,oneof=accept decline"`
}

// VoteDTO 点赞/点踩
type VoteDTO struct {
	PostID uint64 `json:"post_id" binding:"required"`
}

type VoteResultDTO struct {
	Result bool `json:"result"`
}

// PostListQuery 列表类接口共用的查询参数
type PostListQuery struct {
	PageQuery
	Mode   string `form:"mode"`
	Query  string `form:"query"`
	Date   string `form:"date"`
	Tag    string `form:"tag"`
	Status string `form:"status"`
}
