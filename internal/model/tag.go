package model

// Tag 标签名唯一，首次使用时创建
type Tag struct {
	ID   uint64 `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(255);not null;uniqueIndex:idx_tag_name"`
}

func (Tag) TableName() string {
	return "tags"
}

// PostTag 帖子与标签的关联，按标签查帖子时走 idx_tag_post
type PostTag struct {
	PostID uint64 `gorm:"primaryKey;autoIncrement:false"`
	TagID  uint64 `gorm:"primaryKey;autoIncrement:false;index:idx_tag_post"`
}

func (PostTag) TableName() string {
	return "post_tags"
}
