package dto

// CalendarDTO years 为有帖子的所有年份，posts 为指定年份每天的发布数
type CalendarDTO struct {
	Years []int            `json:"years"`
	Posts map[string]int64 `json:"posts"`
}

type StatisticsDTO struct {
	PostsCount       int64 `json:"postsCount"`
	LikesCount       int64 `json:"likesCount"`
	DislikesCount    int64 `json:"dislikesCount"`
	ViewsCount       int64 `json:"viewsCount"`
	FirstPublication int64 `json:"firstPublication"`
}
