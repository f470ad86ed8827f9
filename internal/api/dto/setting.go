package dto

// SettingsDTO 全局开关；更新时只修改非空字段
type SettingsDTO struct {
	MultiuserMode      *bool `json:"MULTIUSER_MODE,omitempty"`
	PostPremoderation  *bool `json:"POST_PREMODERATION,omitempty"`
	StatisticsIsPublic *bool `json:"STATISTICS_IS_PUBLIC,omitempty"`
}
