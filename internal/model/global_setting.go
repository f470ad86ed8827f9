package model

const (
	SettingMultiuserMode      = "MULTIUSER_MODE"
	SettingPostPremoderation  = "POST_PREMODERATION"
	SettingStatisticsIsPublic = "STATISTICS_IS_PUBLIC"

	SettingYes = "YES"
	SettingNo  = "NO"
)

type GlobalSetting struct {
	ID    uint64 `gorm:"primaryKey"`
	Code  string `gorm:"type:varchar(64);not null;uniqueIndex:idx_setting_code"`
	Name  string `gorm:"type:varchar(255);not null"`
	Value string `gorm:"type:varchar(8);not null"`
}

func (GlobalSetting) TableName() string {
	return "global_settings"
}

func (s *GlobalSetting) Enabled() bool {
	return s.Value == SettingYes
}

func DefaultSettings() []GlobalSetting {
	return []GlobalSetting{
		{Code: SettingMultiuserMode, Name: "Multi-user mode", Value: SettingYes},
		{Code: SettingPostPremoderation, Name: "Post premoderation", Value: SettingYes},
		{Code: SettingStatisticsIsPublic, Name: "Public statistics", Value: SettingYes},
	}
}
