package database

import (
	"Scribe/internal/model"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate 建表并写入缺省的全局设置
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Tag{},
		&model.Post{},
		&model.PostTag{},
		&model.PostVote{},
		&model.PostComment{},
		&model.GlobalSetting{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	settings := model.DefaultSettings()
	if err = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&settings).Error; err != nil {
		return fmt.Errorf("failed to seed global settings: %w", err)
	}
	return nil
}
