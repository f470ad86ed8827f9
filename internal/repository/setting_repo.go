package repository

import (
	"Scribe/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type SettingRepo interface {
	GetByCode(ctx context.Context, code string) (*model.GlobalSetting, error)
	GetAll(ctx context.Context) ([]*model.GlobalSetting, error)
	UpdateValues(ctx context.Context, values map[string]string) error
}

type settingRepoImpl struct {
	db *gorm.DB
}

func NewSettingRepo(db *gorm.DB) SettingRepo {
	return &settingRepoImpl{db: db}
}

func (s *settingRepoImpl) GetByCode(ctx context.Context, code string) (*model.GlobalSetting, error) {
	var setting model.GlobalSetting
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

func (s *settingRepoImpl) GetAll(ctx context.Context) ([]*model.GlobalSetting, error) {
	settings := make([]*model.GlobalSetting, 0)
	err := s.db.WithContext(ctx).Order("id ASC").Find(&settings).Error
	return settings, err
}

// UpdateValues code -> YES/NO，一次事务内更新
func (s *settingRepoImpl) UpdateValues(ctx context.Context, values map[string]string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for code, value := range values {
			err := tx.Model(&model.GlobalSetting{}).
				Where("code = ?", code).
				Update("value", value).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
