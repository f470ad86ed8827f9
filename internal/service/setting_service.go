package service

import (
	"Scribe/internal/api/dto"
	"Scribe/internal/model"
	"Scribe/internal/repository"
	"context"
)

// SettingService 全局开关，每次调用都实时读取
type SettingService interface {
	GetSetting(ctx context.Context, code string) (string, error)
	IsEnabled(ctx context.Context, code string) (bool, error)
	GetSettings(ctx context.Context) (*dto.SettingsDTO, error)
	UpdateSettings(ctx context.Context, req *dto.SettingsDTO) error
}

type settingServiceImpl struct {
	settingRepo repository.SettingRepo
}

func NewSettingService(settingRepo repository.SettingRepo) SettingService {
	return &settingServiceImpl{settingRepo: settingRepo}
}

// GetSetting 返回 YES/NO，未知的 code 返回 ErrSettingNotFound
func (s *settingServiceImpl) GetSetting(ctx context.Context, code string) (string, error) {
	setting, err := s.settingRepo.GetByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if setting == nil {
		return "", ErrSettingNotFound
	}
	return setting.Value, nil
}

func (s *settingServiceImpl) IsEnabled(ctx context.Context, code string) (bool, error) {
	value, err := s.GetSetting(ctx, code)
	if err != nil {
		return false, err
	}
	return value == model.SettingYes, nil
}

func (s *settingServiceImpl) GetSettings(ctx context.Context) (*dto.SettingsDTO, error) {
	settings, err := s.settingRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	res := &dto.SettingsDTO{}
	for _, setting := range settings {
		enabled := setting.Enabled()
		switch setting.Code {
		case model.SettingMultiuserMode:
			res.MultiuserMode = &enabled
		case model.SettingPostPremoderation:
			res.PostPremoderation = &enabled
		case model.SettingStatisticsIsPublic:
			res.StatisticsIsPublic = &enabled
		}
	}
	return res, nil
}

func (s *settingServiceImpl) UpdateSettings(ctx context.Context, req *dto.SettingsDTO) error {
	values := make(map[string]string, 3)
	put := func(code string, v *bool) {
		if v == nil {
			return
		}
		if *v {
			values[code] = model.SettingYes
		} else {
			values[code] = model.SettingNo
		}
	}
	put(model.SettingMultiuserMode, req.MultiuserMode)
	put(model.SettingPostPremoderation, req.PostPremoderation)
	put(model.SettingStatisticsIsPublic, req.StatisticsIsPublic)

	if len(values) == 0 {
		return nil
	}
	return s.settingRepo.UpdateValues(ctx, values)
}
