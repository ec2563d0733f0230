package mapper

import (
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/model"
)

type SettingMapper struct{}

func NewSettingMapper() *SettingMapper {
	return &SettingMapper{}
}

func (m *SettingMapper) ToEntity(s *model.UserSetting) *entity.UserSetting {
	if s == nil {
		return nil
	}
	return &entity.UserSetting{
		UserId:      s.UserId,
		Theme:       entity.Theme(s.Theme),
		AccentColor: s.AccentColor,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (m *SettingMapper) ToModel(s *entity.UserSetting) *model.UserSetting {
	if s == nil {
		return nil
	}
	return &model.UserSetting{
		UserId:      s.UserId,
		Theme:       string(s.Theme),
		AccentColor: s.AccentColor,
		UpdatedAt:   s.UpdatedAt,
	}
}
