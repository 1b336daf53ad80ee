package cms

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"katmarket-backend/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service manages keyed storefront content blobs.
type Service struct {
	DB *gorm.DB
}

// Get returns one setting by key.
func (s *Service) Get(ctx context.Context, key string) (*domain.CMSSetting, error) {
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("key is required")
	}
	var setting domain.CMSSetting
	if err := s.DB.WithContext(ctx).Where("setting_key = ?", key).First(&setting).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("CMS setting not found")
		}
		return nil, err
	}
	return &setting, nil
}

// List returns all settings ordered by key.
func (s *Service) List(ctx context.Context) ([]domain.CMSSetting, error) {
	var settings []domain.CMSSetting
	if err := s.DB.WithContext(ctx).Order("setting_key ASC").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// Upsert creates or replaces one setting. Content must be valid JSON.
func (s *Service) Upsert(ctx context.Context, key string, content json.RawMessage) (*domain.CMSSetting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("key is required")
	}
	if len(content) == 0 || !json.Valid(content) {
		return nil, errors.New("content must be valid JSON")
	}
	setting := domain.CMSSetting{
		Key:     key,
		Content: datatypes.JSON(content),
	}
	if err := s.DB.WithContext(ctx).Save(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}
