package settings

import (
	"context"
	"errors"

	"katmarket-backend/internal/domain"

	"gorm.io/gorm"
)

var ErrNotConfigured = errors.New("Price settings not configured")

// Service reads and updates the singleton price settings row.
type Service struct {
	DB *gorm.DB
}

// Get returns the current settings or fails if the row is missing or invalid.
// Every computation goes through here, so a misconfigured store fails fast
// instead of silently pricing everything at zero.
func (s *Service) Get(ctx context.Context) (*domain.PriceSettings, error) {
	var ps domain.PriceSettings
	if err := s.DB.WithContext(ctx).Where("id = ?", domain.PriceSettingsID).First(&ps).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotConfigured
		}
		return nil, err
	}
	if err := ps.Validate(); err != nil {
		return nil, err
	}
	return &ps, nil
}

// UpdateInput requires all three prices; a partial update could leave a
// metal silently priced at a stale value without the admin noticing.
type UpdateInput struct {
	PricePerGPt *float64 `json:"price_per_g_pt"`
	PricePerGPd *float64 `json:"price_per_g_pd"`
	PricePerGRh *float64 `json:"price_per_g_rh"`
}

// Update replaces the settings row (creating it on first use).
func (s *Service) Update(ctx context.Context, in UpdateInput) (*domain.PriceSettings, error) {
	if in.PricePerGPt == nil || in.PricePerGPd == nil || in.PricePerGRh == nil {
		return nil, errors.New("price_per_g_pt, price_per_g_pd and price_per_g_rh are required")
	}
	ps := domain.PriceSettings{
		ID:          domain.PriceSettingsID,
		PricePerGPt: *in.PricePerGPt,
		PricePerGPd: *in.PricePerGPd,
		PricePerGRh: *in.PricePerGRh,
	}
	if err := ps.Validate(); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Save(&ps).Error; err != nil {
		return nil, err
	}
	return &ps, nil
}
