package catalysts

import (
	"context"
	"errors"
	"math"
	"strings"

	"katmarket-backend/internal/application/settings"
	"katmarket-backend/internal/domain"

	"gorm.io/gorm"
)

// Service computes catalyst entries on demand. Records and the settings
// snapshot are loaded fresh per call; there is no cache to invalidate.
type Service struct {
	DB       *gorm.DB
	Settings *settings.Service
}

func (s *Service) loadRecords(ctx context.Context) ([]domain.Catalyst, error) {
	var records []domain.Catalyst
	if err := s.DB.WithContext(ctx).Preload("Override").Order("catalyst_id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListComputed returns every catalyst with current derived or overridden pricing.
func (s *Service) ListComputed(ctx context.Context) ([]ComputedEntry, error) {
	ps, err := s.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeEntries(records, *ps), nil
}

// GetComputed returns one computed entry by catalyst id.
func (s *Service) GetComputed(ctx context.Context, catalystID string) (*ComputedEntry, error) {
	if catalystID == "" {
		return nil, errors.New("catalyst_id is required")
	}
	ps, err := s.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	var record domain.Catalyst
	if err := s.DB.WithContext(ctx).Preload("Override").Where("catalyst_id = ?", catalystID).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Catalyst not found")
		}
		return nil, err
	}
	entry := ComputeEntry(record, *ps)
	return &entry, nil
}

// SearchComputed matches the query against catalyst id and display name
// (case-insensitive substring) and computes the matches.
func (s *Service) SearchComputed(ctx context.Context, query string) ([]ComputedEntry, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, errors.New("Search query is required")
	}
	ps, err := s.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	var records []domain.Catalyst
	like := "%" + strings.ToLower(q) + "%"
	if err := s.DB.WithContext(ctx).Preload("Override").
		Where("lower(catalyst_id) LIKE ? OR lower(name) LIKE ?", like, like).
		Order("catalyst_id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return ComputeEntries(records, *ps), nil
}

// SetOverrideInput carries all five override values; partial overrides are
// rejected so a record is either fully overridden or fully derived.
type SetOverrideInput struct {
	CatalystID string   `json:"catalyst_id"`
	WeightG    *float64 `json:"weight_g"`
	PtG        *float64 `json:"pt_g"`
	PdG        *float64 `json:"pd_g"`
	RhG        *float64 `json:"rh_g"`
	TotalPrice *float64 `json:"total_price"`
}

// SetOverride creates or replaces the manual override for one catalyst.
func (s *Service) SetOverride(ctx context.Context, in SetOverrideInput) (*domain.CatalystOverride, error) {
	if in.CatalystID == "" {
		return nil, errors.New("catalyst_id is required")
	}
	if in.WeightG == nil || in.PtG == nil || in.PdG == nil || in.RhG == nil || in.TotalPrice == nil {
		return nil, errors.New("weight_g, pt_g, pd_g, rh_g and total_price are required")
	}
	for _, v := range []float64{*in.WeightG, *in.PtG, *in.PdG, *in.RhG, *in.TotalPrice} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, errors.New("Override values must be non-negative numbers")
		}
	}

	var record domain.Catalyst
	if err := s.DB.WithContext(ctx).Where("catalyst_id = ?", in.CatalystID).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Catalyst not found")
		}
		return nil, err
	}

	override := &domain.CatalystOverride{
		CatalystID: in.CatalystID,
		WeightG:    *in.WeightG,
		PtG:        *in.PtG,
		PdG:        *in.PdG,
		RhG:        *in.RhG,
		TotalPrice: *in.TotalPrice,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("catalyst_id = ?", in.CatalystID).Delete(&domain.CatalystOverride{}).Error; err != nil {
			return err
		}
		return tx.Create(override).Error
	})
	if err != nil {
		return nil, err
	}
	return override, nil
}

// ClearOverride removes the manual override so the catalyst derives normally again.
func (s *Service) ClearOverride(ctx context.Context, catalystID string) error {
	if catalystID == "" {
		return errors.New("catalyst_id is required")
	}
	result := s.DB.WithContext(ctx).Where("catalyst_id = ?", catalystID).Delete(&domain.CatalystOverride{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("Override not found")
	}
	return nil
}
