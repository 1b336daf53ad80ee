package listings

import (
	"context"
	"errors"
	"math"
	"strings"

	"katmarket-backend/internal/application/catalysts"
	"katmarket-backend/internal/application/settings"
	"katmarket-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB        *gorm.DB
	Catalysts *catalysts.Service
}

type CreateListingInput struct {
	CatalystID  string
	SellerID    uuid.UUID
	AskingPrice float64
	Description string
}

// CreateListing creates a listing from a catalyst. The computed entry's
// weight/content/price fields are copied verbatim; nothing downstream
// re-derives them. add_info, when present, is appended to the description.
func (s *Service) CreateListing(ctx context.Context, in CreateListingInput) (*domain.Listing, error) {
	if in.CatalystID == "" {
		return nil, errors.New("catalyst_id is required")
	}
	if in.SellerID == uuid.Nil {
		return nil, errors.New("Seller not found in session")
	}
	if math.IsNaN(in.AskingPrice) || in.AskingPrice <= 0 {
		return nil, errors.New("Invalid asking price")
	}

	entry, err := s.Catalysts.GetComputed(ctx, in.CatalystID)
	if err != nil {
		if err == settings.ErrNotConfigured || err == domain.ErrInvalidPriceSettings {
			return nil, errors.New("Pricing temporarily unavailable")
		}
		return nil, err
	}

	description := strings.TrimSpace(in.Description)
	if entry.AddInfo != "" {
		if description != "" {
			description += "\n\n"
		}
		description += entry.AddInfo
	}

	listing := &domain.Listing{
		SellerID:     in.SellerID,
		CatalystID:   entry.CatalystID,
		CatalystName: entry.Name,
		WeightG:      entry.WeightG,
		PtG:          entry.PtG,
		PdG:          entry.PdG,
		RhG:          entry.RhG,
		TotalPrice:   entry.TotalPrice,
		IsOverride:   entry.IsOverride,
		AskingPrice:  in.AskingPrice,
		Description:  description,
		Status:       "open",
	}
	if err := s.DB.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *Service) GetAllListings(ctx context.Context) ([]domain.Listing, error) {
	var listings []domain.Listing
	if err := s.DB.WithContext(ctx).Order(`"createdAt" DESC`).Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (s *Service) GetActiveListings(ctx context.Context) ([]domain.Listing, error) {
	var listings []domain.Listing
	if err := s.DB.WithContext(ctx).Where("status = ?", "open").Order(`"createdAt" DESC`).Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (s *Service) GetSellerListings(ctx context.Context, sellerID uuid.UUID) ([]domain.Listing, error) {
	if sellerID == uuid.Nil {
		return nil, errors.New("Seller not found in session")
	}
	var listings []domain.Listing
	if err := s.DB.WithContext(ctx).Where("seller_id = ?", sellerID).Order(`"createdAt" DESC`).Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (s *Service) GetListingByID(ctx context.Context, listingID uuid.UUID) (*domain.Listing, error) {
	if listingID == uuid.Nil {
		return nil, errors.New("listing_id is required")
	}
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Listing not found")
		}
		return nil, err
	}
	return &listing, nil
}

type EditListingInput struct {
	ListingID      uuid.UUID
	SellerID       uuid.UUID
	NewAskingPrice *float64
	NewDescription *string
}

// EditListing updates asking price and/or description on an open listing
// owned by the caller. The copied catalyst fields are immutable.
func (s *Service) EditListing(ctx context.Context, in EditListingInput) (*domain.Listing, error) {
	if in.ListingID == uuid.Nil {
		return nil, errors.New("Missing listing_id")
	}
	if in.SellerID == uuid.Nil {
		return nil, errors.New("Seller not found in session")
	}

	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", in.ListingID).First(&listing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Listing not found")
		}
		return nil, err
	}
	if listing.Status != "open" {
		return nil, errors.New("Listing is not editable")
	}
	if listing.SellerID != in.SellerID {
		return nil, errors.New("Unauthorized listing edit")
	}

	updates := map[string]interface{}{}
	if in.NewAskingPrice != nil {
		price := *in.NewAskingPrice
		if math.IsNaN(price) || price <= 0 {
			return nil, errors.New("Invalid asking price")
		}
		if price != listing.AskingPrice {
			updates["asking_price"] = price
		}
	}
	if in.NewDescription != nil {
		desc := strings.TrimSpace(*in.NewDescription)
		if desc != listing.Description {
			updates["description"] = desc
		}
	}
	if len(updates) == 0 {
		return nil, errors.New("No valid changes provided")
	}

	if err := s.DB.WithContext(ctx).Model(&listing).Updates(updates).Error; err != nil {
		return nil, err
	}
	s.DB.WithContext(ctx).Where("listing_id = ?", in.ListingID).First(&listing)
	return &listing, nil
}

// CancelListing closes an open listing and rejects its active bids.
// Returned bids let the handler notify the affected bidders.
func (s *Service) CancelListing(ctx context.Context, listingID, sellerID uuid.UUID) (*domain.Listing, []domain.Bid, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, errors.New("Listing not found")
		}
		return nil, nil, err
	}
	if listing.Status != "open" {
		return nil, nil, errors.New("Listing is not open")
	}
	if listing.SellerID != sellerID {
		return nil, nil, errors.New("Unauthorized")
	}

	var activeBids []domain.Bid
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ? AND status = ?", listingID, domain.BidActive).Find(&activeBids).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Bid{}).
			Where("listing_id = ? AND status = ?", listingID, domain.BidActive).
			Update("status", domain.BidRejected).Error; err != nil {
			return err
		}
		listing.Status = "closed"
		return tx.Save(&listing).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &listing, activeBids, nil
}
