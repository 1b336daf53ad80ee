package bids

import (
	"context"
	"errors"
	"fmt"
	"math"

	"katmarket-backend/internal/application/notifications"
	"katmarket-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB            *gorm.DB
	Notifications *notifications.Service
}

type PlaceBidInput struct {
	ListingID uuid.UUID
	BidderID  uuid.UUID
	Amount    float64
	Message   *string
}

// PlaceBid records a tender on an open listing and notifies the seller.
func (s *Service) PlaceBid(ctx context.Context, in PlaceBidInput) (*domain.Bid, error) {
	if in.ListingID == uuid.Nil {
		return nil, errors.New("listing_id is required")
	}
	if in.BidderID == uuid.Nil {
		return nil, errors.New("Bidder not found in session")
	}
	if math.IsNaN(in.Amount) || in.Amount <= 0 {
		return nil, errors.New("Invalid bid amount")
	}

	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", in.ListingID).First(&listing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Listing not found")
		}
		return nil, err
	}
	if listing.Status != "open" {
		return nil, errors.New("Listing is not open")
	}
	if listing.SellerID == in.BidderID {
		return nil, errors.New("Cannot bid on your own listing")
	}

	bid := &domain.Bid{
		ListingID: in.ListingID,
		BidderID:  in.BidderID,
		Amount:    in.Amount,
		Message:   in.Message,
		Status:    domain.BidActive,
	}
	if err := s.DB.WithContext(ctx).Create(bid).Error; err != nil {
		return nil, err
	}

	if s.Notifications != nil {
		_ = s.Notifications.Create(ctx, listing.SellerID, domain.NotifyBidPlaced,
			fmt.Sprintf("New bid on %s", listing.CatalystName),
			map[string]interface{}{
				"listing_id": listing.ListingID.String(),
				"bid_id":     bid.BidID.String(),
				"amount":     bid.Amount,
			})
	}
	return bid, nil
}

// ListBidsForListing returns all bids of a listing for its seller, or only
// the requester's own bids otherwise.
func (s *Service) ListBidsForListing(ctx context.Context, listingID, requesterID uuid.UUID) ([]domain.Bid, error) {
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

	q := s.DB.WithContext(ctx).Where("listing_id = ?", listingID)
	if listing.SellerID != requesterID {
		q = q.Where("bidder_id = ?", requesterID)
	}
	var bids []domain.Bid
	if err := q.Order("amount DESC").Find(&bids).Error; err != nil {
		return nil, err
	}
	return bids, nil
}

// AcceptBid accepts one active bid, rejects its siblings and closes the
// listing, all in one transaction. Bidders are notified afterwards.
func (s *Service) AcceptBid(ctx context.Context, bidID, sellerID uuid.UUID) (*domain.Bid, error) {
	var accepted domain.Bid
	var rejected []domain.Bid
	var listing domain.Listing

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bid_id = ?", bidID).First(&accepted).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New("Bid not found")
			}
			return err
		}
		if accepted.Status != domain.BidActive {
			return errors.New("Bid is not active")
		}
		if err := tx.Where("listing_id = ?", accepted.ListingID).First(&listing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New("Listing not found")
			}
			return err
		}
		if listing.SellerID != sellerID {
			return errors.New("Unauthorized")
		}
		if listing.Status != "open" {
			return errors.New("Listing is not open")
		}

		if err := tx.Where("listing_id = ? AND status = ? AND bid_id <> ?",
			accepted.ListingID, domain.BidActive, bidID).Find(&rejected).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Bid{}).
			Where("listing_id = ? AND status = ? AND bid_id <> ?", accepted.ListingID, domain.BidActive, bidID).
			Update("status", domain.BidRejected).Error; err != nil {
			return err
		}
		if err := tx.Model(&accepted).Update("status", domain.BidAccepted).Error; err != nil {
			return err
		}
		accepted.Status = domain.BidAccepted
		listing.Status = "closed"
		return tx.Save(&listing).Error
	})
	if err != nil {
		return nil, err
	}

	if s.Notifications != nil {
		_ = s.Notifications.Create(ctx, accepted.BidderID, domain.NotifyBidAccepted,
			fmt.Sprintf("Your bid on %s was accepted", listing.CatalystName),
			map[string]interface{}{
				"listing_id": listing.ListingID.String(),
				"bid_id":     accepted.BidID.String(),
				"amount":     accepted.Amount,
			})
		for _, b := range rejected {
			_ = s.Notifications.Create(ctx, b.BidderID, domain.NotifyBidRejected,
				fmt.Sprintf("Your bid on %s was not accepted", listing.CatalystName),
				map[string]interface{}{
					"listing_id": listing.ListingID.String(),
					"bid_id":     b.BidID.String(),
					"amount":     b.Amount,
				})
		}
	}
	return &accepted, nil
}

// RejectBid marks one active bid rejected and notifies the bidder.
func (s *Service) RejectBid(ctx context.Context, bidID, sellerID uuid.UUID) (*domain.Bid, error) {
	var bid domain.Bid
	if err := s.DB.WithContext(ctx).Where("bid_id = ?", bidID).First(&bid).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Bid not found")
		}
		return nil, err
	}
	if bid.Status != domain.BidActive {
		return nil, errors.New("Bid is not active")
	}

	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", bid.ListingID).First(&listing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Listing not found")
		}
		return nil, err
	}
	if listing.SellerID != sellerID {
		return nil, errors.New("Unauthorized")
	}

	if err := s.DB.WithContext(ctx).Model(&bid).Update("status", domain.BidRejected).Error; err != nil {
		return nil, err
	}
	bid.Status = domain.BidRejected

	if s.Notifications != nil {
		_ = s.Notifications.Create(ctx, bid.BidderID, domain.NotifyBidRejected,
			fmt.Sprintf("Your bid on %s was not accepted", listing.CatalystName),
			map[string]interface{}{
				"listing_id": listing.ListingID.String(),
				"bid_id":     bid.BidID.String(),
				"amount":     bid.Amount,
			})
	}
	return &bid, nil
}

// ListingOverview is one row of the seller overview: a listing with its bid
// aggregates.
type ListingOverview struct {
	Listing        domain.Listing `json:"listing"`
	BidCount       int            `json:"bid_count"`
	ActiveBidCount int            `json:"active_bid_count"`
	HighestBid     *float64       `json:"highest_bid"`
}

// SellerOverview aggregates a seller's listings with their bids.
func (s *Service) SellerOverview(ctx context.Context, sellerID uuid.UUID) ([]ListingOverview, error) {
	if sellerID == uuid.Nil {
		return nil, errors.New("Seller not found in session")
	}

	var listings []domain.Listing
	if err := s.DB.WithContext(ctx).Where("seller_id = ?", sellerID).Order(`"createdAt" DESC`).Find(&listings).Error; err != nil {
		return nil, err
	}
	overview := make([]ListingOverview, 0, len(listings))
	if len(listings) == 0 {
		return overview, nil
	}

	ids := make([]uuid.UUID, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ListingID)
	}
	var bids []domain.Bid
	if err := s.DB.WithContext(ctx).Where("listing_id IN ?", ids).Find(&bids).Error; err != nil {
		return nil, err
	}

	byListing := make(map[uuid.UUID][]domain.Bid, len(listings))
	for _, b := range bids {
		byListing[b.ListingID] = append(byListing[b.ListingID], b)
	}

	for _, l := range listings {
		row := ListingOverview{Listing: l}
		for _, b := range byListing[l.ListingID] {
			row.BidCount++
			if b.Status == domain.BidActive {
				row.ActiveBidCount++
			}
			if row.HighestBid == nil || b.Amount > *row.HighestBid {
				amount := b.Amount
				row.HighestBid = &amount
			}
		}
		overview = append(overview, row)
	}
	return overview, nil
}
