package bids

import (
	"context"
	"testing"

	"katmarket-backend/internal/application/notifications"
	"katmarket-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupBidTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Listing{}, &domain.Bid{}, &domain.Notification{}))
	return &Service{DB: db, Notifications: &notifications.Service{DB: db}}, db
}

func seedListing(t *testing.T, db *gorm.DB, sellerID uuid.UUID, status string) *domain.Listing {
	listing := &domain.Listing{
		SellerID: sellerID, CatalystID: "KAT-1", CatalystName: "Unit KAT-1",
		WeightG: 1000, PtG: 1.2, PdG: 0.8, RhG: 0.1, TotalPrice: 73.8,
		AskingPrice: 70, Status: status,
	}
	require.NoError(t, db.Create(listing).Error)
	return listing
}

func notificationCount(t *testing.T, db *gorm.DB, userID uuid.UUID, ntype string) int64 {
	var count int64
	require.NoError(t, db.Model(&domain.Notification{}).
		Where("user_id = ? AND type = ?", userID, ntype).Count(&count).Error)
	return count
}

func TestPlaceBid_NotifiesSeller(t *testing.T) {
	svc, db := setupBidTest(t)
	sellerID := uuid.New()
	listing := seedListing(t, db, sellerID, "open")

	bid, err := svc.PlaceBid(context.Background(), PlaceBidInput{
		ListingID: listing.ListingID, BidderID: uuid.New(), Amount: 65,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BidActive, bid.Status)
	assert.EqualValues(t, 1, notificationCount(t, db, sellerID, domain.NotifyBidPlaced))
}

func TestPlaceBid_Rules(t *testing.T) {
	svc, db := setupBidTest(t)
	sellerID := uuid.New()
	open := seedListing(t, db, sellerID, "open")
	closed := seedListing(t, db, sellerID, "closed")

	_, err := svc.PlaceBid(context.Background(), PlaceBidInput{
		ListingID: open.ListingID, BidderID: uuid.New(), Amount: 0,
	})
	assert.Equal(t, "Invalid bid amount", err.Error())

	_, err = svc.PlaceBid(context.Background(), PlaceBidInput{
		ListingID: closed.ListingID, BidderID: uuid.New(), Amount: 50,
	})
	assert.Equal(t, "Listing is not open", err.Error())

	_, err = svc.PlaceBid(context.Background(), PlaceBidInput{
		ListingID: open.ListingID, BidderID: sellerID, Amount: 50,
	})
	assert.Equal(t, "Cannot bid on your own listing", err.Error())

	_, err = svc.PlaceBid(context.Background(), PlaceBidInput{
		ListingID: uuid.New(), BidderID: uuid.New(), Amount: 50,
	})
	assert.Equal(t, "Listing not found", err.Error())
}

func TestListBidsForListing_Visibility(t *testing.T) {
	svc, db := setupBidTest(t)
	sellerID := uuid.New()
	listing := seedListing(t, db, sellerID, "open")
	bidder1 := uuid.New()
	bidder2 := uuid.New()

	_, err := svc.PlaceBid(context.Background(), PlaceBidInput{
		ListingID: listing.ListingID, BidderID: bidder1, Amount: 40,
	})
	require.NoError(t, err)
	_, err = svc.PlaceBid(context.Background(), PlaceBidInput{
		ListingID: listing.ListingID, BidderID: bidder2, Amount: 55,
	})
	require.NoError(t, err)

	all, err := svc.ListBidsForListing(context.Background(), listing.ListingID, sellerID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 55.0, all[0].Amount)

	own, err := svc.ListBidsForListing(context.Background(), listing.ListingID, bidder1)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, bidder1, own[0].BidderID)
}

func TestAcceptBid_ClosesListingAndRejectsSiblings(t *testing.T) {
	svc, db := setupBidTest(t)
	sellerID := uuid.New()
	listing := seedListing(t, db, sellerID, "open")
	winner := uuid.New()
	loser := uuid.New()

	winning, err := svc.PlaceBid(context.Background(), PlaceBidInput{
		ListingID: listing.ListingID, BidderID: winner, Amount: 60,
	})
	require.NoError(t, err)
	_, err = svc.PlaceBid(context.Background(), PlaceBidInput{
		ListingID: listing.ListingID, BidderID: loser, Amount: 55,
	})
	require.NoError(t, err)

	accepted, err := svc.AcceptBid(context.Background(), winning.BidID, sellerID)
	require.NoError(t, err)
	assert.Equal(t, domain.BidAccepted, accepted.Status)

	var reloaded domain.Listing
	require.NoError(t, db.Where("listing_id = ?", listing.ListingID).First(&reloaded).Error)
	assert.Equal(t, "closed", reloaded.Status)

	var rejectedCount int64
	require.NoError(t, db.Model(&domain.Bid{}).
		Where("listing_id = ? AND status = ?", listing.ListingID, domain.BidRejected).
		Count(&rejectedCount).Error)
	assert.EqualValues(t, 1, rejectedCount)

	assert.EqualValues(t, 1, notificationCount(t, db, winner, domain.NotifyBidAccepted))
	assert.EqualValues(t, 1, notificationCount(t, db, loser, domain.NotifyBidRejected))
}

func TestAcceptBid_SellerOnly(t *testing.T) {
	svc, db := setupBidTest(t)
	listing := seedListing(t, db, uuid.New(), "open")
	bid, err := svc.PlaceBid(context.Background(), PlaceBidInput{
		ListingID: listing.ListingID, BidderID: uuid.New(), Amount: 60,
	})
	require.NoError(t, err)

	_, err = svc.AcceptBid(context.Background(), bid.BidID, uuid.New())
	assert.Equal(t, "Unauthorized", err.Error())
}

func TestAcceptBid_OnlyActiveBids(t *testing.T) {
	svc, db := setupBidTest(t)
	sellerID := uuid.New()
	listing := seedListing(t, db, sellerID, "open")
	bid, err := svc.PlaceBid(context.Background(), PlaceBidInput{
		ListingID: listing.ListingID, BidderID: uuid.New(), Amount: 60,
	})
	require.NoError(t, err)

	_, err = svc.RejectBid(context.Background(), bid.BidID, sellerID)
	require.NoError(t, err)

	_, err = svc.AcceptBid(context.Background(), bid.BidID, sellerID)
	assert.Equal(t, "Bid is not active", err.Error())
}

func TestRejectBid_NotifiesBidder(t *testing.T) {
	svc, db := setupBidTest(t)
	sellerID := uuid.New()
	listing := seedListing(t, db, sellerID, "open")
	bidder := uuid.New()
	bid, err := svc.PlaceBid(context.Background(), PlaceBidInput{
		ListingID: listing.ListingID, BidderID: bidder, Amount: 60,
	})
	require.NoError(t, err)

	rejected, err := svc.RejectBid(context.Background(), bid.BidID, sellerID)
	require.NoError(t, err)
	assert.Equal(t, domain.BidRejected, rejected.Status)
	assert.EqualValues(t, 1, notificationCount(t, db, bidder, domain.NotifyBidRejected))

	var reloaded domain.Listing
	require.NoError(t, db.Where("listing_id = ?", listing.ListingID).First(&reloaded).Error)
	assert.Equal(t, "open", reloaded.Status)
}

func TestSellerOverview_Aggregates(t *testing.T) {
	svc, db := setupBidTest(t)
	sellerID := uuid.New()
	withBids := seedListing(t, db, sellerID, "open")
	noBids := seedListing(t, db, sellerID, "open")
	seedListing(t, db, uuid.New(), "open") // someone else's

	_, err := svc.PlaceBid(context.Background(), PlaceBidInput{
		ListingID: withBids.ListingID, BidderID: uuid.New(), Amount: 40,
	})
	require.NoError(t, err)
	high, err := svc.PlaceBid(context.Background(), PlaceBidInput{
		ListingID: withBids.ListingID, BidderID: uuid.New(), Amount: 58,
	})
	require.NoError(t, err)
	_, err = svc.RejectBid(context.Background(), high.BidID, sellerID)
	require.NoError(t, err)

	overview, err := svc.SellerOverview(context.Background(), sellerID)
	require.NoError(t, err)
	require.Len(t, overview, 2)

	byID := map[uuid.UUID]ListingOverview{}
	for _, row := range overview {
		byID[row.Listing.ListingID] = row
	}
	busy := byID[withBids.ListingID]
	assert.Equal(t, 2, busy.BidCount)
	assert.Equal(t, 1, busy.ActiveBidCount)
	require.NotNil(t, busy.HighestBid)
	assert.Equal(t, 58.0, *busy.HighestBid)

	quiet := byID[noBids.ListingID]
	assert.Equal(t, 0, quiet.BidCount)
	assert.Nil(t, quiet.HighestBid)
}
