package bids

import (
	"fmt"

	bidsvc "katmarket-backend/internal/application/bids"
	"katmarket-backend/internal/middleware"
	"katmarket-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *bidsvc.Service
}

var bidErrorStatus = map[string]int{
	"listing_id is required":         400,
	"Invalid bid amount":             400,
	"Cannot bid on your own listing": 400,
	"Listing is not open":            400,
	"Bid is not active":              400,
	"Bidder not found in session":    403,
	"Seller not found in session":    403,
	"Unauthorized":                   403,
	"Listing not found":              404,
	"Bid not found":                  404,
}

func bidError(c *fiber.Ctx, err error) error {
	if code, ok := bidErrorStatus[err.Error()]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// PlaceBid POST /api/v1/bids/place-bid
func (h *Handlers) PlaceBid(c *fiber.Ctx) error {
	var body struct {
		ListingID string   `json:"listing_id"`
		Amount    *float64 `json:"amount"`
		Message   *string  `json:"message"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if body.ListingID == "" {
		return response.Error(c, "listing_id is required", 400, nil)
	}
	if body.Amount == nil {
		return response.Error(c, "Missing required field: amount", 400, nil)
	}
	bidderID, err := actorUserID(c)
	if err != nil {
		return response.Error(c, "Bidder not found in session", 403, nil)
	}
	listingID, err := uuid.Parse(body.ListingID)
	if err != nil {
		return response.Error(c, "Invalid listing_id format", 400, nil)
	}

	bid, err := h.Service.PlaceBid(c.Context(), bidsvc.PlaceBidInput{
		ListingID: listingID,
		BidderID:  bidderID,
		Amount:    *body.Amount,
		Message:   body.Message,
	})
	if err != nil {
		return bidError(c, err)
	}
	return response.SuccessCreated(c, "Bid placed successfully", bid, nil)
}

// GetBidsForListing GET /api/v1/bids/get-bids/:listing_id
func (h *Handlers) GetBidsForListing(c *fiber.Ctx) error {
	idStr := c.Params("listing_id")
	listingID, err := uuid.Parse(idStr)
	if err != nil {
		return response.Error(c, "Invalid listing_id format", 400, nil)
	}
	requesterID, err := actorUserID(c)
	if err != nil {
		return response.Error(c, "User not found in session", 403, nil)
	}
	bids, err := h.Service.ListBidsForListing(c.Context(), listingID, requesterID)
	if err != nil {
		return bidError(c, err)
	}
	return response.Success(c, "Bids fetched successfully", bids, nil)
}

// AcceptBid POST /api/v1/bids/accept-bid
func (h *Handlers) AcceptBid(c *fiber.Ctx) error {
	bidID, sellerID, ok := bidAndActor(c)
	if !ok {
		return nil
	}
	bid, err := h.Service.AcceptBid(c.Context(), bidID, sellerID)
	if err != nil {
		return bidError(c, err)
	}
	return response.Success(c, "Bid accepted successfully", bid, nil)
}

// RejectBid POST /api/v1/bids/reject-bid
func (h *Handlers) RejectBid(c *fiber.Ctx) error {
	bidID, sellerID, ok := bidAndActor(c)
	if !ok {
		return nil
	}
	bid, err := h.Service.RejectBid(c.Context(), bidID, sellerID)
	if err != nil {
		return bidError(c, err)
	}
	return response.Success(c, "Bid rejected successfully", bid, nil)
}

// SellerOverview GET /api/v1/bids/seller-overview
func (h *Handlers) SellerOverview(c *fiber.Ctx) error {
	sellerID, err := actorUserID(c)
	if err != nil {
		return response.Error(c, "Seller not found in session", 403, nil)
	}
	overview, err := h.Service.SellerOverview(c.Context(), sellerID)
	if err != nil {
		return bidError(c, err)
	}
	return response.Success(c, "Seller overview fetched successfully", overview, nil)
}

// bidAndActor parses {bid_id} from the body plus the session user. Writes
// the error response itself and returns false when either is missing.
func bidAndActor(c *fiber.Ctx) (uuid.UUID, uuid.UUID, bool) {
	var body struct {
		BidID string `json:"bid_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.BidID == "" {
		_ = response.Error(c, "bid_id is required", 400, nil)
		return uuid.Nil, uuid.Nil, false
	}
	bidID, err := uuid.Parse(body.BidID)
	if err != nil {
		_ = response.Error(c, "Invalid bid_id format", 400, nil)
		return uuid.Nil, uuid.Nil, false
	}
	actorID, err := actorUserID(c)
	if err != nil {
		_ = response.Error(c, "User not found in session", 403, nil)
		return uuid.Nil, uuid.Nil, false
	}
	return bidID, actorID, true
}

func actorUserID(c *fiber.Ctx) (uuid.UUID, error) {
	user := middleware.GetUser(c)
	m, ok := user.(map[string]interface{})
	if !ok {
		return uuid.Nil, fmt.Errorf("User not found in session")
	}
	idStr, _ := m["user_id"].(string)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("User not found in session")
	}
	return uuid.Parse(idStr)
}
