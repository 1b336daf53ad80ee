package listings

import (
	"fmt"

	listsvc "katmarket-backend/internal/application/listings"
	notifsvc "katmarket-backend/internal/application/notifications"
	"katmarket-backend/internal/domain"
	"katmarket-backend/internal/middleware"
	"katmarket-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service       *listsvc.Service
	Notifications *notifsvc.Service
}

// CreateListing POST /api/v1/listings/create-listing
func (h *Handlers) CreateListing(c *fiber.Ctx) error {
	var body struct {
		CatalystID  string   `json:"catalyst_id"`
		AskingPrice *float64 `json:"asking_price"`
		Description string   `json:"description"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if body.CatalystID == "" {
		return response.Error(c, "Missing required field: catalyst_id", 400, nil)
	}
	if body.AskingPrice == nil {
		return response.Error(c, "Missing required field: asking_price", 400, nil)
	}
	sellerID, err := actorUserID(c)
	if err != nil {
		return response.Error(c, "User not found in session", 403, nil)
	}

	listing, err := h.Service.CreateListing(c.Context(), listsvc.CreateListingInput{
		CatalystID:  body.CatalystID,
		SellerID:    sellerID,
		AskingPrice: *body.AskingPrice,
		Description: body.Description,
	})
	if err != nil {
		statusMap := map[string]int{
			"catalyst_id is required":         400,
			"Invalid asking price":            400,
			"Catalyst not found":              404,
			"Seller not found in session":     403,
			"Pricing temporarily unavailable": 503,
		}
		if code, ok := statusMap[err.Error()]; ok {
			return response.Error(c, err.Error(), code, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Listing created successfully", listing, nil)
}

// GetAllListings GET /api/v1/listings/get-all-listings
func (h *Handlers) GetAllListings(c *fiber.Ctx) error {
	listings, err := h.Service.GetAllListings(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Listings fetched successfully", listings, nil)
}

// GetActiveListings GET /api/v1/listings/get-active-listings
func (h *Handlers) GetActiveListings(c *fiber.Ctx) error {
	listings, err := h.Service.GetActiveListings(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Active listings fetched", listings, nil)
}

// GetMyListings GET /api/v1/listings/get-my-listings
func (h *Handlers) GetMyListings(c *fiber.Ctx) error {
	sellerID, err := actorUserID(c)
	if err != nil {
		return response.Error(c, "User not found in session", 403, nil)
	}
	listings, err := h.Service.GetSellerListings(c.Context(), sellerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Seller listings fetched successfully", listings, nil)
}

// GetListingByID GET /api/v1/listings/get-listing/:listing_id
func (h *Handlers) GetListingByID(c *fiber.Ctx) error {
	idStr := c.Params("listing_id")
	if idStr == "" {
		return response.Error(c, "listing_id is required", 400, nil)
	}
	listingID, err := uuid.Parse(idStr)
	if err != nil {
		return response.Error(c, "Invalid listing_id format", 400, nil)
	}
	listing, err := h.Service.GetListingByID(c.Context(), listingID)
	if err != nil {
		switch err.Error() {
		case "listing_id is required":
			return response.Error(c, err.Error(), 400, nil)
		case "Listing not found":
			return response.Error(c, err.Error(), 404, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Listing fetched successfully", listing, nil)
}

// EditListing PUT /api/v1/listings/edit-listing
func (h *Handlers) EditListing(c *fiber.Ctx) error {
	var body struct {
		ListingID   string   `json:"listing_id"`
		AskingPrice *float64 `json:"asking_price"`
		Description *string  `json:"description"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "listing_id is required", 400, nil)
	}
	if body.ListingID == "" {
		return response.Error(c, "listing_id is required", 400, nil)
	}
	sellerID, err := actorUserID(c)
	if err != nil {
		return response.Error(c, "User not found in session", 403, nil)
	}
	listingID, err := uuid.Parse(body.ListingID)
	if err != nil {
		return response.Error(c, "Invalid listing_id", 400, nil)
	}

	result, err := h.Service.EditListing(c.Context(), listsvc.EditListingInput{
		ListingID:      listingID,
		SellerID:       sellerID,
		NewAskingPrice: body.AskingPrice,
		NewDescription: body.Description,
	})
	if err != nil {
		statusMap := map[string]int{
			"Missing listing_id":        400,
			"Invalid asking price":      400,
			"No valid changes provided": 400,
			"Listing is not editable":   400,
			"Listing not found":         404,
			"Unauthorized listing edit": 403,
		}
		if code, ok := statusMap[err.Error()]; ok {
			return response.Error(c, err.Error(), code, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Listing updated successfully", result, nil)
}

// CancelListing POST /api/v1/listings/cancel-listing
func (h *Handlers) CancelListing(c *fiber.Ctx) error {
	var body struct {
		ListingID string `json:"listing_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.ListingID == "" {
		return response.Error(c, "Invalid listing_id", 400, nil)
	}
	sellerID, err := actorUserID(c)
	if err != nil {
		return response.Error(c, "User not found in session", 403, nil)
	}
	listingID, err := uuid.Parse(body.ListingID)
	if err != nil {
		return response.Error(c, "Invalid listing_id", 400, nil)
	}

	result, cancelledBids, err := h.Service.CancelListing(c.Context(), listingID, sellerID)
	if err != nil {
		statusMap := map[string]int{
			"Listing not found":   404,
			"Listing is not open": 400,
			"Unauthorized":        403,
		}
		if code, ok := statusMap[err.Error()]; ok {
			return response.Error(c, err.Error(), code, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}

	if h.Notifications != nil {
		for _, b := range cancelledBids {
			_ = h.Notifications.Create(c.Context(), b.BidderID, domain.NotifyListingCancelled,
				fmt.Sprintf("Listing %s was cancelled", result.CatalystName),
				map[string]interface{}{
					"listing_id": result.ListingID.String(),
					"bid_id":     b.BidID.String(),
				})
		}
	}
	return response.Success(c, "Listing cancelled successfully", result, nil)
}

// --- helpers ---

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
