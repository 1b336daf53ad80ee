package listings

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	catsvc "katmarket-backend/internal/application/catalysts"
	listsvc "katmarket-backend/internal/application/listings"
	notifsvc "katmarket-backend/internal/application/notifications"
	setsvc "katmarket-backend/internal/application/settings"
	"katmarket-backend/internal/domain"
	"katmarket-backend/internal/middleware"
	"katmarket-backend/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupListingHandlers(t *testing.T) (*Handlers, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Catalyst{}, &domain.CatalystOverride{}, &domain.PriceSettings{},
		&domain.Listing{}, &domain.Bid{}, &domain.Notification{},
	))
	cs := &catsvc.Service{DB: db, Settings: &setsvc.Service{DB: db}}
	ls := &listsvc.Service{DB: db, Catalysts: cs}
	ns := &notifsvc.Service{DB: db}
	return &Handlers{Service: ls, Notifications: ns}, db
}

func asSeller(sellerID uuid.UUID) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id": sellerID.String(),
			"role":    constants.Seller,
		})
		return c.Next()
	}
}

func seedMarket(t *testing.T, db *gorm.DB) {
	require.NoError(t, db.Create(&domain.PriceSettings{
		ID: domain.PriceSettingsID, PricePerGPt: 30, PricePerGPd: 28.5, PricePerGRh: 150,
	}).Error)
	info := "OEM monolith"
	require.NoError(t, db.Create(&domain.Catalyst{
		CatalystID: "KAT-1", Name: "Unit One", CeramicWeightG: 1000,
		PtPpm: 1200, PdPpm: 800, RhPpm: 100, AddInfo: &info,
	}).Error)
}

func TestCreateListing_HTTPFlow(t *testing.T) {
	h, db := setupListingHandlers(t)
	seedMarket(t, db)
	sellerID := uuid.New()

	app := fiber.New()
	app.Use(asSeller(sellerID))
	app.Post("/create-listing", middleware.AuthorizePermission(constants.CreateListing), h.CreateListing)

	body, _ := json.Marshal(map[string]interface{}{
		"catalyst_id": "KAT-1", "asking_price": 99.5, "description": "Clean",
	})
	req := httptest.NewRequest("POST", "/create-listing", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	b, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	data, _ := out["data"].(map[string]interface{})
	assert.Equal(t, "KAT-1", data["catalyst_id"])
	assert.Equal(t, "Unit One", data["catalyst_name"])
	assert.Equal(t, "Clean\n\nOEM monolith", data["description"])
	assert.Equal(t, "open", data["status"])
	assert.InDelta(t, 1.2, data["pt_g"].(float64), 1e-9)
}

func TestCreateListing_ForbiddenForBuyer(t *testing.T) {
	h, db := setupListingHandlers(t)
	seedMarket(t, db)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"user_id": uuid.New().String(), "role": constants.Buyer})
		return c.Next()
	})
	app.Post("/create-listing", middleware.AuthorizePermission(constants.CreateListing), h.CreateListing)

	body, _ := json.Marshal(map[string]interface{}{"catalyst_id": "KAT-1", "asking_price": 10.0})
	req := httptest.NewRequest("POST", "/create-listing", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCreateListing_PricingUnavailableIs503(t *testing.T) {
	h, db := setupListingHandlers(t)
	// catalyst exists but no price settings
	require.NoError(t, db.Create(&domain.Catalyst{
		CatalystID: "KAT-1", Name: "Unit One", CeramicWeightG: 1000, PtPpm: 1200, PdPpm: 800, RhPpm: 100,
	}).Error)

	app := fiber.New()
	app.Use(asSeller(uuid.New()))
	app.Post("/create-listing", h.CreateListing)

	body, _ := json.Marshal(map[string]interface{}{"catalyst_id": "KAT-1", "asking_price": 10.0})
	req := httptest.NewRequest("POST", "/create-listing", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestCancelListing_NotifiesActiveBidders(t *testing.T) {
	h, db := setupListingHandlers(t)
	seedMarket(t, db)
	sellerID := uuid.New()
	bidderID := uuid.New()

	app := fiber.New()
	app.Use(asSeller(sellerID))
	app.Post("/create-listing", h.CreateListing)
	app.Post("/cancel-listing", h.CancelListing)

	body, _ := json.Marshal(map[string]interface{}{"catalyst_id": "KAT-1", "asking_price": 50.0})
	req := httptest.NewRequest("POST", "/create-listing", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	b, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	data, _ := out["data"].(map[string]interface{})
	listingID := data["listing_id"].(string)

	require.NoError(t, db.Create(&domain.Bid{
		ListingID: uuid.MustParse(listingID), BidderID: bidderID, Amount: 40, Status: domain.BidActive,
	}).Error)

	body, _ = json.Marshal(map[string]string{"listing_id": listingID})
	req = httptest.NewRequest("POST", "/cancel-listing", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&domain.Notification{}).
		Where("user_id = ? AND type = ?", bidderID, domain.NotifyListingCancelled).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetListingByID_BadUUID(t *testing.T) {
	h, _ := setupListingHandlers(t)
	app := fiber.New()
	app.Get("/get-listing/:listing_id", h.GetListingByID)

	resp, err := app.Test(httptest.NewRequest("GET", "/get-listing/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
