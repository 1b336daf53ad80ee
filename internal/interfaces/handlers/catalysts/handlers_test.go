package catalysts

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	catsvc "katmarket-backend/internal/application/catalysts"
	setsvc "katmarket-backend/internal/application/settings"
	"katmarket-backend/internal/domain"
	"katmarket-backend/internal/middleware"
	"katmarket-backend/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func setupCatalystHandlers(t *testing.T) (*Handlers, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Catalyst{}, &domain.CatalystOverride{}, &domain.PriceSettings{}))
	svc := &catsvc.Service{DB: db, Settings: &setsvc.Service{DB: db}}
	return &Handlers{Service: svc}, db
}

func asRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id": "550e8400-e29b-41d4-a716-446655440000",
			"role":    role,
		})
		return c.Next()
	}
}

func seedPricesAndCatalyst(t *testing.T, db *gorm.DB) {
	require.NoError(t, db.Create(&domain.PriceSettings{
		ID: domain.PriceSettingsID, PricePerGPt: 30, PricePerGPd: 28.5, PricePerGRh: 150,
	}).Error)
	require.NoError(t, db.Create(&domain.Catalyst{
		CatalystID: "KAT-1", Name: "Unit One", CeramicWeightG: 1000, PtPpm: 1200, PdPpm: 800, RhPpm: 100,
	}).Error)
}

func TestGetAllCatalysts_ServiceUnavailableWithoutPrices(t *testing.T) {
	h, _ := setupCatalystHandlers(t)
	app := fiber.New()
	app.Get("/get-all-catalysts", h.GetAllCatalysts)

	resp, err := app.Test(httptest.NewRequest("GET", "/get-all-catalysts", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	b, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "error", out["status"])
	errObj, _ := out["error"].(map[string]interface{})
	require.NotNil(t, errObj)
	assert.Equal(t, "Pricing temporarily unavailable", errObj["message"])
}

func TestGetAllCatalysts_ReturnsComputedEntries(t *testing.T) {
	h, db := setupCatalystHandlers(t)
	seedPricesAndCatalyst(t, db)
	app := fiber.New()
	app.Get("/get-all-catalysts", h.GetAllCatalysts)

	resp, err := app.Test(httptest.NewRequest("GET", "/get-all-catalysts", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	b, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	entries, _ := out["data"].([]interface{})
	require.Len(t, entries, 1)
	entry, _ := entries[0].(map[string]interface{})
	assert.Equal(t, "KAT-1", entry["catalyst_id"])
	assert.InDelta(t, 1.2, entry["pt_g"].(float64), 1e-9)
	assert.Equal(t, false, entry["is_override"])
}

func TestGetCatalystByID_NotFound(t *testing.T) {
	h, db := setupCatalystHandlers(t)
	seedPricesAndCatalyst(t, db)
	app := fiber.New()
	app.Get("/get-catalyst/:catalyst_id", h.GetCatalystByID)

	resp, err := app.Test(httptest.NewRequest("GET", "/get-catalyst/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSearchCatalysts_RequiresQuery(t *testing.T) {
	h, db := setupCatalystHandlers(t)
	seedPricesAndCatalyst(t, db)
	app := fiber.New()
	app.Get("/search", h.SearchCatalysts)

	resp, err := app.Test(httptest.NewRequest("GET", "/search", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/search?q=unit", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func buildXlsx(t *testing.T, rows [][]interface{}) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	header := []interface{}{"catalyst_id", "name", "ceramic_weight_g", "pt_ppm", "pd_ppm", "rh_ppm", "add_info"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		require.NoError(t, f.SetSheetRow(sheet, cellRef(i+2), &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func cellRef(row int) string {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	return cell
}

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestImportCatalysts_ForbiddenForSeller(t *testing.T) {
	h, _ := setupCatalystHandlers(t)
	app := fiber.New()
	app.Use(asRole(constants.Seller))
	app.Post("/import", middleware.AuthorizePermission(constants.ImportCatalysts), h.ImportCatalysts)

	body, contentType := multipartBody(t, "file", "catalysts.xlsx", []byte("x"))
	req := httptest.NewRequest("POST", "/import", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestImportCatalysts_AdminUpload(t *testing.T) {
	h, db := setupCatalystHandlers(t)
	require.NoError(t, db.Create(&domain.PriceSettings{
		ID: domain.PriceSettingsID, PricePerGPt: 30, PricePerGPd: 28.5, PricePerGRh: 150,
	}).Error)
	app := fiber.New()
	app.Use(asRole(constants.Admin))
	app.Post("/import", middleware.AuthorizePermission(constants.ImportCatalysts), h.ImportCatalysts)

	data := buildXlsx(t, [][]interface{}{
		{"KAT-1", "One", 1000, 1200, 800, 100, ""},
		{"KAT-2", "Two", 139.7, 1394, 959, 0, "note"},
	})
	body, contentType := multipartBody(t, "file", "catalysts.xlsx", data)
	req := httptest.NewRequest("POST", "/import", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	b, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	result, _ := out["data"].(map[string]interface{})
	assert.EqualValues(t, 2, result["imported"])
	assert.EqualValues(t, 0, result["skipped"])
}

func TestImportCatalysts_MissingFile(t *testing.T) {
	h, _ := setupCatalystHandlers(t)
	app := fiber.New()
	app.Use(asRole(constants.Admin))
	app.Post("/import", middleware.AuthorizePermission(constants.ImportCatalysts), h.ImportCatalysts)

	req := httptest.NewRequest("POST", "/import", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestImportCatalysts_CorruptedFile(t *testing.T) {
	h, _ := setupCatalystHandlers(t)
	app := fiber.New()
	app.Use(asRole(constants.Admin))
	app.Post("/import", middleware.AuthorizePermission(constants.ImportCatalysts), h.ImportCatalysts)

	body, contentType := multipartBody(t, "file", "bad.xlsx", []byte("not a spreadsheet"))
	req := httptest.NewRequest("POST", "/import", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	b, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	errObj, _ := out["error"].(map[string]interface{})
	assert.Equal(t, "Could not read Excel file (corrupted or not .xlsx)", errObj["message"])
}

func TestSetOverride_FullReplacement(t *testing.T) {
	h, db := setupCatalystHandlers(t)
	seedPricesAndCatalyst(t, db)
	app := fiber.New()
	app.Use(asRole(constants.Superadmin))
	app.Put("/set-override", middleware.AuthorizePermission(constants.ManageOverrides), h.SetOverride)
	app.Get("/get-catalyst/:catalyst_id", h.GetCatalystByID)

	body, _ := json.Marshal(map[string]interface{}{
		"catalyst_id": "KAT-1", "weight_g": 900, "pt_g": 3, "pd_g": 2, "rh_g": 1, "total_price": 500,
	})
	req := httptest.NewRequest("PUT", "/set-override", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/get-catalyst/KAT-1", nil))
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	entry, _ := out["data"].(map[string]interface{})
	assert.Equal(t, true, entry["is_override"])
	assert.EqualValues(t, 500, entry["total_price"])
}

func TestSetOverride_PartialRejected(t *testing.T) {
	h, db := setupCatalystHandlers(t)
	seedPricesAndCatalyst(t, db)
	app := fiber.New()
	app.Use(asRole(constants.Admin))
	app.Put("/set-override", middleware.AuthorizePermission(constants.ManageOverrides), h.SetOverride)

	body, _ := json.Marshal(map[string]interface{}{
		"catalyst_id": "KAT-1", "weight_g": 900,
	})
	req := httptest.NewRequest("PUT", "/set-override", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestClearOverride_NotFound(t *testing.T) {
	h, db := setupCatalystHandlers(t)
	seedPricesAndCatalyst(t, db)
	app := fiber.New()
	app.Use(asRole(constants.Admin))
	app.Delete("/clear-override", middleware.AuthorizePermission(constants.ManageOverrides), h.ClearOverride)

	body, _ := json.Marshal(map[string]string{"catalyst_id": "KAT-1"})
	req := httptest.NewRequest("DELETE", "/clear-override", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
