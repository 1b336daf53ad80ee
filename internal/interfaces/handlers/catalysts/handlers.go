package catalysts

import (
	"io"

	catsvc "katmarket-backend/internal/application/catalysts"
	"katmarket-backend/internal/application/settings"
	"katmarket-backend/internal/domain"
	"katmarket-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *catsvc.Service
}

func pricingError(c *fiber.Ctx, err error) error {
	// Settings problems are a 503, not a 500: the store is fine, pricing
	// configuration is not, and callers must not see zeroed entries.
	return response.Error(c, "Pricing temporarily unavailable", fiber.StatusServiceUnavailable, fiber.Map{"reason": err.Error()})
}

// GetAllCatalysts GET /api/v1/catalysts/get-all-catalysts — computed entries with current prices.
func (h *Handlers) GetAllCatalysts(c *fiber.Ctx) error {
	entries, err := h.Service.ListComputed(c.Context())
	if err != nil {
		if err == settings.ErrNotConfigured || err == domain.ErrInvalidPriceSettings {
			return pricingError(c, err)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Catalysts fetched successfully", entries, nil)
}

// GetCatalystByID GET /api/v1/catalysts/get-catalyst/:catalyst_id
func (h *Handlers) GetCatalystByID(c *fiber.Ctx) error {
	id := c.Params("catalyst_id")
	if id == "" {
		return response.Error(c, "catalyst_id is required", 400, nil)
	}
	entry, err := h.Service.GetComputed(c.Context(), id)
	if err != nil {
		switch {
		case err == settings.ErrNotConfigured, err == domain.ErrInvalidPriceSettings:
			return pricingError(c, err)
		case err.Error() == "Catalyst not found":
			return response.Error(c, err.Error(), 404, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Catalyst fetched successfully", entry, nil)
}

// SearchCatalysts GET /api/v1/catalysts/search?q=...
func (h *Handlers) SearchCatalysts(c *fiber.Ctx) error {
	q := c.Query("q")
	entries, err := h.Service.SearchComputed(c.Context(), q)
	if err != nil {
		switch {
		case err == settings.ErrNotConfigured, err == domain.ErrInvalidPriceSettings:
			return pricingError(c, err)
		case err.Error() == "Search query is required":
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Search results fetched successfully", entries, nil)
}

// ImportCatalysts POST /api/v1/catalysts/import — multipart .xlsx upload (admin), replaces the store.
func (h *Handlers) ImportCatalysts(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, "Excel file is required (multipart field: file)", 400, nil)
	}
	f, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, "Could not read uploaded file", 400, nil)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return response.Error(c, "Could not read uploaded file", 400, nil)
	}

	result, err := h.Service.ImportExcel(c.Context(), data)
	if err != nil {
		switch err {
		case catsvc.ErrInvalidExcelFile, catsvc.ErrNoCatalystRows, catsvc.ErrBadImportFormat, catsvc.ErrNoValidImportRows:
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Catalysts imported successfully", result, nil)
}

// SetOverride POST /api/v1/catalysts/set-override (admin).
func (h *Handlers) SetOverride(c *fiber.Ctx) error {
	var in catsvc.SetOverrideInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	override, err := h.Service.SetOverride(c.Context(), in)
	if err != nil {
		switch err.Error() {
		case "Catalyst not found":
			return response.Error(c, err.Error(), 404, nil)
		case "catalyst_id is required",
			"weight_g, pt_g, pd_g, rh_g and total_price are required",
			"Override values must be non-negative numbers":
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Override set successfully", override, nil)
}

// ClearOverride POST /api/v1/catalysts/clear-override (admin).
func (h *Handlers) ClearOverride(c *fiber.Ctx) error {
	var body struct {
		CatalystID string `json:"catalyst_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.CatalystID == "" {
		return response.Error(c, "catalyst_id is required", 400, nil)
	}
	if err := h.Service.ClearOverride(c.Context(), body.CatalystID); err != nil {
		if err.Error() == "Override not found" {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Override cleared successfully", nil, nil)
}
