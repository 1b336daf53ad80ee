package settings

import (
	setsvc "katmarket-backend/internal/application/settings"
	"katmarket-backend/internal/domain"
	"katmarket-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *setsvc.Service
}

// GetPrices GET /api/v1/settings/get-prices — current price-per-gram settings.
func (h *Handlers) GetPrices(c *fiber.Ctx) error {
	ps, err := h.Service.Get(c.Context())
	if err != nil {
		if err == setsvc.ErrNotConfigured || err == domain.ErrInvalidPriceSettings {
			return response.Error(c, err.Error(), fiber.StatusServiceUnavailable, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Price settings fetched successfully", ps, nil)
}

// UpdatePrices PUT /api/v1/settings/update-prices (admin) — all three prices required.
func (h *Handlers) UpdatePrices(c *fiber.Ctx) error {
	var in setsvc.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "price_per_g_pt, price_per_g_pd and price_per_g_rh are required", 400, nil)
	}
	ps, err := h.Service.Update(c.Context(), in)
	if err != nil {
		switch err {
		case domain.ErrInvalidPriceSettings:
			return response.Error(c, err.Error(), 400, nil)
		default:
			if err.Error() == "price_per_g_pt, price_per_g_pd and price_per_g_rh are required" {
				return response.Error(c, err.Error(), 400, nil)
			}
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Price settings updated successfully", ps, nil)
}
