package cms

import (
	"encoding/json"

	cmssvc "katmarket-backend/internal/application/cms"
	"katmarket-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *cmssvc.Service
}

// GetSetting GET /api/v1/cms/get-setting/:key
func (h *Handlers) GetSetting(c *fiber.Ctx) error {
	key := c.Params("key")
	setting, err := h.Service.Get(c.Context(), key)
	if err != nil {
		switch err.Error() {
		case "key is required":
			return response.Error(c, err.Error(), 400, nil)
		case "CMS setting not found":
			return response.Error(c, err.Error(), 404, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "CMS setting fetched successfully", setting, nil)
}

// GetAllSettings GET /api/v1/cms/get-all-settings
func (h *Handlers) GetAllSettings(c *fiber.Ctx) error {
	settings, err := h.Service.List(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "CMS settings fetched successfully", settings, nil)
}

// UpsertSetting PUT /api/v1/cms/upsert-setting
func (h *Handlers) UpsertSetting(c *fiber.Ctx) error {
	var body struct {
		Key     string          `json:"key"`
		Content json.RawMessage `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	setting, err := h.Service.Upsert(c.Context(), body.Key, body.Content)
	if err != nil {
		switch err.Error() {
		case "key is required", "content must be valid JSON":
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "CMS setting saved successfully", setting, nil)
}
