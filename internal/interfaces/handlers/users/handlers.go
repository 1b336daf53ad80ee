package users

import (
	usersvc "katmarket-backend/internal/application/users"
	"katmarket-backend/internal/middleware"
	"katmarket-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *usersvc.Service
	Config  middleware.SessionConfig
}

var createUserStatus = map[string]int{
	"Username is required and must be a non-empty string":  400,
	"Invalid email format":                                 400,
	"Invalid password format":                              400,
	"Full name is required and must be a non-empty string": 400,
	"Full name contains invalid characters (only letters, spaces, hyphens, and apostrophes allowed)": 400,
	"Role must be buyer or seller": 400,
	"Email already registered":     409,
	"Username already registered":  409,
}

// CreateUser POST /api/v1/users/create-user (public registration).
func (h *Handlers) CreateUser(c *fiber.Ctx) error {
	var in usersvc.CreateUserInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	user, err := h.Service.CreateUser(c.Context(), in)
	if err != nil {
		if code, ok := createUserStatus[err.Error()]; ok {
			return response.Error(c, err.Error(), code, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "User created successfully", user, nil)
}

// UpdateUser PUT /api/v1/users/update-user — session user updates own fields.
func (h *Handlers) UpdateUser(c *fiber.Ctx) error {
	userID := sessionUserID(c)
	if userID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}
	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	user, err := h.Service.UpdateUser(c.Context(), userID, fields)
	if err != nil {
		switch err.Error() {
		case "User not found":
			return response.Error(c, err.Error(), 404, nil)
		case "Missing user ID", "Invalid user ID format (must be a valid UUID)", "No valid fields to update",
			"Invalid email format", "Invalid password format",
			"Full name contains invalid characters (only letters, spaces, hyphens, and apostrophes allowed)":
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "User updated successfully", user, nil)
}

// ViewUser GET /api/v1/users/view-user — return the session user's record.
func (h *Handlers) ViewUser(c *fiber.Ctx) error {
	userID := sessionUserID(c)
	if userID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}
	user, err := h.Service.ViewUser(c.Context(), userID)
	if err != nil {
		if err.Error() == "User not found" {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "User fetched successfully", user, nil)
}

// UpdateRole PATCH /api/v1/users/update-role (admin).
func (h *Handlers) UpdateRole(c *fiber.Ctx) error {
	var body struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "user_id and role are required", 400, nil)
	}
	user, err := h.Service.UpdateRole(c.Context(), body.UserID, body.Role)
	if err != nil {
		switch err.Error() {
		case "User not found":
			return response.Error(c, err.Error(), 404, nil)
		case "user_id and role are required", "Invalid role":
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Role updated successfully", user, nil)
}

// RemoveUser DELETE /api/v1/users/remove-user (admin).
func (h *Handlers) RemoveUser(c *fiber.Ctx) error {
	var body struct {
		UserID string `json:"user_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.UserID == "" {
		return response.Error(c, "user_id is required", 400, nil)
	}
	if err := h.Service.RemoveUser(c.Context(), body.UserID); err != nil {
		if err.Error() == "User not found" {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "User removed successfully", nil, nil)
}

func sessionUserID(c *fiber.Ctx) string {
	user := middleware.GetUser(c)
	m, ok := user.(map[string]interface{})
	if !ok {
		return ""
	}
	id, _ := m["user_id"].(string)
	return id
}
