package users

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"katmarket-backend/internal/domain"
	"katmarket-backend/internal/pkg/constants"
	"katmarket-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service holds DB for user operations.
type Service struct {
	DB *gorm.DB
}

// CreateUserInput is the registration payload. Role may be buyer or seller;
// admin accounts are promoted via update-role, never self-registered.
type CreateUserInput struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
	Role     string `json:"role"`
}

// CreateUser creates a user. Returns the created model (password hash stripped by json tag).
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	if strings.TrimSpace(in.UserName) == "" {
		return nil, errors.New("Username is required and must be a non-empty string")
	}
	if in.Email == "" || !validation.IsValidEmail(in.Email) {
		return nil, errors.New("Invalid email format")
	}
	if in.Password == "" || !validation.IsValidPassword(in.Password) {
		return nil, errors.New("Invalid password format")
	}
	trimmed := strings.TrimSpace(in.Fullname)
	if trimmed == "" {
		return nil, errors.New("Full name is required and must be a non-empty string")
	}
	if !validation.IsValidFullname(trimmed) {
		return nil, errors.New("Full name contains invalid characters (only letters, spaces, hyphens, and apostrophes allowed)")
	}
	role := in.Role
	if role == "" {
		role = constants.Buyer
	}
	if role != constants.Buyer && role != constants.Seller {
		return nil, errors.New("Role must be buyer or seller")
	}

	userName := strings.TrimSpace(in.UserName)
	email := strings.TrimSpace(strings.ToLower(in.Email))
	fullname := titleCaseAndNormalize(trimmed)

	var existing domain.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, errors.New("Email already registered")
	}
	if err := s.DB.WithContext(ctx).Where("user_name = ?", userName).First(&existing).Error; err == nil {
		return nil, errors.New("Username already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		UserName:     userName,
		Email:        email,
		PasswordHash: string(hash),
		Fullname:     fullname,
		Role:         role,
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUser updates allowed fields. Allowed: user_name, email, password, fullname.
func (s *Service) UpdateUser(ctx context.Context, userID string, fields map[string]interface{}) (*domain.User, error) {
	if userID == "" {
		return nil, errors.New("Missing user ID")
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, errors.New("Invalid user ID format (must be a valid UUID)")
	}

	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("User not found")
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if v, ok := fields["user_name"].(string); ok && strings.TrimSpace(v) != "" {
		updates["user_name"] = strings.TrimSpace(v)
	}
	if v, ok := fields["email"].(string); ok && v != "" {
		if !validation.IsValidEmail(v) {
			return nil, errors.New("Invalid email format")
		}
		updates["email"] = strings.TrimSpace(strings.ToLower(v))
	}
	if v, ok := fields["password"].(string); ok && v != "" {
		if !validation.IsValidPassword(v) {
			return nil, errors.New("Invalid password format")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(v), 10)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = string(hash)
	}
	if v, ok := fields["fullname"].(string); ok && strings.TrimSpace(v) != "" {
		trimmed := strings.TrimSpace(v)
		if !validation.IsValidFullname(trimmed) {
			return nil, errors.New("Full name contains invalid characters (only letters, spaces, hyphens, and apostrophes allowed)")
		}
		updates["fullname"] = titleCaseAndNormalize(trimmed)
	}
	if len(updates) == 0 {
		return nil, errors.New("No valid fields to update")
	}

	if err := s.DB.WithContext(ctx).Model(&u).Updates(updates).Error; err != nil {
		return nil, err
	}
	s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u)
	return &u, nil
}

// ViewUser returns one user by id.
func (s *Service) ViewUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, errors.New("Missing user ID")
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, errors.New("Invalid user ID format (must be a valid UUID)")
	}
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("User not found")
		}
		return nil, err
	}
	return &u, nil
}

// UpdateRole sets a user's role (admin surface).
func (s *Service) UpdateRole(ctx context.Context, userID, role string) (*domain.User, error) {
	if userID == "" || role == "" {
		return nil, errors.New("user_id and role are required")
	}
	if !constants.IsValidRole(role) {
		return nil, errors.New("Invalid role")
	}
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("User not found")
		}
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(&u).Update("role", role).Error; err != nil {
		return nil, err
	}
	u.Role = role
	return &u, nil
}

// RemoveUser soft-deletes a user (admin surface).
func (s *Service) RemoveUser(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("user_id is required")
	}
	result := s.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("User not found")
	}
	return nil
}

// titleCaseAndNormalize collapses whitespace and capitalizes each word.
func titleCaseAndNormalize(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		if len(runes) > 0 {
			runes[0] = unicode.ToUpper(runes[0])
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
