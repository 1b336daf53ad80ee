package notifications

import (
	"context"
	"encoding/json"
	"errors"

	"katmarket-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service writes and reads in-app notifications.
type Service struct {
	DB *gorm.DB
}

// Create records a notification for one user. Payload keys are event-specific.
// Failures are returned but callers in the bid/listing flows treat them as
// non-fatal: a lost notification must not roll back a trade.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, ntype, message string, payload map[string]interface{}) error {
	if userID == uuid.Nil {
		return errors.New("user_id is required")
	}
	n := &domain.Notification{
		UserID:  userID,
		Type:    ntype,
		Message: message,
	}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		n.Payload = datatypes.JSON(b)
	}
	return s.DB.WithContext(ctx).Create(n).Error
}

// ListForUser returns the user's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	if userID == uuid.Nil {
		return nil, errors.New("user_id is required")
	}
	var out []domain.Notification
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order(`"createdAt" DESC`).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UnreadCount returns how many unread notifications the user has.
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, errors.New("user_id is required")
	}
	var count int64
	if err := s.DB.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MarkRead marks one notification read. The user scope prevents marking
// someone else's notification.
func (s *Service) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	result := s.DB.WithContext(ctx).Model(&domain.Notification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("Notification not found")
	}
	return nil
}

// MarkAllRead marks every unread notification for the user read.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return errors.New("user_id is required")
	}
	return s.DB.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
