package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification types written by the bid/listing flows.
const (
	NotifyBidPlaced        = "bid_placed"
	NotifyBidAccepted      = "bid_accepted"
	NotifyBidRejected      = "bid_rejected"
	NotifyListingCancelled = "listing_cancelled"
)

// Notification is an in-app message for one user. Payload carries the
// event-specific fields (listing_id, bid_id, amount, ...) as raw JSON.
type Notification struct {
	NotificationID uuid.UUID      `gorm:"column:notification_id;type:uuid;primaryKey" json:"notification_id"`
	UserID         uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Type           string         `gorm:"column:type;not null" json:"type"`
	Message        string         `gorm:"column:message;not null" json:"message"`
	Payload        datatypes.JSON `gorm:"column:payload" json:"payload"`
	Read           bool           `gorm:"column:is_read;not null;default:false" json:"is_read"`
	CreatedAt      time.Time      `gorm:"column:createdAt" json:"createdAt"`
}

func (Notification) TableName() string {
	return "Notifications"
}

// BeforeCreate sets notification_id if not already set.
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.NotificationID == uuid.Nil {
		n.NotificationID = uuid.New()
	}
	return nil
}
