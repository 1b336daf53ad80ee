package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bid statuses. A listing keeps at most one accepted bid; accepting one
// rejects all other active bids on the same listing.
const (
	BidActive   = "active"
	BidAccepted = "accepted"
	BidRejected = "rejected"
)

// Bid is a buyer's tender on an open listing.
type Bid struct {
	BidID     uuid.UUID `gorm:"column:bid_id;type:uuid;primaryKey" json:"bid_id"`
	ListingID uuid.UUID `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	BidderID  uuid.UUID `gorm:"column:bidder_id;type:uuid;not null;index" json:"bidder_id"`
	Amount    float64   `gorm:"column:amount;not null" json:"amount"`
	Message   *string   `gorm:"column:message" json:"message,omitempty"`
	Status    string    `gorm:"column:status;type:varchar(20);default:'active'" json:"status"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Bid) TableName() string {
	return "Bids"
}

// BeforeCreate sets bid_id if not already set (DBs without default uuid).
func (b *Bid) BeforeCreate(tx *gorm.DB) error {
	if b.BidID == uuid.Nil {
		b.BidID = uuid.New()
	}
	return nil
}
