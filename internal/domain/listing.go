package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Listing is a marketplace offer created from a computed catalyst entry.
// The weight/content/price columns are copied verbatim from the computed
// entry at creation time so downstream code never re-derives anything.
type Listing struct {
	ListingID    uuid.UUID      `gorm:"column:listing_id;type:uuid;primaryKey" json:"listing_id"`
	SellerID     uuid.UUID      `gorm:"column:seller_id;type:uuid;not null" json:"seller_id"`
	CatalystID   string         `gorm:"column:catalyst_id;not null" json:"catalyst_id"`
	CatalystName string         `gorm:"column:catalyst_name;not null" json:"catalyst_name"`
	WeightG      float64        `gorm:"column:weight_g;not null" json:"weight_g"`
	PtG          float64        `gorm:"column:pt_g;not null" json:"pt_g"`
	PdG          float64        `gorm:"column:pd_g;not null" json:"pd_g"`
	RhG          float64        `gorm:"column:rh_g;not null" json:"rh_g"`
	TotalPrice   float64        `gorm:"column:total_price;not null" json:"total_price"`
	IsOverride   bool           `gorm:"column:is_override;not null;default:false" json:"is_override"`
	AskingPrice  float64        `gorm:"column:asking_price;not null" json:"asking_price"`
	Description  string         `gorm:"column:description" json:"description"`
	Status       string         `gorm:"column:status;type:varchar(20);default:'open'" json:"status"`
	CreatedAt    time.Time      `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"column:updatedAt" json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Listing) TableName() string {
	return "Listings"
}

// BeforeCreate sets listing_id if not already set (DBs without default uuid).
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ListingID == uuid.Nil {
		l.ListingID = uuid.New()
	}
	return nil
}
