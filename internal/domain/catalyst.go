package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Catalyst is one raw catalyst entry as delivered by the administrative
// import. ppm columns are grams of metal per million grams of substrate.
// All consumers outside the import treat these rows as read-only.
type Catalyst struct {
	CatalystID     string            `gorm:"column:catalyst_id;primaryKey" json:"catalyst_id"`
	Name           string            `gorm:"column:name;not null" json:"name"`
	CeramicWeightG float64           `gorm:"column:ceramic_weight_g;not null" json:"ceramic_weight_g"`
	PtPpm          float64           `gorm:"column:pt_ppm;not null" json:"pt_ppm"`
	PdPpm          float64           `gorm:"column:pd_ppm;not null" json:"pd_ppm"`
	RhPpm          float64           `gorm:"column:rh_ppm;not null" json:"rh_ppm"`
	AddInfo        *string           `gorm:"column:add_info" json:"add_info,omitempty"`
	Override       *CatalystOverride `gorm:"foreignKey:CatalystID;references:CatalystID" json:"override,omitempty"`
	CreatedAt      time.Time         `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt      time.Time         `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Catalyst) TableName() string {
	return "Catalysts"
}

// CatalystOverride is an admin-supplied manual replacement for the derived
// weight/content/price of one catalyst. A row always carries all five values;
// a missing row means "derive normally". Nil on Catalyst.Override is the only
// no-override state — partial overrides cannot be represented.
type CatalystOverride struct {
	OverrideID uuid.UUID `gorm:"column:override_id;type:uuid;primaryKey" json:"-"`
	CatalystID string    `gorm:"column:catalyst_id;not null;uniqueIndex" json:"-"`
	WeightG    float64   `gorm:"column:weight_g;not null" json:"weight_g"`
	PtG        float64   `gorm:"column:pt_g;not null" json:"pt_g"`
	PdG        float64   `gorm:"column:pd_g;not null" json:"pd_g"`
	RhG        float64   `gorm:"column:rh_g;not null" json:"rh_g"`
	TotalPrice float64   `gorm:"column:total_price;not null" json:"total_price"`
	CreatedAt  time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (CatalystOverride) TableName() string {
	return "CatalystOverrides"
}

// BeforeCreate sets override_id if not already set (DBs without default uuid).
func (o *CatalystOverride) BeforeCreate(tx *gorm.DB) error {
	if o.OverrideID == uuid.Nil {
		o.OverrideID = uuid.New()
	}
	return nil
}
