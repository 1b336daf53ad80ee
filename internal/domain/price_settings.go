package domain

import (
	"errors"
	"math"
	"time"
)

// PriceSettingsID is the fixed primary key of the singleton settings row.
const PriceSettingsID = 1

// PriceSettings holds the current price per gram for each precious metal.
// One admin-mutated row; read fresh on every computation, never cached.
type PriceSettings struct {
	ID          int       `gorm:"column:id;primaryKey" json:"-"`
	PricePerGPt float64   `gorm:"column:price_per_g_pt;not null" json:"price_per_g_pt"`
	PricePerGPd float64   `gorm:"column:price_per_g_pd;not null" json:"price_per_g_pd"`
	PricePerGRh float64   `gorm:"column:price_per_g_rh;not null" json:"price_per_g_rh"`
	UpdatedAt   time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (PriceSettings) TableName() string {
	return "PriceSettings"
}

var ErrInvalidPriceSettings = errors.New("Price settings must be non-negative numbers")

// Validate rejects negative or non-finite prices. A settings row that fails
// here is a fatal configuration error, never a silent zero default.
func (p PriceSettings) Validate() error {
	for _, v := range []float64{p.PricePerGPt, p.PricePerGPd, p.PricePerGRh} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return ErrInvalidPriceSettings
		}
	}
	return nil
}
