package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CMSSetting is one keyed content blob for the storefront (landing copy,
// FAQ entries, contact details). Content is opaque JSON managed by admins.
type CMSSetting struct {
	Key       string         `gorm:"column:setting_key;primaryKey" json:"key"`
	Content   datatypes.JSON `gorm:"column:content;not null" json:"content"`
	UpdatedAt time.Time      `gorm:"column:updatedAt" json:"updatedAt"`
}

func (CMSSetting) TableName() string {
	return "CMSSettings"
}
