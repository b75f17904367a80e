package domain

import "time"

// Settings is a single-row table keyed by ID 1.
type Settings struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	RestPercentage float64   `json:"rest_percentage" gorm:"not null"`
	LastNCFNumber  int64     `json:"last_ncf_number" gorm:"column:last_ncf_number;not null;default:0"`
	ActiveSellerID *int64    `json:"active_seller_id,omitempty"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Settings) TableName() string { return "settings" }

// SettingsRowID is the fixed primary key of the singleton row.
const SettingsRowID int64 = 1
