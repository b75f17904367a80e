package domain

import "time"

type Product struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"type:text;not null"`
	Percentage float64   `json:"percentage" gorm:"not null"`
	Color      string    `json:"color" gorm:"type:text"`
	IsDefault  bool      `json:"is_default" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }
