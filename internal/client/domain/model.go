package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Client struct {
	ID        int64             `json:"id" gorm:"primaryKey"`
	Name      string            `json:"name" gorm:"type:text;not null"`
	Phone     *string           `json:"phone,omitempty" gorm:"type:text"`
	Email     *string           `json:"email,omitempty" gorm:"type:text"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Client) TableName() string { return "clients" }
