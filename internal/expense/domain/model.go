package domain

import "time"

// Expense rows ride along in backup files; the app itself only stores them.
type Expense struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Amount      float64   `json:"amount" gorm:"not null"`
	Date        time.Time `json:"date" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Expense) TableName() string { return "expenses" }
