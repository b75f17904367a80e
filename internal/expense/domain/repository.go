package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindAll(ctx context.Context, db *gorm.DB) ([]Expense, error)
	Upsert(ctx context.Context, db *gorm.DB, expense *Expense) error
	DeleteAll(ctx context.Context, db *gorm.DB) error
}
