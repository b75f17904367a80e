package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, seller *Seller) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Seller, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Seller, error)
	Update(ctx context.Context, db *gorm.DB, seller *Seller) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
}
