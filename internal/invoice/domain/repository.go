package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type ListFilter struct {
	SellerID  int64
	ClientID  *int64
	From      *time.Time
	To        *time.Time
	PageToken string
	PageSize  int
}

type Repository interface {
	Save(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	Update(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Invoice, error)
	FindByNCF(ctx context.Context, db *gorm.DB, ncf string) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Invoice, string, error)
	Delete(ctx context.Context, db *gorm.DB, id int64) error
}
