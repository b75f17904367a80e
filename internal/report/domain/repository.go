package domain

import (
	"context"
	"time"

	invoicedomain "github.com/dlsistemas/comisiones/internal/invoice/domain"
	"gorm.io/gorm"
)

type Repository interface {
	// FindRange returns a seller's invoices with lines, date-inclusive.
	FindRange(ctx context.Context, db *gorm.DB, sellerID int64, from, to time.Time) ([]invoicedomain.Invoice, error)
	// FindByProductName returns the seller's invoices carrying a line for the
	// named product. Zero from/to values leave that side unbounded.
	FindByProductName(ctx context.Context, db *gorm.DB, sellerID int64, productName string, from, to time.Time) ([]invoicedomain.Invoice, error)
	// OldestDate returns the seller's earliest invoice date, zero when the
	// seller has no invoices.
	OldestDate(ctx context.Context, db *gorm.DB, sellerID int64) (time.Time, error)
	// ProductColors maps product names to their current display colors.
	ProductColors(ctx context.Context, db *gorm.DB) (map[string]string, error)
}
