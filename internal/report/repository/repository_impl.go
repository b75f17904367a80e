package repository

import (
	"context"
	"time"

	invoicedomain "github.com/dlsistemas/comisiones/internal/invoice/domain"
	productdomain "github.com/dlsistemas/comisiones/internal/product/domain"
	"github.com/dlsistemas/comisiones/internal/report/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindRange(ctx context.Context, db *gorm.DB, sellerID int64, from, to time.Time) ([]invoicedomain.Invoice, error) {
	var items []invoicedomain.Invoice
	err := db.WithContext(ctx).
		Preload("Lines").
		Where("seller_id = ? AND date >= ? AND date <= ?", sellerID, from, to).
		Order("date ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindByProductName(ctx context.Context, db *gorm.DB, sellerID int64, productName string, from, to time.Time) ([]invoicedomain.Invoice, error) {
	q := db.WithContext(ctx).
		Preload("Lines").
		Where("seller_id = ?", sellerID).
		Where("id IN (?)", db.Model(&invoicedomain.InvoiceProduct{}).
			Select("invoice_id").
			Where("product_name = ?", productName))
	if !from.IsZero() {
		q = q.Where("date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("date <= ?", to)
	}

	var items []invoicedomain.Invoice
	if err := q.Order("date ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) OldestDate(ctx context.Context, db *gorm.DB, sellerID int64) (time.Time, error) {
	var oldest *time.Time
	err := db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("seller_id = ?", sellerID).
		Select("MIN(date)").
		Scan(&oldest).Error
	if err != nil {
		return time.Time{}, err
	}
	if oldest == nil {
		return time.Time{}, nil
	}
	return *oldest, nil
}

func (r *repo) ProductColors(ctx context.Context, db *gorm.DB) (map[string]string, error) {
	var products []productdomain.Product
	if err := db.WithContext(ctx).Select("name", "color").Find(&products).Error; err != nil {
		return nil, err
	}
	colors := make(map[string]string, len(products))
	for _, p := range products {
		colors[p.Name] = p.Color
	}
	return colors, nil
}
