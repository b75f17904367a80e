package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/dlsistemas/comisiones/internal/invoice/domain"
	"github.com/dlsistemas/comisiones/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(invoice).Error
	})
}

// Update rewrites the invoice row and replaces its lines wholesale. Lines are
// cheap and few; diffing them is not worth the bookkeeping.
func (r *repo) Update(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(invoice).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.InvoiceProduct{}, "invoice_id = ?", invoice.ID).Error; err != nil {
			return err
		}
		if len(invoice.Lines) == 0 {
			return nil
		}
		return tx.Create(&invoice.Lines).Error
	})
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := db.WithContext(ctx).Preload("Lines").Preload("Client").First(&inv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repo) FindByNCF(ctx context.Context, db *gorm.DB, ncf string) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := db.WithContext(ctx).First(&inv, "ncf = ?", ncf).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Invoice, string, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Preload("Lines").
		Preload("Client").
		Where("seller_id = ?", filter.SellerID)

	if filter.ClientID != nil {
		stmt = stmt.Where("client_id = ?", *filter.ClientID)
	}
	if filter.From != nil {
		stmt = stmt.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("date <= ?", *filter.To)
	}

	if filter.PageToken != "" {
		cursor, err := pagination.DecodeCursor(filter.PageToken)
		if err != nil {
			return nil, "", err
		}
		createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return nil, "", err
		}
		id, err := strconv.ParseInt(cursor.ID, 10, 64)
		if err != nil {
			return nil, "", err
		}
		stmt = stmt.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			createdAt, createdAt, id)
	}

	limit := filter.PageSize
	if limit <= 0 {
		limit = 25
	}

	var items []domain.Invoice
	err := stmt.Order("created_at DESC").Order("id DESC").Limit(limit + 1).Find(&items).Error
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(items) > limit {
		items = items[:limit]
		last := items[len(items)-1]
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        strconv.FormatInt(last.ID, 10),
			CreatedAt: last.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return nil, "", err
		}
		next = token
	}

	return items, next, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.InvoiceProduct{}, "invoice_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Invoice{}, "id = ?", id).Error
	})
}
