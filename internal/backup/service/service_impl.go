package service

import (
	"context"
	"fmt"

	"github.com/dlsistemas/comisiones/internal/backup/domain"
	clientdomain "github.com/dlsistemas/comisiones/internal/client/domain"
	"github.com/dlsistemas/comisiones/internal/clock"
	expensedomain "github.com/dlsistemas/comisiones/internal/expense/domain"
	invoicedomain "github.com/dlsistemas/comisiones/internal/invoice/domain"
	productdomain "github.com/dlsistemas/comisiones/internal/product/domain"
	sellerdomain "github.com/dlsistemas/comisiones/internal/seller/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const filenamePrefix = "RESPALDO_DLS_"

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Expenses expensedomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	expenses expensedomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("backup.service"),
		clock:    p.Clock,
		expenses: p.Expenses,
	}
}

func (s *Service) Export(ctx context.Context) (*domain.Document, string, error) {
	doc := &domain.Document{ExportedAt: s.clock.Now().UTC()}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("id ASC").Find(&doc.Sellers).Error; err != nil {
			return err
		}
		if err := tx.Order("id ASC").Find(&doc.Clients).Error; err != nil {
			return err
		}
		if err := tx.Order("id ASC").Find(&doc.Products).Error; err != nil {
			return err
		}
		if err := tx.Order("id ASC").Find(&doc.Invoices).Error; err != nil {
			return err
		}
		if err := tx.Order("id ASC").Find(&doc.InvoiceProducts).Error; err != nil {
			return err
		}
		expenses, err := s.expenses.FindAll(ctx, tx)
		if err != nil {
			return err
		}
		doc.Expenses = expenses
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	// the nested form is redundant with the invoice_products array
	for i := range doc.Invoices {
		doc.Invoices[i].Lines = nil
	}

	name := fmt.Sprintf("%s%s.json", filenamePrefix, s.clock.Now().Format("2006-01-02"))
	return doc, name, nil
}

func (s *Service) Import(ctx context.Context, doc *domain.Document) error {
	if doc == nil {
		return gorm.ErrInvalidData
	}

	upsert := clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(doc.Sellers) > 0 {
			if err := tx.Clauses(upsert).Create(&doc.Sellers).Error; err != nil {
				return err
			}
		}
		if len(doc.Clients) > 0 {
			if err := tx.Clauses(upsert).Create(&doc.Clients).Error; err != nil {
				return err
			}
		}
		if len(doc.Products) > 0 {
			if err := tx.Clauses(upsert).Create(&doc.Products).Error; err != nil {
				return err
			}
		}
		if len(doc.Invoices) > 0 {
			invoices := make([]invoicedomain.Invoice, len(doc.Invoices))
			copy(invoices, doc.Invoices)
			for i := range invoices {
				invoices[i].Lines = nil
			}
			if err := tx.Omit("Lines").Clauses(upsert).Create(&invoices).Error; err != nil {
				return err
			}
		}
		if len(doc.InvoiceProducts) > 0 {
			if err := tx.Clauses(upsert).Create(&doc.InvoiceProducts).Error; err != nil {
				return err
			}
		}
		for i := range doc.Expenses {
			if err := s.expenses.Upsert(ctx, tx, &doc.Expenses[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) Wipe(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM invoice_products`).Error; err != nil {
			return err
		}
		if err := tx.Delete(&invoicedomain.Invoice{}, "1 = 1").Error; err != nil {
			return err
		}
		if err := tx.Delete(&productdomain.Product{}, "1 = 1").Error; err != nil {
			return err
		}
		return tx.Delete(&clientdomain.Client{}, "1 = 1").Error
	})
	if err != nil {
		return err
	}

	// legacy databases may not carry the expenses table at all
	if err := s.expenses.DeleteAll(ctx, s.db); err != nil {
		s.log.Warn("wipe expenses", zap.Error(err))
	}

	return s.db.WithContext(ctx).Delete(&sellerdomain.Seller{}, "1 = 1").Error
}
