package domain

import (
	"context"
	"time"

	clientdomain "github.com/dlsistemas/comisiones/internal/client/domain"
	expensedomain "github.com/dlsistemas/comisiones/internal/expense/domain"
	invoicedomain "github.com/dlsistemas/comisiones/internal/invoice/domain"
	productdomain "github.com/dlsistemas/comisiones/internal/product/domain"
	sellerdomain "github.com/dlsistemas/comisiones/internal/seller/domain"
)

// Document is a full backup. Arrays are ordered parents before children so a
// restore can insert top to bottom.
type Document struct {
	ExportedAt      time.Time                      `json:"exported_at"`
	Sellers         []sellerdomain.Seller          `json:"sellers"`
	Clients         []clientdomain.Client          `json:"clients"`
	Products        []productdomain.Product        `json:"products"`
	Invoices        []invoicedomain.Invoice        `json:"invoices"`
	InvoiceProducts []invoicedomain.InvoiceProduct `json:"invoice_products"`
	Expenses        []expensedomain.Expense        `json:"expenses"`
}

type Service interface {
	// Export snapshots every table and returns the suggested filename.
	Export(ctx context.Context) (*Document, string, error)
	// Import merges a backup into the live data set, updating rows that
	// already exist.
	Import(ctx context.Context, doc *Document) error
	// Wipe clears all data, children first. A failing expenses table does
	// not abort the wipe.
	Wipe(ctx context.Context) error
}
