package domain

import (
	"time"

	clientdomain "github.com/dlsistemas/comisiones/internal/client/domain"
)

type Invoice struct {
	ID              int64                `json:"id" gorm:"primaryKey"`
	SellerID        int64                `json:"seller_id" gorm:"not null;index"`
	ClientID        *int64               `json:"client_id,omitempty" gorm:"index"`
	Client          *clientdomain.Client `json:"-" gorm:"foreignKey:ClientID"`
	NCF             string               `json:"ncf" gorm:"column:ncf;type:text;not null;uniqueIndex:ux_invoices_ncf"`
	Date            time.Time            `json:"date" gorm:"not null;index"`
	TotalAmount     float64              `json:"total_amount" gorm:"not null"`
	RestPercentage  float64              `json:"rest_percentage" gorm:"not null"`
	RestAmount      float64              `json:"rest_amount" gorm:"not null"`
	RestCommission  float64              `json:"rest_commission" gorm:"not null"`
	TotalCommission float64              `json:"total_commission" gorm:"not null"`
	Lines           []InvoiceProduct     `json:"lines" gorm:"foreignKey:InvoiceID"`
	CreatedAt       time.Time            `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time            `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Invoice) TableName() string { return "invoices" }

// InvoiceProduct snapshots the product name and percentage at entry time, so
// later catalog edits never rewrite history.
type InvoiceProduct struct {
	ID          int64   `json:"id" gorm:"primaryKey"`
	InvoiceID   int64   `json:"invoice_id" gorm:"not null;index"`
	ProductName string  `json:"product_name" gorm:"type:text;not null"`
	Amount      float64 `json:"amount" gorm:"not null"`
	Percentage  float64 `json:"percentage" gorm:"not null"`
	Commission  float64 `json:"commission" gorm:"not null"`
}

func (InvoiceProduct) TableName() string { return "invoice_products" }
