package domain

import (
	"context"
	"errors"
)

// BucketEntry is one invoice's contribution to a product bucket.
type BucketEntry struct {
	InvoiceID  string  `json:"invoice_id"`
	NCF        string  `json:"ncf"`
	Date       string  `json:"date"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
	Commission float64 `json:"commission"`
}

// Bucket groups entries by product name. Percentage reflects the most
// recently dated entry; Color is the catalog's current display color for the
// product, empty when the product no longer exists.
type Bucket struct {
	ProductName     string        `json:"product_name"`
	Color           string        `json:"color,omitempty"`
	Percentage      float64       `json:"percentage"`
	TotalAmount     float64       `json:"total_amount"`
	TotalCommission float64       `json:"total_commission"`
	Entries         []BucketEntry `json:"entries"`
}

// Report is the full commission breakdown for a period.
type Report struct {
	From            string   `json:"from"`
	To              string   `json:"to"`
	Buckets         []Bucket `json:"buckets"`
	Rest            Bucket   `json:"rest"`
	TotalSales      float64  `json:"total_sales"`
	TotalCommission float64  `json:"total_commission"`
	InvoiceCount    int      `json:"invoice_count"`
}

// MonthStats is one month's sales totals with deltas against the month before.
type MonthStats struct {
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	InvoiceCount    int     `json:"invoice_count"`
	TotalSales      float64 `json:"total_sales"`
	TotalCommission float64 `json:"total_commission"`
	SalesDelta      float64 `json:"sales_delta"`
	CommissionDelta float64 `json:"commission_delta"`
}

// YearStats mirrors MonthStats at year granularity.
type YearStats struct {
	Year            int     `json:"year"`
	InvoiceCount    int     `json:"invoice_count"`
	TotalSales      float64 `json:"total_sales"`
	TotalCommission float64 `json:"total_commission"`
	SalesDelta      float64 `json:"sales_delta"`
	CommissionDelta float64 `json:"commission_delta"`
}

// CorrectionFailure records one invoice that could not be rewritten.
type CorrectionFailure struct {
	InvoiceID string `json:"invoice_id"`
	NCF       string `json:"ncf"`
	Error     string `json:"error"`
}

// CorrectionResult reports a bulk percentage fix. Failures do not abort the
// batch.
type CorrectionResult struct {
	Updated []string            `json:"updated"`
	Failed  []CorrectionFailure `json:"failed"`
}

// BreakdownRequest selects a period either as an explicit from/to pair or as
// a single month shorthand.
type BreakdownRequest struct {
	From  string `form:"from"`
	To    string `form:"to"`
	Month string `form:"month"`
}

type CorrectionRequest struct {
	ProductName   string  `json:"product_name"`
	NewPercentage float64 `json:"new_percentage"`
	// Month restricts the correction to one calendar month when set.
	Month string `json:"month"`
}

type Service interface {
	Breakdown(ctx context.Context, req BreakdownRequest) (*Report, error)
	Monthly(ctx context.Context, year, month int) (*MonthStats, error)
	Yearly(ctx context.Context, year int) (*YearStats, error)
	MonthsOfYear(ctx context.Context, year int) ([]MonthStats, error)
	YearComparison(ctx context.Context) ([]YearStats, error)
	CorrectPercentage(ctx context.Context, req CorrectionRequest) (*CorrectionResult, error)
}

// RestBucketName labels the synthetic remainder bucket.
const RestBucketName = "Resto"

var (
	ErrInvalidRange      = errors.New("invalid_range")
	ErrInvalidProduct    = errors.New("invalid_product")
	ErrInvalidPercentage = errors.New("invalid_percentage")
	ErrInvalidSeller     = errors.New("invalid_seller")
)
