package domain

import (
	"context"
	"errors"
	"time"

	"github.com/dlsistemas/comisiones/internal/commission"
)

type Service interface {
	Save(ctx context.Context, req SaveRequest) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Delete(ctx context.Context, id string) error
}

// Updater is the slice of Service that reporting needs for bulk corrections.
type Updater interface {
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
}

type LineInput struct {
	ProductName string  `json:"product_name"`
	Amount      float64 `json:"amount"`
	Percentage  float64 `json:"percentage"`
}

type SaveRequest struct {
	ClientID       *string     `json:"client_id"`
	NCF            string      `json:"ncf"`
	Date           string      `json:"date"`
	TotalAmount    float64     `json:"total_amount"`
	RestPercentage *float64    `json:"rest_percentage"`
	Lines          []LineInput `json:"lines"`
}

type UpdateRequest struct {
	ID             string      `json:"-"`
	ClientID       *string     `json:"client_id"`
	NCF            *string     `json:"ncf"`
	Date           *string     `json:"date"`
	TotalAmount    *float64    `json:"total_amount"`
	RestPercentage *float64    `json:"rest_percentage"`
	Lines          []LineInput `json:"lines"`
}

type ListRequest struct {
	ClientID  string `form:"client_id"`
	From      string `form:"from"`
	To        string `form:"to"`
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
}

type LineResponse struct {
	ProductName string  `json:"product_name"`
	Amount      float64 `json:"amount"`
	Percentage  float64 `json:"percentage"`
	Commission  float64 `json:"commission"`
}

type Response struct {
	ID              string         `json:"id"`
	SellerID        string         `json:"seller_id"`
	ClientID        *string        `json:"client_id,omitempty"`
	ClientName      string         `json:"client_name,omitempty"`
	NCF             string         `json:"ncf"`
	Date            string         `json:"date"`
	TotalAmount     float64        `json:"total_amount"`
	RestPercentage  float64        `json:"rest_percentage"`
	RestAmount      float64        `json:"rest_amount"`
	RestCommission  float64        `json:"rest_commission"`
	TotalCommission float64        `json:"total_commission"`
	Lines           []LineResponse `json:"lines"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type ListResponse struct {
	Invoices      []Response `json:"invoices"`
	NextPageToken string     `json:"next_page_token,omitempty"`
}

var (
	ErrInvalidNCF     = errors.New("invalid_ncf")
	ErrDuplicateNCF   = errors.New("duplicate_ncf")
	ErrInvalidDate    = errors.New("invalid_date")
	ErrInvalidAmount  = errors.New("invalid_amount")
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidSeller  = errors.New("invalid_seller")
	ErrNotFound       = errors.New("not_found")
	ErrAmountMismatch = commission.ErrAmountMismatch
)
