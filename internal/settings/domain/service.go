package domain

import (
	"context"
	"errors"
)

type Service interface {
	Get(ctx context.Context) (*Response, error)
	SetRestPercentage(ctx context.Context, percentage float64) (*Response, error)
	SetActiveSeller(ctx context.Context, sellerID *string) (*Response, error)
	// NextNCFSuffix suggests the next sequence number, zero padded to four
	// digits. Advisory only; uniqueness is enforced at invoice save.
	NextNCFSuffix(ctx context.Context) (string, error)
	// AdvanceNCF records a used sequence number. The stored value never
	// decreases.
	AdvanceNCF(ctx context.Context, n int64) error
}

type Response struct {
	RestPercentage float64 `json:"rest_percentage"`
	LastNCFNumber  int64   `json:"last_ncf_number"`
	NextNCF        string  `json:"next_ncf"`
	ActiveSellerID *string `json:"active_seller_id,omitempty"`
}

var (
	ErrInvalidPercentage = errors.New("invalid_percentage")
	ErrInvalidSellerID   = errors.New("invalid_seller_id")
)
