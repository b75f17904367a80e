package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

type UpdateRequest struct {
	ID         string   `json:"-"`
	Name       *string  `json:"name"`
	Percentage *float64 `json:"percentage"`
	Color      *string  `json:"color"`
}

type Response struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Percentage float64   `json:"percentage"`
	Color      string    `json:"color,omitempty"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

var (
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidPercentage = errors.New("invalid_percentage")
	ErrInvalidID         = errors.New("invalid_id")
	ErrNotFound          = errors.New("not_found")
	ErrProductDefault    = errors.New("product_default")
)
