package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

type ListRequest struct {
	Name string `form:"name"`
}

type CreateRequest struct {
	Name     string         `json:"name"`
	Phone    *string        `json:"phone"`
	Email    *string        `json:"email"`
	Metadata map[string]any `json:"metadata"`
}

type UpdateRequest struct {
	ID       string         `json:"-"`
	Name     *string        `json:"name"`
	Phone    *string        `json:"phone"`
	Email    *string        `json:"email"`
	Metadata map[string]any `json:"metadata"`
}

type Response struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Phone     *string        `json:"phone,omitempty"`
	Email     *string        `json:"email,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidID   = errors.New("invalid_id")
	ErrNotFound    = errors.New("not_found")
)
