package domain

import (
	"context"
	"errors"
	"time"
)

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Service interface {
	Login(ctx context.Context, username, password string) (*Session, error)
	Logout(ctx context.Context, token string)
	// Validate reports whether a session token is live, refreshing nothing.
	Validate(ctx context.Context, token string) bool
}

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrLockedOut          = errors.New("locked_out")
)
