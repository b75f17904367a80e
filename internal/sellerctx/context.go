// Package sellerctx carries the active seller through request contexts.
package sellerctx

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// SellerContextKey is the request context key for the active seller ID.
type SellerContextKey struct{}

// WithSellerID stores the seller ID in the context.
func WithSellerID(ctx context.Context, sellerID snowflake.ID) context.Context {
	return context.WithValue(ctx, SellerContextKey{}, sellerID)
}

// SellerIDFromContext returns the seller ID from context, if set.
func SellerIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}

	value := ctx.Value(SellerContextKey{})
	if value == nil {
		return 0, false
	}
	switch typed := value.(type) {
	case int64:
		return snowflake.ID(typed), true
	case snowflake.ID:
		return typed, true
	case string:
		parsed, err := snowflake.ParseString(strings.TrimSpace(typed))
		if err == nil {
			return parsed, true
		}
	}
	return 0, false
}
