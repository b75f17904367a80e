package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/dlsistemas/comisiones/internal/sellerctx"
)

const HeaderSeller = "X-Seller-Id"

func (s *Server) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" || !s.authSvc.Validate(c.Request.Context(), token) {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// SellerContext resolves the active seller from the X-Seller-Id header,
// falling back to the seller stored in settings.
func (s *Server) SellerContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderSeller))
		if raw == "" {
			if current, err := s.settingsSvc.Get(c.Request.Context()); err == nil && current.ActiveSellerID != nil {
				raw = *current.ActiveSellerID
			}
		}
		if raw != "" {
			if parsed, err := snowflake.ParseString(raw); err == nil {
				ctx := sellerctx.WithSellerID(c.Request.Context(), parsed)
				c.Request = c.Request.WithContext(ctx)
			}
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return header
}
