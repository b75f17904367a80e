package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/dlsistemas/comisiones/internal/commission"
)

type calculationRequest struct {
	TotalAmount    float64           `json:"total_amount"`
	RestPercentage *float64          `json:"rest_percentage"`
	Lines          []commission.Line `json:"lines"`
}

// PreviewCalculation computes a breakdown without persisting anything. The
// calculator screen calls this on every change.
func (s *Server) PreviewCalculation(c *gin.Context) {
	var req calculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	restPct := s.holder.Get().DefaultRestPercentage
	if req.RestPercentage != nil {
		restPct = *req.RestPercentage
	} else if current, err := s.settingsSvc.Get(c.Request.Context()); err == nil {
		restPct = current.RestPercentage
	}

	s.resolveLineColors(c, req.Lines)

	calc, err := commission.Compute(req.TotalAmount, req.Lines, restPct, s.holder.Get().SavePolicy)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": calc})
}

// resolveLineColors fills the display color of lines that arrive without one,
// matching against the product catalog by name. Unknown products stay blank.
func (s *Server) resolveLineColors(c *gin.Context, lines []commission.Line) {
	missing := false
	for i := range lines {
		if lines[i].Color == "" {
			missing = true
			break
		}
	}
	if !missing {
		return
	}

	products, err := s.productSvc.List(c.Request.Context())
	if err != nil {
		return
	}
	colors := make(map[string]string, len(products))
	for _, p := range products {
		colors[p.Name] = p.Color
	}
	for i := range lines {
		if lines[i].Color == "" {
			lines[i].Color = colors[lines[i].ProductName]
		}
	}
}
