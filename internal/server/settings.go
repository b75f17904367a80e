package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetSettings(c *gin.Context) {
	resp, err := s.settingsSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type restPercentageRequest struct {
	Percentage float64 `json:"percentage"`
}

func (s *Server) SetRestPercentage(c *gin.Context) {
	var req restPercentageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.settingsSvc.SetRestPercentage(c.Request.Context(), req.Percentage)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) NextNCF(c *gin.Context) {
	next, err := s.settingsSvc.NextNCFSuffix(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"next_ncf": next}})
}
