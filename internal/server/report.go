package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/dlsistemas/comisiones/internal/report/domain"
)

func (s *Server) ReportBreakdown(c *gin.Context) {
	var query reportdomain.BreakdownRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.reportSvc.Breakdown(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ReportMonthly(c *gin.Context) {
	year, err := parseIntParam(c.Query("year"), 0)
	if err != nil || year == 0 {
		AbortWithError(c, newValidationError("year", "invalid_year", "invalid year"))
		return
	}
	month, err := parseIntParam(c.Query("month"), 0)
	if err != nil || month == 0 {
		AbortWithError(c, newValidationError("month", "invalid_month", "invalid month"))
		return
	}

	resp, err := s.reportSvc.Monthly(c.Request.Context(), year, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ReportYearly(c *gin.Context) {
	year, err := parseIntParam(c.Query("year"), 0)
	if err != nil || year == 0 {
		AbortWithError(c, newValidationError("year", "invalid_year", "invalid year"))
		return
	}

	resp, err := s.reportSvc.Yearly(c.Request.Context(), year)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ReportMonthsOfYear(c *gin.Context) {
	year, err := parseIntParam(c.Query("year"), 0)
	if err != nil || year == 0 {
		AbortWithError(c, newValidationError("year", "invalid_year", "invalid year"))
		return
	}

	resp, err := s.reportSvc.MonthsOfYear(c.Request.Context(), year)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ReportYearComparison(c *gin.Context) {
	resp, err := s.reportSvc.YearComparison(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CorrectPercentage(c *gin.Context) {
	var req reportdomain.CorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.reportSvc.CorrectPercentage(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
