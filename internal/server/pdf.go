package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/dlsistemas/comisiones/internal/invoice/domain"
	"github.com/dlsistemas/comisiones/internal/providers/pdf"
	reportdomain "github.com/dlsistemas/comisiones/internal/report/domain"
	"github.com/dlsistemas/comisiones/internal/sellerctx"
)

func (s *Server) InvoicePDF(c *gin.Context) {
	inv, err := s.invoiceSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data := pdf.InvoiceData{
		NCF:             inv.NCF,
		Date:            inv.Date,
		SellerName:      s.sellerName(c, inv.SellerID),
		ClientName:      inv.ClientName,
		TotalAmount:     inv.TotalAmount,
		RestAmount:      inv.RestAmount,
		RestPercentage:  inv.RestPercentage,
		RestCommission:  inv.RestCommission,
		TotalCommission: inv.TotalCommission,
	}
	for _, line := range inv.Lines {
		data.Lines = append(data.Lines, pdf.InvoiceLine{
			ProductName: line.ProductName,
			Amount:      line.Amount,
			Percentage:  line.Percentage,
			Commission:  line.Commission,
		})
	}

	reader, err := s.pdfProvider.GenerateInvoice(c.Request.Context(), data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	servePDF(c, reader, "factura_"+inv.NCF+".pdf")
}

func (s *Server) ReportMonthlyPDF(c *gin.Context) {
	year, err := parseIntParam(c.Query("year"), 0)
	if err != nil || year == 0 {
		AbortWithError(c, newValidationError("year", "invalid_year", "invalid year"))
		return
	}
	month, err := parseIntParam(c.Query("month"), 0)
	if err != nil || month < 1 || month > 12 {
		AbortWithError(c, newValidationError("month", "invalid_month", "invalid month"))
		return
	}

	stats, err := s.reportSvc.Monthly(c.Request.Context(), year, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	from := fmt.Sprintf("%04d-%02d-01", year, month)
	to := lastDayOfMonth(year, month)
	list, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListRequest{
		From:     from,
		To:       to,
		PageSize: 1000,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data := pdf.MonthlyReportData{
		Period:          fmt.Sprintf("%02d/%04d", month, year),
		SellerName:      s.activeSellerName(c),
		TotalSales:      stats.TotalSales,
		TotalCommission: stats.TotalCommission,
	}
	for _, inv := range list.Invoices {
		data.Rows = append(data.Rows, pdf.MonthlyRow{
			NCF:             inv.NCF,
			Date:            inv.Date,
			TotalAmount:     inv.TotalAmount,
			TotalCommission: inv.TotalCommission,
		})
	}

	reader, err := s.pdfProvider.GenerateMonthlyReport(c.Request.Context(), data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	servePDF(c, reader, fmt.Sprintf("reporte_%04d_%02d.pdf", year, month))
}

func (s *Server) ReportBreakdownPDF(c *gin.Context) {
	var query reportdomain.BreakdownRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	report, err := s.reportSvc.Breakdown(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reader, err := s.pdfProvider.GenerateBreakdown(c.Request.Context(), pdf.BreakdownData{
		SellerName: s.activeSellerName(c),
		Report:     report,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	servePDF(c, reader, "desglose_"+report.From+"_"+report.To+".pdf")
}

func (s *Server) sellerName(c *gin.Context, id string) string {
	seller, err := s.sellerSvc.Get(c.Request.Context(), id)
	if err != nil {
		return ""
	}
	return seller.Name
}

func (s *Server) activeSellerName(c *gin.Context) string {
	id, ok := sellerctx.SellerIDFromContext(c.Request.Context())
	if !ok {
		return ""
	}
	return s.sellerName(c, id.String())
}

func servePDF(c *gin.Context, reader io.Reader, filename string) {
	body, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", body)
}

// lastDayOfMonth relies on time.Date normalizing day zero of the next month.
func lastDayOfMonth(year, month int) string {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.Local).Format("2006-01-02")
}
