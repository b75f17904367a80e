package pdf

import (
	"context"
	"fmt"
	"io"
	"strings"

	reportdomain "github.com/dlsistemas/comisiones/internal/report/domain"
)

type InvoiceLine struct {
	ProductName string
	Amount      float64
	Percentage  float64
	Commission  float64
}

type InvoiceData struct {
	NCF             string
	Date            string
	SellerName      string
	ClientName      string
	TotalAmount     float64
	RestAmount      float64
	RestPercentage  float64
	RestCommission  float64
	TotalCommission float64
	Lines           []InvoiceLine
}

type MonthlyRow struct {
	NCF             string
	Date            string
	TotalAmount     float64
	TotalCommission float64
}

type MonthlyReportData struct {
	Period          string
	SellerName      string
	Rows            []MonthlyRow
	TotalSales      float64
	TotalCommission float64
}

type BreakdownData struct {
	SellerName string
	Report     *reportdomain.Report
}

type Provider interface {
	GenerateInvoice(ctx context.Context, data InvoiceData) (io.Reader, error)
	GenerateMonthlyReport(ctx context.Context, data MonthlyReportData) (io.Reader, error)
	GenerateBreakdown(ctx context.Context, data BreakdownData) (io.Reader, error)
}

// money renders an amount with thousands separators, e.g. 12,345.60.
func money(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	parts := strings.SplitN(s, ".", 2)
	intPart, frac := parts[0], parts[1]

	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}
