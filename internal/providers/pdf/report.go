package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

func (p *PDFProvider) GenerateMonthlyReport(ctx context.Context, data MonthlyReportData) (io.Reader, error) {
	m := maroto.New(newConfig())

	m.AddRow(12,
		text.NewCol(12, "Reporte Mensual "+data.Period, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
		}),
	)
	m.AddRow(8,
		text.NewCol(12, "Vendedora: "+data.SellerName, props.Text{Size: 10}),
	)

	m.AddRow(8,
		text.NewCol(3, "NCF", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Fecha", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Venta", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(3, "Comisión", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, row := range data.Rows {
		m.AddRow(7,
			text.NewCol(3, row.NCF, props.Text{Size: 9}),
			text.NewCol(3, row.Date, props.Text{Size: 9}),
			text.NewCol(3, money(row.TotalAmount), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(3, money(row.TotalCommission), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(12,
		col.New(6),
		text.NewCol(3, "Ventas", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(3, money(data.TotalSales), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)
	m.AddRow(12,
		col.New(6),
		text.NewCol(3, "Comisiones", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(3, money(data.TotalCommission), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}

func (p *PDFProvider) GenerateBreakdown(ctx context.Context, data BreakdownData) (io.Reader, error) {
	m := maroto.New(newConfig())
	report := data.Report

	m.AddRow(12,
		text.NewCol(12, "Desglose de Comisiones", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
		}),
	)
	m.AddRow(8,
		text.NewCol(6, "Vendedora: "+data.SellerName, props.Text{Size: 10}),
		text.NewCol(6, report.From+" al "+report.To, props.Text{Size: 10, Align: align.Right}),
	)

	for _, bucket := range report.Buckets {
		addBucket(m, bucket.ProductName, bucket.Percentage, bucket.TotalAmount, bucket.TotalCommission, len(bucket.Entries))
	}
	addBucket(m, report.Rest.ProductName, report.Rest.Percentage, report.Rest.TotalAmount, report.Rest.TotalCommission, len(report.Rest.Entries))

	m.AddRow(12,
		col.New(6),
		text.NewCol(3, "Venta total", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(3, money(report.TotalSales), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)
	m.AddRow(12,
		col.New(6),
		text.NewCol(3, "Comisión total", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(3, money(report.TotalCommission), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}

func addBucket(m core.Maroto, name string, percentage, amount, commission float64, entries int) {
	m.AddRow(8,
		text.NewCol(4, name, props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, fmt.Sprintf("%d fact.", entries), props.Text{Size: 9}),
		text.NewCol(2, percent(percentage), props.Text{Size: 9, Align: align.Right}),
		text.NewCol(2, money(amount), props.Text{Size: 9, Align: align.Right}),
		text.NewCol(2, money(commission), props.Text{Size: 9, Align: align.Right}),
	)
}
