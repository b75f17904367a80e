package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func newConfig() *entity.Config {
	return config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
		}).
		Build()
}

func (p *PDFProvider) GenerateInvoice(ctx context.Context, data InvoiceData) (io.Reader, error) {
	m := maroto.New(newConfig())

	m.AddRow(12,
		text.NewCol(12, "Reporte de Comisión", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("NCF: "+data.NCF, props.Text{Top: 0}),
			text.New("Fecha: "+data.Date, props.Text{Top: 5}),
		),
		col.New(6).Add(
			text.New("Vendedora: "+data.SellerName, props.Text{Top: 0}),
			text.New("Cliente: "+data.ClientName, props.Text{Top: 5}),
		),
	)

	addTableHeader(m)
	for _, line := range data.Lines {
		addTableRow(m, line.ProductName, line.Amount, line.Percentage, line.Commission)
	}
	addTableRow(m, "Resto", data.RestAmount, data.RestPercentage, data.RestCommission)

	m.AddRow(12,
		col.New(6),
		text.NewCol(3, "Total factura", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(3, money(data.TotalAmount), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)
	m.AddRow(12,
		col.New(6),
		text.NewCol(3, "Comisión total", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(3, money(data.TotalCommission), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}

func addTableHeader(m core.Maroto) {
	m.AddRow(8,
		text.NewCol(6, "Producto", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Monto", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Porciento", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Comisión", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
}

func addTableRow(m core.Maroto, name string, amount, percentage, commission float64) {
	m.AddRow(7,
		text.NewCol(6, name, props.Text{Size: 9}),
		text.NewCol(2, money(amount), props.Text{Size: 9, Align: align.Right}),
		text.NewCol(2, percent(percentage), props.Text{Size: 9, Align: align.Right}),
		text.NewCol(2, money(commission), props.Text{Size: 9, Align: align.Right}),
	)
}
