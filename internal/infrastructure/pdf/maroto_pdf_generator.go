// Package pdf implementa la generación del reporte de margen por SKU.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del reporte  │  Rango de fechas             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Descripción | Unid. | Ingreso | Beneficio | % │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Ingreso neto / Beneficio / Margen global          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/margenes-api/internal/application/dto"
	appreporting "github.com/jhoicas/margenes-api/internal/application/reporting"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appreporting.ReportPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa reporting.ReportPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateSKUReportPDF genera el PDF del reporte y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateSKUReportPDF(
	_ context.Context,
	report *dto.SKUReportResponse,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Márgenes por SKU", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(report.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report.Items))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título del reporte (izq) y rango de fechas (der).
func headerRow(report *dto.SKUReportResponse) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("REPORTE DE MÁRGENES POR SKU", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%d SKUs con ventas en el período", len(report.Items)), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("PERÍODO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(report.From+"  a  "+report.To, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de SKUs.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Descripción", 3, align.Left),
		h("Unid.", 1, align.Center),
		h("Ingreso neto", 2, align.Right),
		h("Costo", 2, align.Right),
		h("Beneficio", 1, align.Right),
		h("Margen", 1, align.Right),
	)
}

// tableDetailRows: una fila por SKU; margen negativo en rojo.
func tableDetailRows(items []dto.SKUSalesRow) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		profitColor := colorGray
		if it.Profit.IsNegative() {
			profitColor = colorRed
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				it.SKU,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", it.UnitsSold),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(it.RevenueNet),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(it.CostTotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				formatMoney(it.Profit),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: profitColor},
			)),
			col.New(1).Add(text.New(
				it.MarginPct.StringFixed(1)+"%",
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: profitColor},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(items []dto.SKUSalesRow) core.Row {
	var totalRevenue, totalCost, totalProfit decimal.Decimal
	for _, it := range items {
		totalRevenue = totalRevenue.Add(it.RevenueNet)
		totalCost = totalCost.Add(it.CostTotal)
		totalProfit = totalProfit.Add(it.Profit)
	}
	marginPct := decimal.Zero
	if totalRevenue.IsPositive() {
		marginPct = totalProfit.Div(totalRevenue).Mul(decimal.NewFromInt(100)).Round(1)
	}

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(3), // espacio izquierdo
		col.New(3).Add(
			label("Ingreso neto:"),
			label("Costo total:"),
			grandLabel("BENEFICIO ("+marginPct.StringFixed(1)+"%):"),
		),
		col.New(3).Add(
			value(formatMoney(totalRevenue)),
			value(formatMoney(totalCost)),
			grandValue(formatMoney(totalProfit)),
		),
		col.New(3), // espacio derecho
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatMoney renderiza un decimal con 2 decimales y puntos de miles.
// Ej: 25000.5 → "25.000,50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart := s[:len(s)-3]
	decPart := s[len(s)-2:]

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := string(buf) + "," + decPart
	if d.IsNegative() {
		return "-" + out
	}
	return out
}
