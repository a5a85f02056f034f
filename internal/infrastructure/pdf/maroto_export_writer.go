// Package pdf implementa la exportación del inventario a PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título                   │  Fecha de generación     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Ítems | Valor total | Bajo nivel de reorden        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Tienda | Cant | Reorden | ... | Sí/No│
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"time"

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

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Writer ────────────────────────────────────────────────────────────────────

var _ report.ExportWriter = (*MarotoExportWriter)(nil)

// MarotoExportWriter implementa report.ExportWriter generando un PDF.
type MarotoExportWriter struct {
	title string
}

// NewMarotoExportWriter construye el writer. title aparece en el encabezado y metadatos.
func NewMarotoExportWriter(title string) *MarotoExportWriter {
	if title == "" {
		title = "Inventory Export"
	}
	return &MarotoExportWriter{title: title}
}

func (w *MarotoExportWriter) Format() string      { return report.FormatPDF }
func (w *MarotoExportWriter) ContentType() string { return "application/pdf" }

// Render genera el PDF y devuelve sus bytes.
func (w *MarotoExportWriter) Render(rows []dto.ExportRow, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(w.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(w.title, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(rows))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(rows) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, generatedAt time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.UTC().Format("2006-01-02 15:04 MST"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

// summaryRow: totales de la exportación.
func summaryRow(rows []dto.ExportRow) core.Row {
	total := decimal.Zero
	low := 0
	for _, r := range rows {
		total = total.Add(r.TotalValue)
		if r.NeedsReorder {
			low++
		}
	}
	cell := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(value, props.Text{Size: 10, Top: 6}),
		)
	}
	return row.New(14).Add(
		cell("ÍTEMS", strconv.Itoa(len(rows))),
		cell("VALOR TOTAL", total.StringFixed(2)),
		cell("BAJO NIVEL DE REORDEN", strconv.Itoa(low)),
	)
}

// Anchos de columna sobre la grilla de 12.
var columnSizes = []int{1, 3, 2, 1, 1, 1, 2, 1}

func tableHeaderRow() core.Row {
	labels := []string{"SKU", "Producto", "Tienda", "Cant.", "Reorden", "Costo", "Valor total", "Reponer"}
	cols := make([]core.Col, 0, len(labels))
	for i, l := range labels {
		cols = append(cols, col.New(columnSizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: columnAlign(i), Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...)
}

// tableDetailRows: una fila por ítem; los que necesitan reposición van en rojo.
func tableDetailRows(rows []dto.ExportRow) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		color := &props.Color{}
		if r.NeedsReorder {
			color = colorAlert
		}
		record := r.Record()
		cols := make([]core.Col, 0, len(record))
		for i, v := range record {
			cols = append(cols, col.New(columnSizes[i]).Add(text.New(v, props.Text{
				Size: 7, Align: columnAlign(i), Top: 1, Left: 1, Right: 1, Color: color,
			})))
		}
		result = append(result, row.New(6).Add(cols...))
	}
	return result
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("Reponer = cantidad actual en o por debajo del nivel de reorden.", props.Text{
			Size: 6.5, Color: colorGray, Top: 2,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// columnAlign alinea a la derecha las columnas numéricas.
func columnAlign(i int) align.Type {
	switch i {
	case 3, 4, 5, 6:
		return align.Right
	case 7:
		return align.Center
	}
	return align.Left
}
