package dto

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// ExportHeader encabezado de la exportación, en el orden de ExportRow.Record.
var ExportHeader = []string{
	"SKU", "Product Name", "Store", "Current Quantity", "Reorder Level",
	"Unit Cost", "Total Value", "Needs Reorder",
}

// ExportRow fila plana de la vista de exportación.
type ExportRow struct {
	SKU          string
	ProductName  string
	StoreName    string
	Quantity     int
	ReorderLevel int
	UnitCost     decimal.Decimal
	TotalValue   decimal.Decimal
	NeedsReorder bool
}

// Record devuelve la fila como celdas de texto (Total Value con 2 decimales, Yes/No).
func (r ExportRow) Record() []string {
	needs := "No"
	if r.NeedsReorder {
		needs = "Yes"
	}
	return []string{
		r.SKU,
		r.ProductName,
		r.StoreName,
		strconv.Itoa(r.Quantity),
		strconv.Itoa(r.ReorderLevel),
		r.UnitCost.String(),
		r.TotalValue.StringFixed(2),
		needs,
	}
}
