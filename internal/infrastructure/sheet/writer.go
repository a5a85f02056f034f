package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/report"
)

var (
	_ report.ExportWriter = CSVWriter{}
	_ report.ExportWriter = XLSXWriter{}
)

// CSVWriter escribe la exportación como CSV con encabezado.
type CSVWriter struct{}

func (CSVWriter) Format() string      { return report.FormatCSV }
func (CSVWriter) ContentType() string { return "text/csv" }

// Render serializa las filas; generatedAt no aparece en el CSV.
func (CSVWriter) Render(rows []dto.ExportRow, _ time.Time) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(dto.ExportHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(r.Record()); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// XLSXWriter escribe la exportación como libro XLSX de una hoja.
type XLSXWriter struct{}

// SheetName nombre de la hoja exportada.
const SheetName = "Inventory"

func (XLSXWriter) Format() string { return report.FormatXLSX }
func (XLSXWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Render escribe encabezado en negrita y una fila por ítem; cantidades como números.
func (XLSXWriter) Render(rows []dto.ExportRow, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("renombrar hoja: %w", err)
	}
	header := make([]interface{}, len(dto.ExportHeader))
	for i, h := range dto.ExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("escribir encabezado: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(dto.ExportHeader), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return nil, err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		needs := "No"
		if r.NeedsReorder {
			needs = "Yes"
		}
		unitCost, _ := r.UnitCost.Float64()
		total, _ := r.TotalValue.Round(2).Float64()
		values := []interface{}{
			r.SKU, r.ProductName, r.StoreName, r.Quantity, r.ReorderLevel, unitCost, total, needs,
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("escribir fila %d: %w", i+2, err)
		}
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Inventory export",
		Created: generatedAt.Format(time.RFC3339),
	}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializar xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
