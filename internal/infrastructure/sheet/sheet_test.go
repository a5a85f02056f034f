package sheet_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/sheet"
)

// ──────────────────────────────────────────────────────────────────────────────
// Lectura
// ──────────────────────────────────────────────────────────────────────────────

func TestParseCSV_MapeaPorEncabezado(t *testing.T) {
	data := "\ufeffUnit Cost,SKU,Product Name,Current Quantity\n" +
		"1.50, A-1 ,Tornillo,10\n" +
		",,,\n" +
		"2,B-2,Tuerca\n"

	rows, err := sheet.ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2, "la fila vacía se descarta")

	assert.Equal(t, "A-1", rows[0].SKU)
	assert.Equal(t, "Tornillo", rows[0].ProductName)
	assert.Equal(t, "10", rows[0].Quantity)
	assert.Equal(t, "1.50", rows[0].UnitCost)
	assert.Equal(t, "", rows[0].ReorderLevel, "columna ausente queda vacía")

	assert.Equal(t, "B-2", rows[1].SKU)
	assert.Equal(t, "", rows[1].Quantity, "celda faltante queda vacía")
}

// Los encabezados distinguen mayúsculas: columnas con otro texto no se reconocen.
func TestParseCSV_EncabezadoExacto(t *testing.T) {
	rows, err := sheet.ParseCSV(strings.NewReader("sku,product name,current quantity\nB1,Bee,3\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].SKU)
	assert.Equal(t, "", rows[0].ProductName)
	assert.Equal(t, "", rows[0].Quantity)
}

// Sin columnas SKU/Product Name no hay error: las filas salen vacías.
func TestParseCSV_SinColumnasClave(t *testing.T) {
	rows, err := sheet.ParseCSV(strings.NewReader("Code,Name\nC1,Cee\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].SKU)
	assert.Equal(t, "", rows[0].ProductName)
}

func TestParseCSV_Vacio(t *testing.T) {
	rows, err := sheet.ParseCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseXLSX_PrimeraHoja(t *testing.T) {
	f := excelize.NewFile()
	s := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(s, "A1", &[]interface{}{"SKU", "Product Name", "Current Quantity", "Reorder Level", "Unit Cost"}))
	require.NoError(t, f.SetSheetRow(s, "A2", &[]interface{}{"X-1", "Martillo", 4, 2, 12.5}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := sheet.ParseFile("carga.XLSX", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "X-1", rows[0].SKU)
	assert.Equal(t, "4", rows[0].Quantity)
	assert.Equal(t, "2", rows[0].ReorderLevel)
	assert.Equal(t, "12.5", rows[0].UnitCost)
}

func TestParseFile_ExtensionNoSoportada(t *testing.T) {
	_, err := sheet.ParseFile("carga.txt", strings.NewReader("SKU\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = sheet.ParseFile("roto.xlsx", strings.NewReader("no es un zip"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escritura
// ──────────────────────────────────────────────────────────────────────────────

func exportRows() []dto.ExportRow {
	return []dto.ExportRow{
		{SKU: "A-1", ProductName: "Tornillo, grande", StoreName: "Norte", Quantity: 3, ReorderLevel: 5,
			UnitCost: decimal.RequireFromString("2.5"), TotalValue: decimal.RequireFromString("7.5"), NeedsReorder: true},
		{SKU: "B-2", ProductName: "Tuerca", StoreName: "", Quantity: 10, ReorderLevel: 1,
			UnitCost: decimal.RequireFromString("0.333"), TotalValue: decimal.RequireFromString("3.33"), NeedsReorder: false},
	}
}

func TestCSVWriter_Render(t *testing.T) {
	out, err := sheet.CSVWriter{}.Render(exportRows(), time.Now())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, dto.ExportHeader, records[0])
	assert.Equal(t, []string{"A-1", "Tornillo, grande", "Norte", "3", "5", "2.5", "7.50", "Yes"}, records[1])
	assert.Equal(t, []string{"B-2", "Tuerca", "", "10", "1", "0.333", "3.33", "No"}, records[2])
}

func TestXLSXWriter_Render(t *testing.T) {
	out, err := sheet.XLSXWriter{}.Render(exportRows(), time.Now())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{sheet.SheetName}, f.GetSheetList())
	rows, err := f.GetRows(sheet.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, dto.ExportHeader, rows[0])
	assert.Equal(t, "A-1", rows[1][0])
	assert.Equal(t, "3", rows[1][3])
	assert.Equal(t, "Yes", rows[1][7])
	assert.Equal(t, "No", rows[2][7])
}
