// Package sheet lee archivos de importación (CSV, XLSX) y escribe la exportación del inventario.
package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain"
)

// ParseCSV lee un CSV con encabezado. Un BOM inicial (UTF-8 o UTF-16) se descarta.
func ParseCSV(r io.Reader) ([]inventory.ImportRow, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, domain.Errorf(domain.ErrInvalidInput, "CSV inválido: %v", err)
	}
	return rowsFromRecords(records)
}

// ParseXLSX lee la primera hoja de un libro XLSX; la primera fila es el encabezado.
func ParseXLSX(r io.Reader) ([]inventory.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, domain.Errorf(domain.ErrInvalidInput, "XLSX inválido: %v", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.Errorf(domain.ErrInvalidInput, "el libro no tiene hojas")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheets[0], err)
	}
	return rowsFromRecords(records)
}

// rowsFromRecords mapea columnas por el texto exacto del encabezado (distingue mayúsculas).
// Sin columna SKU o Product Name las filas salen vacías y el importador las descarta.
// Las filas vacías se omiten; las celdas faltantes quedan vacías.
func rowsFromRecords(records [][]string) ([]inventory.ImportRow, error) {
	if len(records) == 0 {
		return []inventory.ImportRow{}, nil
	}
	idx := headerIndex(records[0])

	cell := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	rows := make([]inventory.ImportRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		rows = append(rows, inventory.ImportRow{
			SKU:          cell(rec, inventory.ColumnSKU),
			ProductName:  cell(rec, inventory.ColumnProductName),
			Quantity:     cell(rec, inventory.ColumnQuantity),
			ReorderLevel: cell(rec, inventory.ColumnReorderLevel),
			UnitCost:     cell(rec, inventory.ColumnUnitCost),
		})
	}
	return rows, nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ParseFile elige el parser por extensión del nombre de archivo.
func ParseFile(filename string, r io.Reader) ([]inventory.ImportRow, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".csv"):
		return ParseCSV(r)
	case strings.HasSuffix(name, ".xlsx"):
		return ParseXLSX(r)
	}
	return nil, domain.Errorf(domain.ErrInvalidInput, "tipo de archivo no soportado (use .csv o .xlsx)")
}
