package report

import (
	"time"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
)

// Formatos de exportación soportados.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// ExportWriter serializa las filas de exportación a un formato de archivo.
// La implementación vive en infraestructura (sheet, pdf).
type ExportWriter interface {
	Format() string
	ContentType() string
	Render(rows []dto.ExportRow, generatedAt time.Time) ([]byte, error)
}
