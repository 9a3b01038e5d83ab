package reporting

import (
	"context"

	"github.com/jhoicas/margenes-api/internal/application/dto"
)

// ReportPDFGenerator genera la representación en PDF del reporte de margen
// por SKU. La implementación concreta (Maroto) vive en infraestructura.
type ReportPDFGenerator interface {
	GenerateSKUReportPDF(ctx context.Context, report *dto.SKUReportResponse) ([]byte, error)
}
