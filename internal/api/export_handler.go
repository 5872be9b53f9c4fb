package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/confjudge/api-server/internal/metrics"
	"github.com/confjudge/api-server/internal/services"
)

// ExportHandler serves manager report downloads.
type ExportHandler struct {
	reports services.ReportExportService
	metrics *metrics.Manager
}

// NewExportHandler creates a new export handler
func NewExportHandler(reports services.ReportExportService, m *metrics.Manager) *ExportHandler {
	return &ExportHandler{reports: reports, metrics: m}
}

// GetReportData returns the ranked report rows as JSON.
func (h *ExportHandler) GetReportData(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	conferenceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	rows, err := h.reports.GetReportData(caller, conferenceID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": rows})
}

// Export produces the report in the requested format. CSV is returned
// as a file download, PDF as generation metadata.
func (h *ExportHandler) Export(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	conferenceID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "csv")
	result, err := h.reports.Export(caller, conferenceID, format)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.metrics.RecordExport(result.Format)

	if result.Format == "csv" {
		c.Header("Content-Disposition", `attachment; filename="conference_report.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(result.CSV))
		return
	}

	c.JSON(http.StatusOK, result.PDF)
}
