package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vanguard-hq/backend/internal/service"
	"vanguard-hq/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves file export endpoints.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates the ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// RosterXLSX downloads the active-member roster as a spreadsheet.
// GET /api/v1/export/roster.xlsx
func (h *ExportHandler) RosterXLSX(c *gin.Context) {
	buf, err := h.exportSvc.RosterXLSX(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	filename := "roster-" + time.Now().UTC().Format("2006-01-02") + ".xlsx"
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
