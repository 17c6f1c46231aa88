package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	exportapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/export"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExportService builds list exports
type ExportService interface {
	Export(ctx context.Context, tenantID uuid.UUID, req exportapp.Request) (*exportapp.Result, error)
}

// ExportRecorder counts generated exports
type ExportRecorder interface {
	RecordExport(ctx context.Context, resource, format string, archived bool)
}

// ArchivedExportResponse is returned instead of the file when the export was
// uploaded to object storage
type ArchivedExportResponse struct {
	FileName  string    `json:"file_name"`
	RowCount  int       `json:"row_count"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExportHandler serves /export
type ExportHandler struct {
	BaseHandler
	exportService ExportService
	recorder      ExportRecorder
}

// NewExportHandler creates a new export handler. recorder may be nil.
func NewExportHandler(exportService ExportService, recorder ExportRecorder) *ExportHandler {
	return &ExportHandler{exportService: exportService, recorder: recorder}
}

// Export handles GET /export/:resource
func (h *ExportHandler) Export(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req exportapp.Request
	if err := c.ShouldBindUri(&req); err != nil {
		h.bindFailed(c, err)
		return
	}
	if !h.bindQuery(c, &req) {
		return
	}

	result, err := h.exportService.Export(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	archived := result.URL != ""
	if h.recorder != nil {
		format := string(req.Format)
		if format == "" {
			format = string(exportapp.FormatCSV)
		}
		h.recorder.RecordExport(c.Request.Context(), string(req.Resource), format, archived)
	}

	if archived {
		h.Success(c, ArchivedExportResponse{
			FileName:  result.FileName,
			RowCount:  result.RowCount,
			URL:       result.URL,
			ExpiresAt: result.ExpiresAt,
		})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, result.ContentType, result.Body)
}
