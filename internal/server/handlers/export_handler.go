package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	exportsvc "github.com/farmovs/decanting/internal/service/export"
)

// ExportHandler triggers an on-demand compliance sheet export.
type ExportHandler struct {
	svc    *exportsvc.Service
	logger *zap.Logger
}

// NewExportHandler constructs the export handler. The service is nil when no
// spreadsheet is configured.
func NewExportHandler(svc *exportsvc.Service, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{svc: svc, logger: logger}
}

// Export runs a sheet export and reports how many rows were appended.
func (h *ExportHandler) Export(c *gin.Context) {
	if h.svc == nil {
		respondError(c, http.StatusNotImplemented, "Export Not Configured", "No compliance spreadsheet is configured for this deployment.")
		return
	}

	appended, err := h.svc.Export(c.Request.Context())
	if err != nil {
		h.logger.Error("sheet export failed", zap.Error(err))
		respondError(c, http.StatusServiceUnavailable, "Export Failed", "Records could not be exported. Please retry.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"appended": appended})
}
