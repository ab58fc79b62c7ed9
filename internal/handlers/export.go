package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ranznz/wage-survey/internal/services"
	"github.com/ranznz/wage-survey/pkg/errors"
	"github.com/ranznz/wage-survey/pkg/logger"
	"github.com/ranznz/wage-survey/pkg/metrics"
	"github.com/ranznz/wage-survey/pkg/response"
)

const exportFilename = "ranz-survey-export.csv"

// ExportHandler serves the staff-only survey export. The same endpoint
// answers summary statistics when ?stats=true is supplied.
type ExportHandler struct {
	exports *services.ExportService
}

func NewExportHandler(exports *services.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// GET /api/admin/export
func (h *ExportHandler) Export(c *gin.Context) {
	if c.Query("stats") == "true" {
		h.stats(c)
		return
	}

	// Buffer the whole document so a query failure can still produce a
	// JSON error instead of a truncated CSV body.
	var buf bytes.Buffer
	if err := h.exports.WriteCSV(requestContext(c), &buf); err != nil {
		metrics.ExportRequests.WithLabelValues("csv", "failure").Inc()
		logger.WithModule("export").Error("csv export failed", zap.Error(err))
		response.Error(c, errors.ErrExportFailed.WithInternal(err))
		return
	}

	metrics.ExportRequests.WithLabelValues("csv", "success").Inc()

	c.Header("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *ExportHandler) stats(c *gin.Context) {
	stats, err := h.exports.Stats(requestContext(c))
	if err != nil {
		metrics.ExportRequests.WithLabelValues("stats", "failure").Inc()
		logger.WithModule("export").Error("stats query failed", zap.Error(err))
		response.Error(c, errors.ErrExportFailed.WithInternal(err))
		return
	}

	metrics.ExportRequests.WithLabelValues("stats", "success").Inc()
	c.JSON(http.StatusOK, stats)
}
