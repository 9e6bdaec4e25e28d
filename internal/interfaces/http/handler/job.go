package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/commerce-ml/data-exporter/internal/interfaces/http/dto"
)

// ExportRunner executes a single export run
type ExportRunner interface {
	Run(ctx context.Context) (string, error)
}

// JobHandler exposes the export job over HTTP
type JobHandler struct {
	BaseHandler
	runner ExportRunner
	logger *zap.Logger
}

// NewJobHandler creates a new job handler
func NewJobHandler(runner ExportRunner, logger *zap.Logger) *JobHandler {
	return &JobHandler{runner: runner, logger: logger}
}

// RunExport triggers a full export run and reports its outcome
func (h *JobHandler) RunExport(c *gin.Context) {
	message, err := h.runner.Run(c.Request.Context())
	if err != nil {
		h.logger.Warn("Export run failed",
			zap.String("request_id", getRequestID(c)),
			zap.Error(err),
		)
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, dto.ExportResult{Message: message})
}
