package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lejian-admin-api/internal/dto"
	"github.com/noah-isme/lejian-admin-api/pkg/response"
)

type statsService interface {
	Snapshot(ctx context.Context) (*dto.StudentStatsResponse, bool, error)
	Export(ctx context.Context, format string) (*dto.ExportFile, error)
}

// StatsHandler serves student statistics.
type StatsHandler struct {
	service statsService
}

// NewStatsHandler constructs the handler.
func NewStatsHandler(service statsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// Stats godoc
// @Summary Student statistics page
// @Tags Students
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/stats [get]
func (h *StatsHandler) Stats(c *gin.Context) {
	snapshot, hit, err := h.service.Snapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, snapshot, withCacheMeta(c, hit))
}

// Export godoc
// @Summary Download the student table
// @Tags Students
// @Security BearerAuth
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /students/export [get]
func (h *StatsHandler) Export(c *gin.Context) {
	file, err := h.service.Export(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
