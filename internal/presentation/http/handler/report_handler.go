package handler

import (
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfront-pos/internal/application/service"
	"github.com/sangkips/shopfront-pos/internal/presentation/http/dto/response"
)

// ReportHandler serves end-of-day figures.
type ReportHandler struct {
	reports *service.ReportService
	now     func() time.Time
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports, now: time.Now}
}

// DailySummary returns the figures of ?date= as JSON.
func (h *ReportHandler) DailySummary(c *gin.Context) {
	day, err := queryDay(c, h.now)
	if err != nil {
		response.Error(c, err)
		return
	}

	sum, _, err := h.reports.Summarize(c.Request.Context(), day)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Daily summary", sum)
}

// DailyWorkbook writes the day's workbook and sends it as a download.
func (h *ReportHandler) DailyWorkbook(c *gin.Context) {
	day, err := queryDay(c, h.now)
	if err != nil {
		response.Error(c, err)
		return
	}

	path, _, err := h.reports.WriteDaily(c.Request.Context(), day)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
