package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/context8/context8-server/internal/pkg/response"
	"github.com/context8/context8-server/internal/service"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// Latest 最新一期已发布的日报
// GET /api/v1/reports/daily
func (h *ReportHandler) Latest(c *gin.Context) {
	report, err := h.reportService.Latest()
	if err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, report)
}

// GetByDate 指定日期的日报（pro 专属的历史存档）
// GET /api/v1/reports/daily/:date
func (h *ReportHandler) GetByDate(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		response.ParamError(c, "date must be YYYY-MM-DD")
		return
	}

	report, err := h.reportService.GetByDate(date)
	if err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, report)
}

// ListRecent 最近 n 期日报（pro 专属）
// GET /api/v1/reports/recent?limit=7
func (h *ReportHandler) ListRecent(c *gin.Context) {
	limit := 7
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 30 {
			response.ParamError(c, "limit must be between 1 and 30")
			return
		}
		limit = n
	}

	reports, err := h.reportService.ListRecent(limit)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, reports)
}
