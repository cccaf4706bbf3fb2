package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/dto"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/service"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportHistory 导出分配历史 (.xlsx)
// GET /api/v1/export/history
func (h *ExportHandler) ExportHistory(c *gin.Context) {
	var req dto.HistoryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.ExportHistory(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportCalendar 导出车辆分配日历 (.ics)
// GET /api/v1/export/calendar?vehicle_id=xxx
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	vehicleID := c.Query("vehicle_id")
	if vehicleID == "" {
		response.BadRequest(c, 13001, "vehicle_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportCalendar(c.Request.Context(), vehicleID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVehicleNotFound):
		response.NotFound(c, 13101, "车辆不存在")
	case errors.Is(err, service.ErrNoRecordsFound):
		response.NotFound(c, 13102, "没有符合条件的分配记录")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
