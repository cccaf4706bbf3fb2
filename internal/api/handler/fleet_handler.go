package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/dto"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/service"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/pkg/response"
)

// FleetHandler 车队参照数据 HTTP 处理器（只读）
type FleetHandler struct {
	fleetSvc service.FleetService
}

// NewFleetHandler 创建 FleetHandler
func NewFleetHandler(fleetSvc service.FleetService) *FleetHandler {
	return &FleetHandler{fleetSvc: fleetSvc}
}

// ListEmployees 员工列表
// GET /api/v1/employees
func (h *FleetHandler) ListEmployees(c *gin.Context) {
	var req dto.FleetListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	employees, total, err := h.fleetSvc.ListEmployees(c.Request.Context(), &req)
	if err != nil {
		h.handleFleetError(c, err)
		return
	}

	response.OKPage(c, employees, total, req.GetPage(), req.GetPageSize())
}

// GetEmployee 员工详情
// GET /api/v1/employees/:id
func (h *FleetHandler) GetEmployee(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 12001, "员工编号不能为空")
		return
	}

	employee, err := h.fleetSvc.GetEmployee(c.Request.Context(), id)
	if err != nil {
		h.handleFleetError(c, err)
		return
	}

	response.OK(c, employee)
}

// ListVehicles 车辆列表
// GET /api/v1/vehicles
func (h *FleetHandler) ListVehicles(c *gin.Context) {
	var req dto.FleetListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	vehicles, total, err := h.fleetSvc.ListVehicles(c.Request.Context(), &req)
	if err != nil {
		h.handleFleetError(c, err)
		return
	}

	response.OKPage(c, vehicles, total, req.GetPage(), req.GetPageSize())
}

// GetVehicle 车辆详情
// GET /api/v1/vehicles/:id
func (h *FleetHandler) GetVehicle(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 12001, "车辆编号不能为空")
		return
	}

	vehicle, err := h.fleetSvc.GetVehicle(c.Request.Context(), id)
	if err != nil {
		h.handleFleetError(c, err)
		return
	}

	response.OK(c, vehicle)
}

// ListDrivers 司机列表
// GET /api/v1/drivers
func (h *FleetHandler) ListDrivers(c *gin.Context) {
	var req dto.FleetListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	drivers, total, err := h.fleetSvc.ListDrivers(c.Request.Context(), &req)
	if err != nil {
		h.handleFleetError(c, err)
		return
	}

	response.OKPage(c, drivers, total, req.GetPage(), req.GetPageSize())
}

// GetDriver 司机详情
// GET /api/v1/drivers/:id
func (h *FleetHandler) GetDriver(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 12001, "司机编号不能为空")
		return
	}

	driver, err := h.fleetSvc.GetDriver(c.Request.Context(), id)
	if err != nil {
		h.handleFleetError(c, err)
		return
	}

	response.OK(c, driver)
}

func (h *FleetHandler) handleFleetError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 12101, "员工不存在")
	case errors.Is(err, service.ErrVehicleNotFound):
		response.NotFound(c, 12102, "车辆不存在")
	case errors.Is(err, service.ErrDriverNotFound):
		response.NotFound(c, 12103, "司机不存在")
	default:
		response.InternalError(c)
	}
}
