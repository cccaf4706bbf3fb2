package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/dto"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/service"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/pkg/response"
)

// AllocationHandler 分配模块 HTTP 处理器
type AllocationHandler struct {
	allocationSvc service.AllocationService
	historySvc    service.HistoryService
}

// NewAllocationHandler 创建 AllocationHandler
func NewAllocationHandler(allocationSvc service.AllocationService, historySvc service.HistoryService) *AllocationHandler {
	return &AllocationHandler{allocationSvc: allocationSvc, historySvc: historySvc}
}

// Create 创建分配
// POST /api/v1/allocations
func (h *AllocationHandler) Create(c *gin.Context) {
	var req dto.CreateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 11001, "参数校验失败")
		return
	}

	allocation, err := h.allocationSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}

	response.Created(c, allocation)
}

// Update 修改分配（日期与/或状态）
// PUT /api/v1/allocations/:id
func (h *AllocationHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 11001, "分配ID不能为空")
		return
	}

	var req dto.UpdateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 11001, "参数校验失败")
		return
	}

	allocation, err := h.allocationSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}

	response.OK(c, allocation)
}

// Delete 删除分配
// DELETE /api/v1/allocations/:id
func (h *AllocationHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 11001, "分配ID不能为空")
		return
	}

	result, err := h.allocationSvc.Delete(c.Request.Context(), id)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}

	response.OK(c, result)
}

// History 查询分配历史（反规范化视图）
// GET /api/v1/allocations/history
func (h *AllocationHandler) History(c *gin.Context) {
	var req dto.HistoryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 11001, "参数校验失败")
		return
	}

	records, total, err := h.historySvc.Query(c.Request.Context(), &req)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}

	response.OK(c, gin.H{
		"list":  records,
		"total": total,
		"skip":  req.Skip,
		"limit": req.GetLimit(),
	})
}

func (h *AllocationHandler) handleAllocationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 11101, "员工不存在")
	case errors.Is(err, service.ErrVehicleNotFound):
		response.NotFound(c, 11102, "车辆不存在")
	case errors.Is(err, service.ErrVehicleUnavailable):
		response.BadRequest(c, 11103, "车辆当前不可用")
	case errors.Is(err, service.ErrPastDateRejected):
		response.BadRequest(c, 11104, "不能为过去的日期分配车辆")
	case errors.Is(err, service.ErrAllocationConflict):
		response.BadRequest(c, 11105, "该车辆当日已被分配")
	case errors.Is(err, service.ErrNoDriverAssigned):
		response.NotFound(c, 11106, "车辆未绑定司机")
	case errors.Is(err, service.ErrAllocationNotFound):
		response.NotFound(c, 11107, "分配记录不存在")
	case errors.Is(err, service.ErrPastAllocationImmutable):
		response.BadRequest(c, 11108, "已过期的分配不可修改或删除")
	case errors.Is(err, service.ErrNoRecordsFound):
		response.NotFound(c, 11109, "没有符合条件的分配记录")
	default:
		response.InternalError(c)
	}
}
