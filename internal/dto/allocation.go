package dto

// ── 分配模块 DTO ──

// DateLayout 日期字段统一格式（无时刻语义）
const DateLayout = "2006-01-02"

// CreateAllocationRequest 创建分配请求
// driver_id 不可指定，始终由车辆绑定派生
type CreateAllocationRequest struct {
	EmployeeID     string `json:"employee_id"     binding:"required"`
	VehicleID      string `json:"vehicle_id"      binding:"required"`
	AllocationDate string `json:"allocation_date" binding:"required,datetime=2006-01-02"`
	Status         string `json:"status"          binding:"omitempty,min=1,max=20"`
}

// UpdateAllocationRequest 修改分配请求（日期与状态均可选）
type UpdateAllocationRequest struct {
	AllocationDate *string `json:"allocation_date" binding:"omitempty,datetime=2006-01-02"`
	Status         *string `json:"status"          binding:"omitempty,min=1,max=20"`
}

// HistoryListRequest 分配历史查询参数
// 日期范围为闭区间，且仅当两端都提供时生效
type HistoryListRequest struct {
	StartDate  string `form:"start_date"  binding:"omitempty,datetime=2006-01-02"`
	EndDate    string `form:"end_date"    binding:"omitempty,datetime=2006-01-02"`
	EmployeeID string `form:"employee_id" binding:"omitempty"`
	VehicleID  string `form:"vehicle_id"  binding:"omitempty"`
	Status     string `form:"status"      binding:"omitempty"`
	Skip       int    `form:"skip"        binding:"omitempty,min=0"`
	Limit      int    `form:"limit"       binding:"omitempty,min=1,max=100"`
}

// GetLimit 获取条数上限（含默认值）
func (r *HistoryListRequest) GetLimit() int {
	if r.Limit <= 0 {
		return 10
	}
	return r.Limit
}

// ── 响应 ──

// AllocationResponse 分配响应
type AllocationResponse struct {
	AllocationID   string `json:"allocation_id"`
	EmployeeID     string `json:"employee_id"`
	VehicleID      string `json:"vehicle_id"`
	DriverID       string `json:"driver_id"`
	AllocationDate string `json:"allocation_date"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// AllocationDetailResponse 反规范化分配响应
// 员工/车辆/司机名称按当前参照数据联查，参照记录缺失时为 null
type AllocationDetailResponse struct {
	AllocationResponse
	EmployeeName *string `json:"employee_name"`
	VehicleName  *string `json:"vehicle_name"`
	DriverName   *string `json:"driver_name"`
}

// DeleteAllocationResponse 删除分配响应
type DeleteAllocationResponse struct {
	Message      string `json:"message"`
	AllocationID string `json:"allocation_id"`
}
