package dto

// ── 车队参照数据 DTO（只读） ──

// EmployeeResponse 员工信息响应
type EmployeeResponse struct {
	EmployeeID    string `json:"employee_id"`
	Name          string `json:"name"`
	Department    string `json:"department"`
	ContactNumber string `json:"contact_number"`
}

// VehicleResponse 车辆信息响应
type VehicleResponse struct {
	VehicleID   string `json:"vehicle_id"`
	VehicleName string `json:"vehicle_name"`
	Status      string `json:"status"`
}

// DriverResponse 司机信息响应
type DriverResponse struct {
	DriverID          string `json:"driver_id"`
	Name              string `json:"name"`
	ContactNumber     string `json:"contact_number"`
	LicenseNumber     string `json:"license_number"`
	AssignedVehicleID string `json:"assigned_vehicle_id"`
}

// FleetListRequest 参照数据列表查询参数
type FleetListRequest struct {
	PaginationRequest
}
